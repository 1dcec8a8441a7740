package awsreq

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/zalando-incubator/awsreq/config"
	"github.com/zalando-incubator/awsreq/credentials"
	"github.com/zalando-incubator/awsreq/endpoint"
	"github.com/zalando-incubator/awsreq/net"
	"github.com/zalando-incubator/awsreq/output"
)

// Options carries everything Run needs besides the configuration: the
// request target and the destination of the rendered response.
type Options struct {
	// Target is the request URL, or a path resolved against the selected
	// environment.
	Target string
	// Stdout receives the rendered response. Defaults to os.Stdout in
	// the command, injectable for tests.
	Stdout io.Writer
}

// Run executes one signed request according to cfg and renders the
// response. The configuration must have been parsed and validated.
func Run(ctx context.Context, cfg *config.Config, o Options) error {
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	req, err := buildRequest(ctx, cfg, o.Target)
	if err != nil {
		return err
	}

	client := net.NewClient(net.Options{
		Region:             cfg.Region,
		Service:            cfg.Service,
		Provider:           credentials.NewDefaultChain(cfg.Profile),
		SignedHeaders:      cfg.SignedHeaders,
		AddContentSHA256:   cfg.ContentSHA256,
		UnsignedPayload:    cfg.UnsignedPayload,
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: cfg.Insecure,
	})

	log.Debugf("%s %s", req.Method, req.URL)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return output.Render(o.Stdout, resp, output.Options{
		Path:        cfg.Output,
		ShowStatus:  cfg.ShowStatus,
		ShowHeaders: cfg.ShowHeaders,
	})
}

func buildRequest(ctx context.Context, cfg *config.Config, target string) (*http.Request, error) {
	builder, err := endpoint.Environments(cfg.Environments).Builder(cfg.Environment)
	if err != nil {
		return nil, err
	}
	rawurl, err := builder.Build(target)
	if err != nil {
		return nil, err
	}

	body, err := cfg.BodyReader()
	if err != nil {
		return nil, err
	}
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, cfg.Method, rawurl, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	header, err := config.ParseHeaders(cfg.Headers)
	if err != nil {
		return nil, err
	}
	for name, values := range header {
		req.Header[name] = values
	}

	pairs, err := config.ParseQuery(cfg.Query)
	if err != nil {
		return nil, err
	}
	if len(pairs) > 0 {
		q := req.URL.Query()
		for _, p := range pairs {
			q.Add(p[0], p[1])
		}
		req.URL.RawQuery = q.Encode()
	}

	return req, nil
}
