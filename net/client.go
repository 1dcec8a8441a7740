// Package net provides an http.RoundTripper and client that transparently
// sign outbound requests with AWS Signature Version 4.
package net

import (
	"bytes"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/zalando-incubator/awsreq/credentials"
	"github.com/zalando-incubator/awsreq/sigv4"
)

// Options configures a signing Transport. Region, Service and Provider are
// required; everything else has usable zero values.
type Options struct {
	// Region is the AWS region the signature is scoped to.
	Region string
	// Service is the AWS service name the signature is scoped to.
	Service string
	// Provider yields the credentials for each request.
	Provider credentials.Provider

	// SignedHeaders is the set of header names covered by the signature,
	// see sigv4.SignerOptions.
	SignedHeaders []string
	// AddContentSHA256 sets and signs the X-Amz-Content-Sha256 header.
	AddContentSHA256 bool
	// UnsignedPayload skips body buffering and signs the request with
	// the UNSIGNED-PAYLOAD sentinel instead of the payload digest.
	UnsignedPayload bool

	// Timeout is the overall request timeout applied by NewClient.
	Timeout time.Duration
	// InsecureSkipVerify accepts any certificate presented by the
	// backend.
	InsecureSkipVerify bool

	// Transport is the wrapped RoundTripper. When nil an http.Transport
	// honoring InsecureSkipVerify is used.
	Transport http.RoundTripper
	// Now overrides the signing clock, used by tests.
	Now func() time.Time
}

// Transport signs every outbound request before delegating to the wrapped
// RoundTripper. The incoming request is cloned, never mutated, as required
// by the RoundTripper contract.
type Transport struct {
	next            http.RoundTripper
	provider        credentials.Provider
	signer          *sigv4.Signer
	region          string
	service         string
	unsignedPayload bool
	now             func() time.Time
}

func NewTransport(o Options) *Transport {
	next := o.Transport
	if next == nil {
		next = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: o.InsecureSkipVerify},
		}
	}

	now := o.Now
	if now == nil {
		now = time.Now
	}

	signer := sigv4.NewSigner(func(so *sigv4.SignerOptions) {
		so.SignedHeaders = o.SignedHeaders
		so.AddContentSHA256 = o.AddContentSHA256
	})

	return &Transport{
		next:            next,
		provider:        o.Provider,
		signer:          signer,
		region:          o.Region,
		service:         o.Service,
		unsignedPayload: o.UnsignedPayload,
		now:             now,
	}
}

// NewClient returns an http.Client whose transport signs every request.
func NewClient(o Options) *http.Client {
	return &http.Client{
		Transport: NewTransport(o),
		Timeout:   o.Timeout,
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	creds, err := t.provider.Retrieve(req.Context())
	if err != nil {
		return nil, fmt.Errorf("retrieving credentials: %w", err)
	}

	signed := req.Clone(req.Context())

	payloadHash := sigv4.UnsignedPayload
	if !t.unsignedPayload {
		var body io.ReadCloser
		payloadHash, body, err = hashPayload(req.Body)
		if err != nil {
			return nil, err
		}
		signed.Body = body
	}

	if err := t.signer.SignHTTP(creds, signed, payloadHash, t.service, t.region, t.now()); err != nil {
		return nil, fmt.Errorf("signing request: %w", err)
	}

	log.Debugf("signed %s %s for %s/%s", signed.Method, signed.URL, t.region, t.service)

	resp, err := t.next.RoundTrip(signed)
	if err == nil {
		log.Debugf("%s %s: %s", signed.Method, signed.URL, resp.Status)
	}
	return resp, err
}

// hashPayload buffers the body and computes its hex encoded SHA-256
// digest. A nil body hashes as the empty byte sequence.
func hashPayload(r io.ReadCloser) (string, io.ReadCloser, error) {
	if r == nil || r == http.NoBody {
		return sigv4.EmptyPayloadHash, r, nil
	}
	payload, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		return "", nil, fmt.Errorf("reading request body: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), io.NopCloser(bytes.NewReader(payload)), nil
}
