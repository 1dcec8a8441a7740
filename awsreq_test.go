package awsreq

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalando-incubator/awsreq/config"
)

func TestRunSignedRequest(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")
	t.Setenv("AWS_SESSION_TOKEN", "")

	var (
		gotAuthorization string
		gotContentType   string
		gotBody          []byte
		gotQuery         string
	)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthorization = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
		buf := new(bytes.Buffer)
		buf.ReadFrom(r.Body)
		gotBody = buf.Bytes()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"first"}]}`))
	}))
	defer backend.Close()

	cfg := config.NewConfig()
	require.NoError(t, cfg.Parse([]string{
		"--region", "us-east-1",
		"--method", "POST",
		"--header", "Content-Type: application/json",
		"--query", "limit=1",
		"--data", `{"a":1}`,
		"--output", "items.0.id",
	}))

	var out bytes.Buffer
	err := Run(context.Background(), cfg, Options{Target: backend.URL + "/items", Stdout: &out})
	require.NoError(t, err)

	assert.Contains(t, gotAuthorization, "AWS4-HMAC-SHA256 Credential=AKID/")
	assert.Contains(t, gotAuthorization, "/us-east-1/execute-api/aws4_request")
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "limit=1", gotQuery)
	assert.Equal(t, `{"a":1}`, string(gotBody))
	assert.Equal(t, "first\n", out.String())
}

func TestRunEnvironmentTarget(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")
	t.Setenv("AWS_SESSION_TOKEN", "")

	var gotPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("ok"))
	}))
	defer backend.Close()

	cfg := config.NewConfig()
	require.NoError(t, cfg.Parse([]string{"--region", "us-east-1", "--environment", "test"}))
	cfg.Environments = map[string]string{"test": backend.URL}

	var out bytes.Buffer
	err := Run(context.Background(), cfg, Options{Target: "/health", Stdout: &out})
	require.NoError(t, err)

	assert.Equal(t, "/health", gotPath)
	assert.Equal(t, "ok", out.String())
}

func TestRunUnknownEnvironment(t *testing.T) {
	cfg := config.NewConfig()
	require.NoError(t, cfg.Parse([]string{"--region", "us-east-1", "--environment", "nope"}))

	err := Run(context.Background(), cfg, Options{Target: "/health", Stdout: new(bytes.Buffer)})
	assert.Error(t, err)
}
