package net

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalando-incubator/awsreq/credentials"
	"github.com/zalando-incubator/awsreq/sigv4"
)

var testClock = func() time.Time {
	return time.Date(2015, 8, 30, 12, 36, 0, 0, time.UTC)
}

func TestTransportSignsRequests(t *testing.T) {
	var (
		gotAuthorization string
		gotDate          string
		gotBody          []byte
	)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthorization = r.Header.Get("Authorization")
		gotDate = r.Header.Get("X-Amz-Date")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	client := NewClient(Options{
		Region:   "us-east-1",
		Service:  "execute-api",
		Provider: credentials.NewStatic("AKID", "SECRET", ""),
		Now:      testClock,
	})

	req, err := http.NewRequest("POST", backend.URL+"/items", strings.NewReader(`{"a":1}`))
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Contains(t, gotAuthorization, "AWS4-HMAC-SHA256 Credential=AKID/20150830/us-east-1/execute-api/aws4_request")
	assert.Contains(t, gotAuthorization, "SignedHeaders=host;x-amz-date")
	assert.Equal(t, "20150830T123600Z", gotDate)
	assert.Equal(t, `{"a":1}`, string(gotBody), "body must arrive unchanged")
}

func TestTransportDoesNotMutateOriginalRequest(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	client := NewClient(Options{
		Region:   "us-east-1",
		Service:  "execute-api",
		Provider: credentials.NewStatic("AKID", "SECRET", ""),
		Now:      testClock,
	})

	req, err := http.NewRequest("GET", backend.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Empty(t, req.Header.Get("X-Amz-Date"))
}

func TestTransportSessionTokenHeader(t *testing.T) {
	var gotToken string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Amz-Security-Token")
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	client := NewClient(Options{
		Region:   "us-east-1",
		Service:  "execute-api",
		Provider: credentials.NewStatic("AKID", "SECRET", "TOKEN"),
		Now:      testClock,
	})

	resp, err := client.Get(backend.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "TOKEN", gotToken)
}

type failingProvider struct{}

func (failingProvider) Retrieve(context.Context) (sigv4.Credentials, error) {
	return sigv4.Credentials{}, credentials.ErrNoCredentials
}

func TestTransportCredentialFailureAbortsRoundTrip(t *testing.T) {
	called := false
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer backend.Close()

	client := NewClient(Options{
		Region:   "us-east-1",
		Service:  "execute-api",
		Provider: failingProvider{},
		Now:      testClock,
	})

	_, err := client.Get(backend.URL) //nolint:bodyclose // no response on error
	require.Error(t, err)
	assert.True(t, errors.Is(err, credentials.ErrNoCredentials))
	assert.False(t, called, "backend must not be reached without credentials")
}

func TestTransportUnsignedPayload(t *testing.T) {
	var gotAuthorization string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthorization = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	client := NewClient(Options{
		Region:          "us-east-1",
		Service:         "execute-api",
		Provider:        credentials.NewStatic("AKID", "SECRET", ""),
		UnsignedPayload: true,
		Now:             testClock,
	})

	resp, err := client.Post(backend.URL, "application/octet-stream", strings.NewReader("streaming"))
	require.NoError(t, err)
	resp.Body.Close()

	assert.NotEmpty(t, gotAuthorization)
}
