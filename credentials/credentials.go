// Package credentials resolves AWS credentials from pluggable sources.
//
// A Provider yields sigv4.Credentials for one signing attempt. Providers
// carry no caching policy beyond collapsing concurrent reads; callers that
// want refresh or rotation behavior compose it outside.
package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando-incubator/awsreq/sigv4"
)

// ErrNoCredentials is returned when a provider has no credentials to offer.
var ErrNoCredentials = errors.New("credentials: no credentials found")

// Provider is the capability to produce credentials for signing. Retrieve
// is called once per signing attempt.
type Provider interface {
	Retrieve(ctx context.Context) (sigv4.Credentials, error)
}

// Static is a Provider that always returns the same fixed credentials.
type Static struct {
	Value sigv4.Credentials
}

// NewStatic creates a Static provider from the given key material.
func NewStatic(accessKeyID, secretAccessKey, sessionToken string) *Static {
	return &Static{
		Value: sigv4.Credentials{
			AccessKeyID:     accessKeyID,
			SecretAccessKey: secretAccessKey,
			SessionToken:    sessionToken,
			Source:          "static",
		},
	}
}

func (s *Static) Retrieve(context.Context) (sigv4.Credentials, error) {
	if !s.Value.HasKeys() {
		return sigv4.Credentials{}, ErrNoCredentials
	}
	return s.Value, nil
}

// Chain tries each wrapped provider in order and returns the first
// successfully retrieved credentials. Credentials past their expiry are
// treated like a failed retrieval and the next provider is tried.
type Chain struct {
	Providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{Providers: providers}
}

// NewDefaultChain resolves credentials the way the AWS CLI does by
// default: process environment first, then the shared credentials file.
func NewDefaultChain(profile string) *Chain {
	return NewChain(&Env{}, NewFile("", profile))
}

func (c *Chain) Retrieve(ctx context.Context) (sigv4.Credentials, error) {
	var lastErr error
	for _, p := range c.Providers {
		creds, err := p.Retrieve(ctx)
		if err == nil && creds.Expired() {
			err = fmt.Errorf("credentials: %s credentials expired at %s: %w", creds.Source, creds.Expires, ErrNoCredentials)
		}
		if err == nil {
			return creds, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = ErrNoCredentials
	}
	return sigv4.Credentials{}, lastErr
}
