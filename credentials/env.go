package credentials

import (
	"context"
	"os"

	"github.com/zalando-incubator/awsreq/sigv4"
)

const (
	envAccessKeyID     = "AWS_ACCESS_KEY_ID"
	envAccessKey       = "AWS_ACCESS_KEY"
	envSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	envSecretKey       = "AWS_SECRET_KEY"
	envSessionToken    = "AWS_SESSION_TOKEN"
)

// Env is a Provider reading credentials from the process environment,
// honoring both the canonical variable names and the legacy aliases.
type Env struct{}

func (e *Env) Retrieve(context.Context) (sigv4.Credentials, error) {
	accessKeyID := os.Getenv(envAccessKeyID)
	if accessKeyID == "" {
		accessKeyID = os.Getenv(envAccessKey)
	}
	secretAccessKey := os.Getenv(envSecretAccessKey)
	if secretAccessKey == "" {
		secretAccessKey = os.Getenv(envSecretKey)
	}

	creds := sigv4.Credentials{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		SessionToken:    os.Getenv(envSessionToken),
		Source:          "environment",
	}
	if !creds.HasKeys() {
		return sigv4.Credentials{}, ErrNoCredentials
	}
	return creds, nil
}
