package sigv4

import (
	"path"
	"time"
)

// Credentials is the type to represent AWS credentials. The zero value is
// not signable; at least AccessKeyID and SecretAccessKey must be set.
type Credentials struct {
	// AccessKeyID is AWS Access key ID
	AccessKeyID string

	// SecretAccessKey is AWS Secret Access Key
	SecretAccessKey string

	// SessionToken is AWS Session Token
	SessionToken string

	// Source of the AWS credentials
	Source string

	// CanExpire states if the AWS credentials can expire or not.
	CanExpire bool

	// Expires is the time when the AWS credentials will expire. Should be ignored if CanExpire is false.
	Expires time.Time
}

// HasKeys reports whether both the access key id and the secret access key
// are set.
func (c Credentials) HasKeys() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Expired reports whether the credentials are past their expiry.
func (c Credentials) Expired() bool {
	return c.CanExpire && !c.Expires.After(time.Now())
}

// buildCredentialScope builds the date/region/service/aws4_request string
// binding a signature to a specific day, region and service.
func buildCredentialScope(signingTime SigningTime, region, service string) string {
	return path.Join(
		signingTime.ShortTimeFormat(),
		region,
		service,
		"aws4_request")
}
