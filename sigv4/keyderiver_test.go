package sigv4

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveKey(t *testing.T) {
	signingTime := NewSigningTime(time.Date(2015, 8, 30, 12, 36, 0, 0, time.UTC))
	credentials := Credentials{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
	}

	// AWS published example key for 20150830/us-east-1/iam.
	key := NewSigningKeyDeriver().DeriveKey(credentials, "iam", "us-east-1", signingTime)
	assert.Equal(t, "c4afb1cc5771d871763a393e44b703571b55cc28424d1a5e86da6ed3c154a4b9", hex.EncodeToString(key))

	key = NewSigningKeyDeriver().DeriveKey(credentials, "service", "us-east-1", signingTime)
	assert.Equal(t, "938127b5336810ddb6a5d6af445fcac9e371f9ed418ed386b022aed82901be75", hex.EncodeToString(key))
	assert.Len(t, key, 32)
}

func TestDeriveKeyDeterministic(t *testing.T) {
	signingTime := NewSigningTime(time.Date(2015, 8, 30, 12, 36, 0, 0, time.UTC))
	credentials := Credentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET"}

	d := NewSigningKeyDeriver()
	first := d.DeriveKey(credentials, "service", "us-east-1", signingTime)
	second := d.DeriveKey(credentials, "service", "us-east-1", signingTime)
	assert.Equal(t, first, second)
}

func TestSigningTimeFormats(t *testing.T) {
	st := NewSigningTime(time.Date(2015, 8, 30, 12, 36, 0, 500, time.FixedZone("CET", 3600)))
	assert.Equal(t, "20150830T113600Z", st.TimeFormat())
	assert.Equal(t, "20150830", st.ShortTimeFormat())
}
