package sigv4

// SigningKeyDeriver derives a signing key from a set of credentials. It is
// stateless: the four HMAC-SHA256 steps are recomputed on every call so no
// derived key material outlives a single signing operation.
type SigningKeyDeriver struct{}

func NewSigningKeyDeriver() *SigningKeyDeriver {
	return &SigningKeyDeriver{}
}

// DeriveKey returns a derived signing key from the given credentials to be
// used with SigV4 signing. The result is 32 raw bytes.
func (k *SigningKeyDeriver) DeriveKey(credential Credentials, service, region string, signingTime SigningTime) []byte {
	return deriveKey(credential.SecretAccessKey, service, region, signingTime)
}

func deriveKey(secret, service, region string, t SigningTime) []byte {
	hmacDate := hmacSHA256([]byte("AWS4"+secret), []byte(t.ShortTimeFormat()))
	hmacRegion := hmacSHA256(hmacDate, []byte(region))
	hmacService := hmacSHA256(hmacRegion, []byte(service))
	return hmacSHA256(hmacService, []byte("aws4_request"))
}
