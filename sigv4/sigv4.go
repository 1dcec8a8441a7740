package sigv4

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"net/http"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrMissingCredentials is returned when the access key id or the
	// secret access key is empty.
	ErrMissingCredentials = errors.New("sigv4: missing or incomplete credentials")

	// ErrMissingRegion is returned when the signing region is empty.
	ErrMissingRegion = errors.New("sigv4: missing region")

	// ErrMissingService is returned when the signing service name is empty.
	ErrMissingService = errors.New("sigv4: missing service")
)

// HeaderError is returned when a header listed in the signed headers cannot
// be canonicalized: it is missing from the request or its value is not a
// valid HTTP header field value.
type HeaderError struct {
	Name   string
	Reason string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("sigv4: header %q: %s", e.Name, e.Reason)
}

type keyDerivator interface {
	DeriveKey(credential Credentials, service, region string, signingTime SigningTime) []byte
}

// SignerOptions configures a Signer.
type SignerOptions struct {
	// SignedHeaders is the set of header names covered by the signature.
	// Names are case insensitive. The host and x-amz-date headers are
	// always part of the set, with or without being listed here; when a
	// session token is present x-amz-security-token joins them.
	//
	// Any header left out of this set can be altered in transit without
	// invalidating the signature. The integrity guarantee extends only to
	// the listed headers plus the method, path, query and payload hash.
	SignedHeaders []string

	// AddContentSHA256 additionally sets and signs the
	// X-Amz-Content-Sha256 header with the payload hash. Some services,
	// S3 among them, require it.
	AddContentSHA256 bool

	// DisableURIPathEscaping disables the escaping of the URI path for
	// the canonical request. Use for services that expect the path
	// verbatim, such as S3.
	DisableURIPathEscaping bool

	// DisableSessionToken disables setting the session token on the
	// request as part of signing through X-Amz-Security-Token. This is
	// needed for variations of v4 that present the token elsewhere.
	DisableSessionToken bool

	// LogSigning enables debug logging of the canonical request and the
	// string to sign. Key material is never logged.
	LogSigning bool
}

// Signer applies AWS v4 signing to a given request. A Signer holds no
// mutable state; concurrent SignHTTP calls on distinct requests are safe.
type Signer struct {
	options      SignerOptions
	keyDerivator keyDerivator
}

func NewSigner(optFns ...func(signer *SignerOptions)) *Signer {
	options := SignerOptions{}

	for _, fn := range optFns {
		fn(&options)
	}

	return &Signer{options: options, keyDerivator: NewSigningKeyDeriver()}
}

// SignHTTP signs the request with the given credentials, service, region
// and signing time, and modifies it in place: the host is derived from the
// request when absent, X-Amz-Date is overwritten with the signing time,
// X-Amz-Security-Token is set when the credentials carry a session token,
// and the Authorization header receives the computed signature. On error
// the request is left untouched.
//
// payloadHash is the hex encoded SHA-256 digest of the request payload, or
// UnsignedPayload; when empty, the digest of an empty byte sequence is
// used.
func (s *Signer) SignHTTP(credentials Credentials, req *http.Request, payloadHash string, service string, region string, signingTime time.Time, optFns ...func(options *SignerOptions)) error {
	options := s.options

	for _, fn := range optFns {
		fn(&options)
	}

	if !credentials.HasKeys() {
		return ErrMissingCredentials
	}
	if region == "" {
		return ErrMissingRegion
	}
	if service == "" {
		return ErrMissingService
	}

	signer := &httpSigner{
		Request:                req,
		PayloadHash:            payloadHash,
		ServiceName:            service,
		Region:                 region,
		Credentials:            credentials,
		Time:                   NewSigningTime(signingTime),
		KeyDerivator:           s.keyDerivator,
		SignedHeaders:          options.SignedHeaders,
		AddContentSHA256:       options.AddContentSHA256,
		DisableURIPathEscaping: options.DisableURIPathEscaping,
		DisableSessionToken:    options.DisableSessionToken,
		LogSigning:             options.LogSigning,
	}

	build, err := signer.Build()
	if err != nil {
		return err
	}

	// All derived values are in hand, mutate the request in one go.
	if req.Header == nil {
		req.Header = http.Header{}
	}
	req.Host = build.Host
	req.Header.Set(amzDateKey, build.AmzDate)
	if build.SessionToken != "" {
		req.Header.Set(amzSecurityTokenKey, build.SessionToken)
	}
	if build.ContentSHA != "" {
		req.Header.Set(amzContentSHAKey, build.ContentSHA)
	}
	req.Header.Set(authorizationHeader, build.Authorization)
	return nil
}

type httpSigner struct {
	Request                *http.Request
	ServiceName            string
	Region                 string
	Time                   SigningTime
	Credentials            Credentials
	KeyDerivator           keyDerivator
	PayloadHash            string
	SignedHeaders          []string
	AddContentSHA256       bool
	DisableURIPathEscaping bool
	DisableSessionToken    bool
	LogSigning             bool
}

// signedRequest carries every value derived during one signing pass. The
// orchestrator computes it fully before touching the request, so a failed
// pass never leaves a partial mutation behind.
type signedRequest struct {
	Host            string
	AmzDate         string
	SessionToken    string
	ContentSHA      string
	Authorization   string
	SignedHeaders   string
	CanonicalString string
	StringToSign    string
}

func (s *httpSigner) Build() (signedRequest, error) {
	req := s.Request

	amzDate := s.Time.TimeFormat()

	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	host = sanitizeHostForHeader(host, req.URL.Scheme)

	payloadHash := s.PayloadHash
	if payloadHash == "" {
		payloadHash = EmptyPayloadHash
	}

	names := s.buildSignSet()
	values, err := s.buildHeaderValues(names, host, amzDate, payloadHash)
	if err != nil {
		return signedRequest{}, err
	}

	signedHeadersStr := strings.Join(names, ";")
	canonicalHeadersStr := canonicalHeaders(names, values)

	var canonicalURI string
	if s.DisableURIPathEscaping {
		canonicalURI = req.URL.EscapedPath()
		if canonicalURI == "" {
			canonicalURI = "/"
		}
	} else {
		canonicalURI = escapePath(uriPath(req.URL), false)
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	canonicalString := buildCanonicalString(
		method,
		canonicalURI,
		canonicalQuery(req.URL.Query()),
		canonicalHeadersStr,
		signedHeadersStr,
		payloadHash,
	)

	credentialScope := buildCredentialScope(s.Time, s.Region, s.ServiceName)
	strToSign := s.buildStringToSign(credentialScope, canonicalString)
	signature := s.buildSignature(strToSign)

	if s.LogSigning {
		log.Debugf("canonical request:\n%s", canonicalString)
		log.Debugf("string to sign:\n%s", strToSign)
	}

	build := signedRequest{
		Host:            host,
		AmzDate:         amzDate,
		Authorization:   buildAuthorizationHeader(s.Credentials.AccessKeyID+"/"+credentialScope, signedHeadersStr, signature),
		SignedHeaders:   signedHeadersStr,
		CanonicalString: canonicalString,
		StringToSign:    strToSign,
	}
	if token := s.sessionToken(); token != "" {
		build.SessionToken = token
	}
	if s.AddContentSHA256 {
		build.ContentSHA = payloadHash
	}
	return build, nil
}

func (s *httpSigner) sessionToken() string {
	if s.DisableSessionToken {
		return ""
	}
	return s.Credentials.SessionToken
}

// buildSignSet normalizes the configured signed header names: lowercased,
// deduplicated, sorted, always containing host and x-amz-date, plus
// x-amz-security-token and x-amz-content-sha256 when applicable.
func (s *httpSigner) buildSignSet() []string {
	set := map[string]struct{}{
		hostHeader:    {},
		amzDateHeader: {},
	}
	for _, name := range s.SignedHeaders {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	if s.sessionToken() != "" {
		set[amzSecurityTokenHeader] = struct{}{}
	}
	if s.AddContentSHA256 {
		set[amzContentSHAHeader] = struct{}{}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildHeaderValues resolves the value of every sign set entry. Synthesized
// headers take their values from the signing context; everything else must
// be present on the request.
func (s *httpSigner) buildHeaderValues(names []string, host, amzDate, payloadHash string) (map[string][]string, error) {
	values := make(map[string][]string, len(names))
	for _, name := range names {
		switch {
		case name == hostHeader:
			values[name] = []string{host}
		case name == amzDateHeader:
			values[name] = []string{amzDate}
		case name == amzSecurityTokenHeader && s.sessionToken() != "":
			values[name] = []string{s.sessionToken()}
		case name == amzContentSHAHeader && s.AddContentSHA256:
			values[name] = []string{payloadHash}
		default:
			vs := requestHeaderValues(s.Request.Header, name)
			if len(vs) == 0 {
				return nil, &HeaderError{Name: name, Reason: "listed in the signed headers but missing from the request"}
			}
			values[name] = vs
		}
		for _, v := range values[name] {
			if !validHeaderValue(v) {
				return nil, &HeaderError{Name: name, Reason: "value is not a valid header field value"}
			}
		}
	}
	return values, nil
}

func buildCanonicalString(method, uri, query, canonicalHeaders, signedHeaders, payloadHash string) string {
	return strings.Join([]string{
		method,
		uri,
		query,
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")
}

func (s *httpSigner) buildStringToSign(credentialScope, canonicalRequestString string) string {
	return strings.Join([]string{
		SigningAlgorithm,
		s.Time.TimeFormat(),
		credentialScope,
		hex.EncodeToString(makeHash(sha256.New(), []byte(canonicalRequestString))),
	}, "\n")
}

func (s *httpSigner) buildSignature(strToSign string) string {
	key := s.KeyDerivator.DeriveKey(s.Credentials, s.ServiceName, s.Region, s.Time)
	return hex.EncodeToString(hmacSHA256(key, []byte(strToSign)))
}

func makeHash(hash hash.Hash, b []byte) []byte {
	hash.Reset()
	hash.Write(b)
	return hash.Sum(nil)
}

func buildAuthorizationHeader(credentialStr, signedHeadersStr, signingSignature string) string {
	const credential = "Credential="
	const signedHeaders = "SignedHeaders="
	const signature = "Signature="
	const commaSpace = ", "

	var parts strings.Builder
	parts.Grow(len(SigningAlgorithm) + 1 +
		len(credential) + len(credentialStr) + 2 +
		len(signedHeaders) + len(signedHeadersStr) + 2 +
		len(signature) + len(signingSignature),
	)
	parts.WriteString(SigningAlgorithm)
	parts.WriteRune(' ')
	parts.WriteString(credential)
	parts.WriteString(credentialStr)
	parts.WriteString(commaSpace)
	parts.WriteString(signedHeaders)
	parts.WriteString(signedHeadersStr)
	parts.WriteString(commaSpace)
	parts.WriteString(signature)
	parts.WriteString(signingSignature)
	return parts.String()
}
