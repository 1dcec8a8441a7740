package sigv4

// SigningAlgorithm is the algorithm identifier embedded in the string to
// sign and the Authorization header.
const SigningAlgorithm = "AWS4-HMAC-SHA256"

// TimeFormat is the time format to be used in the X-Amz-Date header.
const TimeFormat = "20060102T150405Z"

// ShortTimeFormat is the shortened time format used in the credential scope.
const ShortTimeFormat = "20060102"

// UnsignedPayload may be passed as the payload hash to indicate that the
// request payload is not covered by the signature.
const UnsignedPayload = "UNSIGNED-PAYLOAD"

// EmptyPayloadHash is the hex encoded SHA-256 digest of an empty byte
// sequence, used whenever a request carries no body.
const EmptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

const authorizationHeader = "Authorization"

const amzDateKey = "X-Amz-Date"

// amzSecurityTokenKey indicates the security token to be used with temporary credentials
const amzSecurityTokenKey = "X-Amz-Security-Token"

const amzContentSHAKey = "X-Amz-Content-Sha256"

// lowercase header names as they appear in the sign set
const (
	hostHeader             = "host"
	amzDateHeader          = "x-amz-date"
	amzSecurityTokenHeader = "x-amz-security-token"
	amzContentSHAHeader    = "x-amz-content-sha256"
)

const doubleSpace = "  "
