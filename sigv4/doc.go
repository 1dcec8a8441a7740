/*
Package sigv4 signs outbound HTTP requests using the AWS Signature Version 4
mechanism, see https://docs.aws.amazon.com/IAM/latest/UserGuide/create-signed-request.html

Signing is header based: the computed signature is carried in the
Authorization header together with the credential scope and the list of
signed headers. Presigned URLs (query string signing) are not supported.

# Signed header selection

Unlike most AWS SDKs, which sign every header present on the request, the
set of signed headers here is chosen by the caller through
SignerOptions.SignedHeaders and defaults to just host and x-amz-date. This
keeps signatures stable when intermediaries add or rewrite auxiliary
headers, at a cost: a header outside the set can be altered in transit
without invalidating the signature. The integrity guarantee covers only the
chosen headers plus the request method, path, query string and payload
hash. Callers that need stronger guarantees must list every relevant header
explicitly.

A header listed in the set but absent from the request is an error: the
signer fails rather than silently producing a signature over fewer headers
than requested.

# Determinism

For a fixed request, credentials, region, service and signing time, the
produced Authorization header is always identical. The signer keeps no
state between calls and never retains the derived key material or the
intermediate canonical forms beyond the signing call.
*/
package sigv4
