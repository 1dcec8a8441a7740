/*
Package awsreq implements a command line HTTP client for AWS style APIs:
it builds a request from flags or a config file, signs it with AWS
Signature Version 4 and renders the response.

The heavy lifting lives in the subpackages:

  - sigv4 computes the signature itself and is usable as a standalone
    library
  - credentials resolves the signing credentials from static values, the
    environment or the shared credentials file
  - endpoint maps named environments and path shorthands to full URLs
  - net wraps an http.Client whose transport signs every request
  - config parses flags and the YAML config file
  - output renders responses, optionally extracting a single JSON field

Run in this package ties them together for the awsreq command.
*/
package awsreq
