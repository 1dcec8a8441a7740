// Package output renders HTTP responses for the command line: the raw body
// by default, or a single field extracted from a JSON body via a gjson
// path.
package output

import (
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// Options controls how a response is rendered.
type Options struct {
	// Path is a gjson path applied to JSON response bodies. Empty means
	// the body is written verbatim.
	Path string
	// ShowStatus prefixes the output with the HTTP status line.
	ShowStatus bool
	// ShowHeaders prints the response headers before the body.
	ShowHeaders bool
}

// Render writes the response to w according to o. The response body is
// consumed but not closed.
func Render(w io.Writer, resp *http.Response, o Options) error {
	if o.ShowStatus {
		if _, err := fmt.Fprintln(w, resp.Proto, resp.Status); err != nil {
			return err
		}
	}
	if o.ShowHeaders {
		if err := resp.Header.Write(w); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("output: reading response body: %w", err)
	}

	if o.Path == "" {
		_, err = w.Write(body)
		return err
	}

	if !gjson.ValidBytes(body) {
		return fmt.Errorf("output: response body is not valid JSON, cannot apply path %q", o.Path)
	}
	result := gjson.GetBytes(body, o.Path)
	if !result.Exists() {
		return fmt.Errorf("output: path %q not found in response", o.Path)
	}
	_, err = fmt.Fprintln(w, result.String())
	return err
}
