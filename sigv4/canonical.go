package sigv4

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// noEscape marks the characters AWS does not expect to be percent encoded:
// unreserved characters per RFC 3986 section 2.3.
var noEscape [256]bool

func init() {
	for i := range noEscape {
		noEscape[i] = (i >= 'A' && i <= 'Z') ||
			(i >= 'a' && i <= 'z') ||
			(i >= '0' && i <= '9') ||
			i == '-' ||
			i == '.' ||
			i == '_' ||
			i == '~'
	}
}

// escapePath percent encodes part of a URL in Amazon style: uppercase hex
// pairs, unreserved characters kept verbatim. The path separator is kept
// only when encodeSep is false.
func escapePath(path string, encodeSep bool) string {
	var buf strings.Builder
	buf.Grow(len(path))
	for i := 0; i < len(path); i++ {
		c := path[i]
		if noEscape[c] || (c == '/' && !encodeSep) {
			buf.WriteByte(c)
		} else {
			fmt.Fprintf(&buf, "%%%02X", c)
		}
	}
	return buf.String()
}

// uriPath returns the request path to canonicalize. An empty path is the
// root path.
func uriPath(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

// canonicalQuery builds the canonical query string: every key and value
// strictly re-encoded, pairs ordered by key then value byte-wise, joined as
// key=value with &. A parameter without a value contributes key= rather
// than a bare key.
func canonicalQuery(query url.Values) string {
	type pair struct {
		key, value string
	}

	pairs := make([]pair, 0, len(query))
	for k, vs := range query {
		ek := escapePath(k, true)
		for _, v := range vs {
			pairs = append(pairs, pair{key: ek, value: escapePath(v, true)})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].value < pairs[j].value
	})

	var buf strings.Builder
	for i, p := range pairs {
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(p.key)
		buf.WriteByte('=')
		buf.WriteString(p.value)
	}
	return buf.String()
}

// canonicalHeaders emits one name:value\n entry per sign set name, names
// already lowercased and sorted by the caller. Values are trimmed, inner
// whitespace runs collapsed, multiple values joined with a comma.
func canonicalHeaders(names []string, values map[string][]string) string {
	var buf strings.Builder
	for _, name := range names {
		buf.WriteString(name)
		buf.WriteByte(':')
		vs := values[name]
		for i, v := range vs {
			buf.WriteString(strings.TrimSpace(stripExcessSpaces(v)))
			if i < len(vs)-1 {
				buf.WriteByte(',')
			}
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// validHeaderValue reports whether v can be carried as the textual value of
// a signed header field.
func validHeaderValue(v string) bool {
	return httpguts.ValidHeaderFieldValue(v)
}

// requestHeaderValues looks up a header by its lowercase name on the
// request, preserving all values.
func requestHeaderValues(header http.Header, name string) []string {
	return header.Values(name)
}

func stripExcessSpaces(str string) string {
	var j, k, l, m, spaces int
	// Trim trailing spaces
	for j = len(str) - 1; j >= 0 && str[j] == ' '; j-- {
	}

	// Trim leading spaces
	for k = 0; k < j && str[k] == ' '; k++ {
	}
	str = str[k : j+1]

	// Strip multiple spaces.
	j = strings.Index(str, doubleSpace)
	if j < 0 {
		return str
	}

	buf := []byte(str)
	for k, m, l = j, j, len(buf); k < l; k++ {
		if buf[k] == ' ' {
			if spaces == 0 {
				// First space.
				buf[m] = buf[k]
				m++
			}
			spaces++
		} else {
			// End of multiple spaces.
			spaces = 0
			buf[m] = buf[k]
			m++
		}
	}

	return string(buf[:m])
}

// sanitizeHostForHeader removes the port from the host when it is the
// default port of the scheme, mirroring what HTTP clients send on the wire.
func sanitizeHostForHeader(host, scheme string) string {
	port := portOnly(host)
	if port != "" && isDefaultPort(scheme, port) {
		return stripPort(host)
	}
	return host
}

func stripPort(hostport string) string {
	colon := strings.IndexByte(hostport, ':')
	if colon == -1 {
		return hostport
	}
	if i := strings.IndexByte(hostport, ']'); i != -1 {
		return strings.TrimPrefix(hostport[:i], "[")
	}
	return hostport[:colon]
}

func portOnly(hostport string) string {
	colon := strings.IndexByte(hostport, ':')
	if colon == -1 {
		return ""
	}
	if i := strings.Index(hostport, "]:"); i != -1 {
		return hostport[i+len("]:"):]
	}
	if strings.Contains(hostport, "]") {
		return ""
	}
	return hostport[colon+len(":"):]
}

func isDefaultPort(scheme, port string) bool {
	if port == "" {
		return true
	}

	lowerCaseScheme := strings.ToLower(scheme)
	return (lowerCaseScheme == "http" && port == "80") || (lowerCaseScheme == "https" && port == "443")
}
