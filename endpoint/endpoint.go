// Package endpoint turns user supplied request paths into fully qualified
// URLs, optionally prefixed with the base URL of a named environment.
package endpoint

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEnvironment is returned when a requested environment name has
// no configured base URL.
var ErrUnknownEnvironment = errors.New("endpoint: unknown environment")

// Builder renders a fully qualified URL from a path. The input comes from
// the user and may carry stray leading or trailing slashes.
type Builder interface {
	Build(path string) (string, error)
}

// Literal passes the path through untouched, assuming it already is a
// fully qualified URL.
type Literal struct{}

func (Literal) Build(path string) (string, error) {
	return path, nil
}

// Prefix joins a base URL and a path, normalizing the slashes between
// them.
type Prefix struct {
	prefix string
}

func NewPrefix(prefix string) Prefix {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return Prefix{prefix: prefix}
}

func (p Prefix) Build(path string) (string, error) {
	return p.prefix + strings.TrimLeft(path, "/"), nil
}

// Assuming treats paths that already carry an http or https scheme as
// literal URLs and prefixes everything else.
type Assuming struct {
	prefixed Prefix
}

func NewAssuming(prefix string) Assuming {
	return Assuming{prefixed: NewPrefix(prefix)}
}

func (a Assuming) Build(path string) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return Literal{}.Build(path)
	}
	return a.prefixed.Build(path)
}

// New returns the Builder for an optional base URL: no base means every
// path must already be a full URL.
func New(base string) Builder {
	if base == "" {
		return Literal{}
	}
	return NewAssuming(base)
}

// Environments maps environment names to base URLs.
type Environments map[string]string

// Builder resolves the named environment to a URL Builder. An empty name
// selects no environment and yields a literal Builder.
func (e Environments) Builder(name string) (Builder, error) {
	if name == "" {
		return Literal{}, nil
	}
	base, ok := e[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEnvironment, name)
	}
	return New(base), nil
}
