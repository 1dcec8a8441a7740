package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixBuilder(t *testing.T) {
	for _, tt := range []struct {
		prefix   string
		path     string
		expected string
	}{
		{"https://api.example.org", "/v1/items", "https://api.example.org/v1/items"},
		{"https://api.example.org/", "v1/items", "https://api.example.org/v1/items"},
		{"https://api.example.org/", "///v1/items", "https://api.example.org/v1/items"},
		{"https://api.example.org/base", "items", "https://api.example.org/base/items"},
	} {
		got, err := NewPrefix(tt.prefix).Build(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, "prefix %q path %q", tt.prefix, tt.path)
	}
}

func TestAssumingBuilder(t *testing.T) {
	b := NewAssuming("https://api.example.org")

	got, err := b.Build("/v1/items")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.org/v1/items", got)

	got, err = b.Build("https://other.example.org/x")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.org/x", got)

	got, err = b.Build("http://other.example.org/x")
	require.NoError(t, err)
	assert.Equal(t, "http://other.example.org/x", got)
}

func TestNewWithoutBase(t *testing.T) {
	got, err := New("").Build("https://api.example.org/v1")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.org/v1", got)
}

func TestEnvironmentsBuilder(t *testing.T) {
	envs := Environments{
		"staging": "https://staging.example.org",
		"prod":    "https://api.example.org",
	}

	b, err := envs.Builder("staging")
	require.NoError(t, err)
	got, err := b.Build("/health")
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.org/health", got)

	_, err = envs.Builder("qa")
	assert.ErrorIs(t, err, ErrUnknownEnvironment)

	b, err = envs.Builder("")
	require.NoError(t, err)
	got, err = b.Build("https://elsewhere.example.org/")
	require.NoError(t, err)
	assert.Equal(t, "https://elsewhere.example.org/", got)
}
