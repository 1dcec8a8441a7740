// Package config holds the command line and config file settings of the
// awsreq tool. Values resolve in order: built-in defaults, then the YAML
// config file, then explicitly passed flags.
package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultService is the service the signature is scoped to when the
	// configuration names none. API Gateway invocations are the common
	// case for this tool.
	DefaultService = "execute-api"

	defaultTimeout = 30 * time.Second
)

type Config struct {
	ConfigFile string
	Flags      *pflag.FlagSet

	// signing:
	Region        string   `yaml:"region"`
	Service       string   `yaml:"service"`
	Profile       string   `yaml:"profile"`
	SignedHeaders []string `yaml:"signed-headers"`
	ContentSHA256 bool     `yaml:"content-sha256"`

	// request:
	Method          string        `yaml:"method"`
	Headers         []string      `yaml:"headers"`
	Query           []string      `yaml:"query"`
	Body            string        `yaml:"body"`
	Timeout         time.Duration `yaml:"timeout"`
	Insecure        bool          `yaml:"insecure"`
	UnsignedPayload bool          `yaml:"unsigned-payload"`

	// environments:
	Environment  string            `yaml:"environment"`
	Environments map[string]string `yaml:"environments"`

	// output:
	Output      string `yaml:"output"`
	ShowStatus  bool   `yaml:"show-status"`
	ShowHeaders bool   `yaml:"show-headers"`
	Verbose     bool   `yaml:"verbose"`
}

func NewConfig() *Config {
	cfg := new(Config)

	flags := pflag.NewFlagSet("awsreq", pflag.ContinueOnError)
	flags.StringVar(&cfg.ConfigFile, "config-file", "", "YAML file with the same keys as the flags")

	flags.StringVar(&cfg.Region, "region", "", "AWS region the signature is scoped to")
	flags.StringVar(&cfg.Service, "service", DefaultService, "AWS service name the signature is scoped to")
	flags.StringVar(&cfg.Profile, "profile", "", "profile of the shared credentials file")
	flags.StringSliceVar(&cfg.SignedHeaders, "signed-header", nil, "header name to cover with the signature, repeatable; host and x-amz-date are always covered")
	flags.BoolVar(&cfg.ContentSHA256, "content-sha256", false, "set and sign the x-amz-content-sha256 header")

	flags.StringVarP(&cfg.Method, "method", "X", http.MethodGet, "HTTP method of the request")
	flags.StringSliceVarP(&cfg.Headers, "header", "H", nil, "request header as 'Name: value', repeatable")
	flags.StringSliceVarP(&cfg.Query, "query", "q", nil, "query parameter as 'name=value', repeatable")
	flags.StringVarP(&cfg.Body, "data", "d", "", "request body; a leading @ reads the body from a file")
	flags.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "overall request timeout")
	flags.BoolVarP(&cfg.Insecure, "insecure", "k", false, "accept invalid backend TLS certificates")
	flags.BoolVar(&cfg.UnsignedPayload, "unsigned-payload", false, "sign the request without covering the payload")

	flags.StringVarP(&cfg.Environment, "environment", "e", "", "named environment providing the base URL")

	flags.StringVarP(&cfg.Output, "output", "o", "", "gjson path extracted from JSON response bodies")
	flags.BoolVar(&cfg.ShowStatus, "show-status", false, "print the response status line")
	flags.BoolVarP(&cfg.ShowHeaders, "show-headers", "i", false, "print the response headers")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "enable debug logging")

	cfg.Flags = flags
	return cfg
}

// Parse reads the flags from args, overlays the config file when one is
// named and validates. Explicitly passed flags win over file values, file
// values win over defaults.
func (c *Config) Parse(args []string) error {
	if err := c.Flags.Parse(args); err != nil {
		return err
	}
	return c.Load()
}

// Load applies the config file overlay and validates. Callers that parse
// the flag set themselves, like the cobra command, call Load instead of
// Parse: the flag set must be parsed exactly once, a second pass would
// accumulate the values of repeatable flags.
func (c *Config) Load() error {
	if c.ConfigFile != "" {
		if err := c.applyConfigFile(); err != nil {
			return err
		}
	}
	return c.validate()
}

// applyConfigFile unmarshals the config file over a fresh Config carrying
// the defaults and copies every field whose flag was not explicitly set.
func (c *Config) applyConfigFile() error {
	yamlFile, err := os.ReadFile(c.ConfigFile)
	if err != nil {
		return fmt.Errorf("invalid config file: %w", err)
	}
	file := NewConfig()
	if err := yaml.Unmarshal(yamlFile, file); err != nil {
		return fmt.Errorf("unmarshalling config file: %w", err)
	}

	set := c.Flags.Changed
	if !set("region") {
		c.Region = file.Region
	}
	if !set("service") {
		c.Service = file.Service
	}
	if !set("profile") {
		c.Profile = file.Profile
	}
	if !set("signed-header") {
		c.SignedHeaders = file.SignedHeaders
	}
	if !set("content-sha256") {
		c.ContentSHA256 = file.ContentSHA256
	}
	if !set("method") {
		c.Method = file.Method
	}
	if !set("header") {
		c.Headers = file.Headers
	}
	if !set("query") {
		c.Query = file.Query
	}
	if !set("data") {
		c.Body = file.Body
	}
	if !set("timeout") {
		c.Timeout = file.Timeout
	}
	if !set("insecure") {
		c.Insecure = file.Insecure
	}
	if !set("unsigned-payload") {
		c.UnsignedPayload = file.UnsignedPayload
	}
	if !set("environment") {
		c.Environment = file.Environment
	}
	// environments have no flag, they only come from the file
	c.Environments = file.Environments
	if !set("output") {
		c.Output = file.Output
	}
	if !set("show-status") {
		c.ShowStatus = file.ShowStatus
	}
	if !set("show-headers") {
		c.ShowHeaders = file.ShowHeaders
	}
	if !set("verbose") {
		c.Verbose = file.Verbose
	}
	return nil
}

func (c *Config) validate() error {
	if c.Region == "" {
		return fmt.Errorf("region must be set, pass --region or the region config file key")
	}
	if c.Service == "" {
		return fmt.Errorf("service must not be empty")
	}
	if _, err := ParseHeaders(c.Headers); err != nil {
		return err
	}
	if _, err := ParseQuery(c.Query); err != nil {
		return err
	}
	return nil
}

// ParseHeaders turns 'Name: value' strings into an http.Header.
func ParseHeaders(headers []string) (http.Header, error) {
	h := make(http.Header, len(headers))
	for _, entry := range headers {
		name, value, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected 'Name: value'", entry)
		}
		h.Add(name, strings.TrimSpace(value))
	}
	return h, nil
}

// ParseQuery turns 'name=value' strings into query parameter pairs,
// preserving duplicates and order.
func ParseQuery(query []string) ([][2]string, error) {
	pairs := make([][2]string, 0, len(query))
	for _, entry := range query {
		name, value, _ := strings.Cut(entry, "=")
		if name == "" {
			return nil, fmt.Errorf("invalid query parameter %q, expected 'name=value'", entry)
		}
		pairs = append(pairs, [2]string{name, value})
	}
	return pairs, nil
}

// BodyReader resolves the configured body: a leading @ names a file to
// read, anything else is taken verbatim.
func (c *Config) BodyReader() ([]byte, error) {
	if c.Body == "" {
		return nil, nil
	}
	if strings.HasPrefix(c.Body, "@") {
		data, err := os.ReadFile(c.Body[1:])
		if err != nil {
			return nil, fmt.Errorf("reading body file: %w", err)
		}
		return data, nil
	}
	return []byte(c.Body), nil
}
