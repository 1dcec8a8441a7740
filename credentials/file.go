package credentials

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/singleflight"
	"gopkg.in/ini.v1"

	"github.com/zalando-incubator/awsreq/sigv4"
)

const (
	envSharedCredentialsFile = "AWS_SHARED_CREDENTIALS_FILE"
	envProfile               = "AWS_PROFILE"

	defaultProfile = "default"
)

// File is a Provider reading the AWS shared credentials file. The zero
// values of Path and Profile fall back to AWS_SHARED_CREDENTIALS_FILE /
// ~/.aws/credentials and AWS_PROFILE / "default" respectively.
//
// Concurrent retrievals for the same file and profile share a single parse.
type File struct {
	Path    string
	Profile string

	group singleflight.Group
}

func NewFile(path, profile string) *File {
	return &File{Path: path, Profile: profile}
}

func (f *File) Retrieve(context.Context) (sigv4.Credentials, error) {
	path, err := f.path()
	if err != nil {
		return sigv4.Credentials{}, err
	}
	profile := f.profile()

	v, err, _ := f.group.Do(path+"#"+profile, func() (interface{}, error) {
		return loadProfile(path, profile)
	})
	if err != nil {
		return sigv4.Credentials{}, err
	}
	return v.(sigv4.Credentials), nil
}

func (f *File) path() (string, error) {
	if f.Path != "" {
		return f.Path, nil
	}
	if p := os.Getenv(envSharedCredentialsFile); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("credentials: resolving home directory: %w", err)
	}
	return filepath.Join(home, ".aws", "credentials"), nil
}

func (f *File) profile() string {
	if f.Profile != "" {
		return f.Profile
	}
	if p := os.Getenv(envProfile); p != "" {
		return p
	}
	return defaultProfile
}

func loadProfile(path, profile string) (sigv4.Credentials, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return sigv4.Credentials{}, fmt.Errorf("credentials: loading %s: %w", path, err)
	}

	section, err := cfg.GetSection(profile)
	if err != nil {
		return sigv4.Credentials{}, fmt.Errorf("credentials: profile %q not found in %s: %w", profile, path, ErrNoCredentials)
	}

	creds := sigv4.Credentials{
		AccessKeyID:     section.Key("aws_access_key_id").String(),
		SecretAccessKey: section.Key("aws_secret_access_key").String(),
		SessionToken:    section.Key("aws_session_token").String(),
		Source:          fmt.Sprintf("shared credentials file %s, profile %s", path, profile),
	}
	if !creds.HasKeys() {
		return sigv4.Credentials{}, fmt.Errorf("credentials: profile %q in %s is incomplete: %w", profile, path, ErrNoCredentials)
	}
	return creds, nil
}
