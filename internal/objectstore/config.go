// Package objectstore backs up and restores the exported database
// directory to an S3-compatible bucket.
package objectstore

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds the S3-compatible endpoint and credentials.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	// Prefix is the object key prefix the database folder is stored under.
	Prefix string
	UseSSL bool
}

// Enabled reports whether enough configuration is present to use the
// object store at all. Backup/restore are optional features.
func (c Config) Enabled() bool {
	return c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

// Validate checks the configuration for use.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return errors.New("access key is required")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("secret key is required")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		return errors.New("bucket is required")
	}
	if strings.TrimSpace(c.Prefix) == "" {
		return errors.New("prefix is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("endpoint must not include scheme: %q", c.Endpoint)
	}
	return nil
}
