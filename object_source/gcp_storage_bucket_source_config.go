package object_source

import (
	"errors"
	"strings"
)

// GcpStorageBucketSourceConfig is the configuration for a [GcpStorageBucketSource]
type GcpStorageBucketSourceConfig struct {
	Bucket string `hcl:"bucket"`
	// path to a service account key file - application default credentials are used when not set
	Credentials *string `hcl:"credentials,optional"`
	Project     *string `hcl:"project,optional"`

	RateLimit      *float64 `hcl:"rate_limit,optional"`
	Burst          *int     `hcl:"burst,optional"`
	MaxConcurrency *int64   `hcl:"max_concurrency,optional"`
}

func (c *GcpStorageBucketSourceConfig) Validate() error {
	if strings.TrimSpace(c.Bucket) == "" {
		return errors.New("bucket is required")
	}
	return nil
}

func (c *GcpStorageBucketSourceConfig) limits() LimitConfig {
	return LimitConfig{RateLimit: c.RateLimit, Burst: c.Burst, MaxConcurrency: c.MaxConcurrency}
}
