package object_source

import (
	"errors"
	"strings"
)

// AwsS3BucketSourceConfig is the configuration for an [AwsS3BucketSource]
type AwsS3BucketSourceConfig struct {
	Bucket   string  `hcl:"bucket"`
	Region   *string `hcl:"region,optional"`
	Endpoint *string `hcl:"endpoint,optional"`

	AccessKey    *string `hcl:"access_key,optional"`
	SecretKey    *string `hcl:"secret_key,optional"`
	SessionToken *string `hcl:"session_token,optional"`

	// assume this role (with the optional external id) using the resolved credentials
	RoleArn    *string `hcl:"role_arn,optional"`
	ExternalId *string `hcl:"external_id,optional"`

	RateLimit      *float64 `hcl:"rate_limit,optional"`
	Burst          *int     `hcl:"burst,optional"`
	MaxConcurrency *int64   `hcl:"max_concurrency,optional"`
}

func (c *AwsS3BucketSourceConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Bucket) == "" {
		errs = append(errs, errors.New("bucket is required"))
	}
	hasAccess := c.AccessKey != nil && *c.AccessKey != ""
	hasSecret := c.SecretKey != nil && *c.SecretKey != ""
	if hasAccess != hasSecret {
		errs = append(errs, errors.New("access_key and secret_key must be set together"))
	}
	if c.ExternalId != nil && c.RoleArn == nil {
		errs = append(errs, errors.New("external_id requires role_arn"))
	}
	return errors.Join(errs...)
}

func (c *AwsS3BucketSourceConfig) limits() LimitConfig {
	return LimitConfig{RateLimit: c.RateLimit, Burst: c.Burst, MaxConcurrency: c.MaxConcurrency}
}
