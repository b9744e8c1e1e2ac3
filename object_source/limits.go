package object_source

import (
	"fmt"

	"github.com/turbot/tailpipe-file-ingest/rate_limiter"
	"golang.org/x/time/rate"
)

// LimitConfig holds the throttling attributes shared by every source block
type LimitConfig struct {
	RateLimit      *float64 `hcl:"rate_limit,optional"`
	Burst          *int     `hcl:"burst,optional"`
	MaxConcurrency *int64   `hcl:"max_concurrency,optional"`
}

func newLimiter(name string, c LimitConfig) (*rate_limiter.APILimiter, error) {
	def := &rate_limiter.Definition{Name: name}
	if c.RateLimit != nil {
		def.FillRate = rate.Limit(*c.RateLimit)
		def.BucketSize = 1
	}
	if c.Burst != nil {
		def.BucketSize = *c.Burst
	}
	if c.MaxConcurrency != nil {
		def.MaxConcurrency = *c.MaxConcurrency
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate limit: %w", err)
	}
	return rate_limiter.NewAPILimiter(def), nil
}
