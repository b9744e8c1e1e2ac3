package rate_limiter

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// APILimiter throttles calls to an external API, by rate and by concurrency
type APILimiter struct {
	Name string

	limiter *rate.Limiter
	sem     *semaphore.Weighted
}

func NewAPILimiter(d *Definition) *APILimiter {
	res := &APILimiter{Name: d.Name}
	if d.FillRate > 0 {
		res.limiter = rate.NewLimiter(d.FillRate, d.BucketSize)
	}
	if d.MaxConcurrency > 0 {
		res.sem = semaphore.NewWeighted(d.MaxConcurrency)
	}
	return res
}

// Unlimited returns a limiter which never blocks
func Unlimited(name string) *APILimiter {
	return &APILimiter{Name: name}
}

// Wait blocks until a call may proceed; every successful Wait must be paired with a Release
func (l *APILimiter) Wait(ctx context.Context) error {
	if l.sem != nil {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			l.Release()
			return err
		}
	}
	return nil
}

func (l *APILimiter) Release() {
	if l.sem == nil {
		return
	}
	l.sem.Release(1)
}

// Do runs f once the limiter allows it
func (l *APILimiter) Do(ctx context.Context, f func() error) error {
	if err := l.Wait(ctx); err != nil {
		return err
	}
	defer l.Release()
	return f()
}
