package rate_limiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{name: "unlimited", def: Definition{Name: "s3"}},
		{name: "rate", def: Definition{Name: "s3", FillRate: 10, BucketSize: 5}},
		{name: "concurrency", def: Definition{Name: "s3", MaxConcurrency: 2}},
		{name: "no name", def: Definition{FillRate: 10, BucketSize: 5}, wantErr: true},
		{name: "rate without bucket", def: Definition{Name: "s3", FillRate: 10}, wantErr: true},
		{name: "negative", def: Definition{Name: "s3", MaxConcurrency: -1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAPILimiter_Do(t *testing.T) {
	l := NewAPILimiter(&Definition{Name: "test", FillRate: rate.Inf, BucketSize: 1, MaxConcurrency: 1})

	calls := 0
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Do(context.Background(), func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 3, calls)

	wantErr := errors.New("boom")
	assert.ErrorIs(t, l.Do(context.Background(), func() error { return wantErr }), wantErr)

	// the semaphore must have been released by the failing call
	assert.True(t, l.sem.TryAcquire(1))
	l.Release()
}

func TestAPILimiter_WaitCancelled(t *testing.T) {
	l := NewAPILimiter(&Definition{Name: "test", MaxConcurrency: 1})
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx))

	l.Release()
	assert.NoError(t, Unlimited("x").Wait(context.Background()))
}
