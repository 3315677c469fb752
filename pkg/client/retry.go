package client

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy controls how the detect upload is retried on transient
// failures. GET probes are never retried; the smoke checks are supposed
// to see the service exactly as a first-time caller would.
type RetryPolicy struct {
	MaxAttempts         int           `json:"max_attempts" yaml:"max_attempts"`
	InitialInterval     time.Duration `json:"initial_interval" yaml:"initial_interval"`
	MaxInterval         time.Duration `json:"max_interval" yaml:"max_interval"`
	MaxElapsedTime      time.Duration `json:"max_elapsed_time" yaml:"max_elapsed_time"`
	Multiplier          float64       `json:"multiplier" yaml:"multiplier"`
	RandomizationFactor float64       `json:"randomization_factor" yaml:"randomization_factor"`
}

type retryer struct {
	policy RetryPolicy
}

func newRetryer(policy RetryPolicy) *retryer {
	return &retryer{policy: policy}
}

func (r *retryer) Do(ctx context.Context, fn func() error) error {
	var lastErr error
	currentInterval := r.policy.InitialInterval
	startTime := time.Now()

	maxAttempts := r.policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == maxAttempts {
			break
		}

		if r.policy.MaxElapsedTime > 0 && time.Since(startTime) >= r.policy.MaxElapsedTime {
			break
		}

		if currentInterval > r.policy.MaxInterval {
			currentInterval = r.policy.MaxInterval
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.jitter(currentInterval)):
		}

		currentInterval = time.Duration(float64(currentInterval) * r.policy.Multiplier)
	}

	return lastErr
}

func (r *retryer) jitter(interval time.Duration) time.Duration {
	if r.policy.RandomizationFactor == 0 {
		return interval
	}

	delta := r.policy.RandomizationFactor * float64(interval)
	minInterval := float64(interval) - delta
	maxInterval := float64(interval) + delta

	jittered := minInterval + (rand.Float64() * (maxInterval - minInterval))

	return time.Duration(math.Max(0, jittered))
}
