package client

import (
	"context"
	"sync"
	"time"
)

type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreaker stops hammering the detection service with uploads once
// it has failed repeatedly. It guards the detect call only; the cheap GET
// probes bypass it.
type CircuitBreaker struct {
	mu               sync.RWMutex
	state            BreakerState
	failureCount     int
	successCount     int
	maxFailures      int
	cooldown         time.Duration
	halfOpenMaxCalls int
	lastFailureTime  time.Time
}

func NewCircuitBreaker(maxFailures int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:            StateClosed,
		maxFailures:      maxFailures,
		cooldown:         cooldown,
		halfOpenMaxCalls: 3,
	}
}

func (cb *CircuitBreaker) Do(ctx context.Context, fn func() error) error {
	if err := cb.allow(); err != nil {
		return err
	}

	if err := fn(); err != nil {
		cb.recordFailure()
		return err
	}

	cb.recordSuccess()
	return nil
}

func (cb *CircuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if time.Since(cb.lastFailureTime) <= cb.cooldown {
			return ErrBreakerOpen()
		}
		cb.state = StateHalfOpen
		cb.successCount = 0
	case StateHalfOpen:
		if cb.successCount >= cb.halfOpenMaxCalls {
			return ErrBreakerOpen()
		}
	}

	return nil
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = time.Now()

	if cb.state == StateHalfOpen {
		cb.state = StateOpen
		return
	}

	if cb.failureCount >= cb.maxFailures {
		cb.state = StateOpen
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.successCount++
		if cb.successCount >= cb.halfOpenMaxCalls {
			cb.state = StateClosed
			cb.failureCount = 0
		}
		return
	}

	if cb.state == StateClosed {
		cb.failureCount = 0
	}
}

func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

func ErrBreakerOpen() *Error {
	return &Error{
		Type:    ErrTypeBreakerOpen,
		Message: "circuit breaker is open",
	}
}
