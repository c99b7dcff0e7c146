package cache

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

const (
	stateClosed   = "closed"
	stateOpen     = "open"
	stateHalfOpen = "half-open"
)

type CircuitBreakerConfig struct {
	MaxFailures  int
	ResetTimeout time.Duration
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxFailures:  5,
		ResetTimeout: 30 * time.Second,
	}
}

// CircuitBreaker shields the L2 cache: after MaxFailures consecutive errors
// calls fail fast until ResetTimeout has elapsed.
type CircuitBreaker struct {
	config      CircuitBreakerConfig
	state       string
	failures    int
	lastFailure time.Time
	trips       int64
	mu          sync.Mutex
}

func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = DefaultCircuitBreakerConfig().MaxFailures
	}
	return &CircuitBreaker{config: config, state: stateClosed}
}

func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.state == stateOpen {
		if time.Since(cb.lastFailure) <= cb.config.ResetTimeout {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = stateHalfOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	// a miss is a healthy answer from the backend
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		cb.failures++
		cb.lastFailure = time.Now()
		if cb.state == stateHalfOpen || cb.failures >= cb.config.MaxFailures {
			cb.state = stateOpen
			cb.trips++
		}
		return err
	}

	cb.failures = 0
	cb.state = stateClosed
	return err
}

func (cb *CircuitBreaker) State() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) GetStats() map[string]interface{} {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return map[string]interface{}{
		"state":         cb.state,
		"failures":      cb.failures,
		"trips":         cb.trips,
		"max_failures":  cb.config.MaxFailures,
		"reset_timeout": cb.config.ResetTimeout.String(),
	}
}
