package errors

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/logging"
)

// ErrCircuitOpen is wrapped by the error returned while a breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker open")

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures circuit breaker behavior
type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive failures that open the circuit
	SuccessThreshold int           // consecutive half-open successes that close it
	Timeout          time.Duration // open period before a trial request
	OnStateChange    func(from, to CircuitState, name string)
}

// DefaultCircuitBreakerConfig returns sensible defaults
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

// CircuitBreaker stops calling an upstream after repeated failures.
type CircuitBreaker struct {
	name   string
	config CircuitBreakerConfig
	logger logging.Logger
	now    func() time.Time

	mu           sync.Mutex
	state        CircuitState
	failureCount int
	successCount int
	openedAt     time.Time
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(name string, config CircuitBreakerConfig) *CircuitBreaker {
	defaults := DefaultCircuitBreakerConfig()
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = defaults.SuccessThreshold
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	return &CircuitBreaker{
		name:   name,
		config: config,
		logger: logging.NewComponentLogger("circuit-breaker"),
		now:    time.Now,
		state:  StateClosed,
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Allow checks whether a request can proceed. The rejection is transient so
// retry loops back off instead of failing the send outright.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return nil
	}
	wait := cb.config.Timeout - cb.now().Sub(cb.openedAt)
	if wait <= 0 {
		cb.setState(StateHalfOpen)
		cb.successCount = 0
		cb.logger.Info("[%s] Circuit breaker half-open, probing upstream", cb.name)
		return nil
	}
	return &TransientError{
		Err:        fmt.Errorf("%s: %w", cb.name, ErrCircuitOpen),
		RetryAfter: wait,
		Message:    fmt.Sprintf("%s is unavailable after repeated failures, retry in %v", cb.name, wait.Round(time.Second)),
	}
}

// Mark records a request outcome. Pass nil to mark success.
func (cb *CircuitBreaker) Mark(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		switch cb.state {
		case StateHalfOpen:
			cb.successCount++
			if cb.successCount >= cb.config.SuccessThreshold {
				cb.setState(StateClosed)
				cb.logger.Info("[%s] Circuit breaker closed", cb.name)
			}
		case StateClosed:
			cb.failureCount = 0
		}
		return
	}

	switch cb.state {
	case StateHalfOpen:
		cb.trip(err)
	case StateClosed:
		cb.failureCount++
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.trip(err)
		}
	}
}

func (cb *CircuitBreaker) trip(err error) {
	cb.logger.Warn("[%s] Circuit breaker opened from %s: %v", cb.name, cb.state, err)
	cb.openedAt = cb.now()
	cb.setState(StateOpen)
}

func (cb *CircuitBreaker) setState(next CircuitState) {
	prev := cb.state
	if prev == next {
		return
	}
	cb.state = next
	cb.failureCount = 0
	cb.successCount = 0
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(prev, next, cb.name)
	}
}
