package resilience

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// CircuitState enumerates the breaker modes.
type CircuitState string

const (
	StateClosed   CircuitState = "closed"    // Normal operation
	StateOpen     CircuitState = "open"      // Blocking requests
	StateHalfOpen CircuitState = "half_open" // Testing if service recovered
)

// BreakerConfig tunes the circuit breaker.
type BreakerConfig struct {
	FailureThreshold int
	RecoveryTimeout  time.Duration
}

// DefaultBreakerConfig returns the service defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		RecoveryTimeout:  60 * time.Second,
	}
}

// CircuitBreaker stops calling a failing dependency for a recovery period
// after repeated consecutive failures. One process-wide instance guards each
// downstream dependency; all state is mutated under a single mutex.
type CircuitBreaker struct {
	config BreakerConfig
	logger *log.Logger

	mu              sync.Mutex
	state           CircuitState
	failureCount    int
	lastFailureTime time.Time

	now func() time.Time // injectable clock for tests
}

func NewCircuitBreaker(config BreakerConfig, logger *log.Logger) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config = DefaultBreakerConfig()
	}
	return &CircuitBreaker{
		config: config,
		logger: logger,
		state:  StateClosed,
		now:    time.Now,
	}
}

// Call executes fn through the breaker. When the breaker is open and the
// recovery timeout has not elapsed, ErrCircuitOpen is returned without
// invoking fn. The first call after the timeout runs as a half-open probe.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	if err := fn(); err != nil {
		cb.onFailure()
		return err
	}

	cb.onSuccess()
	return nil
}

// State returns the current breaker mode.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset returns the breaker to closed and clears the failure counter.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failureCount = 0
	cb.lastFailureTime = time.Time{}
	cb.logger.Printf("[BREAKER] Manually reset to CLOSED")
}

func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return nil
	}

	elapsed := cb.now().Sub(cb.lastFailureTime)
	if elapsed >= cb.config.RecoveryTimeout {
		cb.logger.Printf("[BREAKER] Transitioning to HALF_OPEN")
		cb.state = StateHalfOpen
		return nil
	}

	remaining := cb.config.RecoveryTimeout - elapsed
	return fmt.Errorf("%w: service unavailable for %.1fs more", ErrCircuitOpen, remaining.Seconds())
}

func (cb *CircuitBreaker) onSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.logger.Printf("[BREAKER] Service recovered, transitioning to CLOSED")
		cb.state = StateClosed
	}
	cb.failureCount = 0
}

func (cb *CircuitBreaker) onFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = cb.now()

	if cb.state == StateHalfOpen {
		cb.logger.Printf("[BREAKER] Recovery probe failed, transitioning back to OPEN")
		cb.state = StateOpen
	} else if cb.failureCount >= cb.config.FailureThreshold {
		cb.logger.Printf("[BREAKER] Failure threshold (%d) reached, transitioning to OPEN", cb.config.FailureThreshold)
		cb.state = StateOpen
	}
}
