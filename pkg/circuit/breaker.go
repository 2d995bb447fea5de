package circuit

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State represents circuit breaker state
type State int

const (
	StateClosed   State = iota // calls pass through
	StateOpen                  // calls fail fast
	StateHalfOpen              // probing whether the dependency recovered
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// Config defines circuit breaker configuration
type Config struct {
	Threshold        int           // consecutive failures before opening
	Timeout          time.Duration // open duration before a half-open probe
	SuccessThreshold int           // probe successes needed to close
	MaxHalfOpen      int           // concurrent probes allowed while half-open
}

// DefaultConfig is tuned for an optional cache in front of the database:
// trip quickly, retry after a few seconds.
func DefaultConfig() Config {
	return Config{
		Threshold:        3,
		Timeout:          10 * time.Second,
		SuccessThreshold: 2,
		MaxHalfOpen:      1,
	}
}

// Breaker guards calls to a flaky dependency. Callers that get
// ErrCircuitOpen are expected to take their fallback path.
type Breaker struct {
	mu               sync.Mutex
	name             string
	config           Config
	logger           *zap.Logger
	now              func() time.Time
	state            State
	failures         int
	successes        int
	halfOpenInFlight int
	openedAt         time.Time
}

// NewBreaker creates a new circuit breaker
func NewBreaker(name string, config Config, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Threshold <= 0 {
		config.Threshold = 1
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.MaxHalfOpen <= 0 {
		config.MaxHalfOpen = 1
	}

	return &Breaker{
		name:   name,
		config: config,
		logger: logger,
		now:    time.Now,
		state:  StateClosed,
	}
}

// Execute runs fn if the breaker allows it and records the outcome.
// Cancellation of ctx is not counted against the dependency.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn(ctx)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		b.release()
		return err
	}

	b.Record(err)
	return err
}

// Allow reports whether a call may proceed. A nil return must be followed
// by exactly one Record.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.config.Timeout {
			return ErrCircuitOpen
		}
		b.transitionTo(StateHalfOpen)
		b.halfOpenInFlight = 1
		return nil

	case StateHalfOpen:
		if b.halfOpenInFlight >= b.config.MaxHalfOpen {
			return ErrTooManyRequests
		}
		b.halfOpenInFlight++
		return nil

	default:
		return nil
	}
}

// Record records the result of an allowed call
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen && b.halfOpenInFlight > 0 {
		b.halfOpenInFlight--
	}

	if err != nil {
		b.onFailure()
	} else {
		b.onSuccess()
	}
}

func (b *Breaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateHalfOpen && b.halfOpenInFlight > 0 {
		b.halfOpenInFlight--
	}
}

// must hold lock
func (b *Breaker) onFailure() {
	b.successes = 0

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.config.Threshold {
			b.transitionTo(StateOpen)
		}
	case StateHalfOpen:
		b.transitionTo(StateOpen)
	}
}

// must hold lock
func (b *Breaker) onSuccess() {
	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.transitionTo(StateClosed)
		}
	}
}

// must hold lock
func (b *Breaker) transitionTo(next State) {
	prev := b.state
	b.state = next
	b.halfOpenInFlight = 0
	b.successes = 0

	switch next {
	case StateOpen:
		b.openedAt = b.now()
	case StateClosed:
		b.failures = 0
	}

	b.logger.Info("Circuit breaker state changed",
		zap.String("name", b.name),
		zap.String("from", prev.String()),
		zap.String("to", next.String()),
		zap.Int("failures", b.failures),
	)
}

// State returns current state
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Name returns the breaker name used in logs
func (b *Breaker) Name() string {
	return b.name
}

// Reset forces the breaker closed
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = StateClosed
	b.failures = 0
	b.successes = 0
	b.halfOpenInFlight = 0

	b.logger.Info("Circuit breaker reset", zap.String("name", b.name))
}
