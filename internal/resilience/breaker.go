package resilience

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	"github.com/SscSPs/recordsheet/internal/metrics"

	"github.com/sony/gobreaker"
)

// BreakerConfig configures the circuit breaker around the store.
type BreakerConfig struct {
	Name string
	// MaxFailures is the number of consecutive store failures that opens the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a trial request is let through.
	OpenTimeout time.Duration
	// HalfOpenRequests is how many trial requests run while half-open. Zero means one.
	HalfOpenRequests uint32
}

// ResilientTxManager wraps a TransactionManager with a circuit breaker. Only infrastructure
// failures count against the store; validation errors and caller cancellation do not.
type ResilientTxManager struct {
	next    portsrepo.TransactionManager
	cb      *gobreaker.CircuitBreaker
	metrics metrics.Collector
	logger  *slog.Logger
}

var _ portsrepo.TransactionManager = (*ResilientTxManager)(nil)

// NewResilientTxManager wraps next. A nil collector disables metrics.
func NewResilientTxManager(next portsrepo.TransactionManager, cfg BreakerConfig, collector metrics.Collector) *ResilientTxManager {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	if cfg.Name == "" {
		cfg.Name = "store"
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}

	rt := &ResilientTxManager{
		next:    next,
		metrics: collector,
		logger:  slog.Default().With(slog.String("component", "resilience"), slog.String("breaker", cfg.Name)),
	}

	rt.logger.Info("circuit breaker initialized",
		slog.Uint64("max_failures", uint64(cfg.MaxFailures)),
		slog.Duration("open_timeout", cfg.OpenTimeout),
	)

	rt.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: isHealthyOutcome,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			rt.logger.Warn("circuit breaker state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)

			var state metrics.CircuitState
			switch to {
			case gobreaker.StateClosed:
				state = metrics.CircuitClosed
			case gobreaker.StateHalfOpen:
				state = metrics.CircuitHalfOpen
			case gobreaker.StateOpen:
				state = metrics.CircuitOpen
			}
			rt.metrics.RecordCircuitState(name, state)
		},
	})

	return rt
}

// isHealthyOutcome reports whether a unit of work says nothing bad about the store.
func isHealthyOutcome(err error) bool {
	return err == nil || apperrors.IsDomainError(err) || errors.Is(err, context.Canceled)
}

// RunInTx runs fn through the breaker. While the circuit is open calls fail fast with
// apperrors.ErrStoreUnavailable and fn is never invoked.
func (rt *ResilientTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) error {
	_, err := rt.cb.Execute(func() (interface{}, error) {
		return nil, rt.next.RunInTx(ctx, fn)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		rt.logger.WarnContext(ctx, "circuit breaker open - unit of work rejected")
		return apperrors.NewStoreError("circuit breaker", err)
	}
	return err
}

// State returns the current breaker state name.
func (rt *ResilientTxManager) State() string {
	return rt.cb.State().String()
}
