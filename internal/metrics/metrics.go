package metrics

import (
	"errors"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
)

// Collector records ledger activity. Implementations export to a metrics backend.
type Collector interface {
	// Posting engine
	RecordPosting(outcome string, postings int, duration time.Duration)

	// Import pipeline
	RecordImport(format string, result ImportCounts, duration time.Duration)
	RecordImportError(format string)

	// Circuit breaker around the store
	RecordCircuitState(name string, state CircuitState)
}

// ImportCounts is the row accounting of one import batch.
type ImportCounts struct {
	Total      int
	Inserted   int
	Duplicates int
}

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Outcome labels for RecordPosting.
const (
	OutcomeCommitted        = "committed"
	OutcomeInvalid          = "invalid"
	OutcomeUnknownAccount   = "unknown_account"
	OutcomeClosedAccount    = "closed_account"
	OutcomeAlreadyPosted    = "already_posted"
	OutcomeUnbalanced       = "unbalanced"
	OutcomeStoreUnavailable = "store_unavailable"
	OutcomeError            = "error"
)

// PostingOutcome maps the result of a posting attempt to a low-cardinality label.
func PostingOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeCommitted
	case errors.Is(err, apperrors.ErrUnbalancedTransaction):
		return OutcomeUnbalanced
	case errors.Is(err, apperrors.ErrUnknownAccount):
		return OutcomeUnknownAccount
	case errors.Is(err, apperrors.ErrClosedAccount):
		return OutcomeClosedAccount
	case errors.Is(err, apperrors.ErrAlreadyPosted):
		return OutcomeAlreadyPosted
	case errors.Is(err, apperrors.ErrInvalidTransaction), errors.Is(err, apperrors.ErrValidation):
		return OutcomeInvalid
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return OutcomeStoreUnavailable
	default:
		return OutcomeError
	}
}

// NoOpCollector discards everything. It is the default when metrics are disabled.
type NoOpCollector struct{}

func (NoOpCollector) RecordPosting(outcome string, postings int, duration time.Duration) {}
func (NoOpCollector) RecordImport(format string, result ImportCounts, duration time.Duration) {}
func (NoOpCollector) RecordImportError(format string) {}
func (NoOpCollector) RecordCircuitState(name string, state CircuitState) {}

var _ Collector = NoOpCollector{}
