package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Ledger errors returned by the posting engine, the account registry and the import pipeline.
var (
	// ErrInvalidTransaction is a structural problem with a proposed journal entry.
	ErrInvalidTransaction = errors.New("invalid transaction")
	// ErrUnknownAccount means an account reference matched no account.
	ErrUnknownAccount = errors.New("unknown account")
	// ErrClosedAccount means a posting targeted a closed account.
	ErrClosedAccount = errors.New("account is closed")
	// ErrAlreadyPosted means an external transaction was already consumed by a journal.
	ErrAlreadyPosted = errors.New("external transaction already posted")
	// ErrUnbalancedTransaction means the postings of a journal do not sum to zero.
	ErrUnbalancedTransaction = errors.New("transaction does not balance")
	// ErrDuplicateName means an account with the same normalized name exists.
	ErrDuplicateName = errors.New("duplicate account name")
	// ErrImportFormat means an import document could not be parsed.
	ErrImportFormat = errors.New("import format error")
	// ErrStoreUnavailable is a transient infrastructure failure. Callers own the retry policy.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// AppError carries an HTTP-ish status code alongside the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// PostingError ties a validation failure to one posting of a proposed journal.
type PostingError struct {
	Index int
	Field string
	Err   error
}

func (e *PostingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("posting %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("posting %d: %s: %v", e.Index, e.Field, e.Err)
}

func (e *PostingError) Unwrap() error {
	return e.Err
}

// NewPostingError wraps err with the index and field of the offending posting.
func NewPostingError(index int, field string, err error) *PostingError {
	return &PostingError{Index: index, Field: field, Err: err}
}

// UnbalancedError reports the non-zero sum of a rejected journal.
type UnbalancedError struct {
	Sum decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("%s: postings sum to %s", ErrUnbalancedTransaction.Error(), e.Sum.String())
}

func (e *UnbalancedError) Is(target error) bool {
	return target == ErrUnbalancedTransaction
}

// ImportFormatError locates a parse failure inside an import document.
type ImportFormatError struct {
	Format   string
	Location string
	Err      error
}

func (e *ImportFormatError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("%s (%s): %v", ErrImportFormat.Error(), e.Format, e.Err)
	}
	return fmt.Sprintf("%s (%s) at %s: %v", ErrImportFormat.Error(), e.Format, e.Location, e.Err)
}

func (e *ImportFormatError) Is(target error) bool {
	return target == ErrImportFormat
}

func (e *ImportFormatError) Unwrap() error {
	return e.Err
}

// NewImportFormatError creates a new ImportFormatError.
func NewImportFormatError(format, location string, err error) *ImportFormatError {
	return &ImportFormatError{Format: format, Location: location, Err: err}
}

// StoreError wraps an infrastructure failure. It matches ErrStoreUnavailable and still
// unwraps to the driver or context error.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStoreUnavailable.Error(), e.Op, e.Err)
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err as a StoreError unless it already is one or is a ledger error.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsDomainError reports whether err belongs to the validation taxonomy rather than infrastructure.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrValidation, ErrDuplicate,
		ErrInvalidTransaction, ErrUnknownAccount, ErrClosedAccount, ErrAlreadyPosted,
		ErrUnbalancedTransaction, ErrDuplicateName, ErrImportFormat,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
