// =============================================================================
// Requerimento - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - validation
//   - ledger
//   - record
//   - document
//   - controller
//   - ui
//
// =============================================================================

package types

import "time"

// =============================================================================
// SUBMISSION TYPES
// =============================================================================

// RawSubmission carries the field values exactly as entered by the user,
// before any normalization. The validate tags cover the required-text rule;
// format and length rules live in the validation package.
type RawSubmission struct {
	// Nome is the full name of the student.
	Nome string `validate:"required"`

	// Chamado is the external reference (ticket) number. Optional.
	Chamado string

	// ID is the student identifier (fixed-length numeric string).
	ID string `validate:"required"`

	// CPF is the national tax identifier (11 digits after stripping).
	CPF string `validate:"required"`

	// Curso is the course name.
	Curso string `validate:"required"`

	// Turma is the class/cohort label.
	Turma string `validate:"required"`

	// Oferta is the offer code (fixed-length string).
	Oferta string `validate:"required"`

	// Data is the submission date. Empty means "today".
	Data string

	// Retorno is the expected return date. May be empty.
	Retorno string
}

// Submission is a RawSubmission after validation and normalization:
// digit fields are stripped and padded, dates are parsed, text is trimmed.
type Submission struct {
	Nome    string
	Chamado string
	ID      string
	CPF     string // raw digits only; masked form is produced at emit time
	Curso   string
	Turma   string
	Oferta  string

	// Data is zero when the user left the date empty. The record builder
	// injects the current date in that case.
	Data time.Time

	// Retorno is zero when no return date was supplied.
	Retorno time.Time
}

// =============================================================================
// RECORD TYPE
// =============================================================================

// Record is one ledger entry. Records are append-only: once written they are
// never mutated or deleted by this system.
type Record struct {
	// Protocolo is the sequence number, unique within the ledger.
	// It is derived from the ledger row count at append time.
	Protocolo int

	Nome    string
	Chamado string
	ID      string
	CPF     string
	Curso   string
	Turma   string
	Oferta  string
	Data    time.Time
	Retorno time.Time
}

// =============================================================================
// EMISSION STATE MACHINE
// =============================================================================

// EmitState tracks the document emission lifecycle for one record:
//
//	NotStarted -> PrimaryWritten -> ConversionAttempted
//	                                  -> ConversionSucceeded (terminal)
//	                                  -> ConversionSkipped   (terminal)
//
// Both terminal states count as overall success for the controller.
type EmitState int

const (
	NotStarted EmitState = iota
	PrimaryWritten
	ConversionAttempted
	ConversionSucceeded
	ConversionSkipped
)

// String returns a human-readable name for the state.
func (s EmitState) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case PrimaryWritten:
		return "primary_written"
	case ConversionAttempted:
		return "conversion_attempted"
	case ConversionSucceeded:
		return "conversion_succeeded"
	case ConversionSkipped:
		return "conversion_skipped"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is one of the two terminal states.
func (s EmitState) Terminal() bool {
	return s == ConversionSucceeded || s == ConversionSkipped
}

// =============================================================================
// RESULT TYPE
// =============================================================================

// Result represents the outcome of one submission.
type Result struct {
	// SubmissionID is a correlation ID assigned by the controller.
	// It appears in every log line for this submission.
	SubmissionID string

	// Protocolo is the sequence number the record ended up with.
	Protocolo int

	// Reused is true when the record already existed in the ledger and the
	// existing row's sequence number was reused instead of appending.
	Reused bool

	// LedgerPath is the path of the ledger file that was consulted.
	LedgerPath string

	// PrimaryPath is the path of the generated primary document.
	PrimaryPath string

	// SecondaryPath is the path of the converted secondary-format document.
	// Empty when conversion was skipped.
	SecondaryPath string

	// State is the terminal emission state.
	State EmitState

	// Warnings contains non-fatal problems (e.g. no converter available).
	Warnings []string
}

// PartialSuccess reports whether only the primary document was produced.
func (r *Result) PartialSuccess() bool {
	return r.State == ConversionSkipped
}
