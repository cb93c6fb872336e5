// =============================================================================
// Requerimento - Field Validation
// =============================================================================
//
// This module checks each submitted field against the fixed-length and
// fixed-format rules and produces the normalized values the rest of the
// pipeline works with.
//
// VALIDATION STRATEGY:
//   1. Required-text checks (name, course, class, ...) run first, through
//      go-playground/validator over the RawSubmission struct tags.
//   2. Format/length checks run per field: digits are stripped, short
//      identifiers are left-padded with zeros, oversize values rejected.
//   3. Dates are parsed against the accepted layouts.
//
// The validator is a pure function of (raw input, configuration); it has no
// side effects and touches no files.
//
// ERROR HANDLING:
//   Failures are reported as *FieldError naming the offending field, so the
//   presentation layer can point the user at the exact input to fix.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edu-secretaria/requerimento/internal/config"
	"github.com/edu-secretaria/requerimento/internal/types"
)

// =============================================================================
// ERROR TYPE
// =============================================================================

// FieldError represents a single invalid field. It is recoverable: the user
// corrects the value and resubmits.
type FieldError struct {
	// Field is the name of the field that failed validation.
	Field string

	// Value is the raw value that failed.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s (value: %q)", e.Field, e.Message, e.Value)
}

// IsFieldError reports whether err is (or wraps) a FieldError.
func IsFieldError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}

// =============================================================================
// DATE LAYOUTS
// =============================================================================

// dateLayouts are the accepted input layouts, tried in order. The first is
// the canonical display layout.
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"02.01.2006",
}

// DateLayout is the canonical display layout for dates (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator normalizes raw submissions against the configured field lengths.
type Validator struct {
	lengths  config.Lengths
	validate *validator.Validate
}

// New creates a Validator for the given configuration.
func New(cfg *config.Config) *Validator {
	return &Validator{
		lengths:  cfg.Valid,
		validate: validator.New(),
	}
}

// fieldLabels maps RawSubmission struct fields to the labels shown to users
// (the ledger column vocabulary).
var fieldLabels = map[string]string{
	"Nome":    "NOME",
	"Chamado": "N chamado",
	"ID":      "ID",
	"CPF":     "CPF",
	"Curso":   "CURSO",
	"Turma":   "TURMA",
	"Oferta":  "Código da oferta",
	"Data":    "Data",
	"Retorno": "retorno (Previsão)",
}

// Normalize validates the raw submission and returns the normalized values.
//
// RETURNS:
//   - The normalized Submission on success.
//   - A *FieldError naming the offending field on failure.
func (v *Validator) Normalize(raw types.RawSubmission) (types.Submission, error) {
	var sub types.Submission

	// Trim everything up front so "   " fails the required checks too.
	raw.Nome = strings.TrimSpace(raw.Nome)
	raw.Chamado = strings.TrimSpace(raw.Chamado)
	raw.ID = strings.TrimSpace(raw.ID)
	raw.CPF = strings.TrimSpace(raw.CPF)
	raw.Curso = strings.TrimSpace(raw.Curso)
	raw.Turma = strings.TrimSpace(raw.Turma)
	raw.Oferta = strings.TrimSpace(raw.Oferta)
	raw.Data = strings.TrimSpace(raw.Data)
	raw.Retorno = strings.TrimSpace(raw.Retorno)

	// Required-text checks via the struct tags.
	if err := v.validate.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].StructField()
			label := fieldLabels[field]
			if label == "" {
				label = field
			}
			return sub, &FieldError{
				Field:   label,
				Rule:    "required",
				Message: "required field is empty",
			}
		}
		return sub, fmt.Errorf("validate submission: %w", err)
	}

	// CPF: exactly the configured digit count after stripping non-digits.
	cpf := DigitsOnly(raw.CPF)
	if len(cpf) != v.lengths.CPF {
		return sub, &FieldError{
			Field:   fieldLabels["CPF"],
			Value:   raw.CPF,
			Rule:    "length",
			Message: fmt.Sprintf("must contain exactly %d digits", v.lengths.CPF),
		}
	}

	// ID: digits only, left-padded with zeros when shorter, rejected when
	// longer than the configured length.
	id, err := fixedDigits(raw.ID, v.lengths.ID, fieldLabels["ID"])
	if err != nil {
		return sub, err
	}

	// Offer code: same fixed-length contract as the ID.
	oferta, err := fixedDigits(raw.Oferta, v.lengths.Oferta, fieldLabels["Oferta"])
	if err != nil {
		return sub, err
	}

	// Submission date: empty means "today" and stays zero here; the record
	// builder injects the current date at build time.
	data, err := parseDate(raw.Data, fieldLabels["Data"])
	if err != nil {
		return sub, err
	}

	retorno, err := parseDate(raw.Retorno, fieldLabels["Retorno"])
	if err != nil {
		return sub, err
	}

	sub = types.Submission{
		Nome:    raw.Nome,
		Chamado: DigitsOnly(raw.Chamado),
		ID:      id,
		CPF:     cpf,
		Curso:   raw.Curso,
		Turma:   raw.Turma,
		Oferta:  oferta,
		Data:    data,
		Retorno: retorno,
	}
	return sub, nil
}

// =============================================================================
// FIELD HELPERS
// =============================================================================

// DigitsOnly strips every non-digit rune from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fixedDigits normalizes a numeric identifier to exactly length digits:
// non-digits stripped, shorter values left-padded with zeros, longer values
// rejected.
func fixedDigits(value string, length int, field string) (string, error) {
	digits := DigitsOnly(value)
	if digits == "" || len(digits) > length {
		return "", &FieldError{
			Field:   field,
			Value:   value,
			Rule:    "length",
			Message: fmt.Sprintf("must normalize to exactly %d digits", length),
		}
	}
	if len(digits) < length {
		digits = strings.Repeat("0", length-len(digits)) + digits
	}
	return digits, nil
}

// parseDate parses value against the accepted layouts. Empty input returns
// the zero time, which the caller treats as "not supplied".
func parseDate(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &FieldError{
		Field:   field,
		Value:   value,
		Rule:    "date",
		Message: "not a valid date (expected DD/MM/YYYY)",
	}
}

// =============================================================================
// DISPLAY FORMATTING
// =============================================================================

// FormatCPF renders an 11-digit CPF in the canonical display mask
// ###.###.###-##. Values of any other length are returned unchanged; the
// ledger always stores the raw digit string.
func FormatCPF(digits string) string {
	if len(digits) != 11 {
		return digits
	}
	return fmt.Sprintf("%s.%s.%s-%s", digits[0:3], digits[3:6], digits[6:9], digits[9:11])
}
