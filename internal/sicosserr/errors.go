// Package sicosserr defines the SICOSS pipeline's error taxonomy:
// typed values instead of exception-style control flow, so callers can
// distinguish a fatal misconfiguration from an informational clip.
package sicosserr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ConfigurationError reports a missing or invalid ceiling/flag. Fatal:
// a run never starts with one outstanding.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("sicoss: configuration error on %q: %s", e.Field, e.Reason)
}

// InputShapeError reports an extractor table missing a required column or
// carrying a value that cannot be coerced to the expected type. Fatal: no
// partial output is produced.
type InputShapeError struct {
	Table  string
	Column string
	Reason string
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("sicoss: input shape error in %s.%s: %s", e.Table, e.Column, e.Reason)
}

// ArithmeticWarning records a monetary field that went negative during
// ceiling application. The value is clipped to zero and the run continues;
// this type exists so the clip can be logged and, in tests, asserted on.
type ArithmeticWarning struct {
	NroLegaj int
	Field    string
	Clipped  decimal.Decimal
}

func (w ArithmeticWarning) Error() string {
	return fmt.Sprintf("sicoss: legajo %d field %s went negative (%s); clipped to 0",
		w.NroLegaj, w.Field, w.Clipped.StringFixed(2))
}

// ValidationRejection records an employee dropped by the Validator. Not an
// error: counted in Totals.Rejected, never returned as the run's terminal
// error.
type ValidationRejection struct {
	NroLegaj int
}

func (r ValidationRejection) Error() string {
	return fmt.Sprintf("sicoss: legajo %d rejected by validator", r.NroLegaj)
}

// OutputWriteError wraps a failure writing the fixed-width file or a
// database chunk. For the text file this is always fatal; for the
// database, only the failing chunk rolls back — already-committed chunks
// remain and the caller decides whether to clean up by periodo_fiscal.
type OutputWriteError struct {
	Target string
	Err    error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("sicoss: output write error (%s): %v", e.Target, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }

// ErrCancelled is returned when a run's cancellation signal is observed
// between stages or between writer chunks.
var ErrCancelled = errors.New("sicoss: run cancelled")
