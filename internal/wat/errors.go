package wat

import (
	"fmt"

	"github.com/tetratelabs/wazero-wat/internal/wasm"
)

// FormatError is a diagnostic carrying the source position it applies to
// and the production ("Context") that detected it (§4.1, §7). It wraps an
// underlying cause so callers can still errors.Is/As through it.
type FormatError struct {
	Line, Col int
	Context   string
	cause     error
}

// Error implements error, rendering "line:col: cause[ in context]".
func (e *FormatError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("%d:%d: %v", e.Line, e.Col, e.cause)
	}
	return fmt.Sprintf("%d:%d: %v in %s", e.Line, e.Col, e.cause, e.Context)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *FormatError) Unwrap() error { return e.cause }

func newFormatError(loc wasm.Location, context string, cause error) *FormatError {
	return &FormatError{Line: loc.Line, Col: loc.Col, Context: context, cause: cause}
}

func newFormatErrorf(loc wasm.Location, context, format string, args ...interface{}) *FormatError {
	return newFormatError(loc, context, fmt.Errorf(format, args...))
}

// Severity is the diagnostic level passed to an ErrorHandler (§6). This
// core only ever reports "error"; "warning" is reserved for a future
// extension.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// ErrorHandler is the external-facing diagnostic sink (§6): a single
// operation that returns nothing, so the parser always continues.
type ErrorHandler interface {
	OnError(loc wasm.Location, severity Severity, message string)
}

// Reporter is the internal diagnostic sink every semantic action is
// handed (§4.1 design note "pass a reporter by reference through every
// semantic action"). The per-parse error tally that decides the overall
// parse result (§7) is kept by errorTally, which forwards each diagnostic
// to its Reporter.
type Reporter interface {
	Report(err *FormatError)
}

// errorHandlerReporter adapts any ErrorHandler to a Reporter, for callers
// that only have the external-interface shape (§6).
type errorHandlerReporter struct {
	handler ErrorHandler
}

// NewReporter adapts an ErrorHandler into a Reporter.
func NewReporter(handler ErrorHandler) Reporter {
	return &errorHandlerReporter{handler: handler}
}

func (r *errorHandlerReporter) Report(err *FormatError) {
	r.handler.OnError(wasm.Location{Line: err.Line, Col: err.Col}, SeverityError, err.Error())
}

// errorTally counts every reported diagnostic (§7 "every error is
// reported to the handler and counted"). The parse result is Err iff the
// tally is non-zero.
type errorTally struct {
	reporter Reporter
	count    int
	errs     []*FormatError
}

func (t *errorTally) report(err *FormatError) {
	t.count++
	t.errs = append(t.errs, err)
	if t.reporter != nil {
		t.reporter.Report(err)
	}
}

func (t *errorTally) reportf(loc wasm.Location, context, format string, args ...interface{}) {
	t.report(newFormatErrorf(loc, context, format, args...))
}

// ErrOOM names the memory-exhaustion error kind (§7 "Memory exhaustion").
// No code path returns it: the recursive-descent productions keep no
// explicit parser stack whose growth could fail, so Parse and ParseModule
// never report memory exhaustion.
var ErrOOM = fmt.Errorf("out of memory growing parser stack")

// ErrorList is returned by Parse when one or more diagnostics were
// reported during a parse (§7).
type ErrorList struct {
	Errors []*FormatError
}

func (e *ErrorList) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors, first: %v", len(e.Errors), e.Errors[0])
}
