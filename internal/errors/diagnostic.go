// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"solan/internal/loc"
)

// Level is the severity of a diagnostic.
type Level string

const (
	Error   Level = "error"
	Warning Level = "warning"
	Note    Level = "note"
)

// Diagnostic is a structured error or warning raised anywhere in the
// pipeline, carrying enough context for the Rust-style reporter to render
// a caret-annotated message against the original source.
type Diagnostic struct {
	Level    Level
	Code     Code
	Message  string
	Location loc.SourceLocation
	Notes    []string

	// Cause, when set, is the underlying Go error this diagnostic wraps
	// (InternalInvariantViolated sets one). It carries a stack trace
	// courtesy of github.com/pkg/errors; Error() and the CLI's
	// diagnostic output do not include it.
	Cause error
}

func (d *Diagnostic) Error() string {
	if d.Location.Zero() {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s at %s", d.Code, d.Message, d.Location)
}

// WithNote appends a contextual note and returns the diagnostic for
// chaining, mirroring the builder style of the compiler's own error
// construction helpers.
func (d *Diagnostic) WithNote(note string) *Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// InputMissing reports that the AST document or source file could not be
// obtained at all. There is no location to point at.
func InputMissing(message string) *Diagnostic {
	return &Diagnostic{Level: Error, Code: CodeInputMissing, Message: message}
}

// InputMalformed reports that a node did not match the expected AST
// surface described in spec §6.
func InputMalformed(where loc.SourceLocation, message string) *Diagnostic {
	return &Diagnostic{Level: Error, Code: CodeInputMalformed, Message: message, Location: where}
}

// UnsupportedConstruct reports a statement or expression kind outside the
// closed set this analyzer understands.
func UnsupportedConstruct(where loc.SourceLocation, construct string) *Diagnostic {
	return &Diagnostic{
		Level:    Warning,
		Code:     CodeUnsupportedConstruct,
		Message:  fmt.Sprintf("unsupported construct: %s", construct),
		Location: where,
	}
}

// InternalInvariantViolated wraps a broken analyzer invariant with a
// Cause created via github.com/pkg/errors, which records the stack
// trace of the call site; the CLI prints only Error(), not that trace.
func InternalInvariantViolated(where loc.SourceLocation, message string) *Diagnostic {
	return &Diagnostic{
		Level:    Error,
		Code:     CodeInternalInvariantViolated,
		Message:  message,
		Location: where,
		Cause:    pkgerrors.New(message),
	}
}
