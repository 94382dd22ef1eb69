// SPDX-License-Identifier: Apache-2.0

// Package errors implements the error taxonomy of the analysis pipeline
// and a Rust-style diagnostic reporter, carried over from the compiler
// front end this analyzer grew out of.
package errors

// Code identifies a diagnostic's place in the taxonomy. Unlike the
// compiler's E-numbered error codes, the analyzer's taxonomy is closed
// and small (see spec §7), so codes are named rather than numbered.
type Code string

const (
	// CodeInputMissing: the AST document or source file was unavailable.
	// Fatal; surfaced directly to the caller.
	CodeInputMissing Code = "INPUT_MISSING"

	// CodeInputMalformed: a node's shape didn't match the expected
	// surface. Fatal for the affected contract; other contracts continue.
	CodeInputMalformed Code = "INPUT_MALFORMED"

	// CodeUnsupportedConstruct: a statement kind outside the closed set
	// (inline assembly, try/catch, ...). Recorded as a warning; only the
	// offending statement is skipped (it becomes an UnknownStmt with no
	// accesses and no SSA text), and the rest of the function body is
	// still analyzed. The contract is not aborted.
	CodeUnsupportedConstruct Code = "UNSUPPORTED_CONSTRUCT"

	// CodeInternalInvariantViolated: an SSA/CFG invariant was broken by
	// the analyzer itself (e.g. a version referenced before definition).
	// Fatal; indicates a bug in the analyzer, not in the user's input.
	CodeInternalInvariantViolated Code = "INTERNAL_INVARIANT_VIOLATED"
)

// FatalToRun reports whether a diagnostic of this code always aborts the run
// (InternalInvariantViolated) as opposed to just the affected contract.
func (c Code) FatalToRun() bool {
	return c == CodeInternalInvariantViolated
}

// FatalToContract reports whether a diagnostic of this code aborts
// analysis of the contract it was raised against.
func (c Code) FatalToContract() bool {
	return c == CodeInputMalformed || c == CodeInternalInvariantViolated
}
