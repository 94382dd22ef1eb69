// SPDX-License-Identifier: Apache-2.0

package ir

import (
	"solan/internal/callclass"
	solerrors "solan/internal/errors"
	"solan/internal/loc"
	"solan/internal/solast"
)

// OutgoingCall is one entry in a function's consolidated outgoing-call
// list (spec §3): the callee name, its classified kind, and a location
// pointing at the callee's *definition* when known (internal calls),
// falling back to the call site otherwise.
type OutgoingCall struct {
	Callee string
	Kind   callclass.Kind
	Loc    loc.SourceLocation
}

// FunctionIR is the per-function build artifact threaded through every
// pipeline stage from CFG construction through detection (spec §3).
type FunctionIR struct {
	Name       string
	Visibility solast.Visibility
	Params     []solast.Param
	Loc        loc.SourceLocation

	Blocks []*BasicBlock
	Calls  []OutgoingCall

	// Diagnostics accumulates per-function errors (spec §7): a
	// non-fatal one (UnsupportedConstruct) just narrows what got
	// analyzed, a fatal one (InputMalformed, InternalInvariantViolated)
	// means the detector engine treats this function as having no
	// findings at all.
	Diagnostics []*solerrors.Diagnostic
}

// IsEntrypoint reports whether this function is externally callable.
func (f *FunctionIR) IsEntrypoint() bool {
	return f.Visibility.IsEntrypoint()
}

// BlockByID looks up a block by id, or nil if absent.
func (f *FunctionIR) BlockByID(id string) *BasicBlock {
	for _, b := range f.Blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// IndexOf returns a block's position in the linearized block list, or
// -1 if it isn't one of this function's blocks.
func (f *FunctionIR) IndexOf(id string) int {
	for i, b := range f.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// HasFatalError reports whether any attached diagnostic is fatal to
// this function's contribution to the findings list (spec §7).
func (f *FunctionIR) HasFatalError() bool {
	for _, d := range f.Diagnostics {
		if d.Code.FatalToContract() {
			return true
		}
	}
	return false
}

// ParamNames returns the bare formal parameter names, in declaration
// order, used by the inliner's parameter binding (spec §4.9).
func (f *FunctionIR) ParamNames() []string {
	names := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		names = append(names, p.Name)
	}
	return names
}

// ContractIR aggregates every function built for one contract, plus the
// originating metadata the detector engine needs (state variable
// names for the reentrancy check).
type ContractIR struct {
	Contract        *solast.Contract
	Functions       []*FunctionIR
	FunctionsByName map[string]*FunctionIR

	// Diagnostics holds contract-level errors (spec §7): an
	// InputMalformed here aborts analysis of this contract only.
	Diagnostics []*solerrors.Diagnostic
}

// Entrypoints returns this contract's externally callable functions.
func (c *ContractIR) Entrypoints() []*FunctionIR {
	var out []*FunctionIR
	for _, fn := range c.Functions {
		if fn.IsEntrypoint() {
			out = append(out, fn)
		}
	}
	return out
}

// HasFatalError reports whether the contract itself failed to ingest.
func (c *ContractIR) HasFatalError() bool {
	for _, d := range c.Diagnostics {
		if d.Code.FatalToContract() {
			return true
		}
	}
	return false
}
