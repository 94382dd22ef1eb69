// SPDX-License-Identifier: Apache-2.0

// Package callclass implements the Call Classifier (spec §4.6): given a
// call expression's callee shape and the same-contract function
// registry, it decides whether a call is internal, external, a
// low-level external primitive, a delegatecall, or a staticcall.
package callclass

import "solan/internal/classify"

// Kind is the closed call-kind set from spec §3, excluding Revert —
// revert/require/assert are classified as classify.RevertStmt before
// this package ever sees them (spec §4.6), so they never appear here.
type Kind string

const (
	Internal         Kind = "internal"
	External         Kind = "external"
	LowLevelExternal Kind = "low_level_external"
	Delegatecall     Kind = "delegatecall"
	Staticcall       Kind = "staticcall"
)

// IsExternalFlavor reports whether calls of this kind arm the
// reentrancy detector (spec GLOSSARY: "External-kind call").
func (k Kind) IsExternalFlavor() bool {
	switch k {
	case External, LowLevelExternal, Delegatecall, Staticcall:
		return true
	default:
		return false
	}
}

var lowLevelMembers = map[string]Kind{
	"call":         LowLevelExternal,
	"send":         LowLevelExternal,
	"transfer":     LowLevelExternal,
	"delegatecall": Delegatecall,
	"staticcall":   Staticcall,
}

// Classify decides the Kind of a call expression. knownFunctions is the
// same-contract function registry (by name) built from the ingested
// Contract; an identifier callee found there is internal, otherwise
// external (spec's table, conservative on the unknown-identifier row).
func Classify(call classify.Call, knownFunctions map[string]bool) Kind {
	switch callee := call.Callee.(type) {
	case classify.Ident:
		if knownFunctions[callee.Name] {
			return Internal
		}
		return External
	case classify.Member:
		if kind, ok := lowLevelMembers[callee.Name]; ok {
			return kind
		}
		// Member access on anything else — including the interface-cast
		// shape `IA(a).hello()`, where callee.Base is itself a Call — is
		// conservatively external (spec's table, last two rows). This
		// analyzer performs no type checking (non-goal), so a contract-
		// typed base and an unrelated member access are indistinguishable
		// and both resolve the same, safe way.
		return External
	default:
		return External
	}
}
