// SPDX-License-Identifier: Apache-2.0

// Package ir holds the intermediate representation the pipeline builds
// and refines: basic blocks with access sets and SSA state (spec §3),
// function- and contract-level aggregates, and findings. The IR is
// created per analysis run and discarded once the detector engine has
// consumed it — nothing here is persisted (spec §3 "Lifecycle").
package ir

import (
	"fmt"
	"strings"

	"solan/internal/callclass"
	"solan/internal/classify"
)

// TerminatorKind is the closed set of basic block terminator shapes
// (spec §3).
type TerminatorKind string

const (
	TermNone   TerminatorKind = ""
	TermGoto   TerminatorKind = "goto"
	TermIf     TerminatorKind = "if"
	TermReturn TerminatorKind = "return"
	TermRevert TerminatorKind = "revert"
)

// Terminator is a basic block's single exit: an unconditional jump, a
// conditional branch, or a function exit.
type Terminator struct {
	Kind   TerminatorKind
	Cond   string // versioned condition text, set when Kind == TermIf
	Then   string // target block id, set when Kind == TermIf
	Else   string // target block id, set when Kind == TermIf
	Target string // target block id, set when Kind == TermGoto
	Expr   string // versioned return/revert expression text, optional
}

func (t Terminator) String() string {
	switch t.Kind {
	case TermGoto:
		return "goto " + t.Target
	case TermIf:
		return fmt.Sprintf("if (%s) then goto %s else goto %s", t.Cond, t.Then, t.Else)
	case TermReturn:
		if t.Expr == "" {
			return "return"
		}
		return "return " + t.Expr
	case TermRevert:
		if t.Expr == "" {
			return "revert"
		}
		return "revert " + t.Expr
	default:
		return ""
	}
}

// Successors lists the block ids this terminator can transfer control
// to, in source order (then-branch before else-branch).
func (t Terminator) Successors() []string {
	switch t.Kind {
	case TermGoto:
		return []string{t.Target}
	case TermIf:
		return []string{t.Then, t.Else}
	default:
		return nil
	}
}

// IsSet reports whether a terminator has been assigned at all.
func (t Terminator) IsSet() bool {
	return t.Kind != TermNone
}

// BasicBlock is a maximal straight-line run of statements ending in one
// terminator, annotated with the access and SSA state the later stages
// compute over it (spec §3).
type BasicBlock struct {
	ID         string
	Statements []classify.Stmt

	// Accesses: the set of (possibly structured) variable names read or
	// written anywhere in this block (spec §4.4).
	Reads  map[string]bool
	Writes map[string]bool

	// SSA state (spec §4.5): the version seen at block entry for each
	// read, and the version assigned by the last write in this block.
	ReadVersions  map[string]int
	WriteVersions map[string]int

	// SSAStatements is the ordered, textual SSA rendering of this
	// block's statements (spec §4.5, §9 "string-based SSA").
	SSAStatements []string

	Terminator Terminator

	IsLoopInit      bool
	IsLoopHeader    bool
	IsLoopBody      bool
	IsLoopIncrement bool
	IsLoopExit      bool

	HasExternalCallEffects bool
	ExternalCallKinds      []callclass.Kind
}

// NewBlock allocates an empty block with initialized access/version maps.
func NewBlock(id string) *BasicBlock {
	return &BasicBlock{
		ID:            id,
		Reads:         make(map[string]bool),
		Writes:        make(map[string]bool),
		ReadVersions:  make(map[string]int),
		WriteVersions: make(map[string]int),
	}
}

// AddRead records a read access, including the filtering described in
// spec §4.4 (call-shaped pseudo-names are never real variables).
func (b *BasicBlock) AddRead(name string) {
	if !isRealVariableName(name) {
		return
	}
	b.Reads[name] = true
}

// AddWrite records a write access with the same filtering as AddRead.
func (b *BasicBlock) AddWrite(name string) {
	if !isRealVariableName(name) {
		return
	}
	b.Writes[name] = true
}

// MarkExternalCall records that this block contains an SSA call
// statement of the given external-flavor kind, used by the Loop-Call
// Analyzer (§4.7) and the reentrancy detector (§4.11.1).
func (b *BasicBlock) MarkExternalCall(kind callclass.Kind) {
	b.HasExternalCallEffects = true
	for _, k := range b.ExternalCallKinds {
		if k == kind {
			return
		}
	}
	b.ExternalCallKinds = append(b.ExternalCallKinds, kind)
}

func isRealVariableName(name string) bool {
	if name == "" {
		return false
	}
	for _, bad := range []string{"call[", "call(", ")"} {
		if strings.Contains(name, bad) {
			return false
		}
	}
	return true
}
