// SPDX-License-Identifier: Apache-2.0

// Package access implements the Access Tracker (spec §4.4): for each
// basic block, it records the set of (possibly structured) variable
// names read or written by that block's statements.
package access

import "solan/internal/classify"

// BlockAccesses is the minimal surface this package needs from a basic
// block, satisfied by *ir.BasicBlock without importing the ir package
// (which itself depends on classify and callclass, not on access).
type BlockAccesses interface {
	AddRead(name string)
	AddWrite(name string)
}

// Track walks a block's statement list and records every read and
// write access it finds, per the rules enumerated in spec §4.4. Only
// the statement itself is walked — nested bodies (an IfStmt's True/
// False arms, a loop's Body) live in other blocks by the time the
// CFG refiner is done, and are tracked when those blocks are visited.
func Track(block BlockAccesses, statements []classify.Stmt) {
	for _, stmt := range statements {
		trackStatement(block, stmt)
	}
}

func trackStatement(block BlockAccesses, stmt classify.Stmt) {
	switch s := stmt.(type) {
	case *classify.AssignmentStmt:
		targets := classify.Levels(s.Assign.Target)
		for _, t := range targets {
			block.AddWrite(t)
		}
		for _, r := range classify.CollectReads(s.Assign.Value) {
			block.AddRead(r)
		}
		if s.Assign.Op != "=" {
			// Compound assignment: both sides are reads (spec §4.4).
			for _, t := range targets {
				block.AddRead(t)
			}
		}

	case *classify.FunctionCallStmt:
		for _, r := range classify.CollectReads(s.Call.Callee) {
			block.AddRead(r)
		}
		for _, a := range s.Call.Args {
			for _, r := range classify.CollectReads(a) {
				block.AddRead(r)
			}
		}

	case *classify.EmitStmt:
		for _, a := range s.Args {
			for _, r := range classify.CollectReads(a) {
				block.AddRead(r)
			}
		}

	case *classify.IfStmt:
		for _, r := range classify.CollectReads(s.Cond) {
			block.AddRead(r)
		}

	case *classify.ReturnStmt:
		if s.Value != nil {
			for _, r := range classify.CollectReads(s.Value) {
				block.AddRead(r)
			}
		}

	case *classify.VarDeclStmt:
		for _, n := range s.Names {
			if n != "" {
				block.AddWrite(n)
			}
		}
		if s.Init != nil {
			for _, r := range classify.CollectReads(s.Init) {
				block.AddRead(r)
			}
		}

	case *classify.ForStmt:
		// Only the header's condition is tracked here; Init/Post/Body
		// are separate blocks by the time this runs (spec §4.3).
		if s.Cond != nil {
			for _, r := range classify.CollectReads(s.Cond) {
				block.AddRead(r)
			}
		}

	case *classify.WhileStmt:
		if s.Cond != nil {
			for _, r := range classify.CollectReads(s.Cond) {
				block.AddRead(r)
			}
		}

	case *classify.RevertStmt:
		for _, a := range s.Args {
			for _, r := range classify.CollectReads(a) {
				block.AddRead(r)
			}
		}

	case *classify.BlockStmt:
		Track(block, s.Body)

	case *classify.ExpressionStmt:
		if u, ok := s.Expr.(classify.Unary); ok && u.IsIncDec() {
			targets := classify.Levels(u.Operand)
			for _, t := range targets {
				block.AddWrite(t)
				block.AddRead(t)
			}
			return
		}
		for _, r := range classify.CollectReads(s.Expr) {
			block.AddRead(r)
		}

	case *classify.UnknownStmt:
		// Unsupported constructs contribute no accesses.
	}
}
