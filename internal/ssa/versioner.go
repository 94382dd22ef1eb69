// SPDX-License-Identifier: Apache-2.0

// Package ssa implements the SSA Versioner (spec §4.5): it walks a
// function's basic blocks in construction order, assigns monotonically
// increasing versions to every write, threads the "current" version
// through reads, and emits the textual SSA statement for each source
// statement. Call classification (spec §4.6) happens inline here too,
// since a call's SSA rendering embeds its kind.
package ssa

import (
	"fmt"
	"sort"
	"strings"

	"solan/internal/callclass"
	"solan/internal/classify"
	"solan/internal/ir"
	"solan/internal/loc"
)

// compoundWitnessOrder is the parameter-like name preference list spec
// §4.5 uses to pick a stable, minimal RHS witness for compound
// assignments instead of re-rendering the whole (often over-
// approximated) read set.
var compoundWitnessOrder = []string{"amount", "value", "recipient", "spender", "sender", "from", "to"}

type versioner struct {
	counters map[string]int
	known    map[string]bool
}

func (v *versioner) cur(name string) int { return v.counters[name] }

func (v *versioner) bump(name string) int {
	v.counters[name]++
	return v.counters[name]
}

// Build assigns SSA versions and emits textual SSA statements for every
// block of fn, in construction order. known is the same-contract
// function name registry used for call classification (spec §4.6).
func Build(fn *ir.FunctionIR, known map[string]bool) {
	v := &versioner{counters: make(map[string]int), known: known}
	for _, blk := range fn.Blocks {
		v.buildBlock(fn, blk)
	}
}

func (v *versioner) buildBlock(fn *ir.FunctionIR, blk *ir.BasicBlock) {
	for _, name := range sortedKeys(blk.Reads) {
		if _, ok := blk.ReadVersions[name]; !ok {
			blk.ReadVersions[name] = v.cur(name)
		}
	}

	for _, stmt := range blk.Statements {
		if text := v.emitStmt(fn, blk, stmt); text != "" {
			blk.SSAStatements = append(blk.SSAStatements, text)
		}
	}

	for name := range blk.Writes {
		if _, ok := blk.WriteVersions[name]; !ok {
			blk.WriteVersions[name] = v.cur(name)
		}
	}
}

func (v *versioner) emitStmt(fn *ir.FunctionIR, blk *ir.BasicBlock, stmt classify.Stmt) string {
	switch s := stmt.(type) {
	case *classify.AssignmentStmt:
		return v.emitAssignment(fn, blk, s)

	case *classify.FunctionCallStmt:
		text, _ := v.emitCall(fn, blk, s.Call, s.At)
		return text

	case *classify.EmitStmt:
		args := make([]string, 0, len(s.Args))
		for _, a := range s.Args {
			args = append(args, v.renderExpr(a))
		}
		return fmt.Sprintf("emit %s(%s)", s.Event, strings.Join(args, ", "))

	case *classify.IfStmt:
		cond := v.renderExpr(s.Cond)
		blk.Terminator.Cond = cond
		return fmt.Sprintf("if (%s)", cond)

	case *classify.ForStmt:
		cond := ""
		if s.Cond != nil {
			cond = v.renderExpr(s.Cond)
		}
		blk.Terminator.Cond = cond
		return fmt.Sprintf("if (%s)", cond)

	case *classify.WhileStmt:
		cond := v.renderExpr(s.Cond)
		blk.Terminator.Cond = cond
		return fmt.Sprintf("if (%s)", cond)

	case *classify.ReturnStmt:
		if s.Value == nil {
			blk.Terminator = ir.Terminator{Kind: ir.TermReturn}
			return "return"
		}
		rendered := v.renderValue(fn, blk, s.Value, s.At)
		blk.Terminator = ir.Terminator{Kind: ir.TermReturn, Expr: rendered}
		return "return " + rendered

	case *classify.VarDeclStmt:
		return v.emitVarDecl(fn, blk, s)

	case *classify.RevertStmt:
		blk.Terminator = ir.Terminator{Kind: ir.TermRevert, Expr: s.Message}
		if s.Message == "" {
			return "revert"
		}
		return fmt.Sprintf("revert %q", s.Message)

	case *classify.BlockStmt:
		var lines []string
		for _, inner := range s.Body {
			if t := v.emitStmt(fn, blk, inner); t != "" {
				lines = append(lines, t)
			}
		}
		return strings.Join(lines, "\n")

	case *classify.ExpressionStmt:
		if u, ok := s.Expr.(classify.Unary); ok && u.IsIncDec() {
			levels := classify.Levels(u.Operand)
			if len(levels) == 0 {
				return ""
			}
			full := levels[len(levels)-1]
			old := v.cur(full)
			var newVersion int
			for _, lvl := range levels {
				newVersion = v.bump(lvl)
			}
			op := "+"
			if u.Op == "--" {
				op = "-"
			}
			return fmt.Sprintf("%s_%d = %s_%d %s 1", full, newVersion, full, old, op)
		}
		return v.renderExpr(s.Expr)

	case *classify.UnknownStmt:
		return ""

	default:
		return ""
	}
}

func (v *versioner) emitAssignment(fn *ir.FunctionIR, blk *ir.BasicBlock, s *classify.AssignmentStmt) string {
	levels := classify.Levels(s.Assign.Target)
	if len(levels) == 0 {
		levels = []string{s.Assign.Target.String()}
	}
	full := levels[len(levels)-1]

	if s.Assign.Op == "=" {
		rendered := v.renderValue(fn, blk, s.Assign.Value, s.At)
		var newVersion int
		for _, lvl := range levels {
			newVersion = v.bump(lvl)
			blk.WriteVersions[lvl] = newVersion
		}
		return fmt.Sprintf("%s_%d = %s", full, newVersion, rendered)
	}

	old := v.cur(full)
	witness := v.compoundWitness(s.Assign.Value)
	var newVersion int
	for _, lvl := range levels {
		newVersion = v.bump(lvl)
		blk.WriteVersions[lvl] = newVersion
	}
	op := strings.TrimSuffix(s.Assign.Op, "=")
	return fmt.Sprintf("%s_%d = %s_%d %s %s", full, newVersion, full, old, op, witness)
}

func (v *versioner) emitVarDecl(fn *ir.FunctionIR, blk *ir.BasicBlock, s *classify.VarDeclStmt) string {
	var lines []string
	rendered := "0"
	if s.Init != nil {
		rendered = v.renderValue(fn, blk, s.Init, s.At)
	}
	for _, name := range s.Names {
		if name == "" {
			continue
		}
		newVersion := v.bump(name)
		blk.WriteVersions[name] = newVersion
		lines = append(lines, fmt.Sprintf("%s_%d = %s", name, newVersion, rendered))
	}
	return strings.Join(lines, "\n")
}

// renderValue renders an expression used as an assigned-to value,
// special-casing a bare call so its classification, ret-version
// assignment, and external-call marking happen uniformly whether the
// call is a standalone statement or the RHS of an assignment/
// declaration (e.g. `uint256 bal = token.balanceOf(a)`).
func (v *versioner) renderValue(fn *ir.FunctionIR, blk *ir.BasicBlock, e classify.Expr, at loc.SourceLocation) string {
	if call, ok := e.(classify.Call); ok {
		text, _ := v.emitCall(fn, blk, call, at)
		return text
	}
	return v.renderExpr(e)
}

func (v *versioner) emitCall(fn *ir.FunctionIR, blk *ir.BasicBlock, call classify.Call, at loc.SourceLocation) (string, callclass.Kind) {
	kind := callclass.Classify(call, v.known)
	args := make([]string, 0, len(call.Args))
	for _, a := range call.Args {
		args = append(args, v.renderExpr(a))
	}
	k := v.bump("ret")
	blk.WriteVersions["ret"] = k

	calleeName := calleeDisplayName(call.Callee)
	callText := fmt.Sprintf("ret_%d = call[%s](%s)", k, kind, strings.Join(append([]string{calleeName}, args...), ", "))

	if kind.IsExternalFlavor() {
		blk.MarkExternalCall(kind)
	}

	// Internal calls get their Loc rewritten to the callee's definition
	// site once the whole contract's functions are known (spec §4.9);
	// the pipeline stage does that rewrite after every function builds.
	fn.Calls = append(fn.Calls, ir.OutgoingCall{Callee: calleeName, Kind: kind, Loc: at})

	return callText, kind
}

func calleeDisplayName(e classify.Expr) string {
	switch c := e.(type) {
	case classify.Ident:
		return c.Name
	case classify.Member:
		return c.Name
	default:
		return e.String()
	}
}

func (v *versioner) compoundWitness(value classify.Expr) string {
	reads := classify.CollectReads(value)
	for _, want := range compoundWitnessOrder {
		for _, r := range reads {
			if r == want {
				return fmt.Sprintf("%s_%d", r, v.cur(r))
			}
		}
	}
	return v.renderExpr(value)
}

// renderExpr renders an expression with every variable reference
// annotated by its currently live SSA version (no bump), per spec
// §4.5's "RHS identifiers are annotated with their read versions".
func (v *versioner) renderExpr(e classify.Expr) string {
	switch t := e.(type) {
	case classify.Ident:
		return fmt.Sprintf("%s_%d", t.Name, v.cur(t.Name))
	case classify.Literal:
		return t.Text
	case classify.Member:
		return v.renderStructured(t)
	case classify.Index:
		return v.renderStructured(t)
	case classify.Binary:
		return fmt.Sprintf("%s %s %s", v.renderExpr(t.Left), t.Op, v.renderExpr(t.Right))
	case classify.Unary:
		operand := v.renderExpr(t.Operand)
		if t.Prefix {
			return t.Op + operand
		}
		return operand + t.Op
	case classify.Call:
		// A nested call outside statement/assignment position (e.g. inside
		// a condition) is rendered best-effort without ret-versioning; the
		// common call-as-statement and call-as-value shapes are handled by
		// emitCall/renderValue above.
		return t.String()
	case classify.Assign:
		return fmt.Sprintf("%s %s %s", v.renderExpr(t.Target), t.Op, v.renderExpr(t.Value))
	case classify.Opaque:
		return t.Text
	default:
		if e == nil {
			return ""
		}
		return e.String()
	}
}

func (v *versioner) renderStructured(e classify.Expr) string {
	levels := classify.Levels(e)
	if len(levels) == 0 {
		return e.String()
	}
	full := levels[len(levels)-1]
	return fmt.Sprintf("%s_%d", full, v.cur(full))
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
