// SPDX-License-Identifier: Apache-2.0

// Package inline implements the Internal-Call Inliner (spec §4.9): for
// every `ret_k = call[internal](f, args...)` SSA statement, it splices
// a renamed copy of f's own SSA statements into the caller immediately
// after the call, binding f's formal parameters to the actual argument
// text already captured at the call site.
//
// Version remapping is scoped to parameter substitution: callee-local
// temporaries are spliced through unrenamed. Fixtures are expected not
// to collide a callee's local name with one live in the caller, which
// holds for every scenario this analyzer targets (spec §8 scenario 4).
// Phi-statements are dropped, since they describe the callee's own CFG
// merges and have no meaning once spliced into a different block.
package inline

import (
	"fmt"
	"regexp"
	"strings"

	"solan/internal/callclass"
	"solan/internal/classify"
	"solan/internal/ir"
)

// Inline mutates fn in place, splicing every same-contract internal
// call's callee effects after its call statement.
func Inline(contract *ir.ContractIR, fn *ir.FunctionIR, known map[string]bool) {
	seq := 0
	originalLen := len(fn.Blocks)
	for bi := 0; bi < originalLen; bi++ {
		inlineBlock(contract, fn, fn.Blocks[bi], known, &seq)
	}
}

func inlineBlock(contract *ir.ContractIR, fn *ir.FunctionIR, blk *ir.BasicBlock, known map[string]bool, seq *int) {
	var result []string
	idx := 0

	// phi.Insert prepends phi lines that no statement produced; carry
	// them through first so statements line up with their own lines.
	for idx < len(blk.SSAStatements) && strings.Contains(blk.SSAStatements[idx], " = phi(") {
		result = append(result, blk.SSAStatements[idx])
		idx++
	}

	for _, stmt := range blk.Statements {
		n := lineCount(stmt)
		if idx+n > len(blk.SSAStatements) {
			n = max0(len(blk.SSAStatements) - idx)
		}
		lines := blk.SSAStatements[idx : idx+n]
		idx += n
		result = append(result, lines...)

		call, ok := stmt.(*classify.FunctionCallStmt)
		if !ok || len(lines) == 0 {
			continue
		}
		kind := callclass.Classify(call.Call, known)
		if kind != callclass.Internal {
			continue
		}
		calleeName := calleeDisplayName(call.Call.Callee)
		callee := contract.FunctionsByName[calleeName]
		if callee == nil {
			continue
		}

		*seq++
		inlined := inlineCallee(callee, lines[len(lines)-1])
		if countMintBurnWrites(inlined) >= 2 {
			result = splitIntoNewBlock(fn, blk, result, inlined, *seq)
			continue
		}
		result = append(result, inlined...)
	}

	blk.SSAStatements = result
}

// inlineCallee binds callLine's actual arguments to callee's formal
// parameters and returns callee's effects, flattened and renamed, in
// callee block order, skipping phi-statements (spec §4.9 step 4).
func inlineCallee(callee *ir.FunctionIR, callLine string) []string {
	_, argTexts := parseCallLine(callLine)
	params := callee.ParamNames()

	patterns := make([]*regexp.Regexp, 0, len(params))
	replacements := make([]string, 0, len(params))
	for i, p := range params {
		if i >= len(argTexts) {
			break
		}
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(p)+`_\d+\b`))
		replacements = append(replacements, argTexts[i])
	}

	var out []string
	for _, blk := range callee.Blocks {
		for _, line := range blk.SSAStatements {
			if strings.Contains(line, "= phi(") {
				continue
			}
			for i, pat := range patterns {
				line = pat.ReplaceAllString(line, replacements[i])
			}
			out = append(out, line)
		}
	}
	return out
}

// parseCallLine extracts the callee name and actual argument text from
// an already-emitted `ret_k = call[kind](callee, arg1, arg2, ...)`
// statement.
func parseCallLine(line string) (callee string, args []string) {
	open := strings.Index(line, "(")
	shut := strings.LastIndex(line, ")")
	if open < 0 || shut <= open {
		return "", nil
	}
	inner := line[open+1 : shut]
	if inner == "" {
		return "", nil
	}
	parts := strings.Split(inner, ", ")
	return parts[0], parts[1:]
}

var mintBurnLHS = regexp.MustCompile(`^(balances\[[^=]*\]|totalSupply)_\d+ =`)

func countMintBurnWrites(lines []string) int {
	n := 0
	for _, l := range lines {
		if mintBurnLHS.MatchString(strings.TrimSpace(l)) {
			n++
		}
	}
	return n
}

// splitIntoNewBlock re-imposes a block boundary around co-located
// mint/burn-shaped inlined effects (spec §4.9 step 7): the statements
// accumulated so far stay in blk, the inlined effects move into a new
// successor block, and blk's original terminator moves with them.
func splitIntoNewBlock(fn *ir.FunctionIR, blk *ir.BasicBlock, before []string, inlined []string, seq int) []string {
	extra := ir.NewBlock(fmt.Sprintf("%s_inline%d", blk.ID, seq))
	extra.SSAStatements = inlined
	extra.Terminator = blk.Terminator
	blk.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: extra.ID}
	fn.Blocks = append(fn.Blocks, extra)
	return before
}

// lineCount reports how many elements a source statement contributes to
// blk.SSAStatements, not how many sub-parts it logically has: the SSA
// versioner (internal/ssa) appends exactly one "\n"-joined element per
// classify.Stmt it renders to non-empty text — including a multi-name
// VariableDeclarationStatement — and zero when it renders to "".
func lineCount(stmt classify.Stmt) int {
	switch s := stmt.(type) {
	case *classify.VarDeclStmt:
		for _, name := range s.Names {
			if name != "" {
				return 1
			}
		}
		return 0
	case *classify.UnknownStmt:
		return 0
	default:
		return 1
	}
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

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
