// SPDX-License-Identifier: Apache-2.0

// Package phi implements the φ-Function Inserter (spec §4.8): it builds
// a predecessor map from block terminators, finds merge blocks and loop
// headers, and emits phi pseudo-statements for every variable written
// on more than one incoming edge, rewriting downstream SSA uses in the
// block that received the phi.
package phi

import (
	"fmt"
	"sort"
	"strings"

	"solan/internal/ir"
)

// Insert mutates fn's blocks in place, prepending phi statements where
// required and rewriting the stale version references they replace.
func Insert(fn *ir.FunctionIR) {
	preds := predecessors(fn)
	backEdgeTargets := backEdges(fn)

	for _, blk := range fn.Blocks {
		incoming := preds[blk.ID]
		isMerge := len(incoming) >= 2
		isHeader := blk.IsLoopHeader || backEdgeTargets[blk.ID]
		if !isMerge && !isHeader {
			continue
		}

		candidates := phiCandidates(fn, blk, incoming)
		if len(candidates) == 0 {
			continue
		}

		for _, name := range candidates {
			versions := incomingVersions(fn, name, incoming)
			// A loop header's own WriteVersions entry for a candidate is
			// never a real write (spec §4.5: header blocks hold only a
			// condition) except when the loop-call analyzer's
			// over-approximation (spec §4.7) planted one; treat it as an
			// extra incoming version so that over-approximation actually
			// forces a phi instead of being silently absorbed by
			// incomingVersions' entry-version fallback. A merge block's
			// own entry comes from its own statements and is not an
			// incoming version.
			if v, ok := blk.WriteVersions[name]; ok && blk.IsLoopHeader {
				versions = append(versions, v)
			}
			if len(versions) == 0 {
				continue
			}
			if len(distinct(versions)) <= 1 {
				continue
			}
			newVersion := maxInt(versions) + 1
			rewriteUses(blk, name, versions, newVersion)

			args := make([]string, 0, len(versions))
			for _, ver := range versions {
				args = append(args, fmt.Sprintf("%s_%d", name, ver))
			}
			stmt := fmt.Sprintf("%s_%d = phi(%s)", name, newVersion, strings.Join(args, ", "))
			blk.SSAStatements = append([]string{stmt}, blk.SSAStatements...)
			blk.WriteVersions[name] = newVersion
		}
	}
}

// phiCandidates is every variable written in some predecessor, plus
// anything the loop-call analyzer (§4.7) unioned into this block's own
// writes set.
func phiCandidates(fn *ir.FunctionIR, blk *ir.BasicBlock, incoming []string) []string {
	seen := map[string]bool{}
	for _, p := range incoming {
		pred := fn.BlockByID(p)
		if pred == nil {
			continue
		}
		for name := range pred.WriteVersions {
			seen[name] = true
		}
	}
	for name := range blk.Writes {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// incomingVersions resolves, per predecessor, the version of name that
// flows out of it: its own last write if it wrote name, else the
// version it saw on entry (its read version), per spec §4.8 step 4.
func incomingVersions(fn *ir.FunctionIR, name string, incoming []string) []int {
	var versions []int
	for _, id := range incoming {
		pred := fn.BlockByID(id)
		if pred == nil {
			continue
		}
		if v, ok := pred.WriteVersions[name]; ok {
			versions = append(versions, v)
			continue
		}
		if v, ok := pred.ReadVersions[name]; ok {
			versions = append(versions, v)
			continue
		}
		versions = append(versions, 0)
	}
	return versions
}

// rewriteUses rewrites every occurrence of name_<stale> for stale in
// versions (excluding newVersion) to name_<newVersion> within blk's own
// SSA statement text, so downstream reads observe the merged value.
func rewriteUses(blk *ir.BasicBlock, name string, versions []int, newVersion int) {
	for _, stale := range distinct(versions) {
		if stale == newVersion {
			continue
		}
		old := fmt.Sprintf("%s_%d", name, stale)
		replacement := fmt.Sprintf("%s_%d", name, newVersion)
		for i, line := range blk.SSAStatements {
			blk.SSAStatements[i] = strings.ReplaceAll(line, old, replacement)
		}
		if blk.Terminator.Cond != "" {
			blk.Terminator.Cond = strings.ReplaceAll(blk.Terminator.Cond, old, replacement)
		}
		if blk.Terminator.Expr != "" {
			blk.Terminator.Expr = strings.ReplaceAll(blk.Terminator.Expr, old, replacement)
		}
	}
	if v, ok := blk.ReadVersions[name]; ok && contains(versions, v) {
		blk.ReadVersions[name] = newVersion
	}
}

// predecessors builds the reverse edge map from every block's
// terminator, falling through to the next block in the list when a
// terminator hasn't been finalized yet (spec §4.8 step 1).
func predecessors(fn *ir.FunctionIR) map[string][]string {
	preds := make(map[string][]string)
	for i, blk := range fn.Blocks {
		switch blk.Terminator.Kind {
		case ir.TermGoto:
			preds[blk.Terminator.Target] = append(preds[blk.Terminator.Target], blk.ID)
		case ir.TermIf:
			preds[blk.Terminator.Then] = append(preds[blk.Terminator.Then], blk.ID)
			preds[blk.Terminator.Else] = append(preds[blk.Terminator.Else], blk.ID)
		case ir.TermReturn, ir.TermRevert:
			// No successors.
		default:
			if i+1 < len(fn.Blocks) {
				next := fn.Blocks[i+1].ID
				preds[next] = append(preds[next], blk.ID)
			}
		}
	}
	return preds
}

// backEdges reports, per block id, whether it is the target of a goto
// from a later-indexed block (spec §4.8 step 2).
func backEdges(fn *ir.FunctionIR) map[string]bool {
	index := make(map[string]int, len(fn.Blocks))
	for i, blk := range fn.Blocks {
		index[blk.ID] = i
	}
	targets := make(map[string]bool)
	for i, blk := range fn.Blocks {
		for _, succ := range blk.Terminator.Successors() {
			if j, ok := index[succ]; ok && j < i {
				targets[succ] = true
			}
		}
	}
	return targets
}

func distinct(xs []int) []int {
	seen := map[int]bool{}
	var out []int
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	sort.Ints(out)
	return out
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func maxInt(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
