// SPDX-License-Identifier: Apache-2.0

// Package loopcall implements the Loop-Call Analyzer (spec §4.7): for
// every loop header whose body contains an external-kind call, it
// conservatively unions every state-variable name into the header's
// writes set so the φ-Function Inserter generates phi-nodes covering
// everything a re-entrant call inside the loop could have mutated.
package loopcall

import (
	"solan/internal/callclass"
	"solan/internal/ir"
)

// Analyze mutates fn's loop header blocks in place. stateVars is the
// contract's declared state-variable name set.
func Analyze(fn *ir.FunctionIR, stateVars []string) {
	for _, header := range fn.Blocks {
		if !header.IsLoopHeader {
			continue
		}
		if loopHasExternalCall(fn, header) {
			for _, name := range stateVars {
				header.Writes[name] = true
				// Give the over-approximation a version past anything
				// already assigned to name in this function. phi.Insert
				// treats a header's own WriteVersions entry as an extra
				// incoming version, which forces a phi at the header even
				// though none of its real predecessors (the increment
				// block, not the body that actually writes the variable)
				// carry a distinct version for it.
				header.WriteVersions[name] = maxVersion(fn, name) + 1
			}
			// The header itself doesn't issue the call; record the kinds
			// observed in the body so callers can explain the finding.
			for _, kind := range bodyExternalKinds(fn, header) {
				header.MarkExternalCall(kind)
			}
		}
	}
}

// maxVersion scans every block for the highest version assigned to name
// anywhere in the function, so the over-approximation's synthetic
// version never collides with a version a real write produced.
func maxVersion(fn *ir.FunctionIR, name string) int {
	highest := 0
	for _, blk := range fn.Blocks {
		if v, ok := blk.WriteVersions[name]; ok && v > highest {
			highest = v
		}
		if v, ok := blk.ReadVersions[name]; ok && v > highest {
			highest = v
		}
	}
	return highest
}

// loopHasExternalCall scans every block reachable from the header's
// body successor without crossing back into the header (the loop's
// back-edge target), per spec §4.7.
func loopHasExternalCall(fn *ir.FunctionIR, header *ir.BasicBlock) bool {
	return len(bodyExternalKinds(fn, header)) > 0
}

func bodyExternalKinds(fn *ir.FunctionIR, header *ir.BasicBlock) []callclass.Kind {
	var found []callclass.Kind
	visited := map[string]bool{header.ID: true}
	var body string
	if header.Terminator.Kind == ir.TermIf {
		body = header.Terminator.Then
	}
	if body == "" {
		return nil
	}

	stack := []string{body}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true

		blk := fn.BlockByID(id)
		if blk == nil {
			continue
		}
		if blk.HasExternalCallEffects {
			found = append(found, blk.ExternalCallKinds...)
		}
		for _, succ := range blk.Terminator.Successors() {
			if succ == header.ID || visited[succ] {
				continue
			}
			stack = append(stack, succ)
		}
	}
	return found
}
