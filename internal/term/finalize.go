// SPDX-License-Identifier: Apache-2.0

// Package term implements the Terminator Finalizer (spec §4.10): a
// single pass that leaves already-terminated blocks untouched and
// gives every remaining block a fallthrough goto to the next block, or
// return when it is the last block. Return and revert terminators are
// set earlier, by the CFG builder and the SSA versioner.
package term

import "solan/internal/ir"

// Finalize mutates fn's blocks in place so every block ends in exactly
// one of goto/if/return/revert.
func Finalize(fn *ir.FunctionIR) {
	last := len(fn.Blocks) - 1
	for i, blk := range fn.Blocks {
		if blk.Terminator.IsSet() {
			continue
		}

		if i == last {
			blk.Terminator = ir.Terminator{Kind: ir.TermReturn}
			continue
		}

		next := fn.Blocks[i+1].ID
		blk.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: next}
	}
}
