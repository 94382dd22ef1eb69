// SPDX-License-Identifier: Apache-2.0

package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solan/internal/classify"
	"solan/internal/ir"
)

func newFn(blocks ...*ir.BasicBlock) *ir.FunctionIR {
	return &ir.FunctionIR{Name: "f", Blocks: blocks}
}

func TestBuild_SimpleAssignmentVersionsOnEachWrite(t *testing.T) {
	blk := ir.NewBlock("b0")
	blk.Statements = []classify.Stmt{
		&classify.AssignmentStmt{Assign: classify.Assign{Op: "=", Target: classify.Ident{Name: "x"}, Value: classify.Literal{Text: "1"}}},
		&classify.AssignmentStmt{Assign: classify.Assign{Op: "=", Target: classify.Ident{Name: "x"}, Value: classify.Literal{Text: "2"}}},
	}
	blk.Writes["x"] = true
	fn := newFn(blk)

	Build(fn, map[string]bool{})

	require.Len(t, blk.SSAStatements, 2)
	assert.Equal(t, "x_1 = 1", blk.SSAStatements[0])
	assert.Equal(t, "x_2 = 2", blk.SSAStatements[1])
	assert.Equal(t, 2, blk.WriteVersions["x"])
}

func TestBuild_CompoundAssignmentReadsPriorVersion(t *testing.T) {
	blk := ir.NewBlock("b0")
	blk.Statements = []classify.Stmt{
		&classify.AssignmentStmt{Assign: classify.Assign{Op: "-=", Target: classify.Ident{Name: "balance"}, Value: classify.Ident{Name: "amount"}}},
	}
	blk.Reads["amount"] = true
	blk.Writes["balance"] = true
	fn := newFn(blk)

	Build(fn, map[string]bool{})

	require.Len(t, blk.SSAStatements, 1)
	assert.Equal(t, "balance_1 = balance_0 - amount_0", blk.SSAStatements[0])
}

func TestBuild_ExternalCallMarksBlockAndBumpsRet(t *testing.T) {
	blk := ir.NewBlock("b0")
	blk.Statements = []classify.Stmt{
		&classify.FunctionCallStmt{Call: classify.Call{
			Callee: classify.Member{Base: classify.Member{Base: classify.Ident{Name: "msg"}, Name: "sender"}, Name: "call"},
			Args:   []classify.Expr{classify.Literal{Text: `""`}},
		}},
	}
	fn := newFn(blk)

	Build(fn, map[string]bool{})

	require.Len(t, blk.SSAStatements, 1)
	assert.Contains(t, blk.SSAStatements[0], "call[low_level_external]")
	assert.True(t, blk.HasExternalCallEffects)
	require.Len(t, fn.Calls, 1)
	assert.Equal(t, "call", fn.Calls[0].Callee)
}

func TestBuild_InternalCallIsClassifiedFromKnownFunctions(t *testing.T) {
	blk := ir.NewBlock("b0")
	blk.Statements = []classify.Stmt{
		&classify.FunctionCallStmt{Call: classify.Call{Callee: classify.Ident{Name: "helper"}}},
	}
	fn := newFn(blk)

	Build(fn, map[string]bool{"helper": true})

	require.Len(t, fn.Calls, 1)
	assert.False(t, fn.Calls[0].Kind.IsExternalFlavor())
	assert.False(t, blk.HasExternalCallEffects)
}

func TestBuild_IncDecBumpsEveryCoarsenedLevel(t *testing.T) {
	blk := ir.NewBlock("b0")
	blk.Statements = []classify.Stmt{
		&classify.ExpressionStmt{Expr: classify.Unary{Op: "++", Operand: classify.Ident{Name: "count"}, Prefix: false}},
	}
	blk.Writes["count"] = true
	fn := newFn(blk)

	Build(fn, map[string]bool{})

	require.Len(t, blk.SSAStatements, 1)
	assert.Equal(t, "count_1 = count_0 + 1", blk.SSAStatements[0])
}

func TestBuild_VersionsCarryAcrossBlocks(t *testing.T) {
	b0 := ir.NewBlock("b0")
	b0.Statements = []classify.Stmt{
		&classify.AssignmentStmt{Assign: classify.Assign{Op: "=", Target: classify.Ident{Name: "x"}, Value: classify.Literal{Text: "1"}}},
	}
	b0.Writes["x"] = true

	b1 := ir.NewBlock("b1")
	b1.Statements = []classify.Stmt{
		&classify.ReturnStmt{Value: classify.Ident{Name: "x"}},
	}
	b1.Reads["x"] = true

	fn := newFn(b0, b1)
	Build(fn, map[string]bool{})

	assert.Equal(t, "return x_1", b1.SSAStatements[0])
	assert.Equal(t, ir.TermReturn, b1.Terminator.Kind)
}
