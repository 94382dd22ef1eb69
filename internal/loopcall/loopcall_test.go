// SPDX-License-Identifier: Apache-2.0

package loopcall

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"solan/internal/callclass"
	"solan/internal/ir"
)

func TestAnalyze_ExternalCallInBodyUnionsStateWrites(t *testing.T) {
	header := ir.NewBlock("b1")
	header.IsLoopHeader = true
	body := ir.NewBlock("b2")
	body.MarkExternalCall(callclass.External)
	exit := ir.NewBlock("b4")

	header.Terminator = ir.Terminator{Kind: ir.TermIf, Then: body.ID, Else: exit.ID}
	body.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: "b3"}

	fn := &ir.FunctionIR{Blocks: []*ir.BasicBlock{header, body, exit}}

	Analyze(fn, []string{"balances", "totalSupply"})

	assert.True(t, header.Writes["balances"])
	assert.True(t, header.Writes["totalSupply"])
	assert.True(t, header.HasExternalCallEffects)
	assert.Contains(t, header.ExternalCallKinds, callclass.External)
	assert.Equal(t, 1, header.WriteVersions["balances"])
	assert.Equal(t, 1, header.WriteVersions["totalSupply"])
}

func TestAnalyze_HeaderWriteVersionExceedsEveryExistingVersion(t *testing.T) {
	header := ir.NewBlock("b1")
	header.IsLoopHeader = true
	header.ReadVersions["balances"] = 3
	body := ir.NewBlock("b2")
	body.MarkExternalCall(callclass.External)
	body.WriteVersions["balances"] = 5
	exit := ir.NewBlock("b4")

	header.Terminator = ir.Terminator{Kind: ir.TermIf, Then: body.ID, Else: exit.ID}
	body.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: "b3"}

	fn := &ir.FunctionIR{Blocks: []*ir.BasicBlock{header, body, exit}}

	Analyze(fn, []string{"balances"})

	assert.Equal(t, 6, header.WriteVersions["balances"])
}

func TestAnalyze_NoExternalCallLeavesHeaderUntouched(t *testing.T) {
	header := ir.NewBlock("b1")
	header.IsLoopHeader = true
	body := ir.NewBlock("b2")
	exit := ir.NewBlock("b4")

	header.Terminator = ir.Terminator{Kind: ir.TermIf, Then: body.ID, Else: exit.ID}

	fn := &ir.FunctionIR{Blocks: []*ir.BasicBlock{header, body, exit}}

	Analyze(fn, []string{"balances"})

	assert.False(t, header.Writes["balances"])
	assert.False(t, header.HasExternalCallEffects)
}

func TestAnalyze_NonHeaderBlocksAreIgnored(t *testing.T) {
	blk := ir.NewBlock("b0")
	fn := &ir.FunctionIR{Blocks: []*ir.BasicBlock{blk}}

	Analyze(fn, []string{"balances"})

	assert.False(t, blk.Writes["balances"])
}

func TestAnalyze_DoesNotCrossBackEdgeIntoHeader(t *testing.T) {
	header := ir.NewBlock("b1")
	header.IsLoopHeader = true
	body := ir.NewBlock("b2")
	body.MarkExternalCall(callclass.External)
	exit := ir.NewBlock("b4")

	header.Terminator = ir.Terminator{Kind: ir.TermIf, Then: body.ID, Else: exit.ID}
	// Back-edge from body straight to header: must not infinite-loop.
	body.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: header.ID}

	fn := &ir.FunctionIR{Blocks: []*ir.BasicBlock{header, body, exit}}

	Analyze(fn, []string{"x"})

	assert.True(t, header.Writes["x"])
}
