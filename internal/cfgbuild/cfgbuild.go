// SPDX-License-Identifier: Apache-2.0

// Package cfgbuild implements the Block Splitter and CFG Refiner (spec
// §4.3). It walks a function's classified statement list and produces
// the multi-block shapes the rest of the pipeline operates on: straight
// runs split at effectful/control statements, and if/for/while expanded
// into their explicit initial/header/body/increment/exit blocks with
// conditional terminators.
//
// Blocks are allocated in construction (program) order and numbered
// sequentially ("b0", "b1", ...), which is what lets the φ-Function
// Inserter later recognize a back-edge as a goto whose target's number
// is smaller than its source's (spec §4.8).
package cfgbuild

import (
	"fmt"

	"solan/internal/classify"
	"solan/internal/ir"
)

type builder struct {
	blocks  []*ir.BasicBlock
	counter int
}

func (b *builder) newBlock() *ir.BasicBlock {
	id := fmt.Sprintf("b%d", b.counter)
	b.counter++
	blk := ir.NewBlock(id)
	b.blocks = append(b.blocks, blk)
	return blk
}

// Build constructs the basic-block list for a function body. An empty
// body produces a single empty block (spec §8 boundary behavior); the
// Terminator Finalizer (§4.10) is responsible for giving every block
// its terminator, so blocks returned here may be left unterminated.
func Build(body []classify.Stmt) []*ir.BasicBlock {
	b := &builder{}
	entry := b.newBlock()
	b.buildList(body, entry)
	return b.blocks
}

// splitBoundary ensures the caller gets a fresh block to start a new
// control-flow shape in, without ever emitting a pointless empty block
// when cur is already untouched.
func (b *builder) splitBoundary(cur *ir.BasicBlock) *ir.BasicBlock {
	if len(cur.Statements) == 0 && !cur.Terminator.IsSet() {
		return cur
	}
	next := b.newBlock()
	cur.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: next.ID}
	return next
}

// buildList processes stmts sequentially, appending to cur and opening
// new blocks at control-flow and effectful-statement boundaries (spec
// §4.3), and returns the block execution falls into once stmts is
// exhausted.
func (b *builder) buildList(stmts []classify.Stmt, cur *ir.BasicBlock) *ir.BasicBlock {
	for i, stmt := range stmts {
		isLast := i == len(stmts)-1

		switch s := stmt.(type) {
		case *classify.IfStmt:
			condBlock := b.splitBoundary(cur)
			condBlock.Statements = append(condBlock.Statements, s)

			trueBlock := b.newBlock()
			trueEnd := b.buildList(s.True, trueBlock)

			falseBlock := b.newBlock()
			falseEnd := b.buildList(s.False, falseBlock)

			next := b.newBlock()
			condBlock.Terminator = ir.Terminator{Kind: ir.TermIf, Cond: s.Cond.String(), Then: trueBlock.ID, Else: falseBlock.ID}
			if !trueEnd.Terminator.IsSet() {
				trueEnd.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: next.ID}
			}
			if !falseEnd.Terminator.IsSet() {
				falseEnd.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: next.ID}
			}
			cur = next

		case *classify.ForStmt:
			initBlock := b.splitBoundary(cur)
			initBlock.IsLoopInit = true
			if s.Init != nil {
				initBlock.Statements = append(initBlock.Statements, s.Init)
			}

			header := b.newBlock()
			header.IsLoopHeader = true
			header.Statements = append(header.Statements, s)
			initBlock.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: header.ID}

			bodyBlock := b.newBlock()
			bodyBlock.IsLoopBody = true
			bodyEnd := b.buildList(s.Body, bodyBlock)

			incBlock := b.newBlock()
			incBlock.IsLoopIncrement = true
			if s.Post != nil {
				incBlock.Statements = append(incBlock.Statements, s.Post)
			}
			if !bodyEnd.Terminator.IsSet() {
				bodyEnd.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: incBlock.ID}
			}
			incBlock.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: header.ID}

			exitBlock := b.newBlock()
			exitBlock.IsLoopExit = true
			header.Terminator = ir.Terminator{Kind: ir.TermIf, Cond: condText(s.Cond), Then: bodyBlock.ID, Else: exitBlock.ID}

			cur = exitBlock

		case *classify.WhileStmt:
			preBlock := b.splitBoundary(cur)

			header := b.newBlock()
			header.IsLoopHeader = true
			header.Statements = append(header.Statements, s)
			preBlock.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: header.ID}

			bodyBlock := b.newBlock()
			bodyBlock.IsLoopBody = true
			bodyEnd := b.buildList(s.Body, bodyBlock)
			if !bodyEnd.Terminator.IsSet() {
				bodyEnd.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: header.ID}
			}

			exitBlock := b.newBlock()
			exitBlock.IsLoopExit = true
			header.Terminator = ir.Terminator{Kind: ir.TermIf, Cond: condText(s.Cond), Then: bodyBlock.ID, Else: exitBlock.ID}

			cur = exitBlock

		case *classify.ReturnStmt:
			cur.Statements = append(cur.Statements, stmt)
			if !isLast {
				next := b.newBlock()
				cur.Terminator = ir.Terminator{Kind: ir.TermReturn}
				cur = next
			}

		case *classify.RevertStmt:
			cur.Statements = append(cur.Statements, stmt)
			if !isLast {
				next := b.newBlock()
				cur.Terminator = ir.Terminator{Kind: ir.TermRevert}
				cur = next
			}

		case *classify.EmitStmt:
			cur.Statements = append(cur.Statements, stmt)
			if !isLast {
				next := b.newBlock()
				cur.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: next.ID}
				cur = next
			}

		case *classify.FunctionCallStmt, *classify.AssignmentStmt, *classify.VarDeclStmt:
			cur.Statements = append(cur.Statements, stmt)
			if !isLast {
				next := b.newBlock()
				cur.Terminator = ir.Terminator{Kind: ir.TermGoto, Target: next.ID}
				cur = next
			}

		case *classify.BlockStmt:
			cur = b.buildList(s.Body, cur)

		default:
			// ExpressionStmt and UnknownStmt never force a block split.
			cur.Statements = append(cur.Statements, stmt)
		}
	}
	return cur
}

func condText(e classify.Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}
