// SPDX-License-Identifier: Apache-2.0

// Package classify implements the Statement Classifier (spec §4.2): it
// walks the raw, per-function body nodes handed off by internal/solast
// and tags each one with a kind from the closed Statement Kind set,
// producing a typed statement/expression tree the rest of the pipeline
// (access tracking, CFG construction, SSA emission, call
// classification) walks instead of re-deriving shapes from raw JSON.
package classify

import (
	"fmt"
	"strings"
)

// Expr is the closed set of expression shapes this analyzer reasons
// about: identifiers, literals, member/index access, binary/unary
// operators, calls, and assignments. Anything outside this set degrades
// to Opaque rather than panicking, keeping ingestion total.
type Expr interface {
	exprNode()
	String() string
}

// Ident is a bare identifier reference, e.g. "amount" or "msg".
type Ident struct {
	Name string
}

func (Ident) exprNode()        {}
func (i Ident) String() string { return i.Name }

// Literal is a numeric, string, boolean, or hex literal, kept as its
// source text.
type Literal struct {
	Text string
}

func (Literal) exprNode()        {}
func (l Literal) String() string { return l.Text }

// Member is a dotted member access, e.g. "msg.sender".
type Member struct {
	Base Expr
	Name string
}

func (Member) exprNode() {}
func (m Member) String() string {
	return baseString(m.Base) + "." + m.Name
}

// Index is a bracketed index access, e.g. "balances[msg.sender]". Base
// may itself be an Index, producing nested access like
// "allowance[owner][spender]".
type Index struct {
	Base Expr
	Key  Expr
}

func (Index) exprNode() {}
func (ix Index) String() string {
	return baseString(ix.Base) + "[" + baseString(ix.Key) + "]"
}

// Binary is a binary operator expression.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

func (Binary) exprNode() {}
func (b Binary) String() string {
	return baseString(b.Left) + " " + b.Op + " " + baseString(b.Right)
}

// Unary is a unary operator expression, including ++/-- in both prefix
// and postfix position.
type Unary struct {
	Op      string
	Operand Expr
	Prefix  bool
}

func (Unary) exprNode() {}
func (u Unary) String() string {
	if u.Prefix {
		return u.Op + baseString(u.Operand)
	}
	return baseString(u.Operand) + u.Op
}

// IsIncDec reports whether this unary operation is ++ or --, which read
// and write the same operand (spec §4.4).
func (u Unary) IsIncDec() bool {
	return u.Op == "++" || u.Op == "--"
}

// Call is a function call expression: a callee (an Ident for a bare
// call, or a Member for a method-shaped call like IA(a).hello() or
// x.call{...}(...)) plus its arguments.
type Call struct {
	Callee Expr
	Args   []Expr
}

func (Call) exprNode() {}
func (c Call) String() string {
	args := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, baseString(a))
	}
	return baseString(c.Callee) + "(" + strings.Join(args, ", ") + ")"
}

// Assign is an assignment expression: "=" for a simple assignment, or a
// compound operator like "+=" / "-=".
type Assign struct {
	Op     string
	Target Expr
	Value  Expr
}

func (Assign) exprNode() {}
func (a Assign) String() string {
	return baseString(a.Target) + " " + a.Op + " " + baseString(a.Value)
}

// Opaque holds the source-level description of an expression shape
// outside the closed set this analyzer models (tuple expressions,
// conditional expressions, new-expressions, and the like). It is never
// treated as a variable access.
type Opaque struct {
	Text string
}

func (Opaque) exprNode()        {}
func (o Opaque) String() string { return o.Text }

func baseString(e Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}

// OpaqueOf renders a placeholder expression for an unmodeled AST node
// kind, keeping ingestion total instead of failing the whole function.
func OpaqueOf(nodeType string) Expr {
	return Opaque{Text: fmt.Sprintf("<%s>", nodeType)}
}

// Levels returns every structural prefix of a variable-access chain,
// from its root identifier out to the full expression, inclusive. For
// "allowance[owner][spender]" this returns
// ["allowance", "allowance[owner]", "allowance[owner][spender]"] — the
// coarsening spec §3 and §4.4 require: a write to a nested index
// induces a recorded write to every enclosing base. Non-chain
// expressions (literals, calls, operators) return nil.
func Levels(e Expr) []string {
	switch v := e.(type) {
	case Ident:
		return []string{v.Name}
	case Member:
		base := Levels(v.Base)
		if len(base) == 0 {
			return []string{v.Name}
		}
		return append(base, base[len(base)-1]+"."+v.Name)
	case Index:
		base := Levels(v.Base)
		key := baseString(v.Key)
		if len(base) == 0 {
			return []string{baseString(v.Base) + "[" + key + "]"}
		}
		return append(base, base[len(base)-1]+"["+key+"]")
	default:
		return nil
	}
}

// CollectReads walks an expression and returns every (possibly
// structured) variable name it reads, per spec §4.4: identifiers,
// member/index expressions (structured form plus every enclosing
// base), call arguments and callees, and both operands of binary
// operators.
func CollectReads(e Expr) []string {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case Ident, Member:
		return Levels(v)
	case Index:
		reads := Levels(v)
		reads = append(reads, CollectReads(v.Key)...)
		return reads
	case Binary:
		reads := CollectReads(v.Left)
		reads = append(reads, CollectReads(v.Right)...)
		return reads
	case Unary:
		return CollectReads(v.Operand)
	case Call:
		reads := CollectReads(v.Callee)
		for _, a := range v.Args {
			reads = append(reads, CollectReads(a)...)
		}
		return reads
	case Assign:
		reads := CollectReads(v.Target)
		reads = append(reads, CollectReads(v.Value)...)
		return reads
	default:
		return nil
	}
}
