// SPDX-License-Identifier: Apache-2.0

// Package ssatext re-parses the textual SSA statements the SSA
// Versioner emits (spec §4.5) back into a small typed form, using a
// participle grammar in the same style the front end this analyzer
// grew out of used for its own source language. The CLI's --debug SSA
// dump (report.WriteDebugSSA) uses it to get a structured view of an
// SSA line; the detectors match SSA text with their own regular
// expressions instead.
package ssatext

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes one SSA statement line. Structured variable names
// (`balances[msg.sender_0]_2`) are lexed as a single Ident token by
// folding `[`, `]`, and `.` into the identifier character class, so the
// grammar never has to reconstruct a bracketed name from pieces. A
// `call[kind]` prefix is matched first, as its own CallKind token, so
// the identifier rule does not swallow it.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"String", `"[^"]*"`, nil},
		{"CallKind", `call\[[A-Za-z_]+\]`, nil},
		{"Ident", `[A-Za-z_][A-Za-z0-9_.\[\]]*`, nil},
		{"Integer", `[0-9]+`, nil},
		{"Operator", `(\+\+|--|==|!=|<=|>=|&&|\|\||[-+*/%<>])`, nil},
		{"Punctuation", `[(),=\[\]]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

// Statement is the parsed shape of one SSA line: exactly one of its
// fields is non-nil, matching the closed set of statement forms the
// versioner emits.
type Statement struct {
	Phi    *PhiStmt    `@@`
	Call   *CallStmt   `| @@`
	If     *IfStmt     `| @@`
	Return *ReturnStmt `| @@`
	Revert *RevertStmt `| @@`
	Emit   *EmitStmt   `| @@`
	Assign *AssignStmt `| @@`
}

// PhiStmt is `v_k = phi(v_i, v_j, ...)`.
type PhiStmt struct {
	Target string   `@Ident "="`
	Args   []string `"phi" "(" (@Ident ("," @Ident)*)? ")"`
}

// CallStmt is `ret_k = call[kind](callee, arg1, arg2, ...)`.
type CallStmt struct {
	Target string   `@Ident "="`
	Kind   string   `@CallKind "("`
	Callee string   `@Ident`
	Args   []string `("," @Ident)* ")"`
}

// IfStmt is `if (<condition tokens>)`.
type IfStmt struct {
	Cond []string `"if" "(" (@Ident | @Integer | @Operator | @String)* ")"`
}

// ReturnStmt is `return [<value>]`.
type ReturnStmt struct {
	Value string `"return" (@Ident | @Integer | @String)?`
}

// RevertStmt is `revert ["<message>"]`.
type RevertStmt struct {
	Message string `"revert" @String?`
}

// EmitStmt is `emit EventName(arg1, arg2, ...)`.
type EmitStmt struct {
	Event string   `"emit" @Ident "("`
	Args  []string `(@Ident ("," @Ident)*)? ")"`
}

// AssignStmt is the catch-all simple/compound assignment shape:
// `target = <rhs tokens>`.
type AssignStmt struct {
	Target string   `@Ident "="`
	Rhs    []string `(@Ident | @Integer | @Operator | @String)+`
}

var parser = participle.MustBuild[Statement](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(4),
)

// Parse re-parses a single SSA statement line emitted by internal/ssa.
func Parse(line string) (*Statement, error) {
	stmt, err := parser.ParseString("", line)
	if err != nil {
		return nil, fmt.Errorf("ssatext: %w", err)
	}
	if stmt.Call != nil {
		stmt.Call.Kind = strings.TrimSuffix(strings.TrimPrefix(stmt.Call.Kind, "call["), "]")
	}
	return stmt, nil
}

// Describe renders a short human label for a parsed statement, used by
// the CLI's --debug SSA dump.
func (s *Statement) Describe() string {
	switch {
	case s.Phi != nil:
		return fmt.Sprintf("phi assigning %s from %d incoming version(s)", s.Phi.Target, len(s.Phi.Args))
	case s.Call != nil:
		return fmt.Sprintf("%s call to %s bound to %s", s.Call.Kind, s.Call.Callee, s.Call.Target)
	case s.If != nil:
		return "conditional branch"
	case s.Return != nil:
		return "return"
	case s.Revert != nil:
		return "revert"
	case s.Emit != nil:
		return fmt.Sprintf("emit %s", s.Emit.Event)
	case s.Assign != nil:
		return fmt.Sprintf("assignment to %s", s.Assign.Target)
	default:
		return "unrecognized"
	}
}
