// SPDX-License-Identifier: Apache-2.0

package classify

import (
	"solan/internal/loc"
	"solan/internal/solast"

	solerrors "solan/internal/errors"
)

// reservedRevertNames are the callee identifiers that are syntactically
// call-shaped but classify as Revert, never as a real call (spec §4.6).
var reservedRevertNames = map[string]bool{
	"revert":  true,
	"require": true,
	"assert":  true,
}

// Body classifies a function's top-level statement list. It returns the
// typed statements built so far plus any UnsupportedConstruct warnings
// encountered; a single unsupported statement does not abort the whole
// body, it is simply recorded as an UnknownStmt in place.
func Body(nodes []solast.Node, source string) ([]Stmt, []*solerrors.Diagnostic) {
	var stmts []Stmt
	var diags []*solerrors.Diagnostic
	for _, n := range nodes {
		s, d := statement(n, source)
		stmts = append(stmts, s)
		diags = append(diags, d...)
	}
	return stmts, diags
}

func statement(n solast.Node, source string) (Stmt, []*solerrors.Diagnostic) {
	at := solast.ResolveLocation(source, n.Src())

	switch n.NodeType() {
	case "IfStatement":
		trueBody, td := blockOrSingle(n.Child("trueBody"), source)
		var falseBody []Stmt
		var fd []*solerrors.Diagnostic
		if fb := n.Child("falseBody"); fb != nil {
			falseBody, fd = blockOrSingle(fb, source)
		}
		return &IfStmt{
			Cond:  expression(n.Child("condition")),
			True:  trueBody,
			False: falseBody,
			At:    at,
		}, append(td, fd...)

	case "ForStatement":
		var init Stmt
		var initDiags []*solerrors.Diagnostic
		if in := n.Child("initializationExpression"); in != nil {
			init, initDiags = statement(in, source)
		}
		var post Stmt
		var postDiags []*solerrors.Diagnostic
		if p := n.Child("loopExpression"); p != nil {
			post, postDiags = statement(p, source)
		}
		body, bodyDiags := blockOrSingle(n.Child("body"), source)
		diags := append(initDiags, postDiags...)
		diags = append(diags, bodyDiags...)
		return &ForStmt{
			Init: init,
			Cond: expression(n.Child("condition")),
			Post: post,
			Body: body,
			At:   at,
		}, diags

	case "WhileStatement":
		body, diags := blockOrSingle(n.Child("body"), source)
		return &WhileStmt{
			Cond: expression(n.Child("condition")),
			Body: body,
			At:   at,
		}, diags

	case "Return", "ReturnStatement":
		var value Expr
		if e := n.Child("expression"); e != nil {
			value = expression(e)
		}
		return &ReturnStmt{Value: value, At: at}, nil

	case "VariableDeclarationStatement":
		var names, types []string
		for _, d := range n.Children("declarations") {
			if d == nil {
				continue
			}
			names = append(names, d.Name())
			types = append(types, d.TypeString())
		}
		var init Expr
		if iv := n.Child("initialValue"); iv != nil {
			init = expression(iv)
		}
		return &VarDeclStmt{Names: names, Types: types, Init: init, At: at}, nil

	case "EmitStatement":
		call := n.Child("eventCall")
		event := ""
		var args []Expr
		if call != nil {
			event = call.Child("expression").Name()
			args = expressions(call.Children("arguments"))
		}
		return &EmitStmt{Event: event, Args: args, At: at}, nil

	case "RevertStatement":
		errCall := n.Child("errorCall")
		var args []Expr
		message := ""
		if errCall != nil {
			args = expressions(errCall.Children("arguments"))
			if len(args) > 0 {
				message = args[len(args)-1].String()
			}
		}
		return &RevertStmt{Args: args, Message: message, At: at}, nil

	case "Block", "UncheckedBlock":
		body, diags := Body(n.Children("statements"), source)
		return &BlockStmt{Body: body, At: at}, diags

	case "ExpressionStatement":
		return expressionStatement(n.Child("expression"), source, at)

	case "InlineAssembly", "TryStatement", "EmitMarkerStatement":
		return &UnknownStmt{Construct: n.NodeType(), At: at},
			[]*solerrors.Diagnostic{solerrors.UnsupportedConstruct(at, n.NodeType())}

	case "":
		return &UnknownStmt{Construct: "<empty>", At: at}, nil

	default:
		return &UnknownStmt{Construct: n.NodeType(), At: at},
			[]*solerrors.Diagnostic{solerrors.UnsupportedConstruct(at, n.NodeType())}
	}
}

func expressionStatement(inner solast.Node, source string, at loc.SourceLocation) (Stmt, []*solerrors.Diagnostic) {
	if inner == nil {
		return &UnknownStmt{Construct: "<empty expression>", At: at}, nil
	}

	switch inner.NodeType() {
	case "Assignment":
		return &AssignmentStmt{
			Assign: Assign{
				Op:     inner.String("operator"),
				Target: expression(inner.Child("leftHandSide")),
				Value:  expression(inner.Child("rightHandSide")),
			},
			At: at,
		}, nil

	case "FunctionCall":
		callee := inner.Child("expression")
		if name := calleeIdentifierName(callee); reservedRevertNames[name] {
			args := expressions(inner.Children("arguments"))
			message := ""
			if len(args) > 0 {
				message = args[len(args)-1].String()
			}
			return &RevertStmt{Args: args, Message: message, At: at}, nil
		}
		return &FunctionCallStmt{
			Call: Call{Callee: expression(callee), Args: expressions(inner.Children("arguments"))},
			At:   at,
		}, nil

	default:
		return &ExpressionStmt{Expr: expression(inner), At: at}, nil
	}
}

// calleeIdentifierName returns the bare name of a callee expression when
// it is a plain Identifier (as opposed to a member access), so revert /
// require / assert can be recognized before ever building a Call node.
func calleeIdentifierName(callee solast.Node) string {
	if callee == nil || callee.NodeType() != "Identifier" {
		return ""
	}
	return callee.Name()
}

// blockOrSingle classifies either a Block node's statement list or a
// single bare statement (Solidity allows `if (c) doThing();` without
// braces).
func blockOrSingle(n solast.Node, source string) ([]Stmt, []*solerrors.Diagnostic) {
	if n == nil {
		return nil, nil
	}
	if n.NodeType() == "Block" || n.NodeType() == "UncheckedBlock" {
		return Body(n.Children("statements"), source)
	}
	s, diags := statement(n, source)
	return []Stmt{s}, diags
}

func expressions(nodes []solast.Node) []Expr {
	out := make([]Expr, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, expression(n))
	}
	return out
}

func expression(n solast.Node) Expr {
	if n == nil {
		return nil
	}
	switch n.NodeType() {
	case "Identifier":
		return Ident{Name: n.Name()}
	case "Literal":
		return Literal{Text: literalText(n)}
	case "MemberAccess":
		return Member{Base: expression(n.Child("expression")), Name: n.String("memberName")}
	case "IndexAccess":
		return Index{Base: expression(n.Child("baseExpression")), Key: expression(n.Child("indexExpression"))}
	case "BinaryOperation":
		return Binary{Op: n.String("operator"), Left: expression(n.Child("leftExpression")), Right: expression(n.Child("rightExpression"))}
	case "UnaryOperation":
		return Unary{Op: n.String("operator"), Operand: expression(n.Child("subExpression")), Prefix: n.Bool("prefix")}
	case "FunctionCall":
		return Call{Callee: expression(n.Child("expression")), Args: expressions(n.Children("arguments"))}
	case "FunctionCallOptions":
		// x.call{value: v}(...) — the options (value:, gas:) wrap the
		// underlying call expression; fold through to it so .call is
		// still visible to the call classifier.
		return expression(n.Child("expression"))
	case "TupleExpression":
		components := n.Children("components")
		if len(components) == 1 {
			return expression(components[0])
		}
		return OpaqueOf(n.NodeType())
	default:
		return OpaqueOf(n.NodeType())
	}
}

func literalText(n solast.Node) string {
	if v := n.String("value"); v != "" {
		return v
	}
	if v := n.String("hexValue"); v != "" {
		return v
	}
	return "<literal>"
}
