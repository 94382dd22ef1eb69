// SPDX-License-Identifier: Apache-2.0

package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solan/internal/solast"
)

func node(fields map[string]interface{}) solast.Node {
	return solast.Node(fields)
}

func ident(name string) solast.Node {
	return node(map[string]interface{}{"nodeType": "Identifier", "name": name})
}

func literal(value string) solast.Node {
	return node(map[string]interface{}{"nodeType": "Literal", "value": value})
}

func exprStmtNode(expr solast.Node) solast.Node {
	return node(map[string]interface{}{"nodeType": "ExpressionStatement", "expression": expr})
}

func TestBody_AssignmentStatement(t *testing.T) {
	stmts, diags := Body([]solast.Node{
		exprStmtNode(node(map[string]interface{}{
			"nodeType":      "Assignment",
			"operator":      "=",
			"leftHandSide":  ident("balance"),
			"rightHandSide": literal("0"),
		})),
	}, "")

	require.Empty(t, diags)
	require.Len(t, stmts, 1)
	a, ok := stmts[0].(*AssignmentStmt)
	require.True(t, ok)
	assert.Equal(t, "=", a.Assign.Op)
	assert.Equal(t, "balance", a.Assign.Target.String())
}

func TestStatement_RevertRequireAssertAreRecognizedByCalleeName(t *testing.T) {
	for _, name := range []string{"revert", "require", "assert"} {
		t.Run(name, func(t *testing.T) {
			stmts, diags := Body([]solast.Node{
				exprStmtNode(node(map[string]interface{}{
					"nodeType":   "FunctionCall",
					"expression": ident(name),
					"arguments":  []interface{}{literal("insufficient balance")},
				})),
			}, "")

			require.Empty(t, diags)
			require.Len(t, stmts, 1)
			r, ok := stmts[0].(*RevertStmt)
			require.True(t, ok)
			assert.Equal(t, "insufficient balance", r.Message)
		})
	}
}

func TestStatement_PlainFunctionCallIsFunctionCallStmt(t *testing.T) {
	stmts, diags := Body([]solast.Node{
		exprStmtNode(node(map[string]interface{}{
			"nodeType":   "FunctionCall",
			"expression": ident("_transfer"),
			"arguments":  []interface{}{ident("to"), ident("amount")},
		})),
	}, "")

	require.Empty(t, diags)
	require.Len(t, stmts, 1)
	c, ok := stmts[0].(*FunctionCallStmt)
	require.True(t, ok)
	assert.Equal(t, "_transfer", c.Call.Callee.String())
	assert.Len(t, c.Call.Args, 2)
}

func TestStatement_IfStatementWithoutElse(t *testing.T) {
	stmts, diags := Body([]solast.Node{
		node(map[string]interface{}{
			"nodeType":  "IfStatement",
			"condition": ident("ok"),
			"trueBody": node(map[string]interface{}{
				"nodeType":   "Block",
				"statements": []interface{}{exprStmtNode(ident("noop"))},
			}),
		}),
	}, "")

	require.Empty(t, diags)
	require.Len(t, stmts, 1)
	ifs, ok := stmts[0].(*IfStmt)
	require.True(t, ok)
	assert.Len(t, ifs.True, 1)
	assert.Nil(t, ifs.False)
}

func TestStatement_IfStatementSingleStatementBranchesWithoutBraces(t *testing.T) {
	stmts, diags := Body([]solast.Node{
		node(map[string]interface{}{
			"nodeType":  "IfStatement",
			"condition": ident("ok"),
			"trueBody":  exprStmtNode(ident("noop")),
		}),
	}, "")

	require.Empty(t, diags)
	ifs := stmts[0].(*IfStmt)
	assert.Len(t, ifs.True, 1)
}

func TestStatement_UnsupportedConstructIsRecordedNotFatal(t *testing.T) {
	stmts, diags := Body([]solast.Node{
		node(map[string]interface{}{"nodeType": "InlineAssembly"}),
	}, "")

	require.Len(t, stmts, 1)
	u, ok := stmts[0].(*UnknownStmt)
	require.True(t, ok)
	assert.Equal(t, "InlineAssembly", u.Construct)
	require.Len(t, diags, 1)
}

func TestStatement_ForLoopCollectsInitCondPostBody(t *testing.T) {
	stmts, diags := Body([]solast.Node{
		node(map[string]interface{}{
			"nodeType": "ForStatement",
			"initializationExpression": node(map[string]interface{}{
				"nodeType": "VariableDeclarationStatement",
				"declarations": []interface{}{
					node(map[string]interface{}{"nodeType": "VariableDeclaration", "name": "i"}),
				},
			}),
			"condition": ident("cond"),
			"loopExpression": exprStmtNode(node(map[string]interface{}{
				"nodeType":       "UnaryOperation",
				"operator":       "++",
				"prefix":         false,
				"subExpression":  ident("i"),
			})),
			"body": node(map[string]interface{}{
				"nodeType":   "Block",
				"statements": []interface{}{exprStmtNode(ident("noop"))},
			}),
		}),
	}, "")

	require.Empty(t, diags)
	f, ok := stmts[0].(*ForStmt)
	require.True(t, ok)
	require.NotNil(t, f.Init)
	require.NotNil(t, f.Post)
	assert.Len(t, f.Body, 1)
}

func TestExpression_FunctionCallOptionsFoldsThroughToUnderlyingCall(t *testing.T) {
	stmts, diags := Body([]solast.Node{
		exprStmtNode(node(map[string]interface{}{
			"nodeType": "FunctionCall",
			"expression": node(map[string]interface{}{
				"nodeType": "FunctionCallOptions",
				"expression": node(map[string]interface{}{
					"nodeType":   "MemberAccess",
					"expression": ident("recipient"),
					"memberName": "call",
				}),
			}),
			"arguments": []interface{}{literal("")},
		})),
	}, "")

	require.Empty(t, diags)
	c := stmts[0].(*FunctionCallStmt)
	assert.Equal(t, "recipient.call", c.Call.Callee.String())
}

func TestExpression_TupleWithSingleComponentUnwraps(t *testing.T) {
	e := expression(node(map[string]interface{}{
		"nodeType":   "TupleExpression",
		"components": []interface{}{ident("x")},
	}))

	assert.Equal(t, Ident{Name: "x"}, e)
}

func TestExpression_MultiComponentTupleIsOpaque(t *testing.T) {
	e := expression(node(map[string]interface{}{
		"nodeType":   "TupleExpression",
		"components": []interface{}{ident("x"), ident("y")},
	}))

	_, ok := e.(Opaque)
	assert.True(t, ok)
}

func TestExpression_UnmodeledNodeDegradesToOpaque(t *testing.T) {
	e := expression(node(map[string]interface{}{"nodeType": "NewExpression"}))

	o, ok := e.(Opaque)
	require.True(t, ok)
	assert.Equal(t, "<NewExpression>", o.Text)
}

func TestLevels_NestedIndexCoarsensToEveryPrefix(t *testing.T) {
	e := Index{Base: Index{Base: Ident{Name: "allowance"}, Key: Ident{Name: "owner"}}, Key: Ident{Name: "spender"}}

	levels := Levels(e)

	assert.Equal(t, []string{"allowance", "allowance[owner]", "allowance[owner][spender]"}, levels)
}

func TestCollectReads_BinaryOperationReadsBothOperands(t *testing.T) {
	e := Binary{Op: ">=", Left: Ident{Name: "amount"}, Right: Literal{Text: "0"}}

	reads := CollectReads(e)

	assert.Contains(t, reads, "amount")
}

func TestCollectReads_CallCollectsCalleeAndArgs(t *testing.T) {
	e := Call{Callee: Ident{Name: "_transfer"}, Args: []Expr{Ident{Name: "to"}, Ident{Name: "amount"}}}

	reads := CollectReads(e)

	assert.ElementsMatch(t, []string{"_transfer", "to", "amount"}, reads)
}
