// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solan/internal/config"
	"solan/internal/ir"
)

// ident/literal/member/index/binary/call build the small slice of solc
// AST node shapes this test needs, matching the field names
// internal/classify actually reads (see internal/classify/classify.go).

func ident(name string) map[string]interface{} {
	return map[string]interface{}{"nodeType": "Identifier", "name": name}
}

func member(base map[string]interface{}, name string) map[string]interface{} {
	return map[string]interface{}{"nodeType": "MemberAccess", "expression": base, "memberName": name}
}

func index(base, key map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"nodeType": "IndexAccess", "baseExpression": base, "indexExpression": key}
}

func literal(value string) map[string]interface{} {
	return map[string]interface{}{"nodeType": "Literal", "value": value}
}

func exprStmt(expr map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"nodeType": "ExpressionStatement", "expression": expr}
}

// lowLevelCall builds `base.call{...}(args...)`, the FunctionCallOptions
// wrapper folding through to the MemberAccess call classifier sees.
func lowLevelCall(base map[string]interface{}, methodName string, args ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"nodeType": "FunctionCall",
		"expression": map[string]interface{}{
			"nodeType":   "FunctionCallOptions",
			"expression": member(base, methodName),
		},
		"arguments": args,
	}
}

func msgSender() map[string]interface{} {
	return member(ident("msg"), "sender")
}

// vaultAST builds a minimal Vault contract with a classic
// checks-effects-interactions violation: withdraw() calls out to
// msg.sender before debiting the caller's balance.
func vaultAST() []byte {
	balances := ident("balances")

	ifBody := []interface{}{
		exprStmt(lowLevelCall(msgSender(), "call", literal(""))),
		exprStmt(map[string]interface{}{
			"nodeType":  "Assignment",
			"operator":  "-=",
			"leftHandSide": index(balances, msgSender()),
			"rightHandSide": ident("amount"),
		}),
	}

	withdraw := map[string]interface{}{
		"nodeType":   "FunctionDefinition",
		"name":       "withdraw",
		"visibility": "public",
		"parameters": map[string]interface{}{
			"parameters": []interface{}{
				map[string]interface{}{"nodeType": "VariableDeclaration", "name": "amount", "typeDescriptions": map[string]interface{}{"typeString": "uint256"}},
			},
		},
		"body": map[string]interface{}{
			"nodeType": "Block",
			"statements": []interface{}{
				map[string]interface{}{
					"nodeType":  "IfStatement",
					"condition": map[string]interface{}{"nodeType": "BinaryOperation", "operator": ">=", "leftExpression": index(balances, msgSender()), "rightExpression": ident("amount")},
					"trueBody":  map[string]interface{}{"nodeType": "Block", "statements": ifBody},
				},
			},
		},
	}

	stateVar := map[string]interface{}{
		"nodeType":      "VariableDeclaration",
		"name":          "balances",
		"stateVariable": true,
		"typeDescriptions": map[string]interface{}{
			"typeString": "mapping(address => uint256)",
		},
	}

	contract := map[string]interface{}{
		"nodeType": "ContractDefinition",
		"name":     "Vault",
		"nodes":    []interface{}{stateVar, withdraw},
	}

	pragma := map[string]interface{}{
		"nodeType": "PragmaDirective",
		"literals": []interface{}{"solidity", "^0.8.0"},
	}

	doc := map[string]interface{}{
		"nodeType": "SourceUnit",
		"nodes":    []interface{}{pragma, contract},
	}

	out, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return out
}

func TestRun_ClassicReentrancyIsFlagged(t *testing.T) {
	doc := vaultAST()
	source := "contract Vault { mapping(address => uint256) balances; function withdraw(uint256 amount) public { if (balances[msg.sender] >= amount) { msg.sender.call{value: amount}(\"\"); balances[msg.sender] -= amount; } } }"

	result, diags := Run(doc, source, &config.Config{})

	require.Empty(t, diags)
	require.NotNil(t, result)
	require.Len(t, result.Contracts, 1)

	var reentrancyFindings []ir.Finding
	for _, f := range result.Findings {
		if f.Detector == "reentrancy" {
			reentrancyFindings = append(reentrancyFindings, f)
		}
	}
	require.Len(t, reentrancyFindings, 1)
	assert.Equal(t, "Vault", reentrancyFindings[0].Contract)
	assert.Equal(t, "withdraw", reentrancyFindings[0].Function)
	assert.Equal(t, ir.SeverityHigh, reentrancyFindings[0].Severity)
}

func TestRun_MinSeverityFiltersFindings(t *testing.T) {
	doc := vaultAST()
	source := "contract Vault {}"

	cfg := &config.Config{MinSeverity: "High"}
	result, _ := Run(doc, source, cfg)

	for _, f := range result.Findings {
		assert.Equal(t, ir.SeverityHigh, f.Severity)
	}
}

func TestRun_DisabledDetectorProducesNoFindingsFromIt(t *testing.T) {
	doc := vaultAST()
	source := "contract Vault {}"

	cfg := &config.Config{}
	cfg.Detectors.Disable = []string{"reentrancy"}
	result, _ := Run(doc, source, cfg)

	for _, f := range result.Findings {
		assert.NotEqual(t, "reentrancy", f.Detector)
	}
}

func TestRun_MalformedDocumentReturnsDiagnosticsAndNoResult(t *testing.T) {
	result, diags := Run([]byte("not json"), "", &config.Config{})

	assert.Nil(t, result)
	require.NotEmpty(t, diags)
}

func TestRun_SafeOrderingRaisesNoReentrancyFinding(t *testing.T) {
	balances := ident("balances")
	body := []interface{}{
		exprStmt(map[string]interface{}{
			"nodeType":      "Assignment",
			"operator":      "-=",
			"leftHandSide":  index(balances, msgSender()),
			"rightHandSide": ident("amount"),
		}),
		exprStmt(lowLevelCall(msgSender(), "call", literal(""))),
	}
	withdraw := map[string]interface{}{
		"nodeType":   "FunctionDefinition",
		"name":       "withdraw",
		"visibility": "public",
		"body":       map[string]interface{}{"nodeType": "Block", "statements": body},
	}
	stateVar := map[string]interface{}{
		"nodeType":      "VariableDeclaration",
		"name":          "balances",
		"stateVariable": true,
		"typeDescriptions": map[string]interface{}{
			"typeString": "mapping(address => uint256)",
		},
	}
	contract := map[string]interface{}{
		"nodeType": "ContractDefinition",
		"name":     "Vault",
		"nodes":    []interface{}{stateVar, withdraw},
	}
	doc := map[string]interface{}{
		"nodeType": "SourceUnit",
		"nodes":    []interface{}{contract},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	result, diags := Run(raw, "contract Vault {}", &config.Config{})

	require.Empty(t, diags)
	for _, f := range result.Findings {
		assert.NotEqual(t, "reentrancy", f.Detector)
	}
}
