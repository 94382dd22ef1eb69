// SPDX-License-Identifier: Apache-2.0

package solast

import (
	"encoding/json"
	"fmt"
	"strings"

	"solan/internal/loc"

	solerrors "solan/internal/errors"
)

// IngestDocument decodes a parsed Solidity AST document and extracts one
// Contract record per ContractDefinition found at the top level (spec
// §4.1). Missing or malformed AST is reported, never guessed: a shape
// mismatch produces an InputMalformed diagnostic and that contract (or
// the whole document, if the mismatch is at the top level) is skipped.
func IngestDocument(doc []byte, source string) ([]*Contract, []*solerrors.Diagnostic) {
	var raw interface{}
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, []*solerrors.Diagnostic{
			solerrors.InputMalformed(loc.SourceLocation{}, fmt.Sprintf("AST document is not valid JSON: %s", err)),
		}
	}

	root, ok := raw.(map[string]interface{})
	if !ok {
		return nil, []*solerrors.Diagnostic{
			solerrors.InputMalformed(loc.SourceLocation{}, "AST document root is not a JSON object"),
		}
	}

	topNodes := Node(root).Children("nodes")
	if topNodes == nil {
		return nil, []*solerrors.Diagnostic{
			solerrors.InputMalformed(loc.SourceLocation{}, "AST document has no top-level \"nodes\" array"),
		}
	}

	var pragmas []string
	var contracts []*Contract
	var diags []*solerrors.Diagnostic

	for _, n := range topNodes {
		switch n.NodeType() {
		case "PragmaDirective":
			pragmas = append(pragmas, joinLiterals(n))
		case "ContractDefinition":
			c, cdiags := ingestContract(n, source, strings.Join(pragmas, " "))
			diags = append(diags, cdiags...)
			if c != nil {
				contracts = append(contracts, c)
			}
		}
	}

	return contracts, diags
}

func joinLiterals(pragma Node) string {
	raw, _ := pragma["literals"].([]interface{})
	parts := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func ingestContract(n Node, source, pragma string) (*Contract, []*solerrors.Diagnostic) {
	name := n.Name()
	if name == "" {
		return nil, []*solerrors.Diagnostic{
			solerrors.InputMalformed(ResolveLocation(source, n.Src()), "ContractDefinition missing a name"),
		}
	}

	c := &Contract{
		Name:            name,
		Pragma:          pragma,
		FunctionsByName: make(map[string]*FunctionMeta),
	}

	var diags []*solerrors.Diagnostic

	for _, item := range n.Children("nodes") {
		switch item.NodeType() {
		case "VariableDeclaration":
			if item.Bool("stateVariable") {
				c.StateVars = append(c.StateVars, StateVariable{
					Name: item.Name(),
					Type: item.TypeString(),
					Loc:  ResolveLocation(source, item.Src()),
				})
			}
		case "FunctionDefinition":
			fn, fdiags := ingestFunction(item, source)
			diags = append(diags, fdiags...)
			if fn != nil {
				c.Functions = append(c.Functions, fn)
				c.FunctionsByName[fn.Name] = fn
			}
		case "EventDefinition":
			c.Events = append(c.Events, EventMeta{
				Name: item.Name(),
				Loc:  ResolveLocation(source, item.Src()),
			})
		}
	}

	return c, diags
}

func ingestFunction(n Node, source string) (*FunctionMeta, []*solerrors.Diagnostic) {
	name := n.Name()
	if name == "" {
		// Constructors and fallback/receive functions carry no name in
		// solc's AST; give them a stable synthetic one.
		switch n.String("kind") {
		case "constructor":
			name = "constructor"
		case "fallback":
			name = "fallback"
		case "receive":
			name = "receive"
		default:
			name = "<anonymous>"
		}
	}

	visibility := Visibility(n.String("visibility"))
	if visibility == "" {
		visibility = VisibilityPublic
	}

	var params []Param
	if pl := n.Child("parameters"); pl != nil {
		for _, p := range pl.Children("parameters") {
			params = append(params, Param{Name: p.Name(), Type: p.TypeString()})
		}
	}

	fn := &FunctionMeta{
		Name:       name,
		Visibility: visibility,
		Params:     params,
		Loc:        ResolveLocation(source, n.Src()),
	}

	if body := n.Child("body"); body != nil {
		fn.Body = body.Children("statements")
	}

	return fn, nil
}
