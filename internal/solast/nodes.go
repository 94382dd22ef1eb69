// SPDX-License-Identifier: Apache-2.0

// Package solast ingests an already-parsed Solidity AST document (as
// produced by an external compiler driver, out of scope for this
// package — see spec §6) and the raw source text, and extracts the
// per-contract metadata the rest of the pipeline builds on.
//
// The AST document is decoded generically, the way the compact-JSON AST
// solc itself emits is heterogeneous across node kinds: a node is just a
// JSON object with a "nodeType" discriminator and a "src" location tag.
// Typed statement/expression trees are built one stage later, by
// internal/classify, from the raw node slices this package hands off.
package solast

// Node is a single decoded AST node: a JSON object keyed by field name.
// Concrete field shapes vary by NodeType and are read with the typed
// accessors below rather than unmarshaled into per-kind Go structs,
// mirroring the "closed algebraic sum, pattern-matched" design this
// analyzer favors (spec §9) without needing one Go type per solc node.
type Node map[string]interface{}

// NodeType returns the "nodeType" discriminator, or "" if absent/not a
// node at all (e.g. a nil child slot).
func (n Node) NodeType() string {
	if n == nil {
		return ""
	}
	return stringField(n, "nodeType")
}

// Src returns the raw "offset:length:fileIndex" location tag.
func (n Node) Src() string {
	return stringField(n, "src")
}

// Name returns the "name" field, used by declarations and identifiers.
func (n Node) Name() string {
	return stringField(n, "name")
}

// Child returns a single nested node field (e.g. "body", "condition").
func (n Node) Child(field string) Node {
	return asNode(n[field])
}

// Children returns a nested array-of-node field (e.g. "statements").
func (n Node) Children(field string) []Node {
	return asNodeSlice(n[field])
}

// Bool returns a boolean field, defaulting to false when absent.
func (n Node) Bool(field string) bool {
	v, _ := n[field].(bool)
	return v
}

// String returns a string field, defaulting to "" when absent.
func (n Node) String(field string) string {
	return stringField(n, field)
}

// TypeString best-effort extracts a human-readable declared type for a
// VariableDeclaration node, the way solc's typeDescriptions.typeString
// surfaces it, falling back to the bare typeName node's name.
func (n Node) TypeString() string {
	if td := n.Child("typeDescriptions"); td != nil {
		if s := td.String("typeString"); s != "" {
			return s
		}
	}
	if tn := n.Child("typeName"); tn != nil {
		if s := tn.Name(); s != "" {
			return s
		}
		if s := tn.String("typeString"); s != "" {
			return s
		}
	}
	return "unknown"
}

func stringField(n Node, field string) string {
	if n == nil {
		return ""
	}
	s, _ := n[field].(string)
	return s
}

func asNode(v interface{}) Node {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	return Node(m)
}

func asNodeSlice(v interface{}) []Node {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]Node, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, Node(m))
		}
	}
	return out
}
