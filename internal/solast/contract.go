// SPDX-License-Identifier: Apache-2.0

package solast

import "solan/internal/loc"

// Visibility is a function's declared visibility. Only Public and
// External functions are entrypoints (spec GLOSSARY).
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityExternal Visibility = "external"
	VisibilityInternal Visibility = "internal"
	VisibilityPrivate  Visibility = "private"
)

// IsEntrypoint reports whether a function with this visibility is
// externally callable.
func (v Visibility) IsEntrypoint() bool {
	return v == VisibilityPublic || v == VisibilityExternal
}

// StateVariable is a contract-level declared variable.
type StateVariable struct {
	Name string
	Type string
	Loc  loc.SourceLocation
}

// EventMeta is a declared event.
type EventMeta struct {
	Name string
	Loc  loc.SourceLocation
}

// Param is a function parameter: a declared name and type.
type Param struct {
	Name string
	Type string
}

// FunctionMeta is the per-function metadata the ingestor extracts,
// plus the function's raw, not-yet-classified body statement nodes for
// the Statement Classifier (spec §4.2) to consume.
type FunctionMeta struct {
	Name       string
	Visibility Visibility
	Params     []Param
	Loc        loc.SourceLocation
	Body       []Node // raw top-level statements of the function block; nil if the function has no body (interface/abstract)
}

// Contract is a single contract definition: name, pragma, state
// variables, functions, and events (spec §3).
type Contract struct {
	Name            string
	Pragma          string
	StateVars       []StateVariable
	Functions       []*FunctionMeta
	FunctionsByName map[string]*FunctionMeta
	Events          []EventMeta
}

// Entrypoints returns the contract's public/external functions in
// declaration order.
func (c *Contract) Entrypoints() []*FunctionMeta {
	var out []*FunctionMeta
	for _, fn := range c.Functions {
		if fn.Visibility.IsEntrypoint() {
			out = append(out, fn)
		}
	}
	return out
}

// HasStateVariable reports whether name (a base, unstructured name)
// names a declared state variable of this contract.
func (c *Contract) HasStateVariable(name string) bool {
	for _, sv := range c.StateVars {
		if sv.Name == name {
			return true
		}
	}
	return false
}

// StateVariableNames returns the base names of every declared state
// variable, used by the Loop-Call Analyzer's conservative over-
// approximation (spec §4.7).
func (c *Contract) StateVariableNames() []string {
	names := make([]string, 0, len(c.StateVars))
	for _, sv := range c.StateVars {
		names = append(names, sv.Name)
	}
	return names
}
