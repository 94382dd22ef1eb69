// SPDX-License-Identifier: Apache-2.0

// Package loc defines the source location type shared by every stage of
// the analysis pipeline. It carries no other dependency so that both the
// ingestion and diagnostics layers can depend on it without a cycle.
package loc

import "fmt"

// SourceLocation is a (line, column) pair resolved from a byte offset into
// the original source text. Lines and columns are 1-indexed.
type SourceLocation struct {
	Line   int
	Column int
}

// Zero reports whether this is the unresolved/unknown location.
func (l SourceLocation) Zero() bool {
	return l.Line == 0 && l.Column == 0
}

func (l SourceLocation) String() string {
	if l.Zero() {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}
