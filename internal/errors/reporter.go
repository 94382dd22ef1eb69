// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter renders Diagnostics against a source file in the caret style
// of the compiler this analyzer's front end was adapted from.
type Reporter struct {
	filename string
	lines    []string
}

// NewReporter builds a Reporter for a single source file.
func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders a single diagnostic as a multi-line, colorized string.
func (r *Reporter) Format(d *Diagnostic) string {
	var b strings.Builder

	levelColor := r.levelColor(d.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	b.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(string(d.Level)), d.Code, d.Message))

	if d.Location.Zero() {
		for _, note := range d.Notes {
			b.WriteString(fmt.Sprintf("  %s %s\n", dim("note:"), note))
		}
		return b.String()
	}

	width := lineNumberWidth(d.Location.Line)
	indent := strings.Repeat(" ", width)

	b.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n", indent, dim("-->"), r.filename, d.Location.Line, d.Location.Column))
	b.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if d.Location.Line >= 1 && d.Location.Line <= len(r.lines) {
		lineContent := r.lines[d.Location.Line-1]
		b.WriteString(fmt.Sprintf("%s %s %s\n", bold(fmt.Sprintf("%*d", width, d.Location.Line)), dim("│"), lineContent))

		col := d.Location.Column
		if col < 1 {
			col = 1
		}
		caret := strings.Repeat(" ", col-1) + levelColor("^")
		b.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), caret))
	}

	for _, note := range d.Notes {
		b.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("="), note))
	}

	return b.String()
}

// FormatAll renders every diagnostic separated by a blank line.
func (r *Reporter) FormatAll(diags []*Diagnostic) string {
	parts := make([]string, 0, len(diags))
	for _, d := range diags {
		parts = append(parts, r.Format(d))
	}
	return strings.Join(parts, "\n")
}

func (r *Reporter) levelColor(level Level) func(a ...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		return color.New(color.FgCyan).SprintFunc()
	}
}

func lineNumberWidth(line int) int {
	width := 1
	for line >= 10 {
		line /= 10
		width++
	}
	return width
}
