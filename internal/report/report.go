// SPDX-License-Identifier: Apache-2.0

// Package report turns a pipeline.Result's findings into CLI output:
// a colorized table for humans or a JSON array for machine consumers,
// each finding stamped with a fresh ksuid and a slugged detector ID.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/iancoleman/strcase"
	"github.com/segmentio/ksuid"

	"solan/internal/ir"
	"solan/internal/ssatext"
)

// StampedFinding is a Finding plus the presentation fields report adds:
// a unique ID and a kebab-case detector slug, independent of however
// the detector itself spelled its ID() string.
type StampedFinding struct {
	ID          string     `json:"id"`
	Contract    string     `json:"contract"`
	Function    string     `json:"function"`
	Detector    string     `json:"detector"`
	Severity    ir.Severity `json:"severity"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
}

// Stamp assigns a ksuid and a normalized slug to every finding, in
// input order. Each ID is a new ksuid, so a re-run of the same analysis
// assigns different IDs; ksuids sort by creation second only, so IDs
// created within the same second do not sort in input order.
func Stamp(findings []ir.Finding) []StampedFinding {
	out := make([]StampedFinding, len(findings))
	for i, f := range findings {
		out[i] = StampedFinding{
			ID:          ksuid.New().String(),
			Contract:    f.Contract,
			Function:    f.Function,
			Detector:    strcase.ToKebab(f.Detector),
			Severity:    f.Severity,
			Description: f.Description,
			Location:    f.Loc.String(),
		}
	}
	return out
}

// WriteJSON writes findings as a JSON array.
func WriteJSON(w io.Writer, findings []StampedFinding) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

// WriteTable writes findings as an aligned, severity-colored table. An
// empty findings list still prints a header so CI logs show the tool
// ran rather than looking like it silently produced nothing.
func WriteTable(w io.Writer, findings []StampedFinding) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEVERITY\tDETECTOR\tCONTRACT\tFUNCTION\tLOCATION\tDESCRIPTION")
	for _, f := range findings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			colorSeverity(f.Severity), f.Detector, f.Contract, f.Function, f.Location, f.Description)
	}
	return tw.Flush()
}

// WriteDebugSSA dumps every function's basic blocks and SSA statements,
// re-parsing each statement through internal/ssatext so a malformed SSA
// line (an analyzer bug, never user input) surfaces as a parse error
// right next to the line that produced it instead of failing silently
// inside a detector's regex match.
func WriteDebugSSA(w io.Writer, contracts []*ir.ContractIR) {
	for _, c := range contracts {
		for _, fn := range c.Functions {
			fmt.Fprintf(w, "-- %s.%s --\n", c.Contract.Name, fn.Name)
			for _, blk := range fn.Blocks {
				fmt.Fprintf(w, "  %s:\n", blk.ID)
				for _, line := range blk.SSAStatements {
					stmt, err := ssatext.Parse(line)
					if err != nil {
						fmt.Fprintf(w, "    %s    ; <unparsed: %v>\n", line, err)
						continue
					}
					fmt.Fprintf(w, "    %s    ; %s\n", line, stmt.Describe())
				}
			}
		}
	}
}

func colorSeverity(sev ir.Severity) string {
	switch sev {
	case ir.SeverityHigh:
		return color.New(color.FgRed, color.Bold).Sprint(sev)
	case ir.SeverityMedium:
		return color.New(color.FgYellow).Sprint(sev)
	default:
		return color.New(color.FgCyan).Sprint(sev)
	}
}
