// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"fmt"
	"regexp"
	"strings"

	"solan/internal/ir"
)

// externalCallLine matches an SSA call statement of external flavor
// (spec §4.11.1 rule 4: a Revert-kind call never arms the detector —
// Revert never reaches this text shape in the first place, since
// revert/require/assert are rendered as `revert [...]`, not a call).
var externalCallLine = regexp.MustCompile(`ret_\d+ = call\[(external|low_level_external|delegatecall|staticcall)\]\(([^,)]+)`)

// stateWriteLHS matches the left-hand side of an SSA write statement,
// capturing the base variable name (structured or scalar).
var stateWriteLHS = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(\[[^=]*\])?_\d+\s*=`)

// ReentrancyDetector implements spec §4.11.1: an external-kind call
// followed, on some linearized-IR path, by a write to a declared state
// variable.
type ReentrancyDetector struct{}

func (*ReentrancyDetector) ID() string { return "reentrancy" }

func (d *ReentrancyDetector) Run(contract *ir.ContractIR) []ir.Finding {
	stateVars := stateVarSet(contract)
	var findings []ir.Finding
	for _, fn := range contract.Entrypoints() {
		if fn.HasFatalError() {
			continue
		}
		findings = append(findings, d.scanFunction(contract.Contract.Name, fn, stateVars)...)
	}
	return findings
}

func (d *ReentrancyDetector) scanFunction(contractName string, fn *ir.FunctionIR, stateVars map[string]bool) []ir.Finding {
	var findings []ir.Finding
	var seenExternal bool
	var trigger string

	for _, blk := range fn.Blocks {
		for _, line := range blk.SSAStatements {
			if m := externalCallLine.FindStringSubmatch(line); m != nil {
				seenExternal = true
				trigger = strings.TrimSpace(line)
				continue
			}
			if !seenExternal {
				continue
			}
			m := stateWriteLHS.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil || !stateVars[m[1]] {
				continue
			}
			findings = append(findings, ir.Finding{
				Contract:    contractName,
				Function:    fn.Name,
				Detector:    d.ID(),
				Severity:    ir.SeverityHigh,
				Description: fmt.Sprintf("state write %q follows external call %q without a guard", strings.TrimSpace(line), trigger),
				Loc:         fn.Loc,
			})
			// One finding per armed function: further writes on the same
			// unguarded path are symptoms of the same violation, not new
			// ones (spec §8 scenario 2).
			return findings
		}
	}
	return findings
}

func stateVarSet(contract *ir.ContractIR) map[string]bool {
	set := make(map[string]bool)
	for _, name := range contract.Contract.StateVariableNames() {
		set[name] = true
	}
	return set
}
