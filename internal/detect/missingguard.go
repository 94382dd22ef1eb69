// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"fmt"
	"strings"

	"solan/internal/ir"
)

// MissingGuardDetector is a supplemented advisory detector (not part of
// the original reentrancy check): it flags an entrypoint that issues an
// external-kind call before making any state-variable write at all,
// regardless of whether a write later follows the call. This surfaces
// functions whose checks-effects-interactions ordering cannot be judged
// safe just because the reentrancy detector stayed quiet — e.g. a
// function that calls out and only ever reads state afterward still
// deserves a second look if it never established any state invariant
// beforehand.
type MissingGuardDetector struct{}

func (*MissingGuardDetector) ID() string { return "missing-effects-interactions-guard" }

func (d *MissingGuardDetector) Run(contract *ir.ContractIR) []ir.Finding {
	stateVars := stateVarSet(contract)
	var findings []ir.Finding
	for _, fn := range contract.Entrypoints() {
		if fn.HasFatalError() {
			continue
		}
		if finding, ok := d.scanFunction(contract.Contract.Name, fn, stateVars); ok {
			findings = append(findings, finding)
		}
	}
	return findings
}

func (d *MissingGuardDetector) scanFunction(contractName string, fn *ir.FunctionIR, stateVars map[string]bool) (ir.Finding, bool) {
	sawWrite := false
	for _, blk := range fn.Blocks {
		for _, line := range blk.SSAStatements {
			trimmed := strings.TrimSpace(line)
			if m := stateWriteLHS.FindStringSubmatch(trimmed); m != nil && stateVars[m[1]] {
				sawWrite = true
				continue
			}
			if externalCallLine.MatchString(trimmed) && !sawWrite {
				return ir.Finding{
					Contract:    contractName,
					Function:    fn.Name,
					Detector:    d.ID(),
					Severity:    ir.SeverityMedium,
					Description: fmt.Sprintf("external call %q occurs before any state effect; verify checks-effects-interactions ordering", trimmed),
					Loc:         fn.Loc,
				}, true
			}
		}
	}
	return ir.Finding{}, false
}
