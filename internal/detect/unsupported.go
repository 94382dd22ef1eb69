// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"fmt"

	solerrors "solan/internal/errors"
	"solan/internal/ir"
)

// UnsupportedConstructDetector surfaces every non-fatal
// UnsupportedConstruct diagnostic a function accumulated during
// ingestion/classification (spec §7) as a Low-severity finding, so the
// CLI's single findings table also carries "here's what I couldn't
// analyze" instead of silently dropping it.
type UnsupportedConstructDetector struct{}

func (*UnsupportedConstructDetector) ID() string { return "unsupported-construct" }

func (d *UnsupportedConstructDetector) Run(contract *ir.ContractIR) []ir.Finding {
	var findings []ir.Finding
	for _, fn := range contract.Functions {
		for _, diag := range fn.Diagnostics {
			if diag.Code != solerrors.CodeUnsupportedConstruct {
				continue
			}
			findings = append(findings, ir.Finding{
				Contract:    contract.Contract.Name,
				Function:    fn.Name,
				Detector:    d.ID(),
				Severity:    ir.SeverityLow,
				Description: fmt.Sprintf("%s (analysis of this construct was skipped)", diag.Message),
				Loc:         diag.Location,
			})
		}
	}
	return findings
}
