// SPDX-License-Identifier: Apache-2.0

// Package detect implements the Detector Engine (spec §4.11): a
// registry of detectors, each consuming a fully-built ContractIR and
// returning a Finding list, aggregated by the engine with no further
// interpretation.
package detect

import "solan/internal/ir"

// Detector evaluates a single contract's finalized IR and returns
// whatever findings it raises.
type Detector interface {
	ID() string
	Run(contract *ir.ContractIR) []ir.Finding
}

// Engine runs every registered detector over a contract and aggregates
// their findings in registration order.
type Engine struct {
	detectors []Detector

	// Enabled, when set, gates which detectors run by ID. A nil Enabled
	// runs every registered detector, matching Default()'s out-of-the-box
	// behavior with no `.solan.yaml` present.
	Enabled func(id string) bool
}

// NewEngine builds an engine from the given detectors. Order is
// preserved in the aggregated findings list.
func NewEngine(detectors ...Detector) *Engine {
	return &Engine{detectors: detectors}
}

// Default returns the engine this analyzer ships with: the reentrancy
// detector (spec §4.11.1) plus the two supplemented detectors described
// in the expanded specification.
func Default() *Engine {
	return NewEngine(
		&ReentrancyDetector{},
		&MissingGuardDetector{},
		&UnsupportedConstructDetector{},
	)
}

// Run evaluates every detector against contract, skipping the contract
// entirely if it failed to ingest (spec §7: a fatal contract-level
// error aborts analysis of that contract only).
func (e *Engine) Run(contract *ir.ContractIR) []ir.Finding {
	if contract.HasFatalError() {
		return nil
	}
	var findings []ir.Finding
	for _, d := range e.detectors {
		if e.Enabled != nil && !e.Enabled(d.ID()) {
			continue
		}
		findings = append(findings, d.Run(contract)...)
	}
	return findings
}
