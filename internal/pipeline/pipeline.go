// SPDX-License-Identifier: Apache-2.0

// Package pipeline orchestrates the full analysis pipeline (spec §2)
// over a parsed AST document: ingestion, per-function IR construction
// through SSA/phi/inlining/terminator finalization, and detection.
// Contracts are independent records (spec §5), so they are built
// concurrently with golang.org/x/sync/errgroup; the shared findings
// aggregator is guarded with github.com/sasha-s/go-deadlock, which
// panics loudly on a lock-ordering mistake instead of hanging a CI run
// silently.
package pipeline

import (
	"context"
	"sort"

	"github.com/sasha-s/go-deadlock"
	"golang.org/x/sync/errgroup"

	"solan/internal/access"
	"solan/internal/callclass"
	"solan/internal/cfgbuild"
	"solan/internal/classify"
	"solan/internal/config"
	"solan/internal/detect"
	solerrors "solan/internal/errors"
	"solan/internal/inline"
	"solan/internal/ir"
	"solan/internal/loopcall"
	"solan/internal/phi"
	"solan/internal/solast"
	"solan/internal/ssa"
	"solan/internal/term"
)

// Result is the core's full output for one AST document (spec §6): the
// built IR per contract, plus the aggregated findings list.
type Result struct {
	Contracts []*ir.ContractIR
	Findings  []ir.Finding
}

// Run ingests doc/source and builds every contract's IR and findings.
// When ingestion yields no contracts and at least one diagnostic
// (malformed JSON, missing "nodes" array, or every contract malformed),
// Run returns a nil Result and those diagnostics. Otherwise ingestion
// diagnostics are returned alongside the Result; a contract that failed
// to ingest is absent from Result.Contracts while the others are built
// (spec §7: a contract-level error aborts that contract only).
func Run(doc []byte, source string, cfg *config.Config) (*Result, []*solerrors.Diagnostic) {
	rawContracts, diags := solast.IngestDocument(doc, source)
	if rawContracts == nil && len(diags) > 0 {
		return nil, diags
	}

	engine := detect.Default()
	engine.Enabled = cfg.DetectorEnabled

	contractIRs := make([]*ir.ContractIR, len(rawContracts))
	var mu deadlock.Mutex
	var findings []ir.Finding

	g, _ := errgroup.WithContext(context.Background())
	for i, rc := range rawContracts {
		i, rc := i, rc
		g.Go(func() error {
			cir := BuildContract(rc, source)
			contractIRs[i] = cir

			cf := engine.Run(cir)
			var kept []ir.Finding
			for _, f := range cf {
				if cfg.MeetsThreshold(f.Severity) {
					kept = append(kept, f)
				}
			}
			mu.Lock()
			findings = append(findings, kept...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // every goroutine above is infallible; errors surface as diagnostics on the IR instead

	sort.SliceStable(findings, func(a, b int) bool {
		if findings[a].Contract != findings[b].Contract {
			return findings[a].Contract < findings[b].Contract
		}
		return findings[a].Function < findings[b].Function
	})

	return &Result{Contracts: contractIRs, Findings: findings}, diags
}

// BuildContract runs every pipeline stage but detection over a single
// ingested contract, producing its finalized ContractIR.
func BuildContract(rc *solast.Contract, source string) *ir.ContractIR {
	known := make(map[string]bool, len(rc.FunctionsByName))
	for name := range rc.FunctionsByName {
		known[name] = true
	}
	stateVars := rc.StateVariableNames()

	cir := &ir.ContractIR{
		Contract:        rc,
		FunctionsByName: make(map[string]*ir.FunctionIR, len(rc.Functions)),
	}

	for _, meta := range rc.Functions {
		fn := buildFunction(meta, source, known, stateVars)
		cir.Functions = append(cir.Functions, fn)
		cir.FunctionsByName[fn.Name] = fn
	}

	for _, fn := range cir.Functions {
		inline.Inline(cir, fn, known)
		patchInternalCallLocations(cir, fn)
		term.Finalize(fn)
	}

	return cir
}

func buildFunction(meta *solast.FunctionMeta, source string, known map[string]bool, stateVars []string) *ir.FunctionIR {
	stmts, diags := classify.Body(meta.Body, source)

	fn := &ir.FunctionIR{
		Name:        meta.Name,
		Visibility:  meta.Visibility,
		Params:      meta.Params,
		Loc:         meta.Loc,
		Blocks:      cfgbuild.Build(stmts),
		Diagnostics: diags,
	}

	for _, blk := range fn.Blocks {
		access.Track(blk, blk.Statements)
	}

	ssa.Build(fn, known)
	loopcall.Analyze(fn, stateVars)
	phi.Insert(fn)

	return fn
}

// patchInternalCallLocations rewrites every Internal-kind outgoing call
// to point at its callee's definition, per spec §3's Function IR field
// description ("location pointing to the definition of callee if
// known, else the call site").
func patchInternalCallLocations(cir *ir.ContractIR, fn *ir.FunctionIR) {
	for i, call := range fn.Calls {
		if call.Kind != callclass.Internal {
			continue
		}
		if callee, ok := cir.FunctionsByName[call.Callee]; ok {
			fn.Calls[i].Loc = callee.Loc
		}
	}
}
