// SPDX-License-Identifier: Apache-2.0

// Package cliapp holds the solan-cli command's flag parsing and
// orchestration logic, importable by both cmd/solan-cli's real binary
// and the module-root convenience wrapper, since a package named main
// can't itself be imported.
package cliapp

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"solan/internal/config"
	"solan/internal/pipeline"
	"solan/internal/report"
)

// Run executes the CLI with args (conventionally os.Args[1:]) and
// returns the process exit status. stdout/stderr are parameterized for
// tests; production callers pass os.Stdout/os.Stderr.
func Run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("solan-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "table", "output format: table or json")
	minSeverity := fs.String("min-severity", "", "drop findings below this severity (Low, Medium, High)")
	jsonOut := fs.Bool("json", false, "shorthand for --format json")
	configPath := fs.String("config", config.DefaultFileName, "path to the .solan.yaml project config")
	debug := fs.Bool("debug", false, "dump per-function basic blocks and SSA statements before the findings table")
	sourcePath := fs.String("source", "", "path to the original Solidity source file (defaults to the AST path with .sol)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: solan-cli [flags] <ast.json>")
		fs.PrintDefaults()
		return 2
	}
	astPath := fs.Arg(0)
	srcPath := *sourcePath
	if srcPath == "" {
		srcPath = withExtension(astPath, ".sol")
	}

	doc, err := os.ReadFile(astPath)
	if err != nil {
		color.New(color.FgRed).Fprintf(stderr, "failed to read AST document %s: %s\n", astPath, err)
		return 1
	}
	source, err := os.ReadFile(srcPath)
	if err != nil {
		color.New(color.FgRed).Fprintf(stderr, "failed to read source file %s: %s\n", srcPath, err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		color.New(color.FgRed).Fprintf(stderr, "%s\n", err)
		return 1
	}
	if *minSeverity != "" {
		cfg.MinSeverity = *minSeverity
	}

	formatSetExplicitly := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "format" {
			formatSetExplicitly = true
		}
	})

	effectiveFormat := *format
	switch {
	case *jsonOut:
		effectiveFormat = "json"
	case !formatSetExplicitly && cfg.Format != "":
		effectiveFormat = cfg.Format
	}

	result, diags := pipeline.Run(doc, source, cfg)
	for _, d := range diags {
		reportDiagnostic(stderr, d)
	}
	if result == nil {
		return 1
	}

	if *debug {
		report.WriteDebugSSA(stdout, result.Contracts)
	}

	fatal := false
	for _, c := range result.Contracts {
		for _, fn := range c.Functions {
			for _, d := range fn.Diagnostics {
				reportDiagnostic(stderr, d)
			}
			if fn.HasFatalError() {
				fatal = true
			}
		}
	}

	stamped := report.Stamp(result.Findings)
	switch effectiveFormat {
	case "json":
		if err := report.WriteJSON(stdout, stamped); err != nil {
			color.New(color.FgRed).Fprintf(stderr, "failed to write JSON report: %s\n", err)
			return 1
		}
	default:
		if err := report.WriteTable(stdout, stamped); err != nil {
			color.New(color.FgRed).Fprintf(stderr, "failed to write report: %s\n", err)
			return 1
		}
	}

	if fatal {
		return 1
	}
	return 0
}

func reportDiagnostic(w io.Writer, d interface{ Error() string }) {
	color.New(color.FgYellow).Fprintf(w, "warning: %s\n", d.Error())
}

func withExtension(path, ext string) string {
	if i := strings.LastIndexAny(path, "./"); i >= 0 && path[i] == '.' {
		return path[:i] + ext
	}
	return path + ext
}
