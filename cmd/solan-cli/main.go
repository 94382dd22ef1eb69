// SPDX-License-Identifier: Apache-2.0

// Command solan-cli is the analyzer's command-line front end: it reads a
// Solidity AST JSON document and its source file, runs the pipeline, and
// prints the findings table (or JSON, with --format json). Exit status
// is non-zero only when a fatal contract-level error occurred, matching
// spec §7's "user-visible behavior" contract.
package main

import (
	"os"

	"solan/internal/cliapp"
)

func main() {
	os.Exit(cliapp.Run(os.Args[1:], os.Stdout, os.Stderr))
}
