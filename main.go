// SPDX-License-Identifier: Apache-2.0

// Command solan is a thin wrapper delegating to cmd/solan-cli; building
// from the module root (`go run .`) and building cmd/solan-cli directly
// produce the identical binary.
package main

import (
	"os"

	"solan/internal/cliapp"
)

func main() {
	os.Exit(cliapp.Run(os.Args[1:], os.Stdout, os.Stderr))
}
