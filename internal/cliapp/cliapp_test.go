// SPDX-License-Identifier: Apache-2.0

package cliapp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_NoArgsPrintsUsageAndExitsTwo(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := Run(nil, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "usage:")
}

func TestRun_UnknownFlagExitsTwo(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := Run([]string{"--not-a-real-flag", "x.json"}, &stdout, &stderr)

	assert.Equal(t, 2, code)
}

func TestRun_MissingASTFileExitsOne(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := Run([]string{filepath.Join(t.TempDir(), "missing.json")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "failed to read AST document")
}

func TestRun_MissingSourceFileExitsOne(t *testing.T) {
	dir := t.TempDir()
	astPath := filepath.Join(dir, "contract.json")
	if err := os.WriteFile(astPath, []byte(`{"nodes":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer

	code := Run([]string{astPath}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "failed to read source file")
}

func TestWithExtension(t *testing.T) {
	cases := map[string]string{
		"contract.json":          "contract.sol",
		"path/to/contract.json":  "path/to/contract.sol",
		"noextension":            "noextension.sol",
		"path/to/noext":          "path/to/noext.sol",
	}
	for in, want := range cases {
		assert.Equal(t, want, withExtension(in, ".sol"))
	}
}
