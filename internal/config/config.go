// SPDX-License-Identifier: Apache-2.0

// Package config loads the optional `.solan.yaml` project configuration
// file: a minimum severity threshold and a detector allow/deny list, in
// the spirit of gosec's `-include`/`-exclude` flags but file-based so a
// repository can commit its own defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"solan/internal/ir"
)

// DefaultFileName is the config file solan looks for in the working
// directory when --config is not given.
const DefaultFileName = ".solan.yaml"

// Config is the parsed shape of a `.solan.yaml` file. All fields are
// optional; the zero value means "no project overrides".
type Config struct {
	// MinSeverity drops findings below this severity. Empty means no
	// filtering. Valid values match ir.Severity: "Low", "Medium", "High".
	MinSeverity string `yaml:"min_severity"`

	// Detectors lists detector IDs to enable or disable explicitly. A
	// detector present in Disable wins over one present in Enable.
	Detectors struct {
		Disable []string `yaml:"disable"`
		Enable  []string `yaml:"enable"`
	} `yaml:"detectors"`

	// Format is the default report format ("table" or "json") used when
	// --format is not passed on the command line.
	Format string `yaml:"format"`
}

// Load reads and parses path. A missing file is not an error: it
// returns the zero Config, matching the "optional" contract.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// severityRank orders severities for threshold comparison, lowest first.
var severityRank = map[ir.Severity]int{
	ir.SeverityLow:    0,
	ir.SeverityMedium: 1,
	ir.SeverityHigh:   2,
}

// MeetsThreshold reports whether sev is at or above the configured
// MinSeverity. An unset or unrecognized MinSeverity admits everything.
func (c *Config) MeetsThreshold(sev ir.Severity) bool {
	if c == nil || c.MinSeverity == "" {
		return true
	}
	min, ok := severityRank[ir.Severity(c.MinSeverity)]
	if !ok {
		return true
	}
	return severityRank[sev] >= min
}

// DetectorEnabled reports whether id should run, applying Disable then
// Enable (an explicit Enable list, if non-empty, is an allow-list).
func (c *Config) DetectorEnabled(id string) bool {
	if c == nil {
		return true
	}
	for _, d := range c.Detectors.Disable {
		if d == id {
			return false
		}
	}
	if len(c.Detectors.Enable) == 0 {
		return true
	}
	for _, d := range c.Detectors.Enable {
		if d == id {
			return true
		}
	}
	return false
}
