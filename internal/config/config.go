// Package config loads the MoonspecConfig record described in spec §6.4.
// The core accepts an already-parsed MoonspecConfig; this package is the
// ambient (but non-core) convenience loader, the way muster's pkg/config
// and adest's config layer load their own YAML settings with
// gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StepsConfig controls generated step-file scanning/output — a collaborator
// concern (spec §1's "generated test-file emission"); the core never reads
// these fields itself.
type StepsConfig struct {
	Output  string   `yaml:"output" json:"output"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// FormatterConfig names one output formatter/sink to wire up at the
// collaborator boundary (spec §6.4).
type FormatterConfig struct {
	Type    string `yaml:"type" json:"type"`
	Output  string `yaml:"output" json:"output"`
	NoColor bool   `yaml:"no_color" json:"noColor"`
}

// Mode is either a simple string ("per-scenario"/"per-feature") or, per
// spec §6.4, a per-file map; PerFile carries the map form and Simple the
// string form. Once Parse validates the raw YAML value at most one is
// populated; neither is when mode is omitted.
type Mode struct {
	Simple  string
	PerFile map[string]string
}

// MoonspecConfig is the parsed configuration record (spec §6.4). File
// parsing lives entirely in this package; the rest of moonspec accepts a
// *MoonspecConfig as already-parsed data.
type MoonspecConfig struct {
	World      string            `yaml:"world" json:"world"`
	Mode       Mode              `yaml:"-" json:"-"`
	Steps      *StepsConfig      `yaml:"steps" json:"steps"`
	Formatters []FormatterConfig `yaml:"formatters" json:"formatters"`
}

// rawConfig mirrors MoonspecConfig but leaves Mode as an untyped YAML
// node so Parse can distinguish the string and map forms.
type rawConfig struct {
	World      string            `yaml:"world"`
	Mode       yaml.Node         `yaml:"mode"`
	Steps      *StepsConfig      `yaml:"steps"`
	Formatters []FormatterConfig `yaml:"formatters"`
}

// Parse decodes a MoonspecConfig from YAML bytes.
func Parse(data []byte) (*MoonspecConfig, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("moonspec config: %w", err)
	}

	cfg := &MoonspecConfig{World: raw.World, Steps: raw.Steps, Formatters: raw.Formatters}

	switch raw.Mode.Kind {
	case 0:
		// mode omitted.
	case yaml.ScalarNode:
		cfg.Mode = Mode{Simple: raw.Mode.Value}
	case yaml.MappingNode:
		m := map[string]string{}
		if err := raw.Mode.Decode(&m); err != nil {
			return nil, fmt.Errorf("moonspec config: mode: %w", err)
		}

		cfg.Mode = Mode{PerFile: m}
	default:
		return nil, fmt.Errorf("moonspec config: mode must be a string or a per-file map")
	}

	return cfg, nil
}

// Load reads and parses a MoonspecConfig from a YAML file on disk.
func Load(path string) (*MoonspecConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("moonspec config: %w", err)
	}

	return Parse(data)
}
