// Package config holds the behavioural settings of the query layer.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings controls query-layer behaviour. The zero value is not the
// default; use Default.
type Settings struct {
	// ScansEnabled allows queries without any index filter to run as full
	// scans. Scans can slow the server down, so they are off by default.
	ScansEnabled bool `json:"scans_enabled" yaml:"scans_enabled"`

	// SendKey stores the primary key with the record so query results carry
	// the original key and not just its digest.
	SendKey bool `json:"send_key" yaml:"send_key"`
}

// Default returns the default settings.
func Default() *Settings {
	return &Settings{
		ScansEnabled: false,
		SendKey:      true,
	}
}

// Load reads settings from a YAML file, applying defaults for absent keys.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	return Parse(data)
}

// Parse decodes settings from YAML, applying defaults for absent keys.
func Parse(data []byte) (*Settings, error) {
	settings := Default()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}
