package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// OptionsFilename is the options file seeded into the config directory.
const OptionsFilename = "entrypoint.yml"

// DefaultOptions returns the default bootstrap options.
func DefaultOptions() *Options {
	return &Options{
		ServerCommand:  []string{"python3", "server.py"},
		DBToolCommand:  []string{"python3", "db_manager.py"},
		DirMode:        "0777",
		StrictSymlinks: false,
		LogLevel:       "info",
	}
}

// DefaultOptionsYAML returns the default options as YAML bytes, used to seed
// the options file on first run.
func DefaultOptionsYAML() ([]byte, error) {
	data, err := yaml.Marshal(DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default options: %w", err)
	}
	return data, nil
}
