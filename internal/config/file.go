package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned by LoadFile when the given path does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// FileConfig is the raw key/value mapping loaded from a YAML config file.
// Recognized keys mirror the CLI flag names (target, method, attacks,
// connections, duration, confirm_target, stealth); unrecognized keys are kept
// but ignored by the reconciler.
type FileConfig map[string]interface{}

// LoadFile loads a YAML config file into a FileConfig. An empty path yields an
// empty mapping with no error. A path that does not exist is an error, checked
// before any parsing or merging happens. An empty or null document yields an
// empty mapping.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var raw FileConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if raw == nil {
		raw = FileConfig{}
	}

	if err := checkSchema(raw); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return raw, nil
}
