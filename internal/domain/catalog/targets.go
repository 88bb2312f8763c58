package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTargets reads the targets document at path: a top-level sequence of
// item names.
func LoadTargets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open targets file: %w", err)
	}
	defer f.Close()

	targets, err := ParseTargets(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse targets file %s: %w", path, err)
	}
	return targets, nil
}

// ParseTargets parses a targets document.
func ParseTargets(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets document: %w", err)
	}

	var targets []string
	if err := yaml.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("targets document must be a YAML sequence of item names: %w", err)
	}
	return targets, nil
}
