package exercise

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is a named collection of exercise configs, typically loaded
// from a catalog file or seeded from the built-in defaults.
type Catalog struct {
	Exercises []*Config `json:"exercises" yaml:"exercises"`
}

// ByName returns the first exercise whose name matches (case-insensitive),
// or nil.
func (c *Catalog) ByName(name string) *Config {
	for _, ex := range c.Exercises {
		if strings.EqualFold(ex.Name, name) {
			return ex
		}
	}
	return nil
}

// ParseConfig decodes a single exercise config from JSON and finalizes it.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse exercise config JSON: %w", err)
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadCatalog reads a catalog file. The format is chosen by extension:
// .json, or .yaml/.yml. Every config in the file is finalized; a single
// malformed config fails the whole load so a partial catalog never
// enters service.
func LoadCatalog(path string) (*Catalog, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var cat Catalog
	switch ext := filepath.Ext(cleanPath); ext {
	case ".json":
		if err := json.Unmarshal(data, &cat); err != nil {
			return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cat); err != nil {
			return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("catalog file must be .json, .yaml or .yml, got %q", ext)
	}

	for _, ex := range cat.Exercises {
		if err := ex.Finalize(); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", cleanPath, err)
		}
	}
	return &cat, nil
}
