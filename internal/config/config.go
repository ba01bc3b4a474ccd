// Package config loads the YAML-backed defaults for encode/decode options,
// with the same file-discovery strategy the teacher CLI uses for its own
// dotfile.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcncl/gotoon/toon"
	"gopkg.in/yaml.v3"
)

// Config is the YAML-serializable superset of EncodeOptions/DecodeOptions
// that a .gotoon.yml file may set as defaults.
type Config struct {
	Indent       int    `yaml:"indent"`
	Delimiter    string `yaml:"delimiter"`
	KeyFolding   string `yaml:"key_folding"`
	FlattenDepth int    `yaml:"flatten_depth"`
	Strict       bool   `yaml:"strict"`
	ExpandPaths  string `yaml:"expand_paths"`
}

// NewConfig returns a Config holding the spec's documented defaults.
func NewConfig() *Config {
	return &Config{
		Indent:       2,
		Delimiter:    "comma",
		KeyFolding:   "off",
		FlattenDepth: 0,
		Strict:       true,
		ExpandPaths:  "off",
	}
}

// LoadConfig reads and parses a YAML config file, starting from the
// defaults so any field the file omits keeps its default value.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// FindConfigFile searches the current directory and its ancestors for a
// .gotoon.yml / .gotoon.yaml / gotoon.yml / gotoon.yaml file, returning the
// first match or "" if none is found.
func FindConfigFile() string {
	names := []string{".gotoon.yml", ".gotoon.yaml", "gotoon.yml", "gotoon.yaml"}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// EncodeOptions projects the encode-relevant fields into toon.EncodeOptions.
func (c *Config) EncodeOptions() toon.EncodeOptions {
	return toon.EncodeOptions{
		Indent:       c.Indent,
		Delimiter:    c.Delimiter,
		KeyFolding:   c.KeyFolding,
		FlattenDepth: c.FlattenDepth,
	}
}

// DecodeOptions projects the decode-relevant fields into toon.DecodeOptions.
func (c *Config) DecodeOptions() toon.DecodeOptions {
	return toon.DecodeOptions{
		Indent:      c.Indent,
		Strict:      c.Strict,
		ExpandPaths: c.ExpandPaths,
		MaxDepth:    1000,
	}
}
