// Package config reads engine configuration from YAML, falling back to
// built-in defaults for anything left unset.
package config

import (
	"fmt"
	"os"

	"github.com/imdario/mergo"
	"gopkg.in/yaml.v3"
)

// Config carries the engine knobs.
type Config struct {
	// MaxParseDepth bounds document nesting at parse time; 0 disables
	// the check.
	MaxParseDepth int `yaml:"maxParseDepth"`

	// QueryCacheSize caps the compiled-query cache; 0 disables caching.
	QueryCacheSize int `yaml:"queryCacheSize"`

	// CompactStorage stores documents in the interned backing.
	CompactStorage bool `yaml:"compactStorage"`

	Defrag DefragConfig `yaml:"defrag"`
}

// DefragConfig paces the background compaction pass.
type DefragConfig struct {
	// KeysPerSecond throttles how fast defrag walks the keyspace.
	KeysPerSecond float64 `yaml:"keysPerSecond"`

	// Burst is the limiter burst size.
	Burst int `yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxParseDepth:  128,
		QueryCacheSize: 1024,
		Defrag: DefragConfig{
			KeysPerSecond: 100,
			Burst:         10,
		},
	}
}

// Load reads a YAML config file and merges the defaults into every
// field the file leaves at its zero value.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := mergo.Merge(&cfg, Default()); err != nil {
		return Config{}, fmt.Errorf("merging defaults: %w", err)
	}
	return cfg, nil
}
