package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the optional TOML-driven settings. Everything has a
// usable default; a missing config file means defaults throughout.
type Config struct {
	Emit     EmitConfig     `toml:"emit"`
	Types    TypesConfig    `toml:"types"`
	Snapshot SnapshotConfig `toml:"snapshot"`
}

// EmitConfig controls optional parts of the DBML output.
type EmitConfig struct {
	ProjectBlock       bool `toml:"project_block"`
	Indexes            bool `toml:"indexes"`
	SplitCompositeRefs bool `toml:"split_composite_refs"`
}

// TypesConfig lets a deployment remap raw base types before
// canonicalization, e.g. citext = "varchar".
type TypesConfig struct {
	Overrides map[string]string `toml:"overrides"`
}

// SnapshotConfig identifies a live database for the snapshot command.
type SnapshotConfig struct {
	Type    string   `toml:"type"` // mysql, postgres, sqlite
	DSN     string   `toml:"dsn"`
	Schemas []string `toml:"schemas"`
}

func defaultConfig() *Config {
	return &Config{
		Emit: EmitConfig{
			ProjectBlock:       true,
			Indexes:            true,
			SplitCompositeRefs: true,
		},
	}
}

// loadConfig reads a TOML config file with defaults applied. Unknown
// keys are rejected so typos fail loudly instead of silently falling
// back to defaults.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaultConfig()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	// Override keys are matched against lowercased base types.
	if len(cfg.Types.Overrides) > 0 {
		lowered := make(map[string]string, len(cfg.Types.Overrides))
		for k, v := range cfg.Types.Overrides {
			lowered[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
		}
		cfg.Types.Overrides = lowered
	}

	if cfg.Snapshot.Type != "" {
		switch cfg.Snapshot.Type {
		case "mysql", "postgres", "sqlite":
		default:
			return nil, fmt.Errorf("snapshot.type must be one of: mysql, postgres, sqlite")
		}
	}

	return cfg, nil
}

// convertOptions projects the config onto the core pipeline options.
func (c *Config) convertOptions() ConvertOptions {
	return ConvertOptions{
		TypeOverrides: c.Types.Overrides,
		Emit: EmitOptions{
			IncludeProject:     c.Emit.ProjectBlock,
			IncludeIndexes:     c.Emit.Indexes,
			SplitCompositeRefs: c.Emit.SplitCompositeRefs,
		},
	}
}
