package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "test.toml")

	content := `
[emit]
project_block = false
split_composite_refs = false

[types]
overrides = { CITEXT = "varchar", money = "decimal" }

[snapshot]
type = "mysql"
dsn = "root:root@tcp(127.0.0.1:3306)/shop"
schemas = ["shop"]
`
	if err := os.WriteFile(cfgFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cfgFile)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Emit.ProjectBlock {
		t.Error("emit.project_block not applied")
	}
	if !cfg.Emit.Indexes {
		t.Error("emit.indexes should keep its default")
	}
	if cfg.Types.Overrides["citext"] != "varchar" {
		t.Errorf("override keys should lowercase, got %v", cfg.Types.Overrides)
	}
	if cfg.Snapshot.Type != "mysql" || len(cfg.Snapshot.Schemas) != 1 {
		t.Errorf("snapshot section = %+v", cfg.Snapshot)
	}

	opts := cfg.convertOptions()
	if opts.Emit.IncludeProject || !opts.Emit.IncludeIndexes || opts.Emit.SplitCompositeRefs {
		t.Errorf("convertOptions = %+v", opts.Emit)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "test.toml")
	if err := os.WriteFile(cfgFile, []byte("[emit]\nprojct_block = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := loadConfig(cfgFile)
	if err == nil {
		t.Fatal("unknown key should be rejected")
	}
	if !strings.Contains(err.Error(), "projct_block") {
		t.Errorf("error should name the unknown key, got %v", err)
	}
}

func TestLoadConfigBadSnapshotType(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "test.toml")
	if err := os.WriteFile(cfgFile, []byte("[snapshot]\ntype = \"oracle\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(cfgFile); err == nil {
		t.Fatal("unsupported snapshot type should be rejected")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	if !cfg.Emit.ProjectBlock || !cfg.Emit.Indexes || !cfg.Emit.SplitCompositeRefs {
		t.Errorf("defaults = %+v, want all emit options on", cfg.Emit)
	}
}
