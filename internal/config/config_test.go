// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DryRun || cfg.Quiet || cfg.Test != "" {
		t.Errorf("unexpected non-default config: %+v", cfg)
	}
	if len(cfg.Registries) == 0 {
		t.Error("defaults must enable the built-in registries")
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
dry_run = true
test = "deno check deps.ts"
registries = ["deno.land", "github"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.DryRun {
		t.Error("dry_run not read")
	}
	if cfg.Test != "deno check deps.ts" {
		t.Errorf("test = %q", cfg.Test)
	}
	if want := []string{"deno.land", "github"}; !slices.Equal(cfg.Registries, want) {
		t.Errorf("registries = %v, want %v", cfg.Registries, want)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("an explicitly named config file must exist")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("URLUP_QUIET", "true")
	t.Setenv("URLUP_TEST", "make check")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Quiet {
		t.Error("URLUP_QUIET not applied")
	}
	if cfg.Test != "make check" {
		t.Errorf("test = %q, want make check", cfg.Test)
	}
}
