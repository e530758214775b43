// SPDX-License-Identifier: MPL-2.0

// Package config loads urlup configuration: a TOML file merged with
// URLUP_* environment variables. Flags override both; merging with flag
// state is the CLI layer's job.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/urlup-dev/urlup/pkg/registry"
)

const (
	// AppName is the application name.
	AppName = "urlup"
	// LocalFileName is the per-project config file looked up in the
	// working directory.
	LocalFileName = ".urlup.toml"
)

// Config is the loaded configuration. Zero values match the defaults:
// write mode, progress output on, every built-in registry enabled.
type Config struct {
	// DryRun resolves versions without writing the file.
	DryRun bool `mapstructure:"dry_run" toml:"dry_run"`
	// Quiet suppresses progress output.
	Quiet bool `mapstructure:"quiet" toml:"quiet"`
	// Test is the shell command run after each replacement; empty means
	// no validation.
	Test string `mapstructure:"test" toml:"test"`
	// Registries enables a subset of the built-in providers, in priority
	// order. Empty means all of them in default order.
	Registries []string `mapstructure:"registries" toml:"registries"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Registries: registry.DefaultNames(),
	}
}

// Dir returns the urlup configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application
// Support, and Linux/others use $XDG_CONFIG_HOME (defaulting to
// ~/.config).
func Dir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolving home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads configuration from explicitPath when given, else from
// .urlup.toml in the working directory, else from config.toml in Dir().
// A missing file is not an error: defaults plus environment apply.
func Load(explicitPath string) (Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	defaults := Default()
	v.SetDefault("dry_run", defaults.DryRun)
	v.SetDefault("quiet", defaults.Quiet)
	v.SetDefault("test", defaults.Test)
	v.SetDefault("registries", defaults.Registries)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolvePath(explicitPath)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Path returns the config file Load would read, following the same
// lookup order. Empty means no file exists and defaults apply.
func Path(explicitPath string) (string, error) {
	return resolvePath(explicitPath)
}

// resolvePath picks the config file to read. Empty return means no file
// exists and defaults apply. An explicitly named file must exist.
func resolvePath(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}

	if _, err := os.Stat(LocalFileName); err == nil {
		return LocalFileName, nil
	}

	dir, err := Dir()
	if err != nil {
		return "", err
	}
	global := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(global); err == nil {
		return global, nil
	}
	return "", nil
}
