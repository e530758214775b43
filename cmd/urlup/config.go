// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/urlup-dev/urlup/internal/config"
)

// newConfigCommand creates the `urlup config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage urlup configuration",
		Long: `Manage urlup configuration.

Configuration is stored in:
  - Linux: ~/.config/urlup/config.toml
  - macOS: ~/Library/Application Support/urlup/config.toml
  - Windows: %APPDATA%\urlup\config.toml

A .urlup.toml in the working directory takes precedence, and URLUP_*
environment variables override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd)
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("Current configuration"))

	path, err := config.Path(cfgFile)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintf(out, "%s: %s\n\n", CmdStyle.Render("config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(out, "%s: %s\n\n", CmdStyle.Render("config file"), path)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("rendering configuration: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

func initConfigFile(cmd *cobra.Command) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
			WarningStyle.Render("configuration already exists:"), path)
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("rendering default configuration: %w", err)
	}
	header := "# urlup configuration. Values are overridden by URLUP_*\n# environment variables and command-line flags.\n"
	if err := os.WriteFile(path, []byte(header+string(data)), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("created"), path)
	return nil
}

func showConfigPath(cmd *cobra.Command) error {
	path, err := config.Path(cfgFile)
	if err != nil {
		return err
	}
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render(
			"no config file found, would use "+filepath.Join(dir, "config.toml")))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
