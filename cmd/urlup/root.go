// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/urlup-dev/urlup/internal/config"
	"github.com/urlup-dev/urlup/internal/validate"
	"github.com/urlup-dev/urlup/pkg/registry"
	"github.com/urlup-dev/urlup/pkg/updater"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug logging
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// dryRun resolves updates without writing the file
	dryRun bool
	// quiet suppresses progress and up-to-date output
	quiet bool
	// testCommand validates each replacement; failures roll back
	testCommand string
	// registryNames restricts and reorders the consulted registries
	registryNames []string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "urlup <file>",
		Short: "Update versioned module URLs in a source file",
		Long: TitleStyle.Render("urlup") + SubtitleStyle.Render(" - update versioned module URLs") + `

urlup scans a source file for quoted module URLs that pin a version
(deno.land, unpkg, esm.sh, jsdelivr, raw.githubusercontent.com), asks
each registry for newer releases, and rewrites the file in place.

A URL fragment such as '#^1.2.0' constrains updates to a semver range.
A range modifier written on the version itself ('@^1.2.0') is moved
into the fragment on the first update, so the pinned version stays
exact while the intent survives.

` + SubtitleStyle.Render("Examples:") + `
  urlup deps.ts                      Update every import in deps.ts
  urlup --dry-run deps.ts            Report updates without writing
  urlup --test "deno test" deps.ts   Validate each update, roll back failures
  urlup --registry deno.land deps.ts Consult only deno.land`,
		Args: cobra.ExactArgs(1),
		RunE: runUpdate,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .urlup.toml, then the user config dir)")

	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "resolve versions without writing the file")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress and up-to-date output")
	rootCmd.Flags().StringVarP(&testCommand, "test", "t", "", "shell command run after each update; a non-zero exit rolls the update back")
	rootCmd.Flags().StringSliceVar(&registryNames, "registry", nil, "registries to consult, in priority order (repeatable)")

	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newCompletionCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// runUpdate is the RunE handler for the root command.
func runUpdate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger()

	registries, err := buildRegistries(cfg, logger)
	if err != nil {
		return err
	}

	opts := []updater.Option{
		updater.WithRegistries(registries),
		updater.WithDryRun(cfg.DryRun),
	}

	if cfg.Test != "" {
		validator, err := validate.Command(cfg.Test, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("parsing test command: %w", err)
		}
		opts = append(opts, updater.WithValidator(validator))
		logger.Debug("validation enabled", "command", cfg.Test)
	}

	if !cfg.Quiet {
		progressOut := cmd.ErrOrStderr()
		opts = append(opts, updater.WithProgress(func(e updater.Event) {
			fmt.Fprintln(progressOut, SubtitleStyle.Render(
				fmt.Sprintf("checking %s (%d/%d)", e.URL, e.Index+1, e.Total)))
		}))
	}

	outcomes, err := updater.Run(cmd.Context(), args[0], opts...)
	if err != nil {
		return err
	}

	failed := renderOutcomes(cmd.OutOrStdout(), outcomes, cfg)
	if failed > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d references failed", failed, len(outcomes))}
	}
	return nil
}

// loadConfig loads the configuration file and overlays any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = dryRun
	}
	if cmd.Flags().Changed("quiet") {
		cfg.Quiet = quiet
	}
	if cmd.Flags().Changed("test") {
		cfg.Test = testCommand
	}
	if cmd.Flags().Changed("registry") {
		cfg.Registries = registryNames
	}
	return cfg, nil
}

// buildRegistries constructs the prioritized registry chain from the
// configured provider names. A GITHUB_TOKEN in the environment is passed
// to providers that can use it for authenticated rate limits.
func buildRegistries(cfg config.Config, logger *log.Logger) ([]registry.Registry, error) {
	client := registry.NewClient(registry.WithUserAgent("urlup/" + Version))

	var provOpts []registry.ProviderOption
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		provOpts = append(provOpts, registry.WithToken(token))
		logger.Debug("using GITHUB_TOKEN for authenticated requests")
	}

	registries, err := registry.ByNames(client, cfg.Registries, provOpts...)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved registries", "names", cfg.Registries)
	return registries, nil
}

// newLogger builds the diagnostic logger. Debug output is gated on the
// --verbose flag; everything else only surfaces warnings and errors.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "urlup",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}
