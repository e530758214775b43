// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for urlup.
//
// This package implements the Cobra command hierarchy for the urlup CLI:
// the root update command plus subcommands for configuration management
// and shell completion.
package cmd
