// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/urlup-dev/urlup/internal/config"
	"github.com/urlup-dev/urlup/pkg/updater"
)

// renderOutcomes prints one line per reference and returns the number of
// failed references. Quiet mode only shows updates and failures.
func renderOutcomes(w io.Writer, outcomes []updater.Outcome, cfg config.Config) int {
	failed := 0
	for _, o := range outcomes {
		switch o.Status {
		case updater.StatusUpdated:
			verb := "updated to"
			if cfg.DryRun {
				verb = "would update to"
			}
			fmt.Fprintf(w, "%s %s %s %s\n",
				SuccessStyle.Render("✓"), o.URL, SubtitleStyle.Render(verb), CmdStyle.Render(o.Message))
		case updater.StatusUnchanged:
			if cfg.Quiet {
				continue
			}
			fmt.Fprintf(w, "%s %s\n",
				SubtitleStyle.Render("="), SubtitleStyle.Render(o.URL+" is up to date"))
		case updater.StatusSkipped:
			if cfg.Quiet {
				continue
			}
			fmt.Fprintf(w, "%s %s\n",
				SubtitleStyle.Render("-"), SubtitleStyle.Render(o.URL+" pinned to "+o.Version+", skipped"))
		case updater.StatusFailed:
			failed++
			fmt.Fprintf(w, "%s %s: %s\n",
				ErrorStyle.Render("✗"), o.URL, ErrorStyle.Render(o.Message))
		}
	}
	return failed
}
