// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/urlup-dev/urlup/internal/config"
	"github.com/urlup-dev/urlup/pkg/updater"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build fallback", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestRenderOutcomes(t *testing.T) {
	t.Parallel()

	outcomes := []updater.Outcome{
		{URL: "https://deno.land/std@0.100.0/fs/mod.ts", Version: "0.100.0", Status: updater.StatusUpdated, Message: "0.224.0"},
		{URL: "https://deno.land/x/foo@1.2.3/mod.ts", Version: "1.2.3", Status: updater.StatusUnchanged},
		{URL: "https://deno.land/x/bar@main/mod.ts", Version: "main", Status: updater.StatusSkipped},
		{URL: "https://deno.land/x/baz@0.1.0/mod.ts#broken", Version: "0.1.0", Status: updater.StatusFailed, Message: "parsing version constraint \"broken\""},
	}

	t.Run("default shows every outcome", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		failed := renderOutcomes(&sb, outcomes, config.Config{})

		if failed != 1 {
			t.Errorf("renderOutcomes() failed count = %d, want 1", failed)
		}
		out := sb.String()
		for _, want := range []string{
			"0.224.0",
			"updated to",
			"up to date",
			"pinned to main, skipped",
			"parsing version constraint",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("dry run changes the verb", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		renderOutcomes(&sb, outcomes[:1], config.Config{DryRun: true})

		if !strings.Contains(sb.String(), "would update to") {
			t.Errorf("output missing dry-run verb:\n%s", sb.String())
		}
	})

	t.Run("quiet hides unchanged and skipped", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		failed := renderOutcomes(&sb, outcomes, config.Config{Quiet: true})

		if failed != 1 {
			t.Errorf("renderOutcomes() failed count = %d, want 1", failed)
		}
		out := sb.String()
		if strings.Contains(out, "up to date") || strings.Contains(out, "skipped") {
			t.Errorf("quiet output should omit unchanged/skipped lines:\n%s", out)
		}
		if !strings.Contains(out, "0.224.0") {
			t.Errorf("quiet output should keep updates:\n%s", out)
		}
	})
}

func TestExitError(t *testing.T) {
	t.Parallel()

	errSentinel := errors.New("boom")

	e := &ExitError{Code: 1}
	if got, want := e.Error(), "exit status 1"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := &ExitError{Code: 1, Err: errSentinel}
	if wrapped.Error() != errSentinel.Error() {
		t.Errorf("Error() = %q, want wrapped message", wrapped.Error())
	}
	if wrapped.Unwrap() != errSentinel {
		t.Error("Unwrap() should return the underlying error")
	}
}
