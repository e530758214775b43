// SPDX-License-Identifier: MPL-2.0

package updater

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/urlup-dev/urlup/pkg/registry"
)

// fakeRegistry serves https://example.com/<name>@<version>/... URLs from a
// canned version list, standing in for a live provider.
type fakeRegistry struct {
	versions []string
	err      error
}

var fakePattern = regexp.MustCompile(`^(https://example\.com/[a-z]+@)([^/?#]+)(.*)$`)

func (f *fakeRegistry) TryMatch(rawURL string) (registry.Ref, bool) {
	m := fakePattern.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, false
	}
	return fakeRef{prefix: m[1], version: m[2], suffix: m[3], reg: f}, true
}

type fakeRef struct {
	prefix, version, suffix string
	reg                     *fakeRegistry
}

func (r fakeRef) URL() string     { return r.prefix + r.version + r.suffix }
func (r fakeRef) Version() string { return r.version }

func (r fakeRef) All(context.Context) ([]string, error) {
	return r.reg.versions, r.reg.err
}

func (r fakeRef) At(version string) registry.Ref {
	r.version = version
	return r
}

// writeTempFile creates a file under t.TempDir with the given content.
func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deps.ts")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(b)
}

func runOne(t *testing.T, content string, reg *fakeRegistry, opts ...Option) (string, []Outcome) {
	t.Helper()
	path := writeTempFile(t, content)
	opts = append([]Option{WithRegistries([]registry.Registry{reg})}, opts...)
	outcomes, err := Run(context.Background(), path, opts...)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return readFile(t, path), outcomes
}

func TestRun_UpdatesToLatest(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{versions: []string{"1.2.0", "1.1.0", "1.0.0"}}
	content, outcomes := runOne(t, `import "https://example.com/foo@1.0.0/mod.ts";`, reg)

	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(outcomes))
	}
	o := outcomes[0]
	if o.Status != StatusUpdated || o.Message != "1.2.0" {
		t.Errorf("outcome = %+v, want updated to 1.2.0", o)
	}
	if o.URL != "https://example.com/foo@1.0.0/mod.ts" || o.Version != "1.0.0" {
		t.Errorf("outcome must capture the pre-rewrite URL and version: %+v", o)
	}
	if !strings.Contains(content, "https://example.com/foo@1.2.0/mod.ts") {
		t.Errorf("file not rewritten: %s", content)
	}
}

func TestRun_RelocatesModifierIntoFragment(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{versions: []string{"1.4.2", "2.0.0", "1.0.0"}}
	content, outcomes := runOne(t, `import "https://example.com/foo@^1.0.0/mod.ts";`, reg)

	o := outcomes[0]
	if o.Status != StatusUpdated || o.Message != "^1.4.2" {
		t.Errorf("outcome = %+v, want updated with message ^1.4.2", o)
	}
	if !strings.Contains(content, `"https://example.com/foo@1.4.2/mod.ts#^"`) {
		t.Errorf("modifier not relocated into fragment: %s", content)
	}
}

func TestRun_RelocationAloneIsARewrite(t *testing.T) {
	t.Parallel()

	// Latest compatible equals current, but the pin carries a modifier:
	// the modifier still moves into a fragment.
	reg := &fakeRegistry{versions: []string{"2.0.0", "1.0.0"}}
	content, outcomes := runOne(t, `import "https://example.com/foo@^1.0.0/mod.ts";`, reg)

	o := outcomes[0]
	if o.Status != StatusUpdated || o.Message != "^1.0.0" {
		t.Errorf("outcome = %+v, want updated with message ^1.0.0", o)
	}
	if !strings.Contains(content, `"https://example.com/foo@1.0.0/mod.ts#^"`) {
		t.Errorf("modifier not relocated: %s", content)
	}
}

func TestRun_HonorsExistingFragmentConstraint(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{versions: []string{"2.1.0", "1.6.0", "1.0.0"}}
	content, outcomes := runOne(t, `import "https://example.com/foo@1.0.0/mod.ts#^";`, reg)

	o := outcomes[0]
	if o.Status != StatusUpdated || o.Message != "1.6.0" {
		t.Errorf("outcome = %+v, want updated to 1.6.0", o)
	}
	if !strings.Contains(content, `"https://example.com/foo@1.6.0/mod.ts#^"`) {
		t.Errorf("fragment not preserved through rewrite: %s", content)
	}
}

func TestRun_SkipsBranchPins(t *testing.T) {
	t.Parallel()

	original := `import "https://example.com/foo@main/mod.ts";`
	reg := &fakeRegistry{versions: []string{"1.2.0"}}
	content, outcomes := runOne(t, original, reg)

	o := outcomes[0]
	if o.Status != StatusSkipped || o.Message != "" {
		t.Errorf("outcome = %+v, want a silent skip", o)
	}
	if o.Version != "main" {
		t.Errorf("outcome version = %q, want main", o.Version)
	}
	if content != original {
		t.Errorf("file must be untouched: %s", content)
	}
}

func TestRun_MalformedFragmentFailsReference(t *testing.T) {
	t.Parallel()

	original := `import "https://example.com/foo@1.0.0/mod.ts#bogus";
import "https://example.com/bar@1.0.0/mod.ts";`
	reg := &fakeRegistry{versions: []string{"1.2.0", "1.0.0"}}
	content, outcomes := runOne(t, original, reg)

	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	if outcomes[0].Status != StatusFailed || !strings.Contains(outcomes[0].Message, "invalid version constraint") {
		t.Errorf("outcome[0] = %+v, want constraint failure", outcomes[0])
	}
	if strings.Contains(content, "foo@1.2.0") {
		t.Errorf("failed reference must not be rewritten: %s", content)
	}
	// A bad reference never blocks the rest of the batch.
	if outcomes[1].Status != StatusUpdated {
		t.Errorf("outcome[1] = %+v, want updated", outcomes[1])
	}
	if !strings.Contains(content, "bar@1.2.0") {
		t.Errorf("second reference not rewritten: %s", content)
	}
}

func TestRun_NoCompatibleVersion(t *testing.T) {
	t.Parallel()

	original := `import "https://example.com/foo@<1.0.0/mod.ts";`
	reg := &fakeRegistry{versions: []string{"1.2.0", "1.0.0"}}
	content, outcomes := runOne(t, original, reg)

	o := outcomes[0]
	if o.Status != StatusFailed || o.Message != "no compatible version found" {
		t.Errorf("outcome = %+v, want no-compatible-version failure", o)
	}
	if content != original {
		t.Errorf("file must be untouched: %s", content)
	}
}

func TestRun_PrereleasePolicy(t *testing.T) {
	t.Parallel()

	versions := []string{"2.0.0-rc.1", "1.2.0", "1.0.0"}

	// A stable pin ignores the numerically higher prerelease.
	reg := &fakeRegistry{versions: versions}
	_, outcomes := runOne(t, `import "https://example.com/foo@1.0.0/mod.ts";`, reg)
	if o := outcomes[0]; o.Status != StatusUpdated || o.Message != "1.2.0" {
		t.Errorf("stable pin: outcome = %+v, want 1.2.0", o)
	}

	// A prerelease pin tracks prereleases.
	reg = &fakeRegistry{versions: versions}
	_, outcomes = runOne(t, `import "https://example.com/foo@1.0.0-beta.1/mod.ts";`, reg)
	if o := outcomes[0]; o.Status != StatusUpdated || o.Message != "2.0.0-rc.1" {
		t.Errorf("prerelease pin: outcome = %+v, want 2.0.0-rc.1", o)
	}
}

func TestRun_UnchangedAtLatest(t *testing.T) {
	t.Parallel()

	original := `import "https://example.com/foo@1.2.0/mod.ts";`
	reg := &fakeRegistry{versions: []string{"1.2.0", "1.0.0"}}
	content, outcomes := runOne(t, original, reg)

	o := outcomes[0]
	if o.Status != StatusUnchanged || o.Message != "" {
		t.Errorf("outcome = %+v, want unchanged", o)
	}
	if content != original {
		t.Errorf("file must be untouched: %s", content)
	}
}

func TestRun_DryRunNeverWrites(t *testing.T) {
	t.Parallel()

	original := `import "https://example.com/foo@1.0.0/mod.ts";`
	reg := &fakeRegistry{versions: []string{"1.2.0", "1.0.0"}}
	content, outcomes := runOne(t, original, reg, WithDryRun(true))

	if o := outcomes[0]; o.Status != StatusUpdated || o.Message != "1.2.0" {
		t.Errorf("outcome = %+v, want resolved update", o)
	}
	if content != original {
		t.Errorf("dry run must not write: %s", content)
	}
}

func TestRun_RollbackRestoresFile(t *testing.T) {
	t.Parallel()

	original := `import "https://example.com/foo@1.0.0/mod.ts";
import "https://example.com/bar@2.0.0/mod.ts";`
	reg := &fakeRegistry{versions: []string{"3.0.0", "2.0.0", "1.0.0"}}

	alwaysFail := func(context.Context) error { return errors.New("exit status 1") }
	content, outcomes := runOne(t, original, reg, WithValidator(alwaysFail))

	// Rollback law: with an always-failing validator the file ends
	// byte-identical to how it started, whatever targets were chosen.
	if content != original {
		t.Errorf("file not restored:\n%s", content)
	}
	for _, o := range outcomes {
		if o.Status != StatusFailed {
			t.Errorf("outcome = %+v, want validation failure", o)
		}
		if !strings.Contains(o.Message, "validation failed") {
			t.Errorf("message %q should name the validation failure", o.Message)
		}
	}
}

func TestRun_ValidationSuccessCommits(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{versions: []string{"1.2.0", "1.0.0"}}
	var calls int
	ok := func(context.Context) error { calls++; return nil }

	content, outcomes := runOne(t, `import "https://example.com/foo@1.0.0/mod.ts";`, reg, WithValidator(ok))

	if calls != 1 {
		t.Errorf("validator ran %d times, want 1", calls)
	}
	if outcomes[0].Status != StatusUpdated {
		t.Errorf("outcome = %+v", outcomes[0])
	}
	if !strings.Contains(content, "foo@1.2.0") {
		t.Errorf("replacement not committed: %s", content)
	}
}

func TestRun_FetchErrorIsFatal(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, `import "https://example.com/foo@1.0.0/mod.ts";`)
	reg := &fakeRegistry{err: errors.New("connection refused")}

	if _, err := Run(context.Background(), path, WithRegistries([]registry.Registry{reg})); err == nil {
		t.Fatal("registry fetch errors must abort the run")
	}
}

func TestRun_ProgressEvents(t *testing.T) {
	t.Parallel()

	var events []Event
	reg := &fakeRegistry{versions: []string{"1.0.0"}}
	runOne(t, `import "https://example.com/foo@1.0.0/mod.ts";
import "https://example.com/bar@1.0.0/mod.ts";
import "https://other.invalid/baz@1.0.0/mod.ts";`, reg,
		WithProgress(func(e Event) { events = append(events, e) }))

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (unmatched URLs are excluded)", len(events))
	}
	for i, e := range events {
		if e.Index != i || e.Total != 2 {
			t.Errorf("event[%d] = %+v", i, e)
		}
	}
}

func TestRun_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Run(context.Background(), filepath.Join(t.TempDir(), "absent.ts")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
