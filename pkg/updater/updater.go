// SPDX-License-Identifier: MPL-2.0

package updater

import (
	"context"
	"fmt"
	"os"

	"github.com/urlup-dev/urlup/internal/scan"
	"github.com/urlup-dev/urlup/pkg/registry"
)

type (
	// ValidateFunc checks the file after a replacement has been written.
	// A non-nil error triggers a rollback of that replacement. The
	// default (nil) validator always succeeds.
	ValidateFunc func(ctx context.Context) error

	// Updater resolves versioned module URLs in one file against their
	// hosting registries and rewrites them in place, transactionally.
	// It is the facade for the package.
	Updater struct {
		registries []registry.Registry
		validate   ValidateFunc
		progress   ProgressFunc
		dryRun     bool
	}

	// Option configures an Updater during construction.
	Option func(*Updater)
)

// WithRegistries replaces the default provider set. Order is priority
// order: the first registry that matches a URL serves it.
func WithRegistries(registries []registry.Registry) Option {
	return func(u *Updater) {
		u.registries = registries
	}
}

// WithValidator sets the post-replace validation hook.
func WithValidator(v ValidateFunc) Option {
	return func(u *Updater) {
		u.validate = v
	}
}

// WithProgress sets the progress event consumer.
func WithProgress(p ProgressFunc) Option {
	return func(u *Updater) {
		u.progress = p
	}
}

// WithDryRun resolves versions but never writes the file.
func WithDryRun(dryRun bool) Option {
	return func(u *Updater) {
		u.dryRun = dryRun
	}
}

// New creates an Updater. Without options it uses the built-in registries
// and an always-succeed validator.
func New(opts ...Option) *Updater {
	u := &Updater{}
	for _, opt := range opts {
		opt(u)
	}
	if u.registries == nil {
		u.registries = registry.Defaults(registry.NewClient())
	}
	return u
}

// Run scans filename for versioned module URLs and processes each matched
// reference in scan order, returning one Outcome per reference.
//
// Per-reference conditions (malformed constraints, no compatible version,
// validation failures) become failure outcomes and the batch continues; a
// registry fetch error is fatal and aborts the whole run.
func (u *Updater) Run(ctx context.Context, filename string) ([]Outcome, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	var refs []registry.Ref
	for _, rawURL := range scan.Imports(string(content)) {
		if ref, ok := registry.Match(rawURL, u.registries); ok {
			refs = append(refs, ref)
		}
	}

	outcomes := make([]Outcome, 0, len(refs))
	for i, ref := range refs {
		if u.progress != nil {
			u.progress(Event{URL: ref.URL(), Index: i, Total: len(refs)})
		}
		outcome, err := u.processRef(ctx, filename, ref)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// Run is the package-level convenience entry point: one-shot construction
// and run.
func Run(ctx context.Context, filename string, opts ...Option) ([]Outcome, error) {
	return New(opts...).Run(ctx, filename)
}
