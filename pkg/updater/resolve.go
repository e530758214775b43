// SPDX-License-Identifier: MPL-2.0

package updater

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urlup-dev/urlup/pkg/registry"
	"github.com/urlup-dev/urlup/pkg/semver"
)

// processRef drives one reference through resolution and, when a newer
// compatible version exists, through the transactional replace.
func (u *Updater) processRef(ctx context.Context, filename string, r registry.Ref) (Outcome, error) {
	initURL := r.URL()
	initVersion := r.Version()

	versions, err := r.All(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("fetching versions for %s: %w", initURL, err)
	}

	_, fragment, hasFragment := strings.Cut(initURL, "#")

	// A modifier on the version token ("@^1.0.0") is moved into a URL
	// fragment ("#^") so later rewrites don't re-read it as part of the
	// version. At most once per reference, as a new Ref value.
	token := initVersion
	var relocatedOp byte
	if op, bare, ok := semver.Modifier(token); ok && !hasFragment {
		relocatedOp = op
		token = bare
		r = relocate(r, op, bare)
	}

	current, err := semver.Parse(token)
	if err != nil {
		// Branch or tag pin; leave it alone.
		return Outcome{URL: initURL, Version: initVersion, Status: StatusSkipped}, nil
	}

	// Stable tracks stay stable: prerelease candidates are only in play
	// when the pinned version is itself a prerelease.
	if current.Prerelease() == "" {
		versions = dropPrereleases(versions)
	}
	if len(versions) == 0 {
		return Outcome{URL: initURL, Version: initVersion, Status: StatusFailed, Message: "no versions found"}, nil
	}

	constraint, haveConstraint, err := resolveConstraint(relocatedOp, fragment, hasFragment, current)
	if err != nil {
		return Outcome{URL: initURL, Version: initVersion, Status: StatusFailed, Message: err.Error()}, nil
	}

	// Default target is the provider-declared latest; a constraint narrows
	// it to the first candidate, in provider order, that satisfies it.
	target := versions[0]
	if haveConstraint {
		target = ""
		for _, candidate := range versions {
			v, perr := semver.Parse(candidate)
			if perr != nil {
				continue
			}
			if constraint.Check(v) {
				target = candidate
				break
			}
		}
		if target == "" {
			return Outcome{URL: initURL, Version: initVersion, Status: StatusFailed, Message: "no compatible version found"}, nil
		}
	}

	message := target
	if relocatedOp != 0 {
		message = string(relocatedOp) + target
	}

	// A relocation is itself a rewrite, so "unchanged" requires both the
	// same version and no relocation.
	if target == token && relocatedOp == 0 {
		return Outcome{URL: initURL, Version: initVersion, Status: StatusUnchanged}, nil
	}

	outcome := Outcome{URL: initURL, Version: initVersion, Status: StatusUpdated, Message: message}
	if u.dryRun {
		return outcome, nil
	}

	newURL := r.At(target).URL()
	if err := u.replaceAndValidate(ctx, filename, initURL, newURL); err != nil {
		if errors.Is(err, errValidationFailed) {
			return Outcome{URL: initURL, Version: initVersion, Status: StatusFailed, Message: err.Error()}, nil
		}
		return Outcome{}, err
	}
	return outcome, nil
}

// resolveConstraint builds the constraint for one reference: a relocated
// token modifier takes effect immediately; otherwise an existing fragment
// is parsed as constraint text.
func resolveConstraint(relocatedOp byte, fragment string, hasFragment bool, current semver.Version) (semver.Constraint, bool, error) {
	switch {
	case relocatedOp != 0:
		c, err := semver.ParseFragment(string(relocatedOp), current)
		return c, err == nil, err
	case hasFragment:
		c, err := semver.ParseFragment(fragment, current)
		return c, err == nil, err
	}
	return semver.Constraint{}, false, nil
}

// dropPrereleases filters out provable prerelease versions. Entries that
// do not parse as semver are kept; constraints exclude them later and an
// unconstrained reference follows the provider-declared latest regardless.
func dropPrereleases(versions []string) []string {
	kept := make([]string, 0, len(versions))
	for _, v := range versions {
		if semver.IsPrerelease(v) {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

// relocatedRef decorates a Ref whose constraint modifier has been moved
// out of the version token into a URL fragment.
type relocatedRef struct {
	registry.Ref
	modifier byte
}

func (r relocatedRef) URL() string {
	return r.Ref.URL() + "#" + string(r.modifier)
}

func (r relocatedRef) At(version string) registry.Ref {
	return relocatedRef{Ref: r.Ref.At(version), modifier: r.modifier}
}

// relocate produces the reference value with the modifier moved into the
// fragment and the version token rewritten to its bare form.
func relocate(r registry.Ref, modifier byte, bare string) registry.Ref {
	return relocatedRef{Ref: r.At(bare), modifier: modifier}
}
