// SPDX-License-Identifier: MPL-2.0

package semver

import (
	"errors"
	"fmt"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// ErrNotSemver indicates a version token that does not follow the
// MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD] grammar. Such tokens are
// branch-like identifiers (e.g. "main"), not errors — callers skip the
// update instead of aborting.
var ErrNotSemver = errors.New("not a semantic version")

// Version is an immutable semantic version.
//
// This is a thin wrapper around github.com/Masterminds/semver/v3 that keeps
// the original token text for round-tripping.
type Version struct {
	v   *mm.Version
	raw string
}

// Parse parses a strict semantic version token. A single leading "v" is
// tolerated (GitHub tags are commonly "v1.2.3"); anything else that does
// not match the full MAJOR.MINOR.PATCH grammar fails with ErrNotSemver.
func Parse(raw string) (Version, error) {
	v, err := mm.StrictNewVersion(strings.TrimPrefix(raw, "v"))
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrNotSemver, raw)
	}
	return Version{v: v, raw: raw}, nil
}

// MustParse parses a version token and panics on failure. Test helper.
func MustParse(raw string) Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// IsPrerelease reports whether raw is a valid semantic version carrying a
// prerelease component. Non-semver tokens report false.
func IsPrerelease(raw string) bool {
	v, err := Parse(raw)
	return err == nil && v.Prerelease() != ""
}

// Major returns the major version number.
func (v Version) Major() uint64 { return v.v.Major() }

// Minor returns the minor version number.
func (v Version) Minor() uint64 { return v.v.Minor() }

// Patch returns the patch version number.
func (v Version) Patch() uint64 { return v.v.Patch() }

// Prerelease returns the prerelease component, or "" for a release.
func (v Version) Prerelease() string { return v.v.Prerelease() }

// Build returns the build metadata component, or "".
func (v Version) Build() string { return v.v.Metadata() }

// Original returns the token exactly as it was parsed.
func (v Version) Original() string { return v.raw }

// String returns the canonical MAJOR.MINOR.PATCH[-PRE][+BUILD] form.
func (v Version) String() string { return v.v.String() }

// Compare returns -1, 0 or 1 according to semver precedence: numeric
// fields first, a release sorts above its prereleases, prerelease
// identifiers compare pairwise with numeric identifiers below
// alphanumeric ones. Build metadata is ignored.
func (v Version) Compare(o Version) int { return v.v.Compare(o.v) }
