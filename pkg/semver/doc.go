// SPDX-License-Identifier: MPL-2.0

// Package semver models semantic versions and the constraint algebra used
// to pick upgrade targets.
//
// Versions follow standard semver precedence and are immutable once parsed;
// tokens that do not parse are branch-like identifiers reported via
// ErrNotSemver. Constraints are built from a one-character modifier
// (^ ~ = <) prefixed to a version token, or from a URL fragment of the
// same shape, and evaluate as predicates over Version values.
package semver
