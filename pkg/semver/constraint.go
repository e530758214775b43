// SPDX-License-Identifier: MPL-2.0

package semver

import (
	"errors"
	"fmt"
)

// ErrConstraintSyntax indicates malformed constraint text (an unknown
// modifier or an unparsable base version). Unlike a registry fetch error it
// is a per-reference condition: callers turn it into a failure outcome and
// keep processing the batch.
var ErrConstraintSyntax = errors.New("invalid version constraint")

// Constraint restricts acceptable upgrade targets relative to a base
// version. It is produced from a one-character modifier prefixed to a
// version token ("^1.2.3") or from a URL fragment of the same shape.
type Constraint struct {
	token    string
	modifier byte
	base     Version
}

// isModifier reports whether c is a recognized constraint modifier.
func isModifier(c byte) bool {
	return c == '^' || c == '~' || c == '=' || c == '<'
}

// Modifier splits a version token into its leading constraint modifier and
// the bare version text. ok is false when the token carries no modifier.
func Modifier(token string) (modifier byte, bare string, ok bool) {
	if token == "" || !isModifier(token[0]) {
		return 0, token, false
	}
	return token[0], token[1:], true
}

// ParseConstraint parses a modifier-prefixed version token such as
// "^1.2.3". Fails with ErrConstraintSyntax when the leading character is
// not a known modifier or the remainder is not a semantic version.
func ParseConstraint(token string) (Constraint, error) {
	op, bare, ok := Modifier(token)
	if !ok {
		return Constraint{}, fmt.Errorf("%w: %q has no modifier", ErrConstraintSyntax, token)
	}
	base, err := Parse(bare)
	if err != nil {
		return Constraint{}, fmt.Errorf("%w: %q: base is not a semantic version", ErrConstraintSyntax, token)
	}
	return Constraint{token: token, modifier: op, base: base}, nil
}

// ParseFragment parses constraint text carried in a URL fragment. The
// fragment is either a bare modifier ("^"), which applies to the current
// version, or a full modifier-prefixed token ("^1.2.0").
func ParseFragment(fragment string, current Version) (Constraint, error) {
	if fragment == "" {
		return Constraint{}, fmt.Errorf("%w: empty fragment", ErrConstraintSyntax)
	}
	if !isModifier(fragment[0]) {
		return Constraint{}, fmt.Errorf("%w: fragment %q", ErrConstraintSyntax, fragment)
	}
	if len(fragment) == 1 {
		return Constraint{
			token:    fragment + current.Original(),
			modifier: fragment[0],
			base:     current,
		}, nil
	}
	return ParseConstraint(fragment)
}

// Token returns the originating constraint token, e.g. "^1.2.3".
func (c Constraint) Token() string { return c.token }

// Modifier returns the constraint's modifier character.
func (c Constraint) Modifier() byte { return c.modifier }

// Check reports whether v is an acceptable target under the constraint:
//
//	=  exact match only
//	^  compatible-with: same major when major > 0; same major.minor when
//	   major == 0 and minor > 0; exact version when major == minor == 0
//	~  same major.minor, any patch at or above the base
//	<  strictly below the base
func (c Constraint) Check(v Version) bool {
	switch c.modifier {
	case '=':
		return v.Compare(c.base) == 0
	case '<':
		return v.Compare(c.base) < 0
	case '^':
		if c.base.Major() > 0 {
			return v.Major() == c.base.Major() && v.Compare(c.base) >= 0
		}
		if c.base.Minor() > 0 {
			return v.Major() == 0 && v.Minor() == c.base.Minor() && v.Compare(c.base) >= 0
		}
		return v.Compare(c.base) == 0
	case '~':
		return v.Major() == c.base.Major() && v.Minor() == c.base.Minor() && v.Compare(c.base) >= 0
	}
	return false
}
