// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urlup-dev/urlup/pkg/semver"
)

type (
	// Registry recognizes one hosting provider's versioned module URLs.
	// Registries are stateless lookups, safe to share across references.
	Registry interface {
		// TryMatch reports whether rawURL belongs to this provider and, if
		// so, returns the matched reference.
		TryMatch(rawURL string) (Ref, bool)
	}

	// Ref is one module URL pinned to a version. Values are immutable:
	// At produces a new Ref rather than mutating the receiver.
	Ref interface {
		// URL returns the full URL, version and fragment included.
		URL() string
		// Version returns the version token as it appears in the URL.
		Version() string
		// All fetches every published version, most recent first.
		All(ctx context.Context) ([]string, error)
		// At returns a sibling Ref with the version component replaced.
		// Path, query and fragment are preserved.
		At(version string) Ref
	}

	// listFunc fetches the published versions for a provider-specific
	// module identifier.
	listFunc func(ctx context.Context, name string) ([]string, error)

	// providerOptions holds provider construction settings shared by the
	// built-in providers.
	providerOptions struct {
		apiBase string
		token   string
	}

	// ProviderOption configures a built-in provider during construction.
	ProviderOption func(*providerOptions)
)

// WithAPIBase overrides the provider's version-listing API base URL,
// primarily for test servers.
func WithAPIBase(base string) ProviderOption {
	return func(o *providerOptions) {
		o.apiBase = strings.TrimRight(base, "/")
	}
}

// WithToken sets an access token for authenticated listing requests.
// Only honored by providers whose API supports it (GitHub).
func WithToken(token string) ProviderOption {
	return func(o *providerOptions) {
		o.token = token
	}
}

// Match returns the first registry in priority order that recognizes
// rawURL. An unmatched URL is not an error; it is simply excluded from
// processing.
func Match(rawURL string, registries []Registry) (Ref, bool) {
	for _, r := range registries {
		if ref, ok := r.TryMatch(rawURL); ok {
			return ref, true
		}
	}
	return nil, false
}

// DefaultNames lists the built-in providers in default priority order.
func DefaultNames() []string {
	return []string{"deno.land", "unpkg", "esm.sh", "jsdelivr", "github"}
}

// Defaults returns the built-in provider set in default priority order.
// The options are applied to every provider; providers ignore options
// they have no use for.
func Defaults(c *Client, opts ...ProviderOption) []Registry {
	registries, _ := ByNames(c, DefaultNames(), opts...) //nolint:errcheck // Built-in names are always known.
	return registries
}

// ByNames builds a prioritized registry list from provider names, in the
// order given. Unknown names are an error.
func ByNames(c *Client, names []string, opts ...ProviderOption) ([]Registry, error) {
	registries := make([]Registry, 0, len(names))
	for _, name := range names {
		switch name {
		case "deno.land":
			registries = append(registries, NewDenoLand(c, opts...))
		case "unpkg":
			registries = append(registries, NewUnpkg(c, opts...))
		case "esm.sh":
			registries = append(registries, NewEsmSh(c, opts...))
		case "jsdelivr":
			registries = append(registries, NewJSDelivr(c, opts...))
		case "github":
			registries = append(registries, NewGitHubRaw(c, opts...))
		default:
			return nil, fmt.Errorf("unknown registry %q (known: %s)", name, strings.Join(DefaultNames(), ", "))
		}
	}
	return registries, nil
}

// ref is one matched URL split around its version token. The split keeps
// At a pure string recombination: prefix ends right before the version,
// suffix carries the rest of the path plus any query and fragment.
type ref struct {
	prefix  string
	version string
	suffix  string
	name    string
	list    listFunc
}

func (r ref) URL() string     { return r.prefix + r.version + r.suffix }
func (r ref) Version() string { return r.version }

func (r ref) All(ctx context.Context) ([]string, error) {
	return r.list(ctx, r.name)
}

// At returns a copy pinned to version; the receiver is unchanged.
func (r ref) At(version string) Ref {
	r.version = version
	return r
}

// sortVersionsDesc orders version strings by semver precedence, highest
// first. Non-semver entries sort after all semver ones, lexicographically
// descending among themselves, so listings stay deterministic regardless
// of provider ordering guarantees.
func sortVersionsDesc(versions []string) {
	slices.SortStableFunc(versions, func(a, b string) int {
		va, errA := semver.Parse(a)
		vb, errB := semver.Parse(b)
		switch {
		case errA == nil && errB == nil:
			return vb.Compare(va)
		case errA == nil:
			return -1
		case errB == nil:
			return 1
		default:
			return strings.Compare(b, a)
		}
	})
}
