// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
)

// The npm-backed CDNs all embed "<package>@<version>" in the URL path,
// scoped packages included:
//
//	https://unpkg.com/preact@10.11.0/dist/preact.module.js
//	https://esm.sh/@supabase/supabase-js@2.4.0
//	https://cdn.jsdelivr.net/npm/lodash-es@4.17.21/add.js
var (
	unpkgPattern    = regexp.MustCompile(`^(https://unpkg\.com/((?:@[^/@]+/)?[^/@]+)@)([^/?#]+)(.*)$`)
	esmShPattern    = regexp.MustCompile(`^(https://esm\.sh/((?:@[^/@]+/)?[^/@]+)@)([^/?#]+)(.*)$`)
	jsDelivrPattern = regexp.MustCompile(`^(https://cdn\.jsdelivr\.net/npm/((?:@[^/@]+/)?[^/@]+)@)([^/?#]+)(.*)$`)
)

// npmCDN is the shared implementation behind the unpkg, esm.sh and
// jsDelivr providers: the URL shapes differ, the version source is the
// same npm registry document.
type npmCDN struct {
	client  *Client
	apiBase string
	pattern *regexp.Regexp
}

// NewUnpkg creates the unpkg.com provider.
func NewUnpkg(c *Client, opts ...ProviderOption) Registry {
	return newNPMCDN(c, unpkgPattern, opts)
}

// NewEsmSh creates the esm.sh provider.
func NewEsmSh(c *Client, opts ...ProviderOption) Registry {
	return newNPMCDN(c, esmShPattern, opts)
}

// NewJSDelivr creates the cdn.jsdelivr.net/npm provider.
func NewJSDelivr(c *Client, opts ...ProviderOption) Registry {
	return newNPMCDN(c, jsDelivrPattern, opts)
}

func newNPMCDN(c *Client, pattern *regexp.Regexp, opts []ProviderOption) *npmCDN {
	o := providerOptions{apiBase: "https://registry.npmjs.org"}
	for _, opt := range opts {
		opt(&o)
	}
	return &npmCDN{client: c, apiBase: o.apiBase, pattern: pattern}
}

// TryMatch implements Registry.
func (n *npmCDN) TryMatch(rawURL string) (Ref, bool) {
	m := n.pattern.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, false
	}
	return ref{
		prefix:  m[1],
		version: m[3],
		suffix:  m[4],
		name:    m[2],
		list:    n.versions,
	}, true
}

// npmPackument is the slice of the npm registry package document we need:
// the version map's keys are the published versions.
type npmPackument struct {
	Versions map[string]json.RawMessage `json:"versions"`
}

// versions lists a package's published versions, re-sorted to semver
// descending: the registry document's version map carries no order.
func (n *npmCDN) versions(ctx context.Context, name string) ([]string, error) {
	var doc npmPackument
	if err := n.client.GetJSON(ctx, n.apiBase+"/"+name, &doc); err != nil {
		return nil, fmt.Errorf("listing versions of %s: %w", name, err)
	}

	versions := make([]string, 0, len(doc.Versions))
	for v := range doc.Versions {
		versions = append(versions, v)
	}
	sortVersionsDesc(versions)
	return versions, nil
}
