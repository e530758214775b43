// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// denoLandPattern matches deno.land/x and deno.land/std module URLs:
//
//	https://deno.land/x/oak@10.6.0/mod.ts
//	https://deno.land/std@0.177.0/path/mod.ts
var denoLandPattern = regexp.MustCompile(`^(https://deno\.land/(x/[A-Za-z0-9_]+|std)@)([^/?#]+)(.*)$`)

// DenoLand serves deno.land/x and deno.land/std URLs. Version listings
// come from the cdn.deno.land metadata API, which reports versions in
// publish order, most recent first.
type DenoLand struct {
	client  *Client
	apiBase string
}

// NewDenoLand creates the deno.land provider.
func NewDenoLand(c *Client, opts ...ProviderOption) *DenoLand {
	o := providerOptions{apiBase: "https://cdn.deno.land"}
	for _, opt := range opts {
		opt(&o)
	}
	return &DenoLand{client: c, apiBase: o.apiBase}
}

// TryMatch implements Registry.
func (d *DenoLand) TryMatch(rawURL string) (Ref, bool) {
	m := denoLandPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, false
	}
	return ref{
		prefix:  m[1],
		version: m[3],
		suffix:  m[4],
		name:    strings.TrimPrefix(m[2], "x/"),
		list:    d.versions,
	}, true
}

// denoVersionsMeta is the JSON wire format of cdn.deno.land's
// meta/versions.json endpoint.
type denoVersionsMeta struct {
	Latest   string   `json:"latest"`
	Versions []string `json:"versions"`
}

func (d *DenoLand) versions(ctx context.Context, name string) ([]string, error) {
	var meta denoVersionsMeta
	metaURL := fmt.Sprintf("%s/%s/meta/versions.json", d.apiBase, name)
	if err := d.client.GetJSON(ctx, metaURL, &meta); err != nil {
		return nil, fmt.Errorf("listing versions of %s: %w", name, err)
	}
	return meta.Versions, nil
}
