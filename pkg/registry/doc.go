// SPDX-License-Identifier: MPL-2.0

// Package registry recognizes versioned module URLs and lists the versions
// their hosting providers have published.
//
// A Registry inspects a URL and, when it matches the provider's shape,
// returns a Ref: the URL split around its version token, able to list all
// published versions and to produce a sibling URL pinned to any of them.
// Dispatch over providers is an explicit prioritized list — first match
// wins, unmatched URLs are silently excluded.
//
// Built-in providers: deno.land (x and std), unpkg.com, esm.sh,
// cdn.jsdelivr.net/npm and raw.githubusercontent.com. Custom providers
// implement Registry and are passed to the updater alongside or instead of
// Defaults.
package registry
