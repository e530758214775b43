// SPDX-License-Identifier: MPL-2.0

// Package scan extracts candidate versioned module URLs from source text.
// It is deliberately dumb: any quoted http(s) URL whose path contains an
// "@" is a candidate; registry matching decides what is actually updatable.
package scan

import "regexp"

// importPattern matches single- or double-quoted http(s) URLs carrying a
// version marker, as they appear in import statements:
//
//	import { serve } from "https://deno.land/std@0.177.0/http/server.ts";
var importPattern = regexp.MustCompile(`['"](https?://[^'"\s]+@[^'"\s]*)['"]`)

// Imports returns the candidate URLs found in content, in order of first
// appearance, deduplicated. A URL imported twice is still one reference:
// the updater rewrites every literal occurrence at once.
func Imports(content string) []string {
	matches := importPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		urls = append(urls, m[1])
	}
	return urls
}
