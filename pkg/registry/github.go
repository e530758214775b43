// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// tagsPerPage is the number of tags fetched per API page.
	tagsPerPage = 100

	// maxTagPages is the upper bound on pagination to avoid runaway requests.
	maxTagPages = 3
)

// gitHubRawPattern matches raw.githubusercontent.com URLs, where the third
// path segment is a tag or branch:
//
//	https://raw.githubusercontent.com/denoland/deno/v1.30.0/cli/README.md
var gitHubRawPattern = regexp.MustCompile(`^(https://raw\.githubusercontent\.com/([^/]+)/([^/]+)/)([^/?#]+)(.*)$`)

type (
	// RateLimitError is returned when the GitHub API rate limit is exceeded.
	RateLimitError struct {
		Limit     int
		Remaining int
		ResetAt   time.Time
	}

	// GitHubRaw serves raw.githubusercontent.com URLs. Version listings
	// come from the repository's tags via the GitHub API, re-sorted to
	// semver descending.
	GitHubRaw struct {
		client  *Client
		apiBase string
		token   string
	}

	// githubTag is the JSON wire format of one entry in the tags API response.
	githubTag struct {
		Name string `json:"name"`
	}
)

// Error formats the rate limit details as a human-readable message.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded (%d remaining, resets at %s)",
		e.Remaining, e.ResetAt.UTC().Format("15:04 UTC"))
}

// NewGitHubRaw creates the raw.githubusercontent.com provider. Pass
// WithToken to raise the API rate limit (5000/hour vs 60/hour).
func NewGitHubRaw(c *Client, opts ...ProviderOption) *GitHubRaw {
	o := providerOptions{apiBase: "https://api.github.com"}
	for _, opt := range opts {
		opt(&o)
	}
	return &GitHubRaw{client: c, apiBase: o.apiBase, token: o.token}
}

// TryMatch implements Registry.
func (g *GitHubRaw) TryMatch(rawURL string) (Ref, bool) {
	m := gitHubRawPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, false
	}
	return ref{
		prefix:  m[1],
		version: m[4],
		suffix:  m[5],
		name:    m[2] + "/" + m[3],
		list:    g.tags,
	}, true
}

// tags lists a repository's tag names, following pagination up to
// maxTagPages, sorted semver descending.
func (g *GitHubRaw) tags(ctx context.Context, name string) ([]string, error) {
	pageURL := fmt.Sprintf("%s/repos/%s/tags?per_page=%d", g.apiBase, name, tagsPerPage)

	var all []string
	for page := 0; page < maxTagPages && pageURL != ""; page++ {
		tags, next, err := g.tagsPage(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("listing tags of %s: %w", name, err)
		}
		for _, t := range tags {
			all = append(all, t.Name)
		}
		pageURL = next
	}

	sortVersionsDesc(all)
	return all, nil
}

func (g *GitHubRaw) tagsPage(ctx context.Context, pageURL string) ([]githubTag, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if err := checkRateLimit(resp); err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var tags []githubTag
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(&tags); err != nil {
		return nil, "", fmt.Errorf("decoding tags: %w", err)
	}

	return tags, parseLinkHeader(resp.Header.Get("Link")), nil
}

// checkRateLimit inspects the X-RateLimit-* response headers and returns a
// RateLimitError when the remaining quota is zero. It does not inspect the
// HTTP status code — only the header values are examined.
func checkRateLimit(resp *http.Response) error {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		// No rate limit headers present; nothing to check.
		return nil
	}

	rem, err := strconv.Atoi(remaining)
	if err != nil || rem > 0 {
		return nil
	}

	// Companion headers only feed the diagnostic message; malformed or
	// missing values default to zero.
	limit, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))                 //nolint:errcheck // Best-effort header parsing.
	resetUnix, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64) //nolint:errcheck // Best-effort header parsing.

	return &RateLimitError{
		Limit:     limit,
		Remaining: 0,
		ResetAt:   time.Unix(resetUnix, 0),
	}
}

// parseLinkHeader extracts the URL for the "next" page from a GitHub API
// Link header. Returns an empty string if no next page exists.
//
// Example header: <https://api.github.com/...?page=2>; rel="next", <...>; rel="last"
func parseLinkHeader(header string) string {
	if header == "" {
		return ""
	}

	for part := range strings.SplitSeq(header, ",") {
		part = strings.TrimSpace(part)
		if !strings.Contains(part, `rel="next"`) {
			continue
		}

		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start >= 0 && end > start {
			return part[start+1 : end]
		}
	}

	return ""
}
