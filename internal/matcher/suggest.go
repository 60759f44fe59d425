// file: internal/matcher/suggest.go
// version: 1.0.0
// guid: 5b7e2c90-4a1d-4f38-b6e9-0d3c8a71f254

package matcher

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest returns up to limit entries of options that fit query, best first.
// Subsequence hits ranked by fuzzysearch come first, then typo-tolerant
// matches in their original order. An empty query returns the first limit
// options.
func Suggest(query string, options []string, limit int) []string {
	if limit <= 0 {
		limit = 10
	}
	if query == "" {
		return append([]string(nil), options[:min(limit, len(options))]...)
	}

	ranks := fuzzy.RankFindNormalizedFold(query, options)
	sort.Sort(ranks)

	seen := make(map[string]bool, len(ranks))
	out := make([]string, 0, limit)
	for _, r := range ranks {
		if len(out) == limit {
			return out
		}
		if !seen[r.Target] {
			seen[r.Target] = true
			out = append(out, r.Target)
		}
	}
	for _, opt := range options {
		if len(out) == limit {
			break
		}
		if !seen[opt] && Matches(opt, query) {
			seen[opt] = true
			out = append(out, opt)
		}
	}
	return out
}
