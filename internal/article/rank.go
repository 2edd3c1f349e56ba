package article

import (
	"bytes"
	"sort"
)

// SelectTopN returns up to n articles ordered by PublishedAt, newest first.
// Equal timestamps fall back to DiscoveredAt (when the store first saw the
// article), then ID bytes, then URL, so the same stored set always yields the
// same sequence. The input is left untouched.
func SelectTopN(articles []Article, n int) []Article {
	if n <= 0 || len(articles) == 0 {
		return []Article{}
	}

	sorted := make([]Article, len(articles))
	copy(sorted, articles)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.After(b.PublishedAt)
		}
		if !a.DiscoveredAt.Equal(b.DiscoveredAt) {
			return a.DiscoveredAt.Before(b.DiscoveredAt)
		}
		if c := bytes.Compare(a.ID[:], b.ID[:]); c != 0 {
			return c < 0
		}
		return a.URL < b.URL
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
