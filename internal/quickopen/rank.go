package quickopen

import (
	"cmp"
	"slices"
	"strings"
)

// Order sorts candidates for presentation: recent files by recency rank,
// then every other file by display name (case-insensitive) and path.
func Order(cands []Candidate) {
	slices.SortStableFunc(cands, compareCandidates)
}

func compareCandidates(a, b Candidate) int {
	switch {
	case a.IsRecent() && b.IsRecent():
		if c := cmp.Compare(a.RecencyRank, b.RecencyRank); c != 0 {
			return c
		}
	case a.IsRecent():
		return -1
	case b.IsRecent():
		return 1
	}
	if c := strings.Compare(strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName)); c != 0 {
		return c
	}
	return strings.Compare(a.Path, b.Path)
}

// RecencyRanks maps each path of an ordered recent list to its position,
// keeping the first occurrence and at most limit entries.
func RecencyRanks(paths []string, limit int) map[string]int {
	if limit <= 0 {
		return map[string]int{}
	}
	ranks := make(map[string]int, min(len(paths), limit))
	for _, p := range paths {
		if len(ranks) >= limit {
			break
		}
		if _, ok := ranks[p]; ok {
			continue
		}
		ranks[p] = len(ranks)
	}
	return ranks
}
