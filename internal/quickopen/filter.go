package quickopen

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sfuzzy "github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
)

// Match modes accepted by MatcherFor.
const (
	MatchSubstring = "substring"
	MatchFuzzy     = "fuzzy"
)

// Matcher decides which display names a query selects.
//
// Implementations must be case-insensitive and monotonic: extending a query
// never makes a rejected name match.
type Matcher interface {
	// Compile prepares query for matching many names. The returned
	// function is not safe for concurrent use.
	Compile(query string) func(name string) bool

	// Positions returns the byte offsets in name to highlight for query,
	// or nil. Highlighting never affects visibility.
	Positions(name, query string) []int

	// Mode returns the configuration name of the matcher.
	Mode() string
}

// MatcherFor returns the matcher for a configured mode. Unknown modes
// select substring matching.
func MatcherFor(mode string) Matcher {
	if strings.EqualFold(strings.TrimSpace(mode), MatchFuzzy) {
		return FuzzyMatcher{}
	}
	return SubstringMatcher{}
}

// Filter returns the candidates whose display name matches query, in their
// original order. The empty query returns full unchanged.
func Filter(full []Candidate, query string, m Matcher) []Candidate {
	if query == "" {
		return full
	}
	if m == nil {
		m = SubstringMatcher{}
	}
	match := m.Compile(query)
	visible := make([]Candidate, 0, len(full))
	for _, c := range full {
		if match(c.DisplayName) {
			visible = append(visible, c)
		}
	}
	return visible
}

// SubstringMatcher keeps names containing the query, ignoring case.
type SubstringMatcher struct{}

// Compile implements Matcher.
func (SubstringMatcher) Compile(query string) func(string) bool {
	fold := cases.Fold()
	needle := fold.String(query)
	return func(name string) bool {
		return strings.Contains(fold.String(name), needle)
	}
}

// Positions implements Matcher using simple per-rune lowering so offsets
// map back onto name.
func (SubstringMatcher) Positions(name, query string) []int {
	if query == "" {
		return nil
	}
	hay := []rune(name)
	needle := []rune(query)
	for i := range needle {
		needle[i] = unicode.ToLower(needle[i])
	}
	offsets := runeOffsets(name)
	for start := 0; start+len(needle) <= len(hay); start++ {
		ok := true
		for j, r := range needle {
			if unicode.ToLower(hay[start+j]) != r {
				ok = false
				break
			}
		}
		if ok {
			return offsets[start : start+len(needle)]
		}
	}
	return nil
}

// Mode implements Matcher.
func (SubstringMatcher) Mode() string { return MatchSubstring }

// FuzzyMatcher keeps names containing the query characters in order,
// ignoring case.
type FuzzyMatcher struct{}

// Compile implements Matcher.
func (FuzzyMatcher) Compile(query string) func(string) bool {
	return func(name string) bool {
		return fuzzy.MatchFold(query, name)
	}
}

// Positions implements Matcher.
func (FuzzyMatcher) Positions(name, query string) []int {
	if query == "" {
		return nil
	}
	matches := sfuzzy.Find(query, []string{name})
	if len(matches) == 0 {
		return nil
	}
	return matches[0].MatchedIndexes
}

// Mode implements Matcher.
func (FuzzyMatcher) Mode() string { return MatchFuzzy }

func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s))
	for i := range s {
		offsets = append(offsets, i)
	}
	return offsets
}
