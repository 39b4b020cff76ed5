// Package verify holds the deterministic verification core: fuzzy string
// matching, world-aware address assessment, the security gate, and the
// provenance-aware scoring engine. Everything in this package is pure;
// identical inputs always produce identical outputs.
package verify

import "strings"

var fieldNormalizer = strings.NewReplacer(".", " ", ",", " ", "#", " ", "-", " ")

// normalizeField lowercases and collapses punctuation/whitespace so that
// cosmetic formatting differences don't count as edit distance.
func normalizeField(s string) string {
	s = fieldNormalizer.Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// levenshtein computes the classic unit-cost edit distance between a and b.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Similarity returns a fuzzy match score in [0,1] between two field values.
// Either side normalizing to empty yields 0, never 1, so blank fields can
// never count as a match.
func Similarity(a, b string) float64 {
	s1 := normalizeField(a)
	s2 := normalizeField(b)
	if s1 == "" || s2 == "" {
		return 0
	}

	distance := levenshtein(s1, s2)
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}

	score := 1 - float64(distance)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}
