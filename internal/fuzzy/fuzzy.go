// Package fuzzy provides edit-distance based approximate word matching.
package fuzzy

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultMaxDistance tolerates a single-character typo.
const DefaultMaxDistance = 1

// Distance returns the Levenshtein distance between a and b: the minimum number
// of single-rune insertions, deletions or substitutions turning a into b.
// The comparison is case-sensitive.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Two rolling rows of the DP table.
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Match reports whether text contains term, ignoring case, either literally or
// as a whitespace-delimited word within maxDistance edits of term.
func Match(term, text string, maxDistance int) bool {
	folder := cases.Fold()
	t := folder.String(term)
	s := folder.String(text)
	if strings.Contains(s, t) {
		return true
	}
	for _, word := range strings.Fields(s) {
		if withinDistance(t, word, maxDistance) {
			return true
		}
	}
	return false
}

// MatchingWords returns the distinct words of text, in their original case,
// that are within maxDistance edits of term or contain it.
func MatchingWords(term, text string, maxDistance int) []string {
	folder := cases.Fold()
	t := folder.String(term)

	var out []string
	seen := make(map[string]bool)
	for _, word := range strings.Fields(text) {
		w := folder.String(word)
		if seen[w] {
			continue
		}
		if strings.Contains(w, t) || withinDistance(t, w, maxDistance) {
			seen[w] = true
			out = append(out, word)
		}
	}
	return out
}

// withinDistance skips the DP when the length gap alone exceeds the budget.
func withinDistance(a, b string, maxDistance int) bool {
	gap := len([]rune(a)) - len([]rune(b))
	if gap < 0 {
		gap = -gap
	}
	if gap > maxDistance {
		return false
	}
	return Distance(a, b) <= maxDistance
}
