package search

import (
	"sort"
	"unicode"

	"golang.org/x/text/cases"
)

func fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsAllTerms reports whether every term occurs in text, ignoring case.
// It is true for an empty term list.
func ContainsAllTerms(text string, terms []string) bool {
	hay := foldRunes(text)
	for _, t := range terms {
		needle := foldRunes(t)
		if len(needle) > 0 && indexRunes(hay, needle) < 0 {
			return false
		}
	}
	return true
}

// ContainsAnyTerm reports whether at least one non-empty term occurs in text,
// ignoring case.
func ContainsAnyTerm(text string, terms []string) bool {
	if text == "" {
		return false
	}
	hay := foldRunes(text)
	for _, t := range terms {
		if needle := foldRunes(t); len(needle) > 0 && indexRunes(hay, needle) >= 0 {
			return true
		}
	}
	return false
}

// CountOccurrences sums the non-overlapping occurrences of each term in text,
// ignoring case.
func CountOccurrences(text string, terms []string) int {
	hay := foldRunes(text)
	n := 0
	for _, t := range terms {
		n += len(indexAll(hay, foldRunes(t)))
	}
	return n
}

// FindMatchPositions returns the half-open rune ranges of every occurrence of
// every term in text, ignoring case. Ranges are sorted by start and
// overlapping or adjacent ranges are merged.
func FindMatchPositions(text string, terms []string) [][2]int {
	hay := foldRunes(text)
	var spans [][2]int
	for _, t := range terms {
		needle := foldRunes(t)
		for _, start := range indexAll(hay, needle) {
			spans = append(spans, [2]int{start, start + len(needle)})
		}
	}
	return mergeSpans(spans)
}

func mergeSpans(spans [][2]int) [][2]int {
	if len(spans) == 0 {
		return [][2]int{}
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i][0] == spans[j][0] {
			return spans[i][1] < spans[j][1]
		}
		return spans[i][0] < spans[j][0]
	})

	out := [][2]int{spans[0]}
	for _, sp := range spans[1:] {
		last := &out[len(out)-1]
		if sp[0] <= last[1] {
			last[1] = max(last[1], sp[1])
			continue
		}
		out = append(out, sp)
	}
	return out
}

// foldRunes case-folds rune by rune so indexes line up with the original
// text. Every term helper and the scorer compare through it.
func foldRunes(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = foldRune(r)
	}
	return rs
}

// foldRune maps r to the smallest rune of its simple case-folding orbit, so
// runes that fold together ('K', 'k' and the Kelvin sign) compare equal.
func foldRune(r rune) rune {
	least := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		least = min(least, f)
	}
	return least
}

func indexRunes(hay, needle []rune) int {
	for i := 0; i+len(needle) <= len(hay); i++ {
		if runesEqual(hay[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

// indexAll returns the start of each non-overlapping occurrence of needle.
func indexAll(hay, needle []rune) []int {
	if len(needle) == 0 || len(needle) > len(hay) {
		return nil
	}
	var out []int
	for i := 0; i+len(needle) <= len(hay); {
		if runesEqual(hay[i:i+len(needle)], needle) {
			out = append(out, i)
			i += len(needle)
			continue
		}
		i++
	}
	return out
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// containsWord reports whether needle occurs in hay bounded by non-word runes.
func containsWord(hay, needle []rune) bool {
	for _, start := range indexAll(hay, needle) {
		end := start + len(needle)
		if (start == 0 || !isWordRune(hay[start-1])) && (end == len(hay) || !isWordRune(hay[end])) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
