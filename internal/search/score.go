package search

import (
	"math"
	"sort"
)

// FieldWeights is the base relevance weight of each searchable field.
// Treat as read-only.
var FieldWeights = map[string]float64{
	FieldTitle:       100,
	FieldName:        70,
	FieldTags:        70,
	FieldDescription: 50,
	FieldContent:     10,
}

// defaultFieldWeight applies to fields missing from FieldWeights.
const defaultFieldWeight = 10

// Scoring knobs.
const (
	partialMatchFactor = 0.5  // substring-only hit relative to a whole-word hit
	occurrenceBoost    = 0.15 // per natural-log unit of occurrences
	positionFloor      = 0.8  // position factor for matches far into the text
	positionScale      = 100  // runes over which the position bonus halves
	frequencyPenalty   = 0.1  // per natural-log unit of document-wide matches
	secondaryFieldRate = 0.001
	maxScore           = 100
)

// FieldWeight returns the base weight for field.
func FieldWeight(field string) float64 {
	if w, ok := FieldWeights[field]; ok {
		return w
	}
	return defaultFieldWeight
}

// CalculateMatchScore scores one field match against the query terms.
//
// totalMatches is the number of term occurrences found across the whole
// document and position is the rune offset of the first hit in match.Text.
// The result is in [0, 100]; it is 0 when no term occurs in the text.
func CalculateMatchScore(match SearchMatch, queryTerms []string, totalMatches, position int) float64 {
	hay := foldRunes(match.Text)

	var sum float64
	matched, considered := 0, 0
	for _, t := range queryTerms {
		needle := foldRunes(t)
		if len(needle) == 0 {
			continue
		}
		considered++
		switch {
		case containsWord(hay, needle):
			sum += 1
		case len(indexAll(hay, needle)) > 0:
			sum += partialMatchFactor
		default:
			continue
		}
		matched++
	}
	if matched == 0 {
		return 0
	}

	termFactor := sum / float64(matched)
	coverage := 0.5 + 0.5*float64(matched)/float64(considered)

	occurrences := max(match.Occurrences, 1)
	occFactor := 1 + occurrenceBoost*math.Log(float64(occurrences))

	pos := float64(max(position, 0))
	posFactor := positionFloor + (1-positionFloor)/(1+pos/positionScale)

	freqFactor := 1 / (1 + frequencyPenalty*math.Log1p(float64(max(totalMatches, 0))))

	score := FieldWeight(match.Field) * termFactor * coverage * occFactor * posFactor * freqFactor
	return math.Min(maxScore, math.Max(0, score))
}

// CalculateSpecScore combines field matches into one document score in
// [0, 100]. Only the best match of each field counts. The strongest field
// sets the score and every other field adds a share proportional to its
// own weight.
func CalculateSpecScore(matches []SearchMatch) int {
	if len(matches) == 0 {
		return 0
	}

	best := make(map[string]float64)
	for _, m := range matches {
		if cur, ok := best[m.Field]; !ok || m.Score > cur {
			best[m.Field] = m.Score
		}
	}

	fields := make([]string, 0, len(best))
	for f := range best {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		if best[fields[i]] == best[fields[j]] {
			return fields[i] < fields[j]
		}
		return best[fields[i]] > best[fields[j]]
	})

	total := best[fields[0]]
	for _, f := range fields[1:] {
		total += best[f] * FieldWeight(f) * secondaryFieldRate
	}
	return int(math.Round(math.Min(maxScore, math.Max(0, total))))
}
