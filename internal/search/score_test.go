package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldWeightsOrdering(t *testing.T) {
	assert.Greater(t, FieldWeights[FieldTitle], FieldWeights[FieldName])
	assert.Equal(t, FieldWeights[FieldName], FieldWeights[FieldTags])
	assert.Greater(t, FieldWeights[FieldTags], FieldWeights[FieldDescription])
	assert.Greater(t, FieldWeights[FieldDescription], FieldWeights[FieldContent])
	assert.Equal(t, float64(100), FieldWeight(FieldTitle))
	assert.Equal(t, float64(defaultFieldWeight), FieldWeight("unknown"))
}

func TestCalculateMatchScoreFieldWeighting(t *testing.T) {
	terms := []string{"authentication"}
	title := CalculateMatchScore(SearchMatch{Field: FieldTitle, Text: "user authentication", Occurrences: 1}, terms, 2, 5)
	content := CalculateMatchScore(SearchMatch{Field: FieldContent, Text: "user authentication", Occurrences: 1}, terms, 2, 5)
	assert.Greater(t, title, content)
	assert.Less(t, title, float64(100))
}

func TestCalculateMatchScoreExactWordBonus(t *testing.T) {
	terms := []string{"auth"}
	exact := CalculateMatchScore(SearchMatch{Field: FieldDescription, Text: "auth flow", Occurrences: 1}, terms, 1, 0)
	partial := CalculateMatchScore(SearchMatch{Field: FieldDescription, Text: "authentication flow", Occurrences: 1}, terms, 1, 0)
	assert.Greater(t, exact, partial)
	assert.InDelta(t, 2.0, exact/partial, 0.001)
}

func TestCalculateMatchScoreOccurrencesAreSublinear(t *testing.T) {
	terms := []string{"token"}
	once := CalculateMatchScore(SearchMatch{Field: FieldContent, Text: "token", Occurrences: 1}, terms, 1, 0)
	five := CalculateMatchScore(SearchMatch{Field: FieldContent, Text: "token", Occurrences: 5}, terms, 1, 0)
	assert.Greater(t, five, once)
	assert.Less(t, five, 2*once)

	title := CalculateMatchScore(SearchMatch{Field: FieldTitle, Text: "token", Occurrences: 1}, terms, 1, 0)
	assert.Greater(t, title, five)
}

func TestCalculateMatchScorePositionBonus(t *testing.T) {
	m := SearchMatch{Field: FieldContent, Text: "some text about caching layers", Occurrences: 1}
	terms := []string{"caching"}
	early := CalculateMatchScore(m, terms, 1, 0)
	mid := CalculateMatchScore(m, terms, 1, 16)
	late := CalculateMatchScore(m, terms, 1, 500)
	assert.Greater(t, early, mid)
	assert.Greater(t, mid, late)
}

func TestCalculateMatchScoreFrequencyPenalty(t *testing.T) {
	m := SearchMatch{Field: FieldDescription, Text: "caching layer", Occurrences: 1}
	terms := []string{"caching"}
	few := CalculateMatchScore(m, terms, 1, 0)
	many := CalculateMatchScore(m, terms, 20, 0)
	assert.Greater(t, few, many)
	assert.Greater(t, CalculateMatchScore(m, terms, 0, 0), few)
}

func TestCalculateMatchScoreCoverage(t *testing.T) {
	m := SearchMatch{Field: FieldDescription, Text: "caching layer", Occurrences: 1}
	both := CalculateMatchScore(m, []string{"caching", "layer"}, 2, 0)
	one := CalculateMatchScore(m, []string{"caching", "billing"}, 2, 0)
	assert.Greater(t, both, one)
}

func TestCalculateMatchScoreBounds(t *testing.T) {
	capped := CalculateMatchScore(SearchMatch{Field: FieldTitle, Text: "api", Occurrences: 100}, []string{"api"}, 0, 0)
	assert.Equal(t, float64(100), capped)

	assert.Zero(t, CalculateMatchScore(SearchMatch{Field: FieldTitle, Text: "api"}, []string{"billing"}, 1, 0))
	assert.Zero(t, CalculateMatchScore(SearchMatch{Field: FieldTitle, Text: "api"}, nil, 1, 0))
	assert.Zero(t, CalculateMatchScore(SearchMatch{Field: FieldTitle, Text: ""}, []string{"api"}, 1, 0))
}

func TestCalculateSpecScoreEmpty(t *testing.T) {
	assert.Equal(t, 0, CalculateSpecScore(nil))
	assert.Equal(t, 0, CalculateSpecScore([]SearchMatch{}))
}

func TestCalculateSpecScoreUsesBestPerField(t *testing.T) {
	matches := []SearchMatch{
		{Field: FieldTitle, Score: 80},
		{Field: FieldTitle, Score: 20},
		{Field: FieldDescription, Score: 50},
		{Field: FieldContent, Score: 30},
	}
	score := CalculateSpecScore(matches)
	assert.GreaterOrEqual(t, score, 70)
	assert.Equal(t, 83, score)

	assert.Equal(t, 80, CalculateSpecScore([]SearchMatch{{Field: FieldTitle, Score: 80}, {Field: FieldTitle, Score: 10}}))
}

func TestCalculateSpecScoreRange(t *testing.T) {
	full := []SearchMatch{
		{Field: FieldTitle, Score: 100},
		{Field: FieldName, Score: 100},
		{Field: FieldTags, Score: 100},
	}
	assert.Equal(t, 100, CalculateSpecScore(full))
	assert.Equal(t, 0, CalculateSpecScore([]SearchMatch{{Field: FieldContent, Score: 0}}))
	assert.Equal(t, 13, CalculateSpecScore([]SearchMatch{{Field: FieldContent, Score: 12.6}}))
}
