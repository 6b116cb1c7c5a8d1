package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsAllTerms(t *testing.T) {
	assert.True(t, ContainsAllTerms("User Authentication API", []string{"user", "API"}))
	assert.False(t, ContainsAllTerms("User Authentication API", []string{"user", "billing"}))
	assert.True(t, ContainsAllTerms("anything", nil))
	assert.True(t, ContainsAllTerms("", []string{}))
}

func TestContainsAnyTerm(t *testing.T) {
	assert.True(t, ContainsAnyTerm("User Authentication API", []string{"billing", "auth"}))
	assert.False(t, ContainsAnyTerm("User Authentication API", []string{"billing"}))
	assert.False(t, ContainsAnyTerm("User Authentication API", nil))
	assert.False(t, ContainsAnyTerm("", []string{"api"}))
	assert.False(t, ContainsAnyTerm("api", []string{""}))
}

func TestCountOccurrences(t *testing.T) {
	assert.Equal(t, 3, CountOccurrences("API api Api", []string{"api"}))
	assert.Equal(t, 4, CountOccurrences("api gateway for the api", []string{"api", "gateway", "the"}))
	assert.Equal(t, 1, CountOccurrences("aaa", []string{"aa"}))
	assert.Equal(t, 0, CountOccurrences("text", []string{""}))
	assert.Equal(t, 0, CountOccurrences("", []string{"api"}))
}

func TestFindMatchPositions(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		terms []string
		want  [][2]int
	}{
		{"single", "hello world", []string{"world"}, [][2]int{{6, 11}}},
		{"case insensitive", "API and api", []string{"api"}, [][2]int{{0, 3}, {8, 11}}},
		{"sorted across terms", "beta alpha", []string{"alpha", "beta"}, [][2]int{{0, 4}, {5, 10}}},
		{"overlap merged", "authentication", []string{"auth", "then"}, [][2]int{{0, 6}}},
		{"adjacent merged", "foobar", []string{"foo", "bar"}, [][2]int{{0, 6}}},
		{"contained merged", "authentication", []string{"authentication", "cat"}, [][2]int{{0, 14}}},
		{"rune offsets", "café api", []string{"api"}, [][2]int{{5, 8}}},
		{"no match", "hello", []string{"zzz"}, [][2]int{}},
		{"empty term", "hello", []string{""}, [][2]int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindMatchPositions(tt.text, tt.terms))
		})
	}
}

func TestTermHelpersAgreeOnFolding(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		term  string
		found bool
		spans [][2]int
	}{
		{"multi-rune fold is not a match", "Straße design", "STRASSE", false, [][2]int{}},
		{"final sigma", "ΟΔΟΣ σοφία", "οδος", true, [][2]int{{0, 4}}},
		{"kelvin sign", "5 \u212Aelvin", "kelvin", true, [][2]int{{2, 8}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := []string{tt.term}
			assert.Equal(t, tt.found, ContainsAnyTerm(tt.text, terms))
			assert.Equal(t, tt.found, ContainsAllTerms(tt.text, terms))
			assert.Equal(t, tt.spans, FindMatchPositions(tt.text, terms))
			assert.Equal(t, len(tt.spans), CountOccurrences(tt.text, terms))
			assert.Equal(t, tt.found, CalculateMatchScore(SearchMatch{Field: FieldTitle, Text: tt.text, Occurrences: 1}, terms, 1, 0) > 0)
		})
	}
}
