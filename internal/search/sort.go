package search

import "sort"

// SortResults sorts results by score (descending), then by spec name (ascending).
func SortResults(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].Spec.Name < results[j].Spec.Name
		}
		return results[i].Score > results[j].Score
	})
}
