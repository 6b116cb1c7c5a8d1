package search

import (
	"strings"
	"time"

	"github.com/kamusis/specq/internal/query"
)

const dateLayout = "2006-01-02"

// MatchField reports whether doc satisfies an exact field filter.
func MatchField(doc SpecDoc, f query.FieldFilter) bool {
	want := fold(f.Value)
	switch strings.ToLower(f.Field) {
	case "status":
		return fold(doc.Status) == want
	case "priority":
		return fold(doc.Priority) == want
	case "assignee":
		return fold(doc.Assignee) == want
	case "tag", "tags":
		for _, t := range doc.Tags {
			if fold(t) == want {
				return true
			}
		}
		return false
	case "name":
		return strings.Contains(fold(doc.Name), want)
	case "title":
		return strings.Contains(fold(doc.Title), want)
	case "created", "updated", "completed", "due":
		return strings.HasPrefix(docDate(doc, f.Field), f.Value)
	}
	v, ok := doc.Extra[strings.ToLower(f.Field)]
	return ok && fold(v) == want
}

// MatchDate reports whether doc satisfies a date filter. Documents without a
// parseable date never match, nor do filters with unparseable bounds.
func MatchDate(doc SpecDoc, f query.DateFilter) bool {
	have, ok := parseDate(docDate(doc, f.Field))
	if !ok {
		return false
	}
	lo, ok := parseDate(f.Value)
	if !ok {
		return false
	}

	switch f.Operator {
	case query.DateAfter:
		return have.After(lo)
	case query.DateBefore:
		return have.Before(lo)
	case query.DateRange:
		hi, ok := parseDate(f.EndValue)
		if !ok {
			return false
		}
		return !have.Before(lo) && !have.After(hi)
	}
	return false
}

func docDate(doc SpecDoc, field string) string {
	switch strings.ToLower(field) {
	case "created":
		return doc.Created
	case "updated":
		return doc.Updated
	case "completed":
		return doc.Completed
	case "due":
		return doc.Due
	}
	return ""
}

// parseDate reads the YYYY-MM-DD prefix of s, so full timestamps compare by day.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(dateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
