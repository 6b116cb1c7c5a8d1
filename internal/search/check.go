package search

import (
	"fmt"
	"strings"
)

// CheckSpec returns human-readable problems with a spec's metadata. Specs
// with problems still load and search; the checks flag filters that will
// silently never match them.
func CheckSpec(doc SpecDoc) []string {
	var issues []string
	if strings.TrimSpace(doc.Status) == "" {
		issues = append(issues, "no status (status: filters will not match)")
	}
	dates := []struct{ field, value string }{
		{"created", doc.Created},
		{"updated", doc.Updated},
		{"completed", doc.Completed},
		{"due", doc.Due},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		if _, ok := parseDate(d.value); !ok {
			issues = append(issues, fmt.Sprintf("%s %q is not a YYYY-MM-DD date", d.field, d.value))
		}
	}
	if created, ok := parseDate(doc.Created); ok {
		if completed, ok := parseDate(doc.Completed); ok && completed.Before(created) {
			issues = append(issues, "completed before created")
		}
	}
	return issues
}

// DuplicateNames returns spec names that occur more than once, in first-seen
// order. FindSpec cannot tell such specs apart by exact name.
func DuplicateNames(specs []SpecDoc) []string {
	count := make(map[string]int, len(specs))
	var order []string
	for _, s := range specs {
		k := fold(s.Name)
		if count[k] == 0 {
			order = append(order, s.Name)
		}
		count[k]++
	}
	var out []string
	for _, n := range order {
		if count[fold(n)] > 1 {
			out = append(out, n)
		}
	}
	return out
}
