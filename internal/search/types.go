package search

import "strings"

// SpecDoc represents the searchable metadata and body of one spec.
type SpecDoc struct {
	Name        string            `json:"name"`
	Path        string            `json:"path"`
	Title       string            `json:"title"`
	Status      string            `json:"status,omitempty"`
	Priority    string            `json:"priority,omitempty"`
	Assignee    string            `json:"assignee,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Created     string            `json:"created,omitempty"`
	Updated     string            `json:"updated,omitempty"`
	Completed   string            `json:"completed,omitempty"`
	Due         string            `json:"due,omitempty"`
	Description string            `json:"description,omitempty"`
	Content     string            `json:"-"`
	Archived    bool              `json:"archived,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Searchable field names, in display order.
const (
	FieldTitle       = "title"
	FieldName        = "name"
	FieldTags        = "tags"
	FieldDescription = "description"
	FieldContent     = "content"
)

// SearchFields lists the fields scanned for query terms.
var SearchFields = []string{FieldTitle, FieldName, FieldTags, FieldDescription, FieldContent}

// FieldText returns the text of a searchable field, or "" for unknown fields.
func (d SpecDoc) FieldText(field string) string {
	switch field {
	case FieldTitle:
		return d.Title
	case FieldName:
		return d.Name
	case FieldTags:
		return strings.Join(d.Tags, " ")
	case FieldDescription:
		return d.Description
	case FieldContent:
		return d.Content
	}
	return ""
}

// SearchMatch records how one field of a document matched a query.
// Highlights are half-open rune ranges into Text, sorted and non-touching.
type SearchMatch struct {
	Field       string   `json:"field"`
	Text        string   `json:"-"`
	Score       float64  `json:"score"`
	Highlights  [][2]int `json:"highlights"`
	Occurrences int      `json:"occurrences"`
}

// SearchResult represents one matched spec.
type SearchResult struct {
	Spec    SpecDoc       `json:"spec"`
	Score   int           `json:"score"`
	Matches []SearchMatch `json:"matches,omitempty"`
}
