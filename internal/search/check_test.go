package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSpec(t *testing.T) {
	assert.Empty(t, CheckSpec(SpecDoc{Status: "planned", Created: "2024-01-01", Completed: "2024-02-01"}))

	issues := CheckSpec(SpecDoc{Created: "yesterday"})
	assert.Len(t, issues, 2)
	assert.Contains(t, issues[0], "no status")
	assert.Contains(t, issues[1], "created")

	issues = CheckSpec(SpecDoc{Status: "complete", Created: "2024-03-01", Completed: "2024-02-01"})
	assert.Equal(t, []string{"completed before created"}, issues)
}

func TestDuplicateNames(t *testing.T) {
	specs := []SpecDoc{{Name: "001-a"}, {Name: "002-b"}, {Name: "001-A"}, {Name: "002-b"}, {Name: "003-c"}}
	assert.Equal(t, []string{"001-a", "002-b"}, DuplicateNames(specs))
	assert.Empty(t, DuplicateNames(specs[:2]))
}
