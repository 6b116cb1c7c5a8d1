package search

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpec(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscoverSpecs_ParsesFrontmatter(t *testing.T) {
	root := t.TempDir()
	writeSpec(t, filepath.Join(root, "001-auth", "README.md"),
		"---\ntitle: User Authentication\nstatus: in-progress\ntags: [api, security]\ncreated: 2024-01-15\n---\n\n# Ignored heading\n\nLogin flow.\n")
	writeSpec(t, filepath.Join(root, "notes.md"),
		"+++\ntitle = \"Release notes\"\npriority = \"low\"\ntags = \"docs, release\"\n+++\nBody text\n")
	writeSpec(t, filepath.Join(root, "README.md"), "# Index\n")
	writeSpec(t, filepath.Join(root, ".drafts", "002-hidden", "README.md"), "# Hidden\n")
	writeSpec(t, filepath.Join(root, "001-auth", "design.md"), "# Not a spec\n")

	specs, err := DiscoverSpecs(root, DiscoverOptions{})
	require.NoError(t, err)
	require.Len(t, specs, 2)

	byName := map[string]SpecDoc{}
	for _, s := range specs {
		byName[s.Name] = s
	}

	auth := byName["001-auth"]
	assert.Equal(t, "User Authentication", auth.Title)
	assert.Equal(t, "in-progress", auth.Status)
	assert.Equal(t, []string{"api", "security"}, auth.Tags)
	assert.Equal(t, "2024-01-15", auth.Created)
	assert.Equal(t, "Login flow.", auth.Description)
	assert.Equal(t, "001-auth/README.md", auth.Path)
	assert.False(t, auth.Archived)

	notes := byName["notes"]
	assert.Equal(t, "Release notes", notes.Title)
	assert.Equal(t, "low", notes.Priority)
	assert.Equal(t, []string{"docs", "release"}, notes.Tags)
	assert.Equal(t, "Body text\n", notes.Content)
}

func TestDiscoverSpecs_Archived(t *testing.T) {
	root := t.TempDir()
	writeSpec(t, filepath.Join(root, "001-live", "README.md"), "# Live\n")
	writeSpec(t, filepath.Join(root, "archived", "000-old", "README.md"), "# Old\n")

	specs, err := DiscoverSpecs(root, DiscoverOptions{})
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "001-live", specs[0].Name)

	specs, err = DiscoverSpecs(root, DiscoverOptions{IncludeArchived: true})
	require.NoError(t, err)
	require.Len(t, specs, 2)
	for _, s := range specs {
		assert.Equal(t, s.Name == "000-old", s.Archived, s.Name)
	}
}

func TestDiscoverSpecs_MissingRoot(t *testing.T) {
	specs, err := DiscoverSpecs(filepath.Join(t.TempDir(), "nope"), DiscoverOptions{})
	require.NoError(t, err)
	assert.Empty(t, specs)
}

func TestDiscoverSpecs_RootIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.md")
	writeSpec(t, path, "x")
	_, err := DiscoverSpecs(path, DiscoverOptions{})
	assert.Error(t, err)
}

func TestParseSpec_Fallbacks(t *testing.T) {
	doc := ParseSpec("003-cache", "# Cache Layer\n\nAdds a read-through cache.\n")
	assert.Equal(t, "Cache Layer", doc.Title)
	assert.Equal(t, "Adds a read-through cache.", doc.Description)

	doc = ParseSpec("004-bare", "just text")
	assert.Equal(t, "004-bare", doc.Title)
	assert.Equal(t, "just text", doc.Description)
}

func TestParseSpec_ExtraAndAliases(t *testing.T) {
	content := "---\nStatus: Complete\ncompleted_at: 2024-03-01\ntag: infra\nowner: alice\nlinks: [a, b]\n---\nbody\n"
	doc := ParseSpec("005-x", content)
	assert.Equal(t, "Complete", doc.Status)
	assert.Equal(t, "2024-03-01", doc.Completed)
	assert.Equal(t, []string{"infra"}, doc.Tags)
	assert.Equal(t, "alice", doc.Extra["owner"])
	_, ok := doc.Extra["links"]
	assert.False(t, ok)
}

func TestParseSpec_InvalidFrontmatterKeepsContent(t *testing.T) {
	content := "---\ntitle: [unclosed\n---\nbody\n"
	doc := ParseSpec("006-bad", content)
	assert.Equal(t, content, doc.Content)
	assert.Empty(t, doc.Status)
}

func TestParseSpec_CRLFAndBOM(t *testing.T) {
	doc := ParseSpec("007-win", "\ufeff---\r\nstatus: planned\r\n---\r\nbody\r\n")
	assert.Equal(t, "planned", doc.Status)
}

func TestFindSpec(t *testing.T) {
	specs := []SpecDoc{
		{Name: "001-auth"},
		{Name: "002-auth-tokens"},
		{Name: "012-billing"},
	}

	s, err := FindSpec(specs, "001-AUTH")
	require.NoError(t, err)
	assert.Equal(t, "001-auth", s.Name)

	s, err = FindSpec(specs, "12")
	require.NoError(t, err)
	assert.Equal(t, "012-billing", s.Name)

	s, err = FindSpec(specs, "tokens")
	require.NoError(t, err)
	assert.Equal(t, "002-auth-tokens", s.Name)

	_, err = FindSpec(specs, "auth")
	assert.True(t, errors.Is(err, ErrAmbiguousSpec))

	_, err = FindSpec(specs, "search")
	assert.True(t, errors.Is(err, ErrSpecNotFound))
}

func TestParseSpec_AliasesAreDeterministic(t *testing.T) {
	content := "---\ntags: [a, b]\ntag: c\ncreated_at: 2024-01-01\ncreated: 2024-02-02\nStatus: Draft\nstatus: planned\n---\nbody\n"
	for range 200 {
		doc := ParseSpec("008-alias", content)
		require.Equal(t, []string{"a", "b", "c"}, doc.Tags)
		require.Equal(t, "2024-02-02", doc.Created)
		require.Equal(t, "planned", doc.Status)
		require.Empty(t, doc.Extra)
	}
}

func TestParseSpec_DelimiterInsideValue(t *testing.T) {
	doc := ParseSpec("009-dash", "---\ntitle: a---b\nstatus: planned\n---\n# Body\n")
	assert.Equal(t, "a---b", doc.Title)
	assert.Equal(t, "planned", doc.Status)
	assert.Equal(t, "# Body\n", doc.Content)

	doc = ParseSpec("010-toml", "+++\ntitle = \"x+++y\"\n+++\nbody\n")
	assert.Equal(t, "x+++y", doc.Title)
	assert.Equal(t, "body\n", doc.Content)
}

func TestParseSpec_UnclosedOrInlineDelimiter(t *testing.T) {
	content := "---\ntitle: never closed\n"
	doc := ParseSpec("011-open", content)
	assert.Equal(t, content, doc.Content)
	assert.Empty(t, doc.Status)

	doc = ParseSpec("012-rule", "----\nstatus: planned\n---\n")
	assert.Empty(t, doc.Status)
}
