package search

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// specFile is the file that holds a spec inside its own directory.
const specFile = "README.md"

// archivedDir holds specs that are skipped unless explicitly requested.
const archivedDir = "archived"

var (
	// ErrSpecNotFound is returned by FindSpec when no spec matches.
	ErrSpecNotFound = errors.New("spec not found")
	// ErrAmbiguousSpec is returned by FindSpec when several specs match.
	ErrAmbiguousSpec = errors.New("spec reference is ambiguous")
)

// DiscoverOptions controls spec discovery.
type DiscoverOptions struct {
	IncludeArchived bool
}

// DiscoverSpecs scans root for specs and returns them parsed. A spec is either
// a directory holding README.md or a markdown file directly under root.
func DiscoverSpecs(root string, opts DiscoverOptions) ([]SpecDoc, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []SpecDoc{}, nil
		}
		return nil, fmt.Errorf("cannot stat specs directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("specs path is not a directory: %s", root)
	}

	out := []SpecDoc{}
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || (name == archivedDir && !opts.IncludeArchived) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		dir := filepath.Dir(path)
		var name string
		switch {
		case d.Name() == specFile && dir != root:
			name = filepath.Base(dir)
		case dir == root && d.Name() != specFile:
			name = strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		default:
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}

		doc := ParseSpec(name, string(b))
		doc.Path = filepath.ToSlash(rel)
		doc.Archived = isArchived(rel)
		out = append(out, doc)
		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, fmt.Errorf("cannot scan specs: %w", err)
	}
	return out, nil
}

// ParseSpec builds a SpecDoc from a spec's name and markdown source.
func ParseSpec(name, content string) SpecDoc {
	fm, body := splitFrontmatter(norm.NFC.String(content))

	doc := SpecDoc{
		Name:    name,
		Content: body,
		Extra:   map[string]string{},
	}
	// The first non-empty key of each alias list wins; "tags" come before "tag".
	claimed := map[string]bool{}
	get := func(keys ...string) string {
		v := ""
		for _, k := range keys {
			claimed[k] = true
			if raw, ok := fm[k]; ok && v == "" {
				v = scalarString(raw)
			}
		}
		return v
	}
	doc.Title = get("title")
	doc.Status = get("status")
	doc.Priority = get("priority")
	doc.Assignee = get("assignee")
	doc.Created = get("created", "created_at")
	doc.Updated = get("updated", "updated_at")
	doc.Completed = get("completed", "completed_at")
	doc.Due = get("due")
	doc.Description = get("description")
	for _, k := range []string{"tags", "tag"} {
		claimed[k] = true
		doc.Tags = append(doc.Tags, stringList(fm[k])...)
	}

	for k, v := range fm {
		if claimed[k] {
			continue
		}
		if s := scalarString(v); s != "" {
			doc.Extra[k] = s
		}
	}

	if doc.Title == "" {
		doc.Title = firstHeading(body)
	}
	if doc.Title == "" {
		doc.Title = name
	}
	if doc.Description == "" {
		doc.Description = inferDescriptionFromBody(body)
	}
	return doc
}

// FindSpec resolves ref to a single spec: an exact name, a spec number
// ("12" for "012-auth"), or a unique name substring.
func FindSpec(specs []SpecDoc, ref string) (SpecDoc, error) {
	ref = strings.TrimSpace(ref)
	for _, s := range specs {
		if strings.EqualFold(s.Name, ref) {
			return s, nil
		}
	}

	var candidates []SpecDoc
	if n, err := strconv.Atoi(ref); err == nil {
		for _, s := range specs {
			if num, ok := specNumber(s.Name); ok && num == n {
				candidates = append(candidates, s)
			}
		}
	}
	if len(candidates) == 0 {
		needle := fold(ref)
		for _, s := range specs {
			if strings.Contains(fold(s.Name), needle) {
				candidates = append(candidates, s)
			}
		}
	}

	switch len(candidates) {
	case 0:
		return SpecDoc{}, fmt.Errorf("%w: %s", ErrSpecNotFound, ref)
	case 1:
		return candidates[0], nil
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}
	return SpecDoc{}, fmt.Errorf("%w: %s matches %s", ErrAmbiguousSpec, ref, strings.Join(names, ", "))
}

// specNumber parses the leading digits of a spec name such as "012-auth".
func specNumber(name string) (int, bool) {
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(name[:end])
	return n, err == nil
}

func isArchived(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == archivedDir {
			return true
		}
	}
	return false
}

func firstHeading(body string) string {
	for _, ln := range strings.Split(body, "\n") {
		ln = strings.TrimSpace(ln)
		if title, ok := strings.CutPrefix(ln, "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	return ""
}

func inferDescriptionFromBody(body string) string {
	lines := strings.Split(body, "\n")
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		if strings.HasPrefix(ln, "#") {
			continue
		}
		return ln
	}
	return ""
}
