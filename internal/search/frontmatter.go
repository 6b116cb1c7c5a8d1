package search

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// splitFrontmatter separates a leading YAML (---) or TOML (+++) block from
// the body. Both delimiters must sit on their own line. Documents without a
// valid block return an empty map and the original content.
func splitFrontmatter(content string) (map[string]any, string) {
	s := strings.TrimPrefix(content, "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")

	first, rest, _ := strings.Cut(s, "\n")
	var delim string
	switch strings.TrimRight(first, " \t") {
	case "---":
		delim = "---"
	case "+++":
		delim = "+++"
	default:
		return map[string]any{}, content
	}

	fmText, body, ok := cutAtLine(rest, delim)
	if !ok {
		return map[string]any{}, content
	}

	raw := map[string]any{}
	var err error
	if delim == "+++" {
		err = toml.Unmarshal([]byte(fmText), &raw)
	} else {
		err = yaml.Unmarshal([]byte(fmText), &raw)
	}
	if err != nil {
		return map[string]any{}, content
	}

	// Sorted so that when keys differ only in case the lowercase one wins.
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(raw))
	for _, k := range keys {
		out[strings.ToLower(k)] = raw[k]
	}
	return out, body
}

// cutAtLine splits s around the first line consisting of delim alone.
func cutAtLine(s, delim string) (before, after string, found bool) {
	for off := 0; off <= len(s); {
		line, next := s[off:], len(s)
		if i := strings.IndexByte(s[off:], '\n'); i >= 0 {
			line, next = s[off:off+i], off+i+1
		}
		if strings.TrimRight(line, " \t") == delim {
			return s[:off], s[next:], true
		}
		if next == len(s) {
			break
		}
		off = next
	}
	return "", "", false
}

// scalarString renders a frontmatter scalar. Lists and maps yield "".
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case time.Time:
		return t.Format("2006-01-02")
	case []any, map[string]any:
		return ""
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// stringList accepts either a list or a comma separated string.
func stringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, part := range strings.Split(t, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
