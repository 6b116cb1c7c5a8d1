package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/kamusis/specq/internal/config"
	"github.com/kamusis/specq/internal/query"
	"github.com/kamusis/specq/internal/search"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// snippetWidth is the number of runes shown around the first content match.
const snippetWidth = 80

// renderer styles terminal output. With color disabled every method returns
// its input unchanged.
type renderer struct {
	color bool
	mark  lipgloss.Style
	score lipgloss.Style
	muted lipgloss.Style
}

// useColor resolves a color mode against the output file.
func useColor(mode string, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}

func newRenderer(w io.Writer, color bool) *renderer {
	lr := lipgloss.NewRenderer(w)
	if color {
		lr.SetColorProfile(termenv.ANSI256)
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &renderer{
		color: color,
		mark:  lr.NewStyle().Foreground(lipgloss.Color("#F9E2AF")).Bold(true),
		score: lr.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		muted: lr.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if !r.color || text == "" {
		return text
	}
	return s.Render(text)
}

// highlight styles the rune ranges of text named by spans. Spans must be
// sorted and non-overlapping; out-of-range parts are clamped.
func (r *renderer) highlight(text string, spans [][2]int) string {
	if !r.color || len(spans) == 0 {
		return text
	}
	runes := []rune(text)
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		start, end := max(sp[0], last), min(sp[1], len(runes))
		if start >= end {
			continue
		}
		b.WriteString(string(runes[last:start]))
		b.WriteString(r.mark.Render(string(runes[start:end])))
		last = end
	}
	b.WriteString(string(runes[last:]))
	return b.String()
}

// snippet cuts a single-line window of about width runes around the first
// span and shifts the spans into the window. Whitespace runs collapse to one
// space.
func snippet(text string, spans [][2]int, width int) (string, [][2]int) {
	runes, pos := collapse(text)
	from, to := 0, len(runes)
	if len(spans) > 0 && len(runes) > width {
		first := pos[min(max(spans[0][0], 0), len(pos)-1)]
		from = max(first-width/4, 0)
		to = min(from+width, len(runes))
		from = max(to-width, 0)
	}

	var out strings.Builder
	prefix := 0
	if from > 0 {
		out.WriteString("…")
		prefix = 1
	}
	out.WriteString(string(runes[from:to]))
	if to < len(runes) {
		out.WriteString("…")
	}

	var shifted [][2]int
	for _, sp := range spans {
		if sp[0] < 0 || sp[1] >= len(pos) || sp[0] >= sp[1] {
			continue
		}
		s, e := max(pos[sp[0]], from), min(pos[sp[1]], to)
		if s < e {
			shifted = append(shifted, [2]int{s - from + prefix, e - from + prefix})
		}
	}
	return out.String(), shifted
}

// collapse trims text and folds whitespace runs into single spaces. pos maps
// each original rune offset (and the end offset) to its collapsed offset.
func collapse(text string) ([]rune, []int) {
	orig := []rune(text)
	out := make([]rune, 0, len(orig))
	pos := make([]int, len(orig)+1)
	pending := false
	for i, c := range orig {
		if unicode.IsSpace(c) {
			pending = len(out) > 0
			pos[i] = len(out)
			continue
		}
		if pending {
			out = append(out, ' ')
			pending = false
		}
		pos[i] = len(out)
		out = append(out, c)
	}
	pos[len(orig)] = len(out)
	return out, pos
}

// printResults writes ranked results in the human-readable layout.
func printResults(w io.Writer, r *renderer, q string, results []search.SearchResult) {
	fmt.Fprintf(w, "\nspecq search %q\n\n", q)
	fmt.Fprintf(w, "Results (%d found):\n", len(results))
	if len(results) == 0 {
		return
	}

	for i, res := range results {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		title := res.Spec.Title
		var titleSpans [][2]int
		for _, m := range res.Matches {
			if m.Field == search.FieldTitle {
				titleSpans = m.Highlights
			}
		}
		fmt.Fprintf(tw, "  %d.\t%s\t%s\t%s\n", i+1,
			r.style(r.score, fmt.Sprintf("[%3d]", res.Score)),
			res.Spec.Name,
			r.highlight(title, titleSpans))
		_ = tw.Flush()

		if meta := metaLine(res.Spec); meta != "" {
			fmt.Fprintf(w, "        %s\n", r.style(r.muted, meta))
		}
		for _, m := range res.Matches {
			if m.Field == search.FieldTitle {
				continue
			}
			text, spans := snippet(m.Text, m.Highlights, snippetWidth)
			fmt.Fprintf(w, "        %s: %s\n", r.style(r.muted, m.Field), r.highlight(text, spans))
		}
	}
}

// metaLine summarises the frontmatter shown under each result.
func metaLine(d search.SpecDoc) string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+": "+v)
		}
	}
	add("status", d.Status)
	add("priority", d.Priority)
	add("assignee", d.Assignee)
	add("tags", strings.Join(d.Tags, ", "))
	add("created", d.Created)
	if d.Archived {
		parts = append(parts, "archived")
	}
	return strings.Join(parts, "  ")
}

// printExplain writes how a query was understood.
func printExplain(w io.Writer, pq query.ParsedQuery) {
	fmt.Fprintf(w, "\n=== Query ===\n")
	fmt.Fprintf(w, "  expression: %s\n", orNone(pq.Expression()))
	fmt.Fprintf(w, "  advanced:   %t\n", pq.HasAdvancedSyntax)
	fmt.Fprintf(w, "  terms:      %s\n", orNone(strings.Join(pq.Terms, ", ")))
	fmt.Fprintf(w, "  fuzzy:      %s\n", orNone(strings.Join(pq.FuzzyTerms, ", ")))
	for _, f := range pq.Fields {
		fmt.Fprintf(w, "  field:      %s = %s\n", f.Field, f.Value)
	}
	for _, d := range pq.DateFilters {
		if d.Operator == query.DateRange {
			fmt.Fprintf(w, "  date:       %s in %s..%s\n", d.Field, d.Value, d.EndValue)
			continue
		}
		fmt.Fprintf(w, "  date:       %s %s %s\n", d.Field, d.Operator, d.Value)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
