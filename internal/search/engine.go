package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/kamusis/specq/internal/fuzzy"
	"github.com/kamusis/specq/internal/query"
	"github.com/panjf2000/ants/v2"
)

// ErrInvalidWorkers is returned by WithWorkers for a non-positive count.
var ErrInvalidWorkers = errors.New("worker count must be positive")

// ErrInvalidFuzzyDistance is returned by WithFuzzyDistance for a negative distance.
var ErrInvalidFuzzyDistance = errors.New("fuzzy distance must not be negative")

// Engine evaluates parsed queries against spec documents and ranks the matches.
// An Engine holds no per-query state and is safe for concurrent use.
type Engine struct {
	logger        *slog.Logger
	workers       int
	fuzzyDistance int
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithWorkers bounds the number of documents evaluated concurrently.
// Default is runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(e *Engine) error {
		if n <= 0 {
			return ErrInvalidWorkers
		}
		e.workers = n
		return nil
	}
}

// WithFuzzyDistance sets the edit budget for fuzzy (~) terms.
// Default is fuzzy.DefaultMaxDistance.
func WithFuzzyDistance(d int) Option {
	return func(e *Engine) error {
		if d < 0 {
			return ErrInvalidFuzzyDistance
		}
		e.fuzzyDistance = d
		return nil
	}
}

// NewEngine creates a search engine.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:        slog.Default(),
		workers:       runtime.NumCPU(),
		fuzzyDistance: fuzzy.DefaultMaxDistance,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SearchOptions configures one search.
type SearchOptions struct {
	// Limit caps the number of results; 0 means no limit.
	Limit int
}

// Explain parses q exactly as Search would.
func (e *Engine) Explain(q string) query.ParsedQuery {
	return query.Parse(q)
}

// Search scans docs for matches of q and returns them ranked.
func (e *Engine) Search(ctx context.Context, docs []SpecDoc, q string, opts SearchOptions) ([]SearchResult, error) {
	pq := query.Parse(q)
	if e.logger.Enabled(ctx, slog.LevelDebug) {
		e.logger.Debug("parsed query",
			"query", q,
			"expression", pq.Expression(),
			"terms", pq.Terms,
			"fuzzy", pq.FuzzyTerms,
			"fields", len(pq.Fields),
			"dates", len(pq.DateFilters),
			"advanced", pq.HasAdvancedSyntax)
	}

	if pq.AST == nil || len(docs) == 0 {
		return []SearchResult{}, nil
	}

	pool, err := ants.NewPool(min(e.workers, len(docs)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	// Indexed slots keep the output independent of scheduling order.
	slots := make([]*SearchResult, len(docs))
	var wg sync.WaitGroup
	for i := range docs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			if r, ok := e.Evaluate(pq, docs[i]); ok {
				slots[i] = &r
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("schedule evaluation: %w", err)
		}
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(docs))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	SortResults(results)
	e.logger.Debug("search complete", "scanned", len(docs), "matched", len(results))

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// Evaluate tests one document against a parsed query. When it matches, the
// result carries the per-field matches and the combined score.
func (e *Engine) Evaluate(pq query.ParsedQuery, doc SpecDoc) (SearchResult, bool) {
	if pq.AST == nil || !e.matches(pq.AST, doc) {
		return SearchResult{}, false
	}

	terms := e.scoringTerms(pq, doc)
	type hit struct {
		field       string
		text        string
		occurrences int
		highlights  [][2]int
	}
	var hits []hit
	total := 0
	for _, field := range SearchFields {
		text := doc.FieldText(field)
		if !ContainsAnyTerm(text, terms) {
			continue
		}
		highlights := FindMatchPositions(text, terms)
		if len(highlights) == 0 {
			continue
		}
		occ := CountOccurrences(text, terms)
		total += occ
		hits = append(hits, hit{field: field, text: text, occurrences: occ, highlights: highlights})
	}

	matches := make([]SearchMatch, 0, len(hits))
	for _, h := range hits {
		m := SearchMatch{
			Field:       h.field,
			Text:        h.text,
			Highlights:  h.highlights,
			Occurrences: h.occurrences,
		}
		m.Score = CalculateMatchScore(m, terms, total, h.highlights[0][0])
		matches = append(matches, m)
	}

	return SearchResult{
		Spec:    doc,
		Score:   CalculateSpecScore(matches),
		Matches: matches,
	}, true
}

// scoringTerms returns the query terms plus the document words matched by
// each fuzzy term, without case-insensitive duplicates.
func (e *Engine) scoringTerms(pq query.ParsedQuery, doc SpecDoc) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(t string) {
		k := fold(t)
		if t == "" || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, t)
	}

	for _, t := range pq.Terms {
		add(t)
	}
	for _, ft := range pq.FuzzyTerms {
		for _, field := range SearchFields {
			for _, w := range fuzzy.MatchingWords(ft, doc.FieldText(field), e.fuzzyDistance) {
				add(strings.Trim(w, ".,;:!?()[]{}\"'`"))
			}
		}
	}
	return out
}

func (e *Engine) matches(node query.Node, doc SpecDoc) bool {
	switch n := node.(type) {
	case query.And:
		return e.matches(n.Left, doc) && e.matches(n.Right, doc)
	case query.Or:
		return e.matches(n.Left, doc) || e.matches(n.Right, doc)
	case query.Not:
		return !e.matches(n.Child, doc)
	case query.Term:
		return anyFieldContains(doc, n.Value)
	case query.Phrase:
		return anyFieldContains(doc, n.Value)
	case query.Fuzzy:
		for _, field := range SearchFields {
			if fuzzy.Match(n.Value, doc.FieldText(field), e.fuzzyDistance) {
				return true
			}
		}
		return false
	case query.Field:
		if n.Date != nil {
			return MatchDate(doc, *n.Date)
		}
		if n.Filter != nil {
			return MatchField(doc, *n.Filter)
		}
	}
	return false
}

func anyFieldContains(doc SpecDoc, term string) bool {
	for _, field := range SearchFields {
		if ContainsAnyTerm(doc.FieldText(field), []string{term}) {
			return true
		}
	}
	return false
}
