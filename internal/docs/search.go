package docs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/OceanicJS/Bot/internal/domain"
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/cockroachdb/errors"
)

// lowercaseKeyword indexes a whole value as one case-folded term.
const lowercaseKeyword = "lowercase_keyword"

// Relative weights of the match strategies. An exact name beats a prefix,
// a prefix beats a substring, a substring beats a scattered subsequence.
const (
	boostExact       = 10
	boostPrefix      = 5
	boostSubstring   = 2
	boostSubsequence = 1
)

// ErrSearcherClosed is returned by a query against a closed Searcher.
var ErrSearcherClosed = errors.New("searcher closed")

// Field selects the values indexed under one field path of an item.
type Field[T any] struct {
	Path   string
	Values func(T) []string
}

// Searcher ranks a fixed list of items against a partial query. Items are
// indexed once in memory; a Searcher is safe for concurrent use.
type Searcher[T any] struct {
	index  bleve.Index
	items  []T
	fields []string

	// mu lets Close wait for running queries.
	mu     sync.RWMutex
	closed bool
}

// CreateSearchMapping builds the index mapping shared by every Searcher.
func CreateSearchMapping() (mapping.IndexMapping, error) {
	indexMapping := bleve.NewIndexMapping()
	err := indexMapping.AddCustomAnalyzer(lowercaseKeyword, map[string]any{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, errors.Wrap(err, "register search analyzer")
	}
	indexMapping.DefaultAnalyzer = lowercaseKeyword
	indexMapping.StoreDynamic = false
	indexMapping.DocValuesDynamic = false
	return indexMapping, nil
}

// NewSearcher indexes items under the given fields.
func NewSearcher[T any](items []T, fields ...Field[T]) (*Searcher[T], error) {
	if len(fields) == 0 {
		return nil, errors.New("searcher needs at least one field")
	}
	indexMapping, err := CreateSearchMapping()
	if err != nil {
		return nil, err
	}
	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, errors.Wrap(err, "create search index")
	}

	batch := index.NewBatch()
	for i, item := range items {
		doc := make(map[string]any, len(fields))
		for _, f := range fields {
			doc[f.Path] = f.Values(item)
		}
		if err := batch.Index(docID(i), doc); err != nil {
			_ = index.Close()
			return nil, errors.Wrapf(err, "index item %d", i)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, errors.Wrap(err, "build search index")
	}

	paths := make([]string, 0, len(fields))
	for _, f := range fields {
		paths = append(paths, f.Path)
	}
	return &Searcher[T]{index: index, items: items, fields: paths}, nil
}

// NewNameSearcher searches plain strings.
func NewNameSearcher(names []string) (*Searcher[string], error) {
	return NewSearcher(names, Field[string]{
		Path:   domain.FieldName,
		Values: func(s string) []string { return []string{s} },
	})
}

// Search returns the items matching q, best first; ties keep item order.
// An empty query matches everything.
func (s *Searcher[T]) Search(q string) ([]T, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return s.items, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrSearcherClosed
	}

	req := bleve.NewSearchRequestOptions(s.buildQuery(q), len(s.items), 0, false)
	req.SortBy([]string{"-_score", "_id"})
	result, err := s.index.Search(req)
	if err != nil {
		return nil, errors.Wrapf(err, "search %q", q)
	}

	out := make([]T, 0, len(result.Hits))
	for _, hit := range result.Hits {
		i, err := strconv.Atoi(hit.ID)
		if err != nil || i < 0 || i >= len(s.items) {
			continue
		}
		out = append(out, s.items[i])
	}
	return out, nil
}

func (s *Searcher[T]) Len() int {
	return len(s.items)
}

// Close releases the index once running queries finish. Closing twice is
// a no-op.
func (s *Searcher[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.index.Close()
}

func (s *Searcher[T]) buildQuery(q string) query.Query {
	var subsequence strings.Builder
	subsequence.WriteString(".*")
	for _, r := range q {
		subsequence.WriteString(regexp.QuoteMeta(string(r)))
		subsequence.WriteString(".*")
	}
	substring := "*" + strings.NewReplacer("*", "", "?", "").Replace(q) + "*"

	strategies := make([]query.Query, 0, 4*len(s.fields))
	for _, field := range s.fields {
		exact := bleve.NewTermQuery(q)
		exact.SetField(field)
		exact.SetBoost(boostExact)

		prefix := bleve.NewPrefixQuery(q)
		prefix.SetField(field)
		prefix.SetBoost(boostPrefix)

		contains := bleve.NewWildcardQuery(substring)
		contains.SetField(field)
		contains.SetBoost(boostSubstring)

		scattered := bleve.NewRegexpQuery(subsequence.String())
		scattered.SetField(field)
		scattered.SetBoost(boostSubsequence)

		strategies = append(strategies, exact, prefix, contains, scattered)
	}
	return bleve.NewDisjunctionQuery(strategies...)
}

// docID pads positions so sorting by ID keeps item order.
func docID(i int) string {
	return fmt.Sprintf("%08d", i)
}

// SearchChoices runs a search and converts the hits to capped choices.
func SearchChoices[T any](s *Searcher[T], q string, choice func(T) domain.Choice) ([]domain.Choice, error) {
	hits, err := s.Search(q)
	if err != nil {
		return nil, err
	}
	choices := make([]domain.Choice, 0, len(hits))
	for _, hit := range hits {
		choices = append(choices, choice(hit))
	}
	return domain.TruncateChoices(choices), nil
}
