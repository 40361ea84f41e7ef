package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// DefaultLimit applies when the caller passes no limit.
const DefaultLimit = 20

// Search returns the ids of lists matching text, best first. category, when
// set, must match exactly. An empty query with a category lists that
// category; an empty query without one returns nothing.
func (s *Index) Search(ctx context.Context, text, category string, limit int) ([]string, error) {
	text = strings.TrimSpace(text)
	if category == "all" {
		category = ""
	}
	if text == "" && category == "" {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(buildQuery(text, category), limit, 0, false)
	if text == "" {
		req.SortBy([]string{"-created_at"})
	} else {
		req.SortBy([]string{"-_score", "-created_at"})
	}

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// buildQuery matches title strongest, then owner and description, with
// fuzzy and prefix matching on the title for typos and type-ahead.
func buildQuery(text, category string) query.Query {
	var queries []query.Query

	if text != "" {
		titleMatch := bleve.NewMatchQuery(text)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		ownerMatch := bleve.NewMatchQuery(text)
		ownerMatch.SetField("owner")
		ownerMatch.SetBoost(2.0)

		descMatch := bleve.NewMatchQuery(text)
		descMatch.SetField("description")

		textQueries := []query.Query{titleMatch, ownerMatch, descMatch}

		// Fuzzy and prefix queries are not analyzed, so they get single terms.
		if !strings.ContainsAny(text, " \t") {
			term := strings.ToLower(text)

			fuzzy := bleve.NewFuzzyQuery(term)
			fuzzy.SetFuzziness(1)
			fuzzy.SetField("title")
			fuzzy.SetBoost(0.8)
			textQueries = append(textQueries, fuzzy)

			if len(term) >= 2 {
				prefix := bleve.NewPrefixQuery(term)
				prefix.SetField("title")
				prefix.SetBoost(0.5)
				textQueries = append(textQueries, prefix)
			}
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if category != "" {
		cq := bleve.NewTermQuery(category)
		cq.SetField("category")
		queries = append(queries, cq)
	}

	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}
