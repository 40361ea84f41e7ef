package search

import (
	"context"
	"fmt"
	"time"

	"github.com/raygaledev/kiasu/internal/store"
)

// CandidateSource lists every list that belongs in the index.
// store.Store implements it.
type CandidateSource interface {
	ListDiscoveryCandidates(ctx context.Context) ([]store.DiscoveryCandidate, error)
}

// Reindex rebuilds the index from src.
func (s *Index) Reindex(ctx context.Context, src CandidateSource) (int, error) {
	start := time.Now()

	candidates, err := src.ListDiscoveryCandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list candidates: %w", err)
	}

	if err := s.Rebuild(); err != nil {
		return 0, err
	}

	docs := make([]*Document, len(candidates))
	for i := range candidates {
		docs[i] = NewDocument(&candidates[i].List, candidates[i].Owner)
	}
	if err := s.IndexDocuments(docs); err != nil {
		return 0, err
	}

	s.logger.Info("search index rebuilt from store",
		"lists", len(docs),
		"duration", time.Since(start))
	return len(docs), nil
}

// EnsurePopulated reindexes from src when the index is empty, as it is after
// a first start or a mapping change.
func (s *Index) EnsurePopulated(ctx context.Context, src CandidateSource) error {
	count, err := s.DocumentCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err = s.Reindex(ctx, src)
	return err
}
