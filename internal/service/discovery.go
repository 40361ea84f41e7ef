package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raygaledev/kiasu/internal/domain"
	domainerrors "github.com/raygaledev/kiasu/internal/errors"
	"github.com/raygaledev/kiasu/internal/store"
)

// Searcher finds public lists by text. Hits are list ids, best first.
type Searcher interface {
	Search(ctx context.Context, query, category string, limit int) ([]string, error)
}

// DiscoveryService builds the ranked public feed.
type DiscoveryService struct {
	store    store.Store
	searcher Searcher
	logger   *slog.Logger
	now      func() time.Time
}

// NewDiscoveryService creates a discovery service. searcher may be nil, in
// which case Search reports that search is unavailable.
func NewDiscoveryService(store store.Store, searcher Searcher, logger *slog.Logger) *DiscoveryService {
	return &DiscoveryService{
		store:    store,
		searcher: searcher,
		logger:   logger,
		now:      time.Now,
	}
}

// DiscoveryFeed is the ranked feed plus the viewer context the client needs.
type DiscoveryFeed struct {
	Lists           []domain.RankedList `json:"lists"`
	IsAuthenticated bool                `json:"is_authenticated"`
	CurrentUserID   *string             `json:"current_user_id"`
}

// Feed ranks every public list whose owner has a username. An anonymous
// viewer is normal: every current_user_vote is then null. category narrows
// the ranked result; empty or "all" keeps everything.
func (s *DiscoveryService) Feed(ctx context.Context, viewer domain.Viewer, category string) (*DiscoveryFeed, error) {
	if category == "all" {
		category = ""
	}
	if category != "" && !domain.Category(category).Valid() {
		return nil, domainerrors.ValidationWithDetails("unknown category",
			map[string]string{"category": "must be a known category"})
	}

	ranked, err := s.rank(ctx, viewer)
	if err != nil {
		return nil, err
	}

	if category != "" {
		filtered := ranked[:0]
		for _, l := range ranked {
			if string(l.Category) == category {
				filtered = append(filtered, l)
			}
		}
		ranked = filtered
	}

	feed := &DiscoveryFeed{Lists: ranked}
	if uid, ok := viewer.UserID(); ok {
		feed.IsAuthenticated = true
		feed.CurrentUserID = &uid
	}
	return feed, nil
}

// Search returns ranked entries for the lists matching query, in relevance
// order. Hits that are no longer public are dropped.
func (s *DiscoveryService) Search(ctx context.Context, viewer domain.Viewer, query, category string, limit int) ([]domain.RankedList, error) {
	if s.searcher == nil {
		return nil, domainerrors.Upstream("Search is unavailable", nil)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	ids, err := s.searcher.Search(ctx, query, category, limit)
	if err != nil {
		return nil, domainerrors.Upstream("Search failed", err)
	}
	if len(ids) == 0 {
		return []domain.RankedList{}, nil
	}

	ranked, err := s.rank(ctx, viewer)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.RankedList, len(ranked))
	for _, l := range ranked {
		byID[l.ID] = l
	}

	results := make([]domain.RankedList, 0, len(ids))
	for _, listID := range ids {
		if l, ok := byID[listID]; ok {
			results = append(results, l)
		}
	}
	return results, nil
}

// rank loads candidates, aggregates votes (and the viewer's own votes, in
// parallel), scores and sorts.
func (s *DiscoveryService) rank(ctx context.Context, viewer domain.Viewer) ([]domain.RankedList, error) {
	candidates, err := s.store.ListDiscoveryCandidates(ctx)
	if err != nil {
		return nil, upstream("list discovery candidates", err)
	}
	if len(candidates) == 0 {
		return []domain.RankedList{}, nil
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.List.ID
	}

	var (
		tallies map[string]domain.VoteTally
		mine    map[string]domain.VoteType
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tallies, err = s.store.GetVoteTallies(gctx, ids)
		return err
	})
	if uid, ok := viewer.UserID(); ok {
		g.Go(func() error {
			var err error
			mine, err = s.store.GetUserVotes(gctx, uid, ids)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, upstream("aggregate votes", err)
	}

	now := s.now()
	ranked := make([]domain.RankedList, len(candidates))
	for i, c := range candidates {
		tally := tallies[c.List.ID]
		entry := domain.RankedList{
			CreatedAt:   c.List.CreatedAt,
			ID:          c.List.ID,
			Title:       c.List.Title,
			Description: c.List.Description,
			Slug:        c.List.Slug,
			Category:    c.List.Category,
			UserID:      c.List.UserID,
			Href:        domain.ListHref(viewer, &c.List),
			Owner:       c.Owner,
			VoteTally:   tally,
			ItemCount:   c.ItemCount,
			CopyCount:   c.CopyCount,
			Score:       domain.Score(tally, c.CopyCount, c.List.CreatedAt, now),
		}
		if v, ok := mine[c.List.ID]; ok {
			entry.CurrentUserVote = &v
		}
		ranked[i] = entry
	}

	domain.SortRanked(ranked)

	s.logger.Debug("discovery feed ranked",
		"lists", len(ranked),
		"authenticated", viewer.Authenticated())
	return ranked, nil
}
