// Package store defines the persistence interface for the Kiasu server.
package store

import (
	"context"

	"github.com/raygaledev/kiasu/internal/domain"
)

// Store defines every persistence operation. Multi-row writes (create at
// head, copy, reorder, delete with compaction, vote transitions) are atomic.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error
	SetSearchIndexer(indexer SearchIndexer)

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	CountUsers(ctx context.Context) (int, error)
	UsernameExists(ctx context.Context, username, excludeUserID string) (bool, error)

	// Study lists
	CreateStudyList(ctx context.Context, list *domain.StudyList) error
	GetStudyList(ctx context.Context, id string) (*domain.StudyList, error)
	GetStudyListBySlug(ctx context.Context, userID, slug string) (*domain.StudyList, error)
	ListStudyLists(ctx context.Context, userID string) ([]domain.ListSummary, error)
	ListPublicStudyLists(ctx context.Context, userID string) ([]domain.ListSummary, error)
	UpdateStudyList(ctx context.Context, list *domain.StudyList) error
	DeleteStudyList(ctx context.Context, id string) error
	SlugExists(ctx context.Context, userID, slug, excludeListID string) (bool, error)
	ReorderStudyLists(ctx context.Context, userID string, ids []string) error
	HasCopied(ctx context.Context, userID, sourceID string) (bool, error)
	CopyStudyList(ctx context.Context, sourceID string, copied *domain.StudyList) error
	SetStudyListVisibility(ctx context.Context, id string, public bool) error

	// Study items
	CreateStudyItem(ctx context.Context, item *domain.StudyItem) error
	GetStudyItem(ctx context.Context, id string) (*domain.StudyItem, error)
	ListStudyItems(ctx context.Context, listID string) ([]domain.StudyItem, error)
	UpdateStudyItem(ctx context.Context, item *domain.StudyItem) error
	ToggleStudyItem(ctx context.Context, id string) (*domain.StudyItem, error)
	DeleteStudyItem(ctx context.Context, id string) error
	ReorderStudyItems(ctx context.Context, listID string, ids []string) error

	// Votes
	ApplyVote(ctx context.Context, userID, listID string, cast domain.VoteType) (domain.VoteType, error)
	GetVoteTallies(ctx context.Context, listIDs []string) (map[string]domain.VoteTally, error)
	GetUserVotes(ctx context.Context, userID string, listIDs []string) (map[string]domain.VoteType, error)

	// Discovery
	ListDiscoveryCandidates(ctx context.Context) ([]DiscoveryCandidate, error)
}

// DiscoveryCandidate is a public list joined with what the feed needs to
// rank it, minus votes, which are aggregated separately.
type DiscoveryCandidate struct {
	List      domain.StudyList
	Owner     domain.Owner
	ItemCount int
	CopyCount int
}

// SearchIndexer keeps the full-text index of public lists in step with writes.
type SearchIndexer interface {
	IndexStudyList(ctx context.Context, list *domain.StudyList, owner domain.Owner) error
	DeleteStudyList(ctx context.Context, id string) error
}

type noopSearchIndexer struct{}

// NewNoopSearchIndexer returns an indexer that does nothing.
func NewNoopSearchIndexer() SearchIndexer { return noopSearchIndexer{} }

func (noopSearchIndexer) IndexStudyList(context.Context, *domain.StudyList, domain.Owner) error {
	return nil
}

func (noopSearchIndexer) DeleteStudyList(context.Context, string) error { return nil }
