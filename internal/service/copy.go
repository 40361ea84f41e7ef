package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/raygaledev/kiasu/internal/domain"
	domainerrors "github.com/raygaledev/kiasu/internal/errors"
	"github.com/raygaledev/kiasu/internal/id"
	"github.com/raygaledev/kiasu/internal/sse"
	"github.com/raygaledev/kiasu/internal/store"
)

const (
	msgCopyOwnList   = "You cannot copy your own list"
	msgAlreadyCopied = "You already saved this list"
)

// CopyService saves private copies of other users' public lists.
type CopyService struct {
	store  store.Store
	events EventEmitter
	logger *slog.Logger
	now    func() time.Time
}

// NewCopyService creates a new copy service.
func NewCopyService(store store.Store, events EventEmitter, logger *slog.Logger) *CopyService {
	return &CopyService{store: store, events: emitterOrNoop(events), logger: logger, now: time.Now}
}

// CopyResult identifies the new list.
type CopyResult struct {
	List *domain.StudyList `json:"list"`
	Slug string            `json:"slug"`
}

// Copy clones a public list, items included, to the top of the caller's
// dashboard as a private list. Checks run in order: signed in, source is
// public, source is not the caller's, caller has not copied it before.
func (s *CopyService) Copy(ctx context.Context, userID, sourceID string) (*CopyResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	source, err := s.store.GetStudyList(ctx, sourceID)
	if err != nil {
		return nil, notFoundAs(err, msgListNotFound, "get study list")
	}
	if !source.IsPublic {
		return nil, domainerrors.NotFound(msgListNotFound)
	}
	if source.OwnedBy(userID) {
		return nil, domainerrors.Validation(msgCopyOwnList)
	}

	copied, err := s.store.HasCopied(ctx, userID, source.ID)
	if err != nil {
		return nil, upstream("check copy", err)
	}
	if copied {
		return nil, domainerrors.Conflict(msgAlreadyCopied)
	}

	now := s.now()
	slug, err := uniqueSlug(ctx, s.store, userID, source.Title, "", now)
	if err != nil {
		return nil, err
	}

	listID, err := id.Generate(id.PrefixList)
	if err != nil {
		return nil, fmt.Errorf("generate list ID: %w", err)
	}

	list := &domain.StudyList{
		CreatedAt:   now,
		UpdatedAt:   now,
		ID:          listID,
		UserID:      userID,
		Title:       source.Title,
		Description: source.Description,
		Slug:        slug,
		Category:    source.Category,
		IsPublic:    false,
	}

	err = saveWithSlugRetry(list, now, func() error {
		return s.store.CopyStudyList(ctx, source.ID, list)
	})
	switch {
	case errors.Is(err, store.ErrAlreadyCopied):
		return nil, domainerrors.Conflict(msgAlreadyCopied)
	case err != nil:
		return nil, upstream("copy study list", err)
	}

	s.logger.Info("study list copied",
		"list_id", list.ID,
		"source_id", source.ID,
		"user_id", userID,
		"slug", list.Slug)

	s.events.Emit(sse.NewListCreatedEvent(list))
	s.events.Emit(sse.NewDiscoveryChangedEvent(source.ID, "copy"))
	return &CopyResult{List: list, Slug: list.Slug}, nil
}
