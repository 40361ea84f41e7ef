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
	"github.com/raygaledev/kiasu/internal/util"
)

// StudyItemService manages the items inside a user's lists.
type StudyItemService struct {
	store  store.Store
	events EventEmitter
	logger *slog.Logger
	now    func() time.Time
}

// NewStudyItemService creates a new study item service.
func NewStudyItemService(store store.Store, events EventEmitter, logger *slog.Logger) *StudyItemService {
	return &StudyItemService{
		store:  store,
		events: emitterOrNoop(events),
		logger: logger,
		now:    time.Now,
	}
}

// CreateItemRequest adds an item at the end of a list.
type CreateItemRequest struct {
	Title string  `json:"title" validate:"required,max=200"`
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	URL   *string `json:"url,omitempty" validate:"omitempty,max=2000,httpurl"`
}

// UpdateItemRequest patches an item. Nil fields are left unchanged; empty
// notes or url clear the field.
type UpdateItemRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	URL       *string `json:"url,omitempty" validate:"omitempty,max=2000,httpurl"`
	Completed *bool   `json:"completed,omitempty"`
}

// Add appends an item to one of the caller's lists.
func (s *StudyItemService) Add(ctx context.Context, userID, listID string, req CreateItemRequest) (*domain.StudyItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	req.Title = util.SafeText(req.Title)
	req.Notes = util.OptionalText(req.Notes, util.NotesMarkdown)
	req.URL = util.OptionalText(req.URL, trimSpace)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	list, err := loadOwnedList(ctx, s.store, listID, userID)
	if err != nil {
		return nil, err
	}

	itemID, err := id.Generate(id.PrefixItem)
	if err != nil {
		return nil, fmt.Errorf("generate item ID: %w", err)
	}

	now := s.now()
	item := &domain.StudyItem{
		CreatedAt:   now,
		UpdatedAt:   now,
		ID:          itemID,
		StudyListID: list.ID,
		Title:       req.Title,
		Notes:       req.Notes,
		URL:         req.URL,
	}
	if err := s.store.CreateStudyItem(ctx, item); err != nil {
		return nil, notFoundAs(err, msgListNotFound, "create study item")
	}

	s.logger.Info("study item added", "item_id", item.ID, "list_id", list.ID, "position", item.Position)
	s.events.Emit(sse.NewItemCreatedEvent(userID, item))
	return item, nil
}

// Update patches one of the caller's items.
func (s *StudyItemService) Update(ctx context.Context, userID, itemID string, req UpdateItemRequest) (*domain.StudyItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	clearNotes, clearURL := isBlank(req.Notes), isBlank(req.URL)
	if clearNotes {
		req.Notes = nil
	}
	if clearURL {
		req.URL = nil
	}
	if req.Title != nil {
		t := util.SafeText(*req.Title)
		if t == "" {
			return nil, domainerrors.ValidationWithDetails("title is required", map[string]string{"title": "is required"})
		}
		req.Title = &t
	}
	req.Notes = util.OptionalText(req.Notes, util.NotesMarkdown)
	req.URL = util.OptionalText(req.URL, trimSpace)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	switch {
	case clearNotes:
		item.Notes = nil
	case req.Notes != nil:
		item.Notes = req.Notes
	}
	switch {
	case clearURL:
		item.URL = nil
	case req.URL != nil:
		item.URL = req.URL
	}
	if req.Completed != nil {
		item.Completed = *req.Completed
	}
	item.UpdatedAt = s.now()

	if err := s.store.UpdateStudyItem(ctx, item); err != nil {
		return nil, notFoundAs(err, msgItemNotFound, "update study item")
	}

	s.logger.Info("study item updated", "item_id", item.ID, "list_id", item.StudyListID)
	s.events.Emit(sse.NewItemUpdatedEvent(userID, item))
	return item, nil
}

// Toggle flips an item's completion.
func (s *StudyItemService) Toggle(ctx context.Context, userID, itemID string) (*domain.StudyItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return nil, err
	}

	item, err := s.store.ToggleStudyItem(ctx, itemID)
	if err != nil {
		return nil, notFoundAs(err, msgItemNotFound, "toggle study item")
	}

	s.logger.Debug("study item toggled", "item_id", item.ID, "completed", item.Completed)
	s.events.Emit(sse.NewItemUpdatedEvent(userID, item))
	return item, nil
}

// Delete removes an item and closes the gap in its list.
func (s *StudyItemService) Delete(ctx context.Context, userID, itemID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteStudyItem(ctx, item.ID); err != nil {
		return notFoundAs(err, msgItemNotFound, "delete study item")
	}

	s.logger.Info("study item deleted", "item_id", item.ID, "list_id", item.StudyListID)
	s.events.Emit(sse.NewItemDeletedEvent(userID, item.StudyListID, item.ID))
	return nil
}

// Reorder sets the order of a list's items. Any id outside the list rejects
// the whole request and nothing moves.
func (s *StudyItemService) Reorder(ctx context.Context, userID, listID string, ids []string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	list, err := loadOwnedList(ctx, s.store, listID, userID)
	if err != nil {
		return err
	}

	if err := s.store.ReorderStudyItems(ctx, list.ID, ids); err != nil {
		if errors.Is(err, store.ErrInvalidMember) {
			return domainerrors.Validation("Invalid item ID")
		}
		return upstream("reorder study items", err)
	}

	s.logger.Debug("study items reordered", "list_id", list.ID, "count", len(ids))
	s.events.Emit(sse.NewItemsReorderedEvent(userID, list.ID, ids))
	return nil
}

// ownedItem loads an item, hiding it unless userID owns its list.
func (s *StudyItemService) ownedItem(ctx context.Context, userID, itemID string) (*domain.StudyItem, error) {
	item, err := s.store.GetStudyItem(ctx, itemID)
	if err != nil {
		return nil, notFoundAs(err, msgItemNotFound, "get study item")
	}
	list, err := s.store.GetStudyList(ctx, item.StudyListID)
	if err != nil || !list.OwnedBy(userID) {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, upstream("get study list", err)
		}
		return nil, domainerrors.NotFound(msgItemNotFound)
	}
	return item, nil
}
