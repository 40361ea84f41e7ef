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

// StudyListService manages a user's own lists.
type StudyListService struct {
	store  store.Store
	events EventEmitter
	logger *slog.Logger
	now    func() time.Time
}

// NewStudyListService creates a new study list service.
func NewStudyListService(store store.Store, events EventEmitter, logger *slog.Logger) *StudyListService {
	return &StudyListService{
		store:  store,
		events: emitterOrNoop(events),
		logger: logger,
		now:    time.Now,
	}
}

// CreateListRequest creates a list at the top of the dashboard.
type CreateListRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category    string  `json:"category" validate:"required,category"`
	IsPublic    bool    `json:"is_public"`
}

// UpdateListRequest patches a list. Nil fields are left unchanged; an empty
// description clears it.
type UpdateListRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category    *string `json:"category,omitempty" validate:"omitempty,category"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// ListDetail is a list with its items in position order.
type ListDetail struct {
	domain.StudyList
	Items []domain.StudyItem `json:"items"`
}

// Create inserts a new list at position 0, shifting the owner's other lists
// down. A title whose slug is taken gets a timestamp suffix.
func (s *StudyListService) Create(ctx context.Context, userID string, req CreateListRequest) (*domain.StudyList, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	req.Title = util.SafeText(req.Title)
	req.Description = util.OptionalText(req.Description, util.SafeText)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, userID, req.Title, "")
	if err != nil {
		return nil, err
	}

	listID, err := id.Generate(id.PrefixList)
	if err != nil {
		return nil, fmt.Errorf("generate list ID: %w", err)
	}

	now := s.now()
	list := &domain.StudyList{
		CreatedAt:   now,
		UpdatedAt:   now,
		ID:          listID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Slug:        slug,
		Category:    domain.Category(req.Category),
		IsPublic:    req.IsPublic,
	}

	err = saveWithSlugRetry(list, now, func() error {
		return s.store.CreateStudyList(ctx, list)
	})
	if err != nil {
		return nil, upstream("create study list", err)
	}

	s.logger.Info("study list created",
		"list_id", list.ID,
		"user_id", userID,
		"slug", list.Slug,
		"is_public", list.IsPublic)

	s.events.Emit(sse.NewListCreatedEvent(list))
	if list.IsPublic {
		s.events.Emit(sse.NewDiscoveryChangedEvent(list.ID, "list.created"))
	}
	return list, nil
}

// Get returns one of the caller's lists with its items.
func (s *StudyListService) Get(ctx context.Context, userID, listID string) (*ListDetail, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	list, err := loadOwnedList(ctx, s.store, listID, userID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, list)
}

// GetBySlug returns one of the caller's lists, addressed by slug.
func (s *StudyListService) GetBySlug(ctx context.Context, userID, slug string) (*ListDetail, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	list, err := s.store.GetStudyListBySlug(ctx, userID, slug)
	if err != nil {
		return nil, notFoundAs(err, msgListNotFound, "get study list by slug")
	}
	return s.withItems(ctx, list)
}

// List returns the caller's lists in dashboard order.
func (s *StudyListService) List(ctx context.Context, userID string) ([]domain.ListSummary, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	lists, err := s.store.ListStudyLists(ctx, userID)
	if err != nil {
		return nil, upstream("list study lists", err)
	}
	return lists, nil
}

// Update patches a list. Changing the title regenerates the slug.
func (s *StudyListService) Update(ctx context.Context, userID, listID string, req UpdateListRequest) (*domain.StudyList, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	clearDescription := isBlank(req.Description)
	if clearDescription {
		req.Description = nil
	}
	if req.Title != nil {
		t := util.SafeText(*req.Title)
		if t == "" {
			return nil, domainerrors.ValidationWithDetails("title is required", map[string]string{"title": "is required"})
		}
		req.Title = &t
	}
	req.Description = util.OptionalText(req.Description, util.SafeText)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	list, err := loadOwnedList(ctx, s.store, listID, userID)
	if err != nil {
		return nil, err
	}
	wasPublic := list.IsPublic

	if req.Title != nil && *req.Title != list.Title {
		slug, err := s.uniqueSlug(ctx, userID, *req.Title, list.ID)
		if err != nil {
			return nil, err
		}
		list.Title = *req.Title
		list.Slug = slug
	}
	switch {
	case clearDescription:
		list.Description = nil
	case req.Description != nil:
		list.Description = req.Description
	}
	if req.Category != nil {
		list.Category = domain.Category(*req.Category)
	}
	if req.IsPublic != nil {
		list.IsPublic = *req.IsPublic
	}
	list.UpdatedAt = s.now()

	err = saveWithSlugRetry(list, list.UpdatedAt, func() error {
		return s.store.UpdateStudyList(ctx, list)
	})
	if err != nil {
		return nil, notFoundAs(err, msgListNotFound, "update study list")
	}

	s.logger.Info("study list updated", "list_id", list.ID, "user_id", userID)

	s.events.Emit(sse.NewListUpdatedEvent(list))
	if wasPublic || list.IsPublic {
		s.events.Emit(sse.NewDiscoveryChangedEvent(list.ID, "list.updated"))
	}
	return list, nil
}

// Delete removes a list and its items and closes the gap in the owner's order.
func (s *StudyListService) Delete(ctx context.Context, userID, listID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	list, err := loadOwnedList(ctx, s.store, listID, userID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteStudyList(ctx, list.ID); err != nil {
		return notFoundAs(err, msgListNotFound, "delete study list")
	}

	s.logger.Info("study list deleted", "list_id", list.ID, "user_id", userID)

	s.events.Emit(sse.NewListDeletedEvent(userID, list.ID))
	if list.IsPublic {
		s.events.Emit(sse.NewDiscoveryChangedEvent(list.ID, "list.deleted"))
	}
	return nil
}

// Reorder sets the caller's dashboard order. ids may omit lists, which then
// follow in their current order; any id that is not the caller's rejects
// the whole request.
func (s *StudyListService) Reorder(ctx context.Context, userID string, ids []string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := s.store.ReorderStudyLists(ctx, userID, ids); err != nil {
		if errors.Is(err, store.ErrInvalidMember) {
			return domainerrors.Validation("Invalid list ID")
		}
		return upstream("reorder study lists", err)
	}

	s.logger.Debug("study lists reordered", "user_id", userID, "count", len(ids))
	s.events.Emit(sse.NewListsReorderedEvent(userID, ids))
	return nil
}

func (s *StudyListService) withItems(ctx context.Context, list *domain.StudyList) (*ListDetail, error) {
	items, err := s.store.ListStudyItems(ctx, list.ID)
	if err != nil {
		return nil, upstream("list study items", err)
	}
	if items == nil {
		items = []domain.StudyItem{}
	}
	return &ListDetail{StudyList: *list, Items: items}, nil
}

// uniqueSlug slugifies title and appends the current epoch milliseconds when
// the caller already has a list with that slug.
func (s *StudyListService) uniqueSlug(ctx context.Context, userID, title, excludeListID string) (string, error) {
	return uniqueSlug(ctx, s.store, userID, title, excludeListID, s.now())
}

func uniqueSlug(ctx context.Context, st store.Store, userID, title, excludeListID string, now time.Time) (string, error) {
	slug := util.Slugify(title)
	exists, err := st.SlugExists(ctx, userID, slug, excludeListID)
	if err != nil {
		return "", upstream("check slug", err)
	}
	if exists {
		slug = util.DisambiguateSlug(slug, now.UnixMilli())
	}
	return slug, nil
}

// maxSlugAttempts bounds how often a save is retried after losing a slug
// to another list.
const maxSlugAttempts = 5

// saveWithSlugRetry runs save and, while it reports store.ErrSlugTaken,
// moves list.Slug to the next timestamp suffix and tries again.
func saveWithSlugRetry(list *domain.StudyList, now time.Time, save func() error) error {
	err := save()
	base := util.Slugify(list.Title)
	for attempt := int64(1); errors.Is(err, store.ErrSlugTaken) && attempt < maxSlugAttempts; attempt++ {
		list.Slug = util.DisambiguateSlug(base, now.UnixMilli()+attempt)
		err = save()
	}
	return err
}
