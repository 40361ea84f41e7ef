package service

import (
	"context"
	"log/slog"

	"github.com/raygaledev/kiasu/internal/domain"
	domainerrors "github.com/raygaledev/kiasu/internal/errors"
	"github.com/raygaledev/kiasu/internal/sse"
	"github.com/raygaledev/kiasu/internal/store"
)

// AdminService moderates public content.
type AdminService struct {
	store  store.Store
	events EventEmitter
	logger *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(store store.Store, events EventEmitter, logger *slog.Logger) *AdminService {
	return &AdminService{store: store, events: emitterOrNoop(events), logger: logger}
}

// HideList makes any list private.
func (s *AdminService) HideList(ctx context.Context, adminID, listID string) (*domain.StudyList, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	if err := s.store.SetStudyListVisibility(ctx, listID, false); err != nil {
		return nil, notFoundAs(err, msgListNotFound, "hide study list")
	}
	list, err := s.store.GetStudyList(ctx, listID)
	if err != nil {
		return nil, notFoundAs(err, msgListNotFound, "get study list")
	}

	s.logger.Warn("study list hidden by admin", "list_id", list.ID, "admin_id", adminID, "owner_id", list.UserID)

	s.events.Emit(sse.NewListUpdatedEvent(list))
	s.events.Emit(sse.NewDiscoveryChangedEvent(list.ID, "admin.hide"))
	return list, nil
}

// DeleteList removes any list.
func (s *AdminService) DeleteList(ctx context.Context, adminID, listID string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}

	list, err := s.store.GetStudyList(ctx, listID)
	if err != nil {
		return notFoundAs(err, msgListNotFound, "get study list")
	}
	if err := s.store.DeleteStudyList(ctx, list.ID); err != nil {
		return notFoundAs(err, msgListNotFound, "delete study list")
	}

	s.logger.Warn("study list deleted by admin", "list_id", list.ID, "admin_id", adminID, "owner_id", list.UserID)

	s.events.Emit(sse.NewListDeletedEvent(list.UserID, list.ID))
	s.events.Emit(sse.NewDiscoveryChangedEvent(list.ID, "admin.delete"))
	return nil
}

func (s *AdminService) requireAdmin(ctx context.Context, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return notFoundAs(err, msgUserNotFound, "get user")
	}
	if !user.IsAdmin() {
		return domainerrors.Forbidden("Admin access required")
	}
	return nil
}
