package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminHideStudyList",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/lists/{id}/hide",
		Summary:     "Hide list",
		Description: "Makes any list private, removing it from discovery (admin only)",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminHideList)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminDeleteStudyList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/lists/{id}",
		Summary:     "Delete list",
		Description: "Deletes any list (admin only)",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminDeleteList)
}

// AdminListInput identifies a list for moderation.
type AdminListInput struct {
	ID string `path:"id" doc:"List ID"`
}

func (s *Server) handleAdminHideList(ctx context.Context, input *AdminListInput) (*StudyListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Admin.HideList(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &StudyListOutput{Body: *list}, nil
}

func (s *Server) handleAdminDeleteList(ctx context.Context, input *AdminListInput) (*DeletedOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Admin.DeleteList(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return deleted(input.ID), nil
}
