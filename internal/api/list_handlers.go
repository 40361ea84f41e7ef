package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/raygaledev/kiasu/internal/domain"
	"github.com/raygaledev/kiasu/internal/service"
)

func (s *Server) registerListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listStudyLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists",
		Summary:     "List my study lists",
		Description: "Returns the caller's lists in position order with item counts",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListStudyLists)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createStudyList",
		Method:        http.MethodPost,
		Path:          "/api/v1/lists",
		Summary:       "Create study list",
		Description:   "Creates a list at the top of the dashboard",
		Tags:          []string{"Lists"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateStudyList)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderStudyLists",
		Method:      http.MethodPut,
		Path:        "/api/v1/lists/order",
		Summary:     "Reorder study lists",
		Description: "Moves the given lists to the front in the given order. Unknown or foreign ids reject the whole request.",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReorderStudyLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStudyListBySlug",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/by-slug/{slug}",
		Summary:     "Get study list by slug",
		Description: "Returns one of the caller's lists with its items",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetStudyListBySlug)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStudyList",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Get study list",
		Description: "Returns one of the caller's lists with its items",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetStudyList)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateStudyList",
		Method:      http.MethodPatch,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Update study list",
		Description: "Updates title, description, category or visibility. A new title regenerates the slug.",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateStudyList)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteStudyList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Delete study list",
		Description: "Deletes a list and its items",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteStudyList)
}

// === DTOs ===

// StudyListsOutput wraps the dashboard lists for huma.
type StudyListsOutput struct {
	Body []domain.ListSummary
}

// CreateStudyListBody is the create request.
type CreateStudyListBody struct {
	Title       string  `json:"title" doc:"Title (1-200 chars)"`
	Description *string `json:"description,omitempty" doc:"Optional description (up to 1000 chars)"`
	Category    string  `json:"category" doc:"One of programming, design, business, science, language, music, health, writing, personal, other"`
	IsPublic    bool    `json:"is_public,omitempty" doc:"Whether the list appears in discovery"`
}

// CreateStudyListInput wraps the create request for huma.
type CreateStudyListInput struct {
	Body CreateStudyListBody
}

// StudyListOutput wraps a list for huma.
type StudyListOutput struct {
	Body domain.StudyList
}

// ReorderBody carries ids in their new order.
type ReorderBody struct {
	IDs []string `json:"ids" doc:"IDs in their new order"`
}

// ReorderResponse echoes the accepted order.
type ReorderResponse struct {
	IDs []string `json:"ids" doc:"IDs in their new order"`
}

// ReorderOutput wraps the accepted order for huma.
type ReorderOutput struct {
	Body ReorderResponse
}

// ReorderStudyListsInput wraps the list reorder request.
type ReorderStudyListsInput struct {
	Body ReorderBody
}

// StudyListBySlugInput identifies a list by slug.
type StudyListBySlugInput struct {
	Slug string `path:"slug" doc:"List slug"`
}

// StudyListInput identifies a list.
type StudyListInput struct {
	ID string `path:"id" doc:"List ID"`
}

// StudyListDetailOutput wraps a list with its items.
type StudyListDetailOutput struct {
	Body service.ListDetail
}

// UpdateStudyListInput wraps the update request for huma.
type UpdateStudyListInput struct {
	ID   string `path:"id" doc:"List ID"`
	Body service.UpdateListRequest
}

// DeletedResponse confirms a deletion.
type DeletedResponse struct {
	ID      string `json:"id" doc:"Deleted ID"`
	Deleted bool   `json:"deleted" doc:"Always true"`
}

// DeletedOutput wraps a deletion confirmation for huma.
type DeletedOutput struct {
	Body DeletedResponse
}

func deleted(id string) *DeletedOutput {
	return &DeletedOutput{Body: DeletedResponse{ID: id, Deleted: true}}
}

// === Handlers ===

func (s *Server) handleListStudyLists(ctx context.Context, _ *struct{}) (*StudyListsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	lists, err := s.services.Lists.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &StudyListsOutput{Body: lists}, nil
}

func (s *Server) handleCreateStudyList(ctx context.Context, input *CreateStudyListInput) (*StudyListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Lists.Create(ctx, userID, service.CreateListRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Category:    input.Body.Category,
		IsPublic:    input.Body.IsPublic,
	})
	if err != nil {
		return nil, err
	}
	return &StudyListOutput{Body: *list}, nil
}

func (s *Server) handleReorderStudyLists(ctx context.Context, input *ReorderStudyListsInput) (*ReorderOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Lists.Reorder(ctx, userID, input.Body.IDs); err != nil {
		return nil, err
	}
	return &ReorderOutput{Body: ReorderResponse{IDs: input.Body.IDs}}, nil
}

func (s *Server) handleGetStudyListBySlug(ctx context.Context, input *StudyListBySlugInput) (*StudyListDetailOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Lists.GetBySlug(ctx, userID, input.Slug)
	if err != nil {
		return nil, err
	}
	return &StudyListDetailOutput{Body: *detail}, nil
}

func (s *Server) handleGetStudyList(ctx context.Context, input *StudyListInput) (*StudyListDetailOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Lists.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &StudyListDetailOutput{Body: *detail}, nil
}

func (s *Server) handleUpdateStudyList(ctx context.Context, input *UpdateStudyListInput) (*StudyListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Lists.Update(ctx, userID, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &StudyListOutput{Body: *list}, nil
}

func (s *Server) handleDeleteStudyList(ctx context.Context, input *StudyListInput) (*DeletedOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Lists.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return deleted(input.ID), nil
}
