package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/raygaledev/kiasu/internal/domain"
	"github.com/raygaledev/kiasu/internal/service"
)

func (s *Server) registerItemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "addStudyItem",
		Method:        http.MethodPost,
		Path:          "/api/v1/lists/{id}/items",
		Summary:       "Add item",
		Description:   "Appends an item to the end of a list",
		Tags:          []string{"Items"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddStudyItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderStudyItems",
		Method:      http.MethodPut,
		Path:        "/api/v1/lists/{id}/items/order",
		Summary:     "Reorder items",
		Description: "Moves the given items to the front in the given order. Ids from other lists reject the whole request.",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReorderStudyItems)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateStudyItem",
		Method:      http.MethodPatch,
		Path:        "/api/v1/items/{id}",
		Summary:     "Update item",
		Description: "Updates title, notes, url or completion. Omitted fields are unchanged.",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateStudyItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleStudyItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/{id}/toggle",
		Summary:     "Toggle item",
		Description: "Flips the completed flag",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleStudyItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteStudyItem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/items/{id}",
		Summary:     "Delete item",
		Description: "Removes an item and closes the gap in the list order",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteStudyItem)
}

// === DTOs ===

// AddStudyItemInput wraps the add request for huma.
type AddStudyItemInput struct {
	ListID string `path:"id" doc:"List ID"`
	Body   service.CreateItemRequest
}

// StudyItemOutput wraps an item for huma.
type StudyItemOutput struct {
	Body domain.StudyItem
}

// ReorderStudyItemsInput wraps the item reorder request.
type ReorderStudyItemsInput struct {
	ListID string `path:"id" doc:"List ID"`
	Body   ReorderBody
}

// StudyItemInput identifies an item.
type StudyItemInput struct {
	ID string `path:"id" doc:"Item ID"`
}

// UpdateStudyItemInput wraps the update request for huma.
type UpdateStudyItemInput struct {
	ID   string `path:"id" doc:"Item ID"`
	Body service.UpdateItemRequest
}

// === Handlers ===

func (s *Server) handleAddStudyItem(ctx context.Context, input *AddStudyItemInput) (*StudyItemOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Items.Add(ctx, userID, input.ListID, input.Body)
	if err != nil {
		return nil, err
	}
	return &StudyItemOutput{Body: *item}, nil
}

func (s *Server) handleReorderStudyItems(ctx context.Context, input *ReorderStudyItemsInput) (*ReorderOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Items.Reorder(ctx, userID, input.ListID, input.Body.IDs); err != nil {
		return nil, err
	}
	return &ReorderOutput{Body: ReorderResponse{IDs: input.Body.IDs}}, nil
}

func (s *Server) handleUpdateStudyItem(ctx context.Context, input *UpdateStudyItemInput) (*StudyItemOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Items.Update(ctx, userID, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &StudyItemOutput{Body: *item}, nil
}

func (s *Server) handleToggleStudyItem(ctx context.Context, input *StudyItemInput) (*StudyItemOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Items.Toggle(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &StudyItemOutput{Body: *item}, nil
}

func (s *Server) handleDeleteStudyItem(ctx context.Context, input *StudyItemInput) (*DeletedOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Items.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return deleted(input.ID), nil
}
