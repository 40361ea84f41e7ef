package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/raygaledev/kiasu/internal/domain"
	"github.com/raygaledev/kiasu/internal/media/images"
	"github.com/raygaledev/kiasu/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the signed-in user's account",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCurrentUser",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update profile",
		Description: "Updates username, email or display name. Omitted fields are unchanged.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "setUsername",
		Method:      http.MethodPut,
		Path:        "/api/v1/users/me/username",
		Summary:     "Choose username",
		Description: "Sets the public handle. Lists only appear in discovery once their owner has one.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetUsername)

	huma.Register(s.api, huma.Operation{
		OperationID: "changePassword",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/me/password",
		Summary:     "Change password",
		Description: "Replaces the password after checking the current one",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: huma.Middlewares{s.limitByIP(s.authRateLimiter)},
	}, s.handleChangePassword)

	huma.Register(s.api, huma.Operation{
		OperationID:  "uploadAvatar",
		Method:       http.MethodPut,
		Path:         "/api/v1/users/me/avatar",
		Summary:      "Upload profile picture",
		Description:  "Replaces the profile picture. Send the raw JPEG, PNG or WebP bytes, up to 2 MB.",
		Tags:         []string{"Users"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: images.MaxAvatarBytes + 1,
	}, s.handleUploadAvatar)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeAvatar",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/me/avatar",
		Summary:     "Remove profile picture",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveAvatar)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAvatar",
		Method:      http.MethodGet,
		Path:        "/api/v1/avatars/{id}",
		Summary:     "Get profile picture",
		Description: "Returns the stored profile picture bytes",
		Tags:        []string{"Users"},
	}, s.handleGetAvatar)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPublicProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}",
		Summary:     "Get public profile",
		Description: "Returns a user's public lists in their chosen order",
		Tags:        []string{"Users"},
	}, s.handleGetPublicProfile)
}

// === DTOs ===

// UserOutput wraps a user for huma.
type UserOutput struct {
	Body domain.User
}

// UpdateProfileInput wraps the profile update for huma.
type UpdateProfileInput struct {
	Body service.UpdateProfileRequest
}

// SetUsernameBody is the username request.
type SetUsernameBody struct {
	Username string `json:"username" doc:"3-20 letters, numbers or underscores"`
}

// SetUsernameInput wraps the username request for huma.
type SetUsernameInput struct {
	Body SetUsernameBody
}

// ChangePasswordInput wraps the password change for huma.
type ChangePasswordInput struct {
	Body service.ChangePasswordRequest
}

// MessageResponse is a simple success message response.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps a message response for huma.
type MessageOutput struct {
	Body MessageResponse
}

// UploadAvatarInput carries the raw image bytes.
type UploadAvatarInput struct {
	RawBody []byte
}

// AvatarInput identifies a user's picture.
type AvatarInput struct {
	ID string `path:"id" doc:"User ID"`
}

// AvatarOutput returns image bytes with caching headers.
type AvatarOutput struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// PublicProfileInput identifies a profile.
type PublicProfileInput struct {
	Username string `path:"username" doc:"Public username"`
}

// PublicProfileOutput wraps a profile for huma.
type PublicProfileOutput struct {
	Body service.PublicProfile
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profiles.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: *user}, nil
}

func (s *Server) handleUpdateCurrentUser(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profiles.UpdateProfile(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: *user}, nil
}

func (s *Server) handleSetUsername(ctx context.Context, input *SetUsernameInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Auth.SetUsername(ctx, userID, input.Body.Username)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: *user}, nil
}

func (s *Server) handleChangePassword(ctx context.Context, input *ChangePasswordInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Auth.ChangePassword(ctx, userID, input.Body); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Password updated"}}, nil
}

func (s *Server) handleUploadAvatar(ctx context.Context, input *UploadAvatarInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profiles.UploadAvatar(ctx, userID, input.RawBody)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: *user}, nil
}

func (s *Server) handleRemoveAvatar(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profiles.RemoveAvatar(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: *user}, nil
}

func (s *Server) handleGetAvatar(ctx context.Context, input *AvatarInput) (*AvatarOutput, error) {
	data, contentType, err := s.services.Profiles.Avatar(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AvatarOutput{
		ContentType:  contentType,
		CacheControl: CacheOneDay,
		Body:         data,
	}, nil
}

func (s *Server) handleGetPublicProfile(ctx context.Context, input *PublicProfileInput) (*PublicProfileOutput, error) {
	profile, err := s.services.Profiles.PublicProfile(ctx, viewerFrom(ctx), input.Username)
	if err != nil {
		return nil, err
	}
	return &PublicProfileOutput{Body: *profile}, nil
}
