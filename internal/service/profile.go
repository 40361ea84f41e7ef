package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/raygaledev/kiasu/internal/color"
	"github.com/raygaledev/kiasu/internal/domain"
	domainerrors "github.com/raygaledev/kiasu/internal/errors"
	"github.com/raygaledev/kiasu/internal/media/images"
	"github.com/raygaledev/kiasu/internal/store"
)

const msgUserNotFound = "User not found"

// AvatarStore persists profile pictures. *images.Storage implements it.
type AvatarStore interface {
	Save(id, contentType string, data []byte) error
	Get(id string) ([]byte, string, error)
	Delete(id string) error
}

// ProfileService serves account settings, public profiles and share views.
type ProfileService struct {
	store   store.Store
	avatars AvatarStore
	logger  *slog.Logger
	now     func() time.Time
}

// NewProfileService creates a new profile service.
func NewProfileService(store store.Store, avatars AvatarStore, logger *slog.Logger) *ProfileService {
	return &ProfileService{store: store, avatars: avatars, logger: logger, now: time.Now}
}

// UpdateProfileRequest patches account fields. Nil fields are unchanged.
type UpdateProfileRequest struct {
	Username    *string `json:"username,omitempty" validate:"omitempty,username"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=100"`
}

// PublicProfile is what anyone can see about a user.
type PublicProfile struct {
	CreatedAt         time.Time     `json:"created_at"`
	Username          string        `json:"username"`
	DisplayName       string        `json:"display_name,omitempty"`
	ProfilePictureURL string        `json:"profile_picture_url,omitempty"`
	AvatarURL         string        `json:"avatar_url,omitempty"`
	AvatarBlurHash    string        `json:"avatar_blur_hash,omitempty"`
	AvatarColor       string        `json:"avatar_color"`
	Lists             []ProfileList `json:"lists"`
	IsOwnProfile      bool          `json:"is_own_profile"`
}

// ProfileList is one public list on a profile page.
type ProfileList struct {
	domain.ListSummary
	Href string `json:"href"`
}

// SharedList is the read-only view of a list. Progress is never shown.
type SharedList struct {
	List    domain.StudyList   `json:"list"`
	Owner   domain.Owner       `json:"user"`
	Items   []domain.StudyItem `json:"items"`
	IsOwner bool               `json:"is_owner"`
}

// Me returns the caller's account.
func (s *ProfileService) Me(ctx context.Context, userID string) (*domain.User, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, msgUserNotFound, "get user")
	}
	return user, nil
}

// UpdateProfile changes username, email or display name. Username and email
// conflicts are reported to the caller.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	if req.Username != nil {
		v := strings.TrimSpace(*req.Username)
		req.Username = &v
	}
	if req.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &v
	}
	if req.DisplayName != nil {
		v := strings.TrimSpace(*req.DisplayName)
		req.DisplayName = &v
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, msgUserNotFound, "get user")
	}

	if req.Username != nil && *req.Username != "" {
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != "" {
		user.Email = *req.Email
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	user.UpdatedAt = s.now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, mapAccountConflict(err, "update user")
	}

	s.logger.Info("profile updated", "user_id", user.ID)
	return user, nil
}

// UploadAvatar replaces the caller's profile picture. JPEG, PNG and WebP up
// to 2 MB are accepted.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, data []byte) (*domain.User, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	avatar, err := images.ParseAvatar(data)
	switch {
	case errors.Is(err, images.ErrTooLarge):
		return nil, domainerrors.Validation("Profile picture must be 2 MB or smaller")
	case errors.Is(err, images.ErrTooManyPixels):
		return nil, domainerrors.Validation("Profile picture must be at most 4096x4096 pixels")
	case errors.Is(err, images.ErrUnsupportedFormat):
		return nil, domainerrors.Validation("Profile picture must be a JPEG, PNG or WebP image")
	case err != nil:
		return nil, fmt.Errorf("parse avatar: %w", err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, msgUserNotFound, "get user")
	}

	if err := s.avatars.Save(user.ID, avatar.ContentType, avatar.Data); err != nil {
		return nil, domainerrors.Upstream("Could not store profile picture", err)
	}

	now := s.now()
	user.ProfilePictureURL = fmt.Sprintf("/api/v1/avatars/%s?v=%d", user.ID, now.UnixMilli())
	user.AvatarBlurHash = avatar.BlurHash
	user.UpdatedAt = now
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, upstream("update user", err)
	}

	s.logger.Info("profile picture updated",
		"user_id", user.ID,
		"content_type", avatar.ContentType,
		"bytes", len(avatar.Data))
	return user, nil
}

// RemoveAvatar deletes the caller's profile picture. Removing a picture that
// was never uploaded succeeds.
func (s *ProfileService) RemoveAvatar(ctx context.Context, userID string) (*domain.User, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, msgUserNotFound, "get user")
	}

	if err := s.avatars.Delete(user.ID); err != nil {
		return nil, domainerrors.Upstream("Could not remove profile picture", err)
	}

	user.ProfilePictureURL = ""
	user.AvatarBlurHash = ""
	user.UpdatedAt = s.now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, upstream("update user", err)
	}

	s.logger.Info("profile picture removed", "user_id", user.ID)
	return user, nil
}

// Avatar returns a stored profile picture.
func (s *ProfileService) Avatar(_ context.Context, userID string) ([]byte, string, error) {
	data, contentType, err := s.avatars.Get(userID)
	if err != nil {
		if errors.Is(err, images.ErrNotFound) {
			return nil, "", domainerrors.NotFound("Profile picture not found")
		}
		return nil, "", domainerrors.Upstream("Could not read profile picture", err)
	}
	return data, contentType, nil
}

// PublicProfile returns a user's handle and public lists in their order.
func (s *ProfileService) PublicProfile(ctx context.Context, viewer domain.Viewer, username string) (*PublicProfile, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, notFoundAs(err, msgUserNotFound, "get user by username")
	}

	summaries, err := s.store.ListPublicStudyLists(ctx, user.ID)
	if err != nil {
		return nil, upstream("list public study lists", err)
	}

	lists := make([]ProfileList, len(summaries))
	for i, sum := range summaries {
		lists[i] = ProfileList{ListSummary: sum, Href: domain.ListHref(viewer, &sum.StudyList)}
	}

	return &PublicProfile{
		CreatedAt:         user.CreatedAt,
		Username:          user.Username,
		DisplayName:       user.DisplayName,
		ProfilePictureURL: user.ProfilePictureURL,
		AvatarURL:         user.AvatarURL,
		AvatarBlurHash:    user.AvatarBlurHash,
		AvatarColor:       color.ForUser(user.ID),
		Lists:             lists,
		IsOwnProfile:      viewer.Is(user.ID),
	}, nil
}

// SharedList returns a public list for reading. The owner may also open
// their private lists here; everyone else gets Forbidden.
func (s *ProfileService) SharedList(ctx context.Context, viewer domain.Viewer, listID string) (*SharedList, error) {
	list, err := s.store.GetStudyList(ctx, listID)
	if err != nil {
		return nil, notFoundAs(err, msgListNotFound, "get study list")
	}

	isOwner := viewer.Is(list.UserID)
	if !list.IsPublic && !isOwner {
		return nil, domainerrors.Forbidden("This list is private")
	}

	owner, err := s.store.GetUser(ctx, list.UserID)
	if err != nil {
		return nil, notFoundAs(err, msgListNotFound, "get list owner")
	}

	items, err := s.store.ListStudyItems(ctx, list.ID)
	if err != nil {
		return nil, upstream("list study items", err)
	}
	shared := make([]domain.StudyItem, len(items))
	for i, it := range items {
		shared[i] = it.AsShared()
	}

	return &SharedList{
		List: *list,
		Owner: domain.Owner{
			Username:          owner.Username,
			ProfilePictureURL: owner.ProfilePictureURL,
			AvatarURL:         owner.AvatarURL,
		},
		Items:   shared,
		IsOwner: isOwner,
	}, nil
}
