package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/raygaledev/kiasu/internal/auth"
	"github.com/raygaledev/kiasu/internal/domain"
	domainerrors "github.com/raygaledev/kiasu/internal/errors"
	"github.com/raygaledev/kiasu/internal/id"
	"github.com/raygaledev/kiasu/internal/store"
	"github.com/raygaledev/kiasu/internal/validation"
)

const msgInvalidCredentials = "Invalid email, username or password"

// AuthService handles sign-up, login and credentials.
type AuthService struct {
	store  store.Store
	tokens *auth.TokenService
	hasher *auth.PasswordHasher
	logger *slog.Logger
	now    func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(store store.Store, tokens *auth.TokenService, hasher *auth.PasswordHasher, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		hasher: hasher,
		logger: logger,
		now:    time.Now,
	}
}

// SignUpRequest creates an account. Username may be chosen later.
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Username    string `json:"username,omitempty" validate:"omitempty,username"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name,omitempty" validate:"max=100"`
}

// LoginRequest accepts an email address or a username as identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=254"`
	Password   string `json:"password" validate:"required,max=1024"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=1024"`
}

// AuthResponse is returned by sign-up and login.
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// SignUp creates an account and signs it in. The first account on a fresh
// server becomes an admin.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, upstream("count users", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := s.now()
	user := &domain.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		ID:           userID,
		Email:        req.Email,
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		Role:         domain.RoleMember,
		Tier:         domain.TierFree,
	}
	if count == 0 {
		user.Role = domain.RoleAdmin
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, mapAccountConflict(err, "create user")
	}

	s.logger.Info("user signed up",
		"user_id", user.ID,
		"role", user.Role,
		"has_username", user.HasUsername())

	return s.issue(user)
}

// Login verifies credentials. Unknown identifiers and wrong passwords
// produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Identifier = strings.TrimSpace(req.Identifier)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(req.Identifier, "@") {
		user, err = s.store.GetUserByEmail(ctx, strings.ToLower(req.Identifier))
	} else {
		user, err = s.store.GetUserByUsername(ctx, req.Identifier)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials(msgInvalidCredentials)
		}
		return nil, upstream("find user", err)
	}

	if !s.hasher.Verify(user.PasswordHash, req.Password) {
		s.logger.Info("login failed", "user_id", user.ID)
		return nil, domainerrors.InvalidCredentials(msgInvalidCredentials)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return s.issue(user)
}

// VerifyAccessToken validates a bearer token.
func (s *AuthService) VerifyAccessToken(token string) (*auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("Invalid or expired token").WithCause(err)
	}
	return claims, nil
}

// CheckUsernameAvailability reports whether username is free. excludeUserID
// lets a signed-in user see their own handle as available.
func (s *AuthService) CheckUsernameAvailability(ctx context.Context, username, excludeUserID string) (bool, error) {
	username = strings.TrimSpace(username)
	if !validation.IsUsername(username) {
		return false, domainerrors.ValidationWithDetails(
			"username must be 3-20 characters: letters, numbers and underscores only",
			map[string]string{"username": "is invalid"})
	}

	exists, err := s.store.UsernameExists(ctx, username, excludeUserID)
	if err != nil {
		return false, upstream("check username", err)
	}
	return !exists, nil
}

// SetUsername chooses or changes the caller's public handle.
func (s *AuthService) SetUsername(ctx context.Context, userID, username string) (*domain.User, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	available, err := s.CheckUsernameAvailability(ctx, username, userID)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domainerrors.AlreadyExists("Username already taken")
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, "User not found", "get user")
	}

	user.Username = strings.TrimSpace(username)
	user.UpdatedAt = s.now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, mapAccountConflict(err, "update user")
	}

	s.logger.Info("username set", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// ChangePassword replaces the caller's password after checking the old one.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := validate.Validate(req); err != nil {
		return err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return notFoundAs(err, "User not found", "get user")
	}

	if !s.hasher.Verify(user.PasswordHash, req.CurrentPassword) {
		return domainerrors.InvalidCredentials("Current password is incorrect")
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = s.now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return upstream("update user", err)
	}

	s.logger.Info("password changed", "user_id", user.ID)
	return nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResponse, error) {
	token, expires, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &AuthResponse{User: user, AccessToken: token, ExpiresAt: expires}, nil
}

// mapAccountConflict surfaces email and username uniqueness to the caller.
func mapAccountConflict(err error, op string) error {
	switch {
	case errors.Is(err, store.ErrEmailTaken):
		return domainerrors.AlreadyExists("Email already in use")
	case errors.Is(err, store.ErrUsernameTaken):
		return domainerrors.AlreadyExists("Username already taken")
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("User not found")
	default:
		return upstream(op, err)
	}
}
