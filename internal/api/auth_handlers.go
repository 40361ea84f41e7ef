package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/raygaledev/kiasu/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "signUp",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/signup",
		Summary:       "Sign up",
		Description:   "Creates an account and returns an access token. The first account becomes an admin.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{s.limitByIP(s.authRateLimiter)},
	}, s.handleSignUp)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Log in",
		Description: "Authenticates with an email or username and a password",
		Tags:        []string{"Auth"},
		Middlewares: huma.Middlewares{s.limitByIP(s.authRateLimiter)},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkUsernameAvailability",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/username-availability",
		Summary:     "Check username",
		Description: "Reports whether a username is free. The caller's own username counts as available.",
		Tags:        []string{"Auth"},
	}, s.handleCheckUsername)
}

// === DTOs ===

// SignUpBody is the sign-up request.
type SignUpBody struct {
	Email       string `json:"email" doc:"Email address"`
	Username    string `json:"username,omitempty" doc:"Optional public handle, 3-20 letters, numbers or underscores"`
	Password    string `json:"password" doc:"Password (8-1024 chars)"`
	DisplayName string `json:"display_name,omitempty" doc:"Name shown on the profile"`
}

// SignUpInput wraps the sign-up request for huma.
type SignUpInput struct {
	Body SignUpBody
}

// LoginBody is the login request.
type LoginBody struct {
	Identifier string `json:"identifier" doc:"Email address or username"`
	Password   string `json:"password" doc:"Password"`
}

// LoginInput wraps the login request for huma.
type LoginInput struct {
	Body LoginBody
}

// AuthOutput wraps the issued token for huma.
type AuthOutput struct {
	Body service.AuthResponse
}

// UsernameAvailabilityInput contains the username to check.
type UsernameAvailabilityInput struct {
	Username string `query:"username" required:"true" doc:"Username to check"`
}

// UsernameAvailabilityResponse reports availability.
type UsernameAvailabilityResponse struct {
	Username  string `json:"username" doc:"Checked username"`
	Available bool   `json:"available" doc:"Whether the username is free"`
}

// UsernameAvailabilityOutput wraps the availability response for huma.
type UsernameAvailabilityOutput struct {
	Body UsernameAvailabilityResponse
}

// === Handlers ===

func (s *Server) handleSignUp(ctx context.Context, input *SignUpInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.SignUp(ctx, service.SignUpRequest{
		Email:       input.Body.Email,
		Username:    input.Body.Username,
		Password:    input.Body.Password,
		DisplayName: input.Body.DisplayName,
	})
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: *resp}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Identifier: input.Body.Identifier,
		Password:   input.Body.Password,
	})
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: *resp}, nil
}

func (s *Server) handleCheckUsername(ctx context.Context, input *UsernameAvailabilityInput) (*UsernameAvailabilityOutput, error) {
	available, err := s.services.Auth.CheckUsernameAvailability(ctx, input.Username, optionalUserID(ctx))
	if err != nil {
		return nil, err
	}
	return &UsernameAvailabilityOutput{
		Body: UsernameAvailabilityResponse{Username: input.Username, Available: available},
	}, nil
}
