package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raygaledev/kiasu/internal/auth"
	"github.com/raygaledev/kiasu/internal/domain"
	domainerrors "github.com/raygaledev/kiasu/internal/errors"
	"github.com/raygaledev/kiasu/internal/store/sqlite"
)

// Cheap parameters keep the suite fast; production uses the defaults.
var testArgon2Params = auth.Argon2Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func setupAuthTest(t *testing.T) (*AuthService, *sqlite.Store) {
	t.Helper()
	s := setupTestStore(t)
	tokens, err := auth.NewTokenService(make([]byte, auth.KeySize), time.Hour)
	require.NoError(t, err)
	return NewAuthService(s, tokens, auth.NewPasswordHasher(testArgon2Params), testLogger), s
}

func TestAuthService_SignUp_FirstUserIsAdmin(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	first, err := svc.SignUp(ctx, SignUpRequest{Email: "Ada@Example.com", Username: "ada", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, first.User.Role)
	assert.Equal(t, "ada@example.com", first.User.Email)
	assert.NotEmpty(t, first.AccessToken)
	assert.NotEmpty(t, first.User.PasswordHash)

	second, err := svc.SignUp(ctx, SignUpRequest{Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, second.User.Role)
	assert.False(t, second.User.HasUsername())
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  SignUpRequest
	}{
		{"missing email", SignUpRequest{Password: "password123"}},
		{"bad email", SignUpRequest{Email: "nope", Password: "password123"}},
		{"short password", SignUpRequest{Email: "a@example.com", Password: "short"}},
		{"bad username", SignUpRequest{Email: "a@example.com", Username: "a b", Password: "password123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, tt.req)
			requireCode(t, err, domainerrors.CodeValidation, "")
		})
	}
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpRequest{Email: "dup@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, SignUpRequest{Email: "DUP@example.com", Password: "password123"})
	requireCode(t, err, domainerrors.CodeAlreadyExists, "Email already in use")
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpRequest{Email: "grace@example.com", Username: "grace", Password: "password123"})
	require.NoError(t, err)

	byEmail, err := svc.Login(ctx, LoginRequest{Identifier: "Grace@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "grace", byEmail.User.Username)

	byUsername, err := svc.Login(ctx, LoginRequest{Identifier: "grace", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, byEmail.User.ID, byUsername.User.ID)

	claims, err := svc.VerifyAccessToken(byUsername.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, byEmail.User.ID, claims.UserID)

	_, err = svc.Login(ctx, LoginRequest{Identifier: "grace", Password: "wrong-password"})
	requireCode(t, err, domainerrors.CodeInvalidCredentials, msgInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Identifier: "nobody", Password: "password123"})
	requireCode(t, err, domainerrors.CodeInvalidCredentials, msgInvalidCredentials)
}

func TestAuthService_VerifyAccessToken_Invalid(t *testing.T) {
	svc, _ := setupAuthTest(t)
	_, err := svc.VerifyAccessToken("v4.local.garbage")
	requireCode(t, err, domainerrors.CodeUnauthorized, "Invalid or expired token")
}

func TestAuthService_Usernames(t *testing.T) {
	svc, s := setupAuthTest(t)
	ctx := context.Background()

	createTestUser(t, s, "usr-taken", "taken")
	me := createTestUser(t, s, "usr-me", "")

	available, err := svc.CheckUsernameAvailability(ctx, "taken", "")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = svc.CheckUsernameAvailability(ctx, "fresh_name", "")
	require.NoError(t, err)
	assert.True(t, available)

	_, err = svc.CheckUsernameAvailability(ctx, "x", "")
	requireCode(t, err, domainerrors.CodeValidation, "")

	_, err = svc.SetUsername(ctx, me.ID, "taken")
	requireCode(t, err, domainerrors.CodeAlreadyExists, "Username already taken")

	updated, err := svc.SetUsername(ctx, me.ID, "fresh_name")
	require.NoError(t, err)
	assert.Equal(t, "fresh_name", updated.Username)

	// Own handle counts as available.
	available, err = svc.CheckUsernameAvailability(ctx, "fresh_name", me.ID)
	require.NoError(t, err)
	assert.True(t, available)

	_, err = svc.SetUsername(ctx, "", "whatever")
	requireCode(t, err, domainerrors.CodeUnauthorized, "Not authenticated")
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	resp, err := svc.SignUp(ctx, SignUpRequest{Email: "c@example.com", Username: "carol", Password: "password123"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, resp.User.ID, ChangePasswordRequest{CurrentPassword: "nope-nope", NewPassword: "newpassword1"})
	requireCode(t, err, domainerrors.CodeInvalidCredentials, "Current password is incorrect")

	require.NoError(t, svc.ChangePassword(ctx, resp.User.ID,
		ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword1"}))

	_, err = svc.Login(ctx, LoginRequest{Identifier: "carol", Password: "password123"})
	requireCode(t, err, domainerrors.CodeInvalidCredentials, "")
	_, err = svc.Login(ctx, LoginRequest{Identifier: "carol", Password: "newpassword1"})
	require.NoError(t, err)
}
