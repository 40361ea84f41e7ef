package api

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := range 8 {
		for y := range 8 {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: 120, B: uint8(y * 30), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type userJSON struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Username          string `json:"username"`
	DisplayName       string `json:"display_name"`
	ProfilePictureURL string `json:"profile_picture_url"`
	AvatarBlurHash    string `json:"avatar_blur_hash"`
}

func TestCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signUp(t, "ada")

	resp := ts.api.Get("/api/v1/users/me", bearerHeader(ada.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)

	var me userJSON
	decodeData(t, resp, &me)
	assert.Equal(t, ada.User.ID, me.ID)
	assert.Equal(t, "ada@example.com", me.Email)
	assert.NotContains(t, resp.Body.String(), "password")
}

func TestUpdateCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signUp(t, "ada")
	ts.signUp(t, "bob")

	resp := ts.api.Patch("/api/v1/users/me", bearerHeader(ada.AccessToken), map[string]any{
		"display_name": "Ada Lovelace",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var me userJSON
	decodeData(t, resp, &me)
	assert.Equal(t, "Ada Lovelace", me.DisplayName)
	assert.Equal(t, "ada", me.Username)

	resp = ts.api.Patch("/api/v1/users/me", bearerHeader(ada.AccessToken), map[string]any{
		"username": "bob",
	})
	requireAPIError(t, resp, http.StatusConflict, "ALREADY_EXISTS", "Username already taken")
}

func TestSetUsername(t *testing.T) {
	ts := setupTestServer(t)
	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    "nameless@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	var account signedUp
	decodeData(t, resp, &account)
	assert.Empty(t, account.User.Username)

	resp = ts.api.Put("/api/v1/users/me/username", bearerHeader(account.AccessToken), map[string]any{
		"username": "grace_h",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var me userJSON
	decodeData(t, resp, &me)
	assert.Equal(t, "grace_h", me.Username)
}

func TestChangePassword(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signUp(t, "ada")

	resp := ts.api.Post("/api/v1/users/me/password", bearerHeader(ada.AccessToken), map[string]any{
		"current_password": "wrong-password",
		"new_password":     "new-password-456",
	})
	requireAPIError(t, resp, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Current password is incorrect")

	resp = ts.api.Post("/api/v1/users/me/password", bearerHeader(ada.AccessToken), map[string]any{
		"current_password": "password123",
		"new_password":     "new-password-456",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"identifier": "ada",
		"password":   "new-password-456",
	})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAvatar_UploadAndFetch(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signUp(t, "ada")
	pic := testPNG(t)

	resp := ts.api.Put("/api/v1/users/me/avatar",
		bearerHeader(ada.AccessToken),
		"Content-Type: image/png",
		bytes.NewReader(pic))
	require.Equal(t, http.StatusOK, resp.Code, "body: %s", resp.Body.String())

	var me userJSON
	decodeData(t, resp, &me)
	assert.Contains(t, me.ProfilePictureURL, "/api/v1/avatars/"+ada.User.ID)
	assert.NotEmpty(t, me.AvatarBlurHash)

	resp = ts.api.Get("/api/v1/avatars/" + ada.User.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
	assert.Equal(t, CacheOneDay, resp.Header().Get("Cache-Control"))
	assert.Equal(t, pic, resp.Body.Bytes())
}

func TestAvatar_Remove(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signUp(t, "ada")

	resp := ts.api.Put("/api/v1/users/me/avatar",
		bearerHeader(ada.AccessToken),
		"Content-Type: image/png",
		bytes.NewReader(testPNG(t)))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Delete("/api/v1/users/me/avatar", bearerHeader(ada.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code, "body: %s", resp.Body.String())

	var me userJSON
	decodeData(t, resp, &me)
	assert.Empty(t, me.ProfilePictureURL)

	resp = ts.api.Get("/api/v1/avatars/" + ada.User.ID)
	requireAPIError(t, resp, http.StatusNotFound, "NOT_FOUND", "Profile picture not found")

	resp = ts.api.Delete("/api/v1/users/me/avatar")
	requireAPIError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
}

func TestAvatar_RejectsNonImage(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signUp(t, "ada")

	resp := ts.api.Put("/api/v1/users/me/avatar",
		bearerHeader(ada.AccessToken),
		"Content-Type: text/plain",
		bytes.NewReader([]byte("definitely not an image")))

	requireAPIError(t, resp, http.StatusBadRequest, "VALIDATION", "Profile picture must be a JPEG, PNG or WebP image")
}

func TestAvatar_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/avatars/usr_missing")

	requireAPIError(t, resp, http.StatusNotFound, "NOT_FOUND", "Profile picture not found")
}

func TestPublicProfile(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signUp(t, "ada")
	bob := ts.signUp(t, "bob")
	public := ts.createList(t, ada.AccessToken, "Public Go", true)
	ts.createList(t, ada.AccessToken, "Secret Notes", false)

	var profile struct {
		Username     string `json:"username"`
		IsOwnProfile bool   `json:"is_own_profile"`
		Lists        []struct {
			ID   string `json:"id"`
			Href string `json:"href"`
		} `json:"lists"`
	}

	resp := ts.api.Get("/api/v1/users/ada", bearerHeader(bob.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)
	decodeData(t, resp, &profile)
	assert.Equal(t, "ada", profile.Username)
	assert.False(t, profile.IsOwnProfile)
	require.Len(t, profile.Lists, 1)
	assert.Equal(t, "/share/"+public.ID, profile.Lists[0].Href)

	resp = ts.api.Get("/api/v1/users/ada", bearerHeader(ada.AccessToken))
	decodeData(t, resp, &profile)
	assert.True(t, profile.IsOwnProfile)
	assert.Equal(t, "/dashboard/public-go", profile.Lists[0].Href)

	resp = ts.api.Get("/api/v1/users/nobody")
	requireAPIError(t, resp, http.StatusNotFound, "NOT_FOUND", "User not found")
}
