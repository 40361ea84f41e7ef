package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemJSON struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Notes     *string `json:"notes"`
	URL       *string `json:"url"`
	Position  int     `json:"position"`
	Completed bool    `json:"completed"`
}

func (ts *testServer) addItem(t *testing.T, token, listID, title string) itemJSON {
	t.Helper()
	resp := ts.api.Post("/api/v1/lists/"+listID+"/items", bearerHeader(token), map[string]any{
		"title": title,
	})
	require.Equal(t, http.StatusCreated, resp.Code, "body: %s", resp.Body.String())
	var item itemJSON
	decodeData(t, resp, &item)
	return item
}

func (ts *testServer) itemTitles(t *testing.T, token, listID string) []string {
	t.Helper()
	resp := ts.api.Get("/api/v1/lists/"+listID, bearerHeader(token))
	require.Equal(t, http.StatusOK, resp.Code)
	var detail listJSON
	decodeData(t, resp, &detail)
	titles := make([]string, len(detail.Items))
	for i, it := range detail.Items {
		titles[i] = it.Title
	}
	return titles
}

func TestAddStudyItem_Appends(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signUp(t, "ada")
	list := ts.createList(t, ada.AccessToken, "Learn Go", false)

	first := ts.addItem(t, ada.AccessToken, list.ID, "Tour of Go")
	second := ts.addItem(t, ada.AccessToken, list.ID, "Effective Go")

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
	assert.False(t, second.Completed)
	assert.Equal(t, []string{"Tour of Go", "Effective Go"}, ts.itemTitles(t, ada.AccessToken, list.ID))
}

func TestAddStudyItem_RejectsBadURL(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signUp(t, "ada")
	list := ts.createList(t, ada.AccessToken, "Learn Go", false)

	resp := ts.api.Post("/api/v1/lists/"+list.ID+"/items", bearerHeader(ada.AccessToken), map[string]any{
		"title": "Sketchy",
		"url":   "javascript:alert(1)",
	})

	requireAPIError(t, resp, http.StatusBadRequest, "VALIDATION", "")
}

func TestAddStudyItem_OtherUsersList(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signUp(t, "ada")
	bob := ts.signUp(t, "bob")
	list := ts.createList(t, ada.AccessToken, "Learn Go", true)

	resp := ts.api.Post("/api/v1/lists/"+list.ID+"/items", bearerHeader(bob.AccessToken), map[string]any{
		"title": "Sneaky",
	})

	requireAPIError(t, resp, http.StatusNotFound, "NOT_FOUND", "Study list not found")
}

func TestUpdateAndToggleStudyItem(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signUp(t, "ada")
	list := ts.createList(t, ada.AccessToken, "Learn Go", false)
	item := ts.addItem(t, ada.AccessToken, list.ID, "Tour of Go")

	resp := ts.api.Patch("/api/v1/items/"+item.ID, bearerHeader(ada.AccessToken), map[string]any{
		"url":   "https://go.dev/tour",
		"notes": "Do every exercise",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var updated itemJSON
	decodeData(t, resp, &updated)
	require.NotNil(t, updated.URL)
	assert.Equal(t, "https://go.dev/tour", *updated.URL)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "Do every exercise", *updated.Notes)

	resp = ts.api.Post("/api/v1/items/"+item.ID+"/toggle", bearerHeader(ada.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)
	decodeData(t, resp, &updated)
	assert.True(t, updated.Completed)

	resp = ts.api.Post("/api/v1/items/"+item.ID+"/toggle", bearerHeader(ada.AccessToken))
	decodeData(t, resp, &updated)
	assert.False(t, updated.Completed)
}

func TestDeleteStudyItem(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signUp(t, "ada")
	list := ts.createList(t, ada.AccessToken, "Learn Go", false)
	ts.addItem(t, ada.AccessToken, list.ID, "One")
	two := ts.addItem(t, ada.AccessToken, list.ID, "Two")
	ts.addItem(t, ada.AccessToken, list.ID, "Three")

	resp := ts.api.Delete("/api/v1/items/"+two.ID, bearerHeader(ada.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"One", "Three"}, ts.itemTitles(t, ada.AccessToken, list.ID))

	resp = ts.api.Delete("/api/v1/items/"+two.ID, bearerHeader(ada.AccessToken))
	requireAPIError(t, resp, http.StatusNotFound, "NOT_FOUND", "Item not found")
}

func TestReorderStudyItems(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.signUp(t, "ada")
	list := ts.createList(t, ada.AccessToken, "Learn Go", false)
	other := ts.createList(t, ada.AccessToken, "Other", false)
	one := ts.addItem(t, ada.AccessToken, list.ID, "One")
	two := ts.addItem(t, ada.AccessToken, list.ID, "Two")
	three := ts.addItem(t, ada.AccessToken, list.ID, "Three")
	stray := ts.addItem(t, ada.AccessToken, other.ID, "Stray")

	resp := ts.api.Put("/api/v1/lists/"+list.ID+"/items/order", bearerHeader(ada.AccessToken), map[string]any{
		"ids": []string{three.ID, one.ID, two.ID},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var out ReorderResponse
	decodeData(t, resp, &out)
	assert.Equal(t, []string{three.ID, one.ID, two.ID}, out.IDs)
	assert.Equal(t, []string{"Three", "One", "Two"}, ts.itemTitles(t, ada.AccessToken, list.ID))

	resp = ts.api.Put("/api/v1/lists/"+list.ID+"/items/order", bearerHeader(ada.AccessToken), map[string]any{
		"ids": []string{one.ID, stray.ID},
	})
	requireAPIError(t, resp, http.StatusBadRequest, "VALIDATION", "Invalid item ID")
	assert.Equal(t, []string{"Three", "One", "Two"}, ts.itemTitles(t, ada.AccessToken, list.ID))
}
