package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raygaledev/kiasu/internal/domain"
	domainerrors "github.com/raygaledev/kiasu/internal/errors"
	"github.com/raygaledev/kiasu/internal/sse"
	"github.com/raygaledev/kiasu/internal/store/sqlite"
)

type itemTestEnv struct {
	items  *StudyItemService
	lists  *StudyListService
	store  *sqlite.Store
	events *recordingEmitter
	user   *domain.User
	list   *domain.StudyList
}

func setupStudyItemTest(t *testing.T) *itemTestEnv {
	t.Helper()
	s := setupTestStore(t)
	events := &recordingEmitter{}
	env := &itemTestEnv{
		items:  NewStudyItemService(s, events, testLogger),
		lists:  NewStudyListService(s, events, testLogger),
		store:  s,
		events: events,
		user:   createTestUser(t, s, "usr-1", "ada"),
	}
	list, err := env.lists.Create(context.Background(), env.user.ID, CreateListRequest{Title: "Go", Category: "programming"})
	require.NoError(t, err)
	env.list = list
	return env
}

func (e *itemTestEnv) addItems(t *testing.T, titles ...string) map[string]string {
	t.Helper()
	ids := make(map[string]string, len(titles))
	for _, title := range titles {
		it, err := e.items.Add(context.Background(), e.user.ID, e.list.ID, CreateItemRequest{Title: title})
		require.NoError(t, err)
		ids[title] = it.ID
	}
	return ids
}

func (e *itemTestEnv) itemTitles(t *testing.T) []string {
	t.Helper()
	detail, err := e.lists.Get(context.Background(), e.user.ID, e.list.ID)
	require.NoError(t, err)
	out := make([]string, len(detail.Items))
	for i, it := range detail.Items {
		assert.Equal(t, i, it.Position, "positions are dense")
		out[i] = it.Title
	}
	return out
}

func TestStudyItemService_Add_AppendsAtEnd(t *testing.T) {
	env := setupStudyItemTest(t)
	env.addItems(t, "a", "b", "c")

	assert.Equal(t, []string{"a", "b", "c"}, env.itemTitles(t))
	assert.Contains(t, env.events.types(), sse.EventItemCreated)
}

func TestStudyItemService_Add_Validation(t *testing.T) {
	env := setupStudyItemTest(t)
	ctx := context.Background()

	_, err := env.items.Add(ctx, env.user.ID, env.list.ID, CreateItemRequest{Title: ""})
	requireCode(t, err, domainerrors.CodeValidation, "")

	_, err = env.items.Add(ctx, env.user.ID, env.list.ID, CreateItemRequest{Title: "x", URL: ptr("javascript:alert(1)")})
	requireCode(t, err, domainerrors.CodeValidation, "")

	_, err = env.items.Add(ctx, "usr-stranger", env.list.ID, CreateItemRequest{Title: "x"})
	requireCode(t, err, domainerrors.CodeNotFound, msgListNotFound)
}

func TestStudyItemService_Add_ConvertsRichNotes(t *testing.T) {
	env := setupStudyItemTest(t)

	it, err := env.items.Add(context.Background(), env.user.ID, env.list.ID, CreateItemRequest{
		Title: "Tour",
		Notes: ptr("<p>Read <strong>carefully</strong></p>"),
		URL:   ptr(" https://go.dev/tour "),
	})
	require.NoError(t, err)
	require.NotNil(t, it.Notes)
	assert.Equal(t, "Read **carefully**", *it.Notes)
	require.NotNil(t, it.URL)
	assert.Equal(t, "https://go.dev/tour", *it.URL)
}

func TestStudyItemService_UpdateAndToggle(t *testing.T) {
	env := setupStudyItemTest(t)
	ctx := context.Background()

	it, err := env.items.Add(ctx, env.user.ID, env.list.ID, CreateItemRequest{
		Title: "Memory model",
		Notes: ptr("notes"),
		URL:   ptr("https://go.dev/ref/mem"),
	})
	require.NoError(t, err)

	updated, err := env.items.Update(ctx, env.user.ID, it.ID, UpdateItemRequest{
		Title: ptr("The Go Memory Model"),
		Notes: ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "The Go Memory Model", updated.Title)
	assert.Nil(t, updated.Notes)
	require.NotNil(t, updated.URL, "untouched field is kept")

	toggled, err := env.items.Toggle(ctx, env.user.ID, it.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = env.items.Toggle(ctx, env.user.ID, it.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	_, err = env.items.Toggle(ctx, "usr-stranger", it.ID)
	requireCode(t, err, domainerrors.CodeNotFound, msgItemNotFound)
}

func TestStudyItemService_Delete_CompactsPositions(t *testing.T) {
	env := setupStudyItemTest(t)
	ids := env.addItems(t, "a", "b", "c")

	require.NoError(t, env.items.Delete(context.Background(), env.user.ID, ids["b"]))
	assert.Equal(t, []string{"a", "c"}, env.itemTitles(t))

	err := env.items.Delete(context.Background(), env.user.ID, ids["b"])
	requireCode(t, err, domainerrors.CodeNotFound, msgItemNotFound)
}

func TestStudyItemService_Reorder(t *testing.T) {
	env := setupStudyItemTest(t)
	ctx := context.Background()
	ids := env.addItems(t, "a", "b", "c")

	require.NoError(t, env.items.Reorder(ctx, env.user.ID, env.list.ID, []string{ids["c"], ids["a"], ids["b"]}))
	assert.Equal(t, []string{"c", "a", "b"}, env.itemTitles(t))
	assert.Contains(t, env.events.types(), sse.EventItemsReordered)

	// An item from another list poisons the request.
	other, err := env.lists.Create(ctx, env.user.ID, CreateListRequest{Title: "Other", Category: "programming"})
	require.NoError(t, err)
	stray, err := env.items.Add(ctx, env.user.ID, other.ID, CreateItemRequest{Title: "stray"})
	require.NoError(t, err)

	err = env.items.Reorder(ctx, env.user.ID, env.list.ID, []string{ids["a"], stray.ID, ids["b"], ids["c"]})
	requireCode(t, err, domainerrors.CodeValidation, "Invalid item ID")
	assert.Equal(t, []string{"c", "a", "b"}, env.itemTitles(t))

	err = env.items.Reorder(ctx, env.user.ID, env.list.ID, []string{ids["a"], ids["a"]})
	requireCode(t, err, domainerrors.CodeValidation, "Invalid item ID")

	err = env.items.Reorder(ctx, "usr-stranger", env.list.ID, []string{ids["a"]})
	requireCode(t, err, domainerrors.CodeNotFound, msgListNotFound)
}
