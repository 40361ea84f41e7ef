package optimistic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID        string
	Title     string
	Completed bool
	Pending   bool
}

var itemAccessor = Accessor[item]{
	ID:          func(i item) string { return i.ID },
	Toggle:      func(i item) item { i.Completed = !i.Completed; return i },
	MarkPending: func(i item) item { i.Pending = true; return i },
}

func ids(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func seed() []item {
	return []item{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}, {ID: "c", Title: "C"}}
}

func TestReduce_Create(t *testing.T) {
	state := seed()
	tempID := NewTempID()

	next := Reduce(state, Create(item{ID: tempID, Title: "D"}), itemAccessor)

	require.Len(t, next, 4)
	assert.Equal(t, tempID, next[3].ID)
	assert.True(t, next[3].Pending)
	assert.True(t, IsTemp(next[3].ID))
	assert.Len(t, state, 3, "input must not change")
}

func TestReduce_Toggle(t *testing.T) {
	state := seed()

	next := Reduce(state, Toggle[item]("b"), itemAccessor)

	assert.True(t, next[1].Completed)
	assert.False(t, state[1].Completed)
	assert.False(t, next[0].Completed)
}

func TestReduce_Delete(t *testing.T) {
	next := Reduce(seed(), Delete[item]("a"), itemAccessor)
	assert.Equal(t, []string{"b", "c"}, ids(next))
}

func TestReduce_Update(t *testing.T) {
	next := Reduce(seed(), Update("c", func(i item) item { i.Title = "Changed"; return i }), itemAccessor)
	assert.Equal(t, "Changed", next[2].Title)
	assert.Equal(t, "B", next[1].Title)
}

func TestReduce_Reorder(t *testing.T) {
	next := Reduce(seed(), Reorder[item]([]string{"c", "a", "b"}), itemAccessor)
	assert.Equal(t, []string{"c", "a", "b"}, ids(next))
}

func TestReduce_ReorderDropsUnknownIDs(t *testing.T) {
	next := Reduce(seed(), Reorder[item]([]string{"c", "zzz", "a"}), itemAccessor)
	assert.Equal(t, []string{"c", "a"}, ids(next))
}

func TestReduce_UnknownIDIsNoop(t *testing.T) {
	state := seed()
	assert.Equal(t, state, Reduce(state, Toggle[item]("zzz"), itemAccessor))
	assert.Equal(t, state, Reduce(state, Delete[item]("zzz"), itemAccessor))
}

func TestProjection_ReconcileKeepsInflight(t *testing.T) {
	p := NewProjection(seed(), itemAccessor)

	toggle := p.Dispatch(Toggle[item]("a"))
	tempID := NewTempID()
	p.Dispatch(Create(item{ID: tempID, Title: "D"}))

	view := p.View()
	require.Len(t, view, 4)
	assert.True(t, view[0].Completed)
	assert.Equal(t, 2, p.Pending())

	// Server confirmed the toggle; the create is still in flight.
	p.Settle(toggle, nil)
	server := seed()
	server[0].Completed = true

	view = p.Reconcile(server)
	require.Len(t, view, 4)
	assert.True(t, view[0].Completed, "toggle must not be applied twice")
	assert.Equal(t, tempID, view[3].ID)
	assert.Equal(t, 1, p.Pending())
}

func TestProjection_FailedActionVisibleUntilReconcile(t *testing.T) {
	p := NewProjection(seed(), itemAccessor)

	token := p.Dispatch(Delete[item]("b"))
	p.Settle(token, errors.New("Item not found"))

	assert.Equal(t, []string{"a", "c"}, ids(p.View()))

	assert.Equal(t, []string{"a", "b", "c"}, ids(p.Reconcile(seed())))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "reorder", KindReorder.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
