package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdering_Rerank(t *testing.T) {
	o := NewOrdering([]string{"a", "b", "c"})

	next, err := o.Rerank([]string{"c", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"c": 0, "a": 1, "b": 2}, next.Positions())
	assert.Equal(t, []string{"a", "b", "c"}, o.IDs(), "receiver must not change")
}

func TestOrdering_RerankForeignID(t *testing.T) {
	o := NewOrdering([]string{"a", "b", "c"})

	next, err := o.Rerank([]string{"c", "x", "a"})
	assert.ErrorIs(t, err, ErrForeignMember)
	assert.Equal(t, o.IDs(), next.IDs())
}

func TestOrdering_RerankDuplicate(t *testing.T) {
	o := NewOrdering([]string{"a", "b"})

	_, err := o.Rerank([]string{"b", "b"})
	assert.ErrorIs(t, err, ErrDuplicateMember)
}

func TestOrdering_RerankSubset(t *testing.T) {
	o := NewOrdering([]string{"a", "b", "c", "d"})

	next, err := o.Rerank([]string{"d", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b", "a", "c"}, next.IDs())
}

func TestOrdering_StaysDense(t *testing.T) {
	o := NewOrdering([]string{"a", "b", "c"})

	o = o.InsertHead("z").Remove("b")
	assert.Equal(t, []string{"z", "a", "c"}, o.IDs())
	assert.Equal(t, 3, o.Len())

	for i, id := range o.IDs() {
		pos, ok := o.Position(id)
		require.True(t, ok)
		assert.Equal(t, i, pos)
	}
}
