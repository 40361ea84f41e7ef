// Package optimistic is the client-side prediction layer for list and item
// mutations. Reduce is a pure function from (state, action) to the predicted
// state; Projection replays in-flight actions over the last server snapshot
// and is reconciled when a fresh snapshot arrives. The server remains the
// source of truth: nothing here is ever written back.
package optimistic

import (
	"strings"

	"github.com/google/uuid"
)

// TempPrefix marks ids fabricated on the client before the server answers.
const TempPrefix = "temp-"

// NewTempID returns a fresh temporary id.
func NewTempID() string {
	return TempPrefix + uuid.NewString()
}

// IsTemp reports whether id was fabricated by NewTempID.
func IsTemp(id string) bool {
	return strings.HasPrefix(id, TempPrefix)
}

// Kind enumerates the supported mutations.
type Kind int

const (
	KindCreate Kind = iota
	KindToggle
	KindDelete
	KindUpdate
	KindReorder
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindToggle:
		return "toggle"
	case KindDelete:
		return "delete"
	case KindUpdate:
		return "update"
	case KindReorder:
		return "reorder"
	default:
		return "unknown"
	}
}

// Action is one predicted mutation. Only the fields relevant to Kind are read.
type Action[T any] struct {
	Entity T
	Patch  func(T) T
	ID     string
	IDs    []string
	Kind   Kind
}

// Create predicts the creation of entity. The entity should carry a temp id.
func Create[T any](entity T) Action[T] {
	return Action[T]{Kind: KindCreate, Entity: entity}
}

// Toggle predicts flipping the boolean state of id.
func Toggle[T any](id string) Action[T] {
	return Action[T]{Kind: KindToggle, ID: id}
}

// Delete predicts removal of id.
func Delete[T any](id string) Action[T] {
	return Action[T]{Kind: KindDelete, ID: id}
}

// Update predicts a partial change to id.
func Update[T any](id string, patch func(T) T) Action[T] {
	return Action[T]{Kind: KindUpdate, ID: id, Patch: patch}
}

// Reorder predicts the sequence ids.
func Reorder[T any](ids []string) Action[T] {
	return Action[T]{Kind: KindReorder, IDs: ids}
}

// Accessor teaches the reducer about an entity type.
type Accessor[T any] struct {
	// ID returns the entity id.
	ID func(T) string
	// Toggle returns the entity with its boolean state flipped.
	Toggle func(T) T
	// MarkPending returns the entity flagged as not yet confirmed.
	MarkPending func(T) T
}

// Reduce applies action to state and returns the new state. state is never
// modified. Actions naming an unknown id leave the state unchanged.
func Reduce[T any](state []T, action Action[T], acc Accessor[T]) []T {
	switch action.Kind {
	case KindCreate:
		entity := action.Entity
		if acc.MarkPending != nil {
			entity = acc.MarkPending(entity)
		}
		next := make([]T, 0, len(state)+1)
		next = append(next, state...)
		return append(next, entity)

	case KindToggle:
		return mapByID(state, action.ID, acc, acc.Toggle)

	case KindUpdate:
		return mapByID(state, action.ID, acc, action.Patch)

	case KindDelete:
		next := make([]T, 0, len(state))
		for _, e := range state {
			if acc.ID(e) != action.ID {
				next = append(next, e)
			}
		}
		return next

	case KindReorder:
		byID := make(map[string]T, len(state))
		for _, e := range state {
			byID[acc.ID(e)] = e
		}
		next := make([]T, 0, len(action.IDs))
		for _, id := range action.IDs {
			if e, ok := byID[id]; ok {
				next = append(next, e)
				delete(byID, id)
			}
		}
		return next

	default:
		return append([]T(nil), state...)
	}
}

func mapByID[T any](state []T, id string, acc Accessor[T], fn func(T) T) []T {
	next := make([]T, len(state))
	for i, e := range state {
		if fn != nil && acc.ID(e) == id {
			e = fn(e)
		}
		next[i] = e
	}
	return next
}
