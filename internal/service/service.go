// Package service implements the Kiasu use cases: accounts, lists, items,
// discovery, votes, copies and moderation. Services validate input, enforce
// ownership and translate persistence errors into internal/errors values.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raygaledev/kiasu/internal/domain"
	domainerrors "github.com/raygaledev/kiasu/internal/errors"
	"github.com/raygaledev/kiasu/internal/sse"
	"github.com/raygaledev/kiasu/internal/store"
	"github.com/raygaledev/kiasu/internal/validation"
)

// Messages shared by several operations. Not-found and not-owned collapse
// into the same message so private ids are not revealed.
const (
	msgListNotFound = "Study list not found"
	msgItemNotFound = "Item not found"
)

var validate = validation.New()

// EventEmitter publishes change notifications. *sse.Manager implements it.
type EventEmitter interface {
	Emit(event sse.Event)
}

type noopEmitter struct{}

func (noopEmitter) Emit(sse.Event) {}

func emitterOrNoop(e EventEmitter) EventEmitter {
	if e == nil {
		return noopEmitter{}
	}
	return e
}

// requireUser turns an empty caller id into NotAuthenticated.
func requireUser(userID string) error {
	if userID == "" {
		return domainerrors.NotAuthenticated()
	}
	return nil
}

// notFoundAs maps store.ErrNotFound to a user-facing not-found error and
// wraps everything else.
func notFoundAs(err error, msg, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound(msg)
	}
	return upstream(op, err)
}

// upstream hides a persistence failure behind a generic message.
func upstream(op string, err error) error {
	return domainerrors.Upstream("Something went wrong", fmt.Errorf("%s: %w", op, err))
}

func trimSpace(s string) string { return strings.TrimSpace(s) }

func isBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}

// loadOwnedList loads a list and hides it unless userID owns it.
func loadOwnedList(ctx context.Context, st store.Store, listID, userID string) (*domain.StudyList, error) {
	list, err := st.GetStudyList(ctx, listID)
	if err != nil {
		return nil, notFoundAs(err, msgListNotFound, "get study list")
	}
	if !list.OwnedBy(userID) {
		return nil, domainerrors.NotFound(msgListNotFound)
	}
	return list, nil
}
