package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/raygaledev/kiasu/internal/domain"
	domainerrors "github.com/raygaledev/kiasu/internal/errors"
	"github.com/raygaledev/kiasu/internal/sse"
	"github.com/raygaledev/kiasu/internal/store/sqlite"
)

var testLogger = slog.New(slog.DiscardHandler)

// recordingEmitter keeps every emitted event for assertions.
type recordingEmitter struct {
	mu     sync.Mutex
	events []sse.Event
}

func (r *recordingEmitter) Emit(e sse.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEmitter) types() []sse.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sse.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func setupTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), testLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// createTestUser inserts a user directly. username may be empty.
func createTestUser(t *testing.T, s *sqlite.Store, id, username string) *domain.User {
	t.Helper()
	now := time.Now()
	u := &domain.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		ID:           id,
		Email:        id + "@example.com",
		Username:     username,
		PasswordHash: "unused",
		Role:         domain.RoleMember,
		Tier:         domain.TierFree,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

// createTestVoters inserts n users with usernames voter0..voterN-1.
func createTestVoters(t *testing.T, s *sqlite.Store, n int) []string {
	t.Helper()
	ids := make([]string, n)
	for i := range n {
		ids[i] = fmt.Sprintf("usr-voter%d", i)
		createTestUser(t, s, ids[i], fmt.Sprintf("voter%d", i))
	}
	return ids
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T { return &v }

// requireCode asserts err is a domain error carrying code and, when msg is
// non-empty, that exact message.
func requireCode(t *testing.T, err error, code domainerrors.Code, msg string) {
	t.Helper()
	require.Error(t, err)
	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, code, de.Code, "error: %v", err)
	if msg != "" {
		require.Equal(t, msg, de.Message)
	}
}
