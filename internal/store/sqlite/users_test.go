package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raygaledev/kiasu/internal/domain"
	"github.com/raygaledev/kiasu/internal/store"
)

func TestCreateUser_Defaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	u := &domain.User{ID: "u1", Email: "u1@example.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Role != domain.RoleMember {
		t.Errorf("Role: got %q, want %q", got.Role, domain.RoleMember)
	}
	if got.Tier != domain.TierFree {
		t.Errorf("Tier: got %q, want %q", got.Tier, domain.TierFree)
	}
	if got.HasUsername() {
		t.Errorf("Username: got %q, want empty", got.Username)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, now)
	}
}

func TestCreateUser_Conflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "alice")

	now := time.Now()
	dupEmail := &domain.User{ID: "u2", Email: "ALICE@example.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}
	if err := s.CreateUser(ctx, dupEmail); !errors.Is(err, store.ErrEmailTaken) {
		t.Errorf("duplicate email: got %v, want ErrEmailTaken", err)
	}

	dupName := &domain.User{ID: "u3", Email: "other@example.com", Username: "Alice", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}
	if err := s.CreateUser(ctx, dupName); !errors.Is(err, store.ErrUsernameTaken) {
		t.Errorf("duplicate username: got %v, want ErrUsernameTaken", err)
	}
}

func TestGetUserByUsername_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "alice")

	u, err := s.GetUserByUsername(ctx, "ALICE")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if u.ID != "alice" {
		t.Errorf("ID: got %q, want alice", u.ID)
	}

	_, err = s.GetUserByUsername(ctx, "bob")
	assertNotFound(t, err)

	_, err = s.GetUserByEmail(ctx, "Alice@Example.com")
	if err != nil {
		t.Errorf("GetUserByEmail: %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := insertTestUser(t, s, "alice")
	insertTestUser(t, s, "bob")

	u.DisplayName = "Alice A."
	u.Username = "alice_2"
	u.UpdatedAt = time.Now()
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, _ := s.GetUser(ctx, "alice")
	if got.DisplayName != "Alice A." || got.Username != "alice_2" {
		t.Errorf("got %+v", got)
	}

	u.Username = "BOB"
	if err := s.UpdateUser(ctx, u); !errors.Is(err, store.ErrUsernameTaken) {
		t.Errorf("taken username: got %v", err)
	}

	ghost := &domain.User{ID: "ghost", Email: "g@example.com"}
	assertNotFound(t, s.UpdateUser(ctx, ghost))
}

func TestUsernameExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "alice")

	exists, err := s.UsernameExists(ctx, "Alice", "")
	if err != nil || !exists {
		t.Errorf("UsernameExists: got %v, %v", exists, err)
	}

	exists, _ = s.UsernameExists(ctx, "alice", "alice")
	if exists {
		t.Error("own username must not count as taken")
	}

	n, err := s.CountUsers(ctx)
	if err != nil || n != 1 {
		t.Errorf("CountUsers: got %d, %v", n, err)
	}
}
