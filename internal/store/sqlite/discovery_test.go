package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/raygaledev/kiasu/internal/domain"
)

func TestListDiscoveryCandidates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "alice")
	insertTestUser(t, s, "bob")

	now := time.Now()
	anon := &domain.User{ID: "anon", Email: "anon@example.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}
	if err := s.CreateUser(ctx, anon); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	insertTestList(t, s, "pub", "alice", "Public", true)
	insertTestList(t, s, "priv", "alice", "Private", false)
	insertTestList(t, s, "nameless", "anon", "No username", true)
	insertTestItem(t, s, "i1", "pub")
	insertTestItem(t, s, "i2", "pub")

	cp := &domain.StudyList{ID: "cp", UserID: "bob", Title: "Public", Slug: "public", Category: domain.CategoryOther, CreatedAt: now, UpdatedAt: now}
	if err := s.CopyStudyList(ctx, "pub", cp); err != nil {
		t.Fatalf("CopyStudyList: %v", err)
	}

	got, err := s.ListDiscoveryCandidates(ctx)
	if err != nil {
		t.Fatalf("ListDiscoveryCandidates: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("candidates: got %d, want 1 (%+v)", len(got), got)
	}

	c := got[0]
	if c.List.ID != "pub" {
		t.Errorf("ID: got %q", c.List.ID)
	}
	if c.Owner.Username != "alice" {
		t.Errorf("Owner: got %+v", c.Owner)
	}
	if c.ItemCount != 2 {
		t.Errorf("ItemCount: got %d, want 2", c.ItemCount)
	}
	if c.CopyCount != 1 {
		t.Errorf("CopyCount: got %d, want 1", c.CopyCount)
	}
}

func TestListDiscoveryCandidates_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "alice")

	base := time.Now().Add(-time.Hour)
	for i, listID := range []string{"old", "mid", "new"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		l := &domain.StudyList{ID: listID, UserID: "alice", Title: listID, Slug: listID, Category: domain.CategoryOther, IsPublic: true, CreatedAt: ts, UpdatedAt: ts}
		if err := s.CreateStudyList(ctx, l); err != nil {
			t.Fatalf("CreateStudyList: %v", err)
		}
	}

	got, err := s.ListDiscoveryCandidates(ctx)
	if err != nil {
		t.Fatalf("ListDiscoveryCandidates: %v", err)
	}
	if len(got) != 3 || got[0].List.ID != "new" || got[2].List.ID != "old" {
		t.Errorf("order: got %v, %v, %v", got[0].List.ID, got[1].List.ID, got[2].List.ID)
	}
}
