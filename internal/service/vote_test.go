package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raygaledev/kiasu/internal/domain"
	domainerrors "github.com/raygaledev/kiasu/internal/errors"
	"github.com/raygaledev/kiasu/internal/sse"
)

func TestVoteService_StateMachine(t *testing.T) {
	s := setupTestStore(t)
	events := &recordingEmitter{}
	votes := NewVoteService(s, events, testLogger)
	lists := NewStudyListService(s, nil, testLogger)
	ctx := context.Background()

	owner := createTestUser(t, s, "usr-owner", "owner")
	voter := createTestUser(t, s, "usr-voter", "voter")
	list, err := lists.Create(ctx, owner.ID, CreateListRequest{Title: "Public", Category: "science", IsPublic: true})
	require.NoError(t, err)

	steps := []struct {
		cast     domain.VoteType
		want     *domain.VoteType
		up, down int
	}{
		{domain.VoteUp, ptr(domain.VoteUp), 1, 0},     // none -> UP
		{domain.VoteUp, nil, 0, 0},                    // UP again removes
		{domain.VoteDown, ptr(domain.VoteDown), 0, 1}, // none -> DOWN
		{domain.VoteUp, ptr(domain.VoteUp), 1, 0},     // DOWN -> UP switches
		{domain.VoteDown, ptr(domain.VoteDown), 0, 1}, // UP -> DOWN switches
		{domain.VoteDown, nil, 0, 0},                  // DOWN again removes
	}
	for i, step := range steps {
		res, err := votes.Vote(ctx, voter.ID, list.ID, step.cast)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.want, res.CurrentUserVote, "step %d", i)
		assert.Equal(t, step.up, res.Upvotes, "step %d upvotes", i)
		assert.Equal(t, step.down, res.Downvotes, "step %d downvotes", i)
	}
	assert.Contains(t, events.types(), sse.EventDiscoveryChanged)
}

func TestVoteService_Rejects(t *testing.T) {
	s := setupTestStore(t)
	votes := NewVoteService(s, nil, testLogger)
	lists := NewStudyListService(s, nil, testLogger)
	ctx := context.Background()

	owner := createTestUser(t, s, "usr-owner", "owner")
	voter := createTestUser(t, s, "usr-voter", "voter")
	private, err := lists.Create(ctx, owner.ID, CreateListRequest{Title: "Private", Category: "science"})
	require.NoError(t, err)

	_, err = votes.Vote(ctx, "", private.ID, domain.VoteUp)
	requireCode(t, err, domainerrors.CodeUnauthorized, "Not authenticated")

	_, err = votes.Vote(ctx, voter.ID, private.ID, domain.VoteUp)
	requireCode(t, err, domainerrors.CodeNotFound, msgListNotFound)

	_, err = votes.Vote(ctx, voter.ID, "lst-missing", domain.VoteUp)
	requireCode(t, err, domainerrors.CodeNotFound, msgListNotFound)

	_, err = votes.Vote(ctx, voter.ID, private.ID, domain.VoteType("SIDEWAYS"))
	requireCode(t, err, domainerrors.CodeValidation, "")
}
