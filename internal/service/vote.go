package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/raygaledev/kiasu/internal/domain"
	domainerrors "github.com/raygaledev/kiasu/internal/errors"
	"github.com/raygaledev/kiasu/internal/sse"
	"github.com/raygaledev/kiasu/internal/store"
)

// VoteService applies up/down votes on public lists.
type VoteService struct {
	store  store.Store
	events EventEmitter
	logger *slog.Logger
}

// NewVoteService creates a new vote service.
func NewVoteService(store store.Store, events EventEmitter, logger *slog.Logger) *VoteService {
	return &VoteService{store: store, events: emitterOrNoop(events), logger: logger}
}

// VoteResult is the caller's vote after the transition and the new tally.
type VoteResult struct {
	ListID          string           `json:"list_id"`
	CurrentUserVote *domain.VoteType `json:"current_user_vote"`
	domain.VoteTally
}

// Vote casts an UP or DOWN vote. Casting the same type again removes the
// vote; casting the other type replaces it. Private and missing lists are
// rejected with the same not-found error.
func (s *VoteService) Vote(ctx context.Context, userID, listID string, cast domain.VoteType) (*VoteResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if !cast.Valid() {
		return nil, domainerrors.ValidationWithDetails("vote type must be UP or DOWN",
			map[string]string{"type": "must be one of: UP DOWN"})
	}

	// Visibility is checked inside the vote transaction.
	state, err := s.store.ApplyVote(ctx, userID, listID, cast)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(msgListNotFound)
		}
		return nil, upstream("apply vote", err)
	}

	tallies, err := s.store.GetVoteTallies(ctx, []string{listID})
	if err != nil {
		return nil, upstream("tally votes", err)
	}

	result := &VoteResult{ListID: listID, VoteTally: tallies[listID]}
	if state != "" {
		result.CurrentUserVote = &state
	}

	s.logger.Info("vote applied",
		"list_id", listID,
		"user_id", userID,
		"cast", cast,
		"state", state)

	s.events.Emit(sse.NewDiscoveryChangedEvent(listID, "vote"))
	return result, nil
}
