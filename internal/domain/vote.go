package domain

import "time"

// VoteType is the direction of a vote.
type VoteType string

const (
	VoteUp   VoteType = "UP"
	VoteDown VoteType = "DOWN"
)

// Valid reports whether t is UP or DOWN.
func (t VoteType) Valid() bool {
	return t == VoteUp || t == VoteDown
}

// Vote is one user's vote on one list. At most one exists per (user, list).
type Vote struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	StudyListID string    `json:"study_list_id"`
	Type        VoteType  `json:"type"`
}

// VoteChange is the row operation needed to move from one vote state to the next.
type VoteChange int

const (
	VoteInsert VoteChange = iota
	VoteDelete
	VoteUpdate
)

// NextVote applies a cast to the current state. The empty VoteType is the
// no-vote state. Casting the current type clears the vote; casting the
// opposite type replaces it.
func NextVote(current, cast VoteType) (VoteType, VoteChange) {
	switch current {
	case "":
		return cast, VoteInsert
	case cast:
		return "", VoteDelete
	default:
		return cast, VoteUpdate
	}
}

// VoteTally is the aggregate of votes on a list.
type VoteTally struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

// Net returns upvotes minus downvotes.
func (t VoteTally) Net() int {
	return t.Upvotes - t.Downvotes
}
