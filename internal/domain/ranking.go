package domain

import (
	"cmp"
	"slices"
	"time"
)

// Ranking weights for the discovery feed.
const (
	VoteWeight         = 3
	CopyWeight         = 5
	FreshnessWindowDay = 14
)

const day = 24 * time.Hour

// Score ranks a public list. Age is measured in fractional days, so a list
// loses freshness continuously until it is two weeks old.
func Score(tally VoteTally, copyCount int, createdAt, now time.Time) float64 {
	daysOld := float64(now.Sub(createdAt)) / float64(day)
	freshness := max(0, FreshnessWindowDay-daysOld)
	return float64(tally.Net()*VoteWeight+copyCount*CopyWeight) + freshness
}

// RankedList is one entry of the discovery feed.
type RankedList struct {
	CreatedAt       time.Time `json:"created_at"`
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	Slug            string    `json:"slug"`
	Category        Category  `json:"category"`
	UserID          string    `json:"user_id"`
	Href            string    `json:"href"`
	Owner           Owner     `json:"user"`
	CurrentUserVote *VoteType `json:"current_user_vote"`
	VoteTally
	ItemCount int     `json:"item_count"`
	CopyCount int     `json:"copy_count"`
	Score     float64 `json:"score"`
}

// SortRanked orders lists by score descending. Equal scores fall back to
// newest first, then id, so the order is total and stable across requests.
func SortRanked(lists []RankedList) {
	slices.SortFunc(lists, func(a, b RankedList) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
