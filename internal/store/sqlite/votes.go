package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/raygaledev/kiasu/internal/domain"
	"github.com/raygaledev/kiasu/internal/id"
	"github.com/raygaledev/kiasu/internal/store"
)

// ApplyVote moves userID's vote on listID through the vote state machine
// and returns the resulting state (empty when the vote was cleared).
// Missing and private lists return store.ErrNotFound.
func (s *Store) ApplyVote(ctx context.Context, userID, listID string, cast domain.VoteType) (domain.VoteType, error) {
	var result domain.VoteType
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var isPublic int
		err := tx.QueryRowContext(ctx, `SELECT is_public FROM study_lists WHERE id = ?`, listID).Scan(&isPublic)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && isPublic != 1) {
			return store.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load list visibility: %w", err)
		}

		var current string
		err = tx.QueryRowContext(ctx,
			`SELECT type FROM votes WHERE user_id = ? AND study_list_id = ?`, userID, listID).Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("load vote: %w", err)
		}

		next, change := domain.NextVote(domain.VoteType(current), cast)
		now := formatTime(time.Now())

		switch change {
		case domain.VoteInsert:
			voteID, err := id.Generate(id.PrefixVote)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `INSERT INTO votes (id, user_id, study_list_id, type, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`, voteID, userID, listID, string(next), now, now)
			if err != nil {
				return fmt.Errorf("insert vote: %w", err)
			}
		case domain.VoteDelete:
			_, err = tx.ExecContext(ctx, `DELETE FROM votes WHERE user_id = ? AND study_list_id = ?`, userID, listID)
			if err != nil {
				return fmt.Errorf("delete vote: %w", err)
			}
		case domain.VoteUpdate:
			_, err = tx.ExecContext(ctx, `UPDATE votes SET type = ?, updated_at = ?
				WHERE user_id = ? AND study_list_id = ?`, string(next), now, userID, listID)
			if err != nil {
				return fmt.Errorf("update vote: %w", err)
			}
		}

		result = next
		return nil
	})
	return result, err
}

// GetVoteTallies aggregates up and down votes for each list in listIDs.
// Lists without votes are present with a zero tally.
func (s *Store) GetVoteTallies(ctx context.Context, listIDs []string) (map[string]domain.VoteTally, error) {
	out := make(map[string]domain.VoteTally, len(listIDs))
	for _, listID := range listIDs {
		out[listID] = domain.VoteTally{}
	}

	for _, chunk := range chunks(listIDs) {
		rows, err := s.db.QueryContext(ctx, `SELECT study_list_id, type, COUNT(*) FROM votes
			WHERE study_list_id IN (`+placeholders(len(chunk))+`)
			GROUP BY study_list_id, type`, anySlice(chunk)...)
		if err != nil {
			return nil, fmt.Errorf("tally votes: %w", err)
		}

		for rows.Next() {
			var listID, voteType string
			var n int
			if err := rows.Scan(&listID, &voteType, &n); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan tally: %w", err)
			}
			t := out[listID]
			switch domain.VoteType(voteType) {
			case domain.VoteUp:
				t.Upvotes = n
			case domain.VoteDown:
				t.Downvotes = n
			}
			out[listID] = t
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GetUserVotes returns userID's vote for each list in listIDs that has one.
func (s *Store) GetUserVotes(ctx context.Context, userID string, listIDs []string) (map[string]domain.VoteType, error) {
	out := make(map[string]domain.VoteType)
	for _, chunk := range chunks(listIDs) {
		args := append([]any{userID}, anySlice(chunk)...)
		rows, err := s.db.QueryContext(ctx, `SELECT study_list_id, type FROM votes
			WHERE user_id = ? AND study_list_id IN (`+placeholders(len(chunk))+`)`, args...)
		if err != nil {
			return nil, fmt.Errorf("load user votes: %w", err)
		}

		for rows.Next() {
			var listID, voteType string
			if err := rows.Scan(&listID, &voteType); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan user vote: %w", err)
			}
			out[listID] = domain.VoteType(voteType)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
