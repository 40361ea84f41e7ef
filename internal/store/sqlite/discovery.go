package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/raygaledev/kiasu/internal/domain"
	"github.com/raygaledev/kiasu/internal/store"
)

// ListDiscoveryCandidates returns every public list whose owner has chosen a
// username, newest first, with item and copy counts. Votes are not joined.
func (s *Store) ListDiscoveryCandidates(ctx context.Context) ([]store.DiscoveryCandidate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+listColumns+`,
			u.username, u.profile_picture_url, u.avatar_url,
			(SELECT COUNT(*) FROM study_items i WHERE i.study_list_id = l.id),
			(SELECT COUNT(*) FROM study_lists c WHERE c.copied_from_id = l.id)
		FROM study_lists l
		JOIN users u ON u.id = l.user_id
		WHERE l.is_public = 1 AND u.username IS NOT NULL
		ORDER BY l.created_at DESC, l.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list discovery candidates: %w", err)
	}
	defer rows.Close()

	var out []store.DiscoveryCandidate
	for rows.Next() {
		var (
			username, picture, avatar sql.NullString
			items, copies             int
		)
		l, err := scanList(rows, &username, &picture, &avatar, &items, &copies)
		if err != nil {
			return nil, fmt.Errorf("scan discovery candidate: %w", err)
		}
		out = append(out, store.DiscoveryCandidate{
			List: *l,
			Owner: domain.Owner{
				Username:          username.String,
				ProfilePictureURL: picture.String,
				AvatarURL:         avatar.String,
			},
			ItemCount: items,
			CopyCount: copies,
		})
	}
	return out, rows.Err()
}
