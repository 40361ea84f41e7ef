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

const listColumns = `l.id, l.user_id, l.title, l.description, l.slug, l.category, l.is_public,
	l.position, l.copied_from_id, l.created_at, l.updated_at`

const summaryColumns = listColumns + `,
	(SELECT COUNT(*) FROM study_items i WHERE i.study_list_id = l.id),
	(SELECT COUNT(*) FROM study_items i WHERE i.study_list_id = l.id AND i.completed = 1)`

func scanList(sc scanner, extra ...any) (*domain.StudyList, error) {
	var (
		l                    domain.StudyList
		description, copied  sql.NullString
		category             string
		isPublic             int
		createdAt, updatedAt string
	)
	dest := []any{&l.ID, &l.UserID, &l.Title, &description, &l.Slug, &category, &isPublic,
		&l.Position, &copied, &createdAt, &updatedAt}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	l.Description = stringPtr(description)
	l.CopiedFromID = stringPtr(copied)
	l.Category = domain.Category(category)
	l.IsPublic = isPublic == 1

	var err error
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &l, nil
}

func scanSummaries(rows *sql.Rows) ([]domain.ListSummary, error) {
	defer rows.Close()

	var out []domain.ListSummary
	for rows.Next() {
		var items, completed int
		l, err := scanList(rows, &items, &completed)
		if err != nil {
			return nil, fmt.Errorf("scan study list: %w", err)
		}
		out = append(out, domain.ListSummary{StudyList: *l, ItemCount: items, CompletedCount: completed})
	}
	return out, rows.Err()
}

func insertList(ctx context.Context, tx *sql.Tx, l *domain.StudyList) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO study_lists
		(id, user_id, title, description, slug, category, is_public, position, copied_from_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.Title, nullableString(l.Description), l.Slug, string(l.Category),
		boolInt(l.IsPublic), l.Position, nullableString(l.CopiedFromID),
		formatTime(l.CreatedAt), formatTime(l.UpdatedAt))
	switch {
	case isUniqueViolation(err, "copied_from_id"):
		return store.ErrAlreadyCopied
	case isUniqueViolation(err, "study_lists.slug"):
		return store.ErrSlugTaken
	case err != nil:
		return fmt.Errorf("insert study list: %w", err)
	}
	return nil
}

const listOrderQuery = `SELECT id FROM study_lists WHERE user_id = ? ORDER BY position ASC, created_at DESC`

// insertListAtHead inserts l and ranks it first among its owner's lists.
func insertListAtHead(ctx context.Context, tx *sql.Tx, l *domain.StudyList) error {
	current, err := loadOrdering(ctx, tx, listOrderQuery, l.UserID)
	if err != nil {
		return fmt.Errorf("load list order: %w", err)
	}
	l.Position = 0
	if err := insertList(ctx, tx, l); err != nil {
		return err
	}
	return writeOrdering(ctx, tx, "study_lists", current.InsertHead(l.ID))
}

// CreateStudyList inserts the list at position 0 of its owner's lists.
func (s *Store) CreateStudyList(ctx context.Context, l *domain.StudyList) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return insertListAtHead(ctx, tx, l)
	})
	if err != nil {
		return err
	}

	s.reindexList(ctx, l.ID)
	return nil
}

// GetStudyList retrieves a list by ID.
func (s *Store) GetStudyList(ctx context.Context, id string) (*domain.StudyList, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listColumns+` FROM study_lists l WHERE l.id = ?`, id)
	l, err := scanList(row)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

// GetStudyListBySlug retrieves one of userID's lists by slug.
func (s *Store) GetStudyListBySlug(ctx context.Context, userID, slug string) (*domain.StudyList, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM study_lists l WHERE l.user_id = ? AND l.slug = ?`, userID, slug)
	l, err := scanList(row)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

// ListStudyLists returns all of userID's lists in position order.
func (s *Store) ListStudyLists(ctx context.Context, userID string) ([]domain.ListSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+summaryColumns+`
		FROM study_lists l WHERE l.user_id = ? ORDER BY l.position ASC, l.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list study lists: %w", err)
	}
	return scanSummaries(rows)
}

// ListPublicStudyLists returns userID's public lists in position order.
func (s *Store) ListPublicStudyLists(ctx context.Context, userID string) ([]domain.ListSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+summaryColumns+`
		FROM study_lists l WHERE l.user_id = ? AND l.is_public = 1
		ORDER BY l.position ASC, l.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list public study lists: %w", err)
	}
	return scanSummaries(rows)
}

// UpdateStudyList writes title, description, slug, category and visibility.
// Position and provenance are never changed here.
func (s *Store) UpdateStudyList(ctx context.Context, l *domain.StudyList) error {
	res, err := s.db.ExecContext(ctx, `UPDATE study_lists SET
		title = ?, description = ?, slug = ?, category = ?, is_public = ?, updated_at = ?
		WHERE id = ?`,
		l.Title, nullableString(l.Description), l.Slug, string(l.Category), boolInt(l.IsPublic),
		formatTime(l.UpdatedAt), l.ID)
	switch {
	case isUniqueViolation(err, "study_lists.slug"):
		return store.ErrSlugTaken
	case err != nil:
		return fmt.Errorf("update study list: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	s.reindexList(ctx, l.ID)
	return nil
}

// SetStudyListVisibility flips is_public without touching other fields.
func (s *Store) SetStudyListVisibility(ctx context.Context, id string, public bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE study_lists SET is_public = ?, updated_at = ? WHERE id = ?`,
		boolInt(public), formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("set visibility: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	s.reindexList(ctx, id)
	return nil
}

// DeleteStudyList removes a list and its items and closes the position gap.
func (s *Store) DeleteStudyList(ctx context.Context, id string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var userID string
		err := tx.QueryRowContext(ctx, `SELECT user_id FROM study_lists WHERE id = ?`, id).Scan(&userID)
		if err != nil {
			return notFound(err)
		}

		current, err := loadOrdering(ctx, tx, listOrderQuery, userID)
		if err != nil {
			return fmt.Errorf("load list order: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM study_lists WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete study list: %w", err)
		}
		return writeOrdering(ctx, tx, "study_lists", current.Remove(id))
	})
	if err != nil {
		return err
	}

	if err := s.indexer().DeleteStudyList(ctx, id); err != nil {
		s.logger.Warn("failed to remove study list from search index", "list_id", id, "error", err)
	}
	return nil
}

// SlugExists reports whether userID has a list with slug other than excludeListID.
func (s *Store) SlugExists(ctx context.Context, userID, slug, excludeListID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM study_lists WHERE user_id = ? AND slug = ? AND id != ?`,
		userID, slug, excludeListID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return n > 0, nil
}

// loadOrdering reads the current dense order of a scope inside tx.
func loadOrdering(ctx context.Context, tx *sql.Tx, query string, arg any) (domain.Ordering, error) {
	rows, err := tx.QueryContext(ctx, query, arg)
	if err != nil {
		return domain.Ordering{}, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var memberID string
		if err := rows.Scan(&memberID); err != nil {
			return domain.Ordering{}, err
		}
		ids = append(ids, memberID)
	}
	return domain.NewOrdering(ids), rows.Err()
}

// applyOrdering reranks the scope and writes the result.
func applyOrdering(ctx context.Context, tx *sql.Tx, table string, current domain.Ordering, requested []string) error {
	next, err := current.Rerank(requested)
	if err != nil {
		if errors.Is(err, domain.ErrForeignMember) || errors.Is(err, domain.ErrDuplicateMember) {
			return store.ErrInvalidMember.WithCause(err)
		}
		return err
	}
	return writeOrdering(ctx, tx, table, next)
}

// writeOrdering stores position = index for every member of o.
func writeOrdering(ctx context.Context, tx *sql.Tx, table string, o domain.Ordering) error {
	stmt, err := tx.PrepareContext(ctx, `UPDATE `+table+` SET position = ? WHERE id = ? AND position != ?`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	for i, memberID := range o.IDs() {
		if _, err := stmt.ExecContext(ctx, i, memberID, i); err != nil {
			return fmt.Errorf("update position: %w", err)
		}
	}
	return nil
}

// ReorderStudyLists assigns position = index for userID's lists. Any id that
// is not one of userID's lists aborts the whole reorder.
func (s *Store) ReorderStudyLists(ctx context.Context, userID string, ids []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := loadOrdering(ctx, tx, listOrderQuery, userID)
		if err != nil {
			return fmt.Errorf("load list order: %w", err)
		}
		return applyOrdering(ctx, tx, "study_lists", current, ids)
	})
}

// HasCopied reports whether userID already owns a copy of sourceID.
func (s *Store) HasCopied(ctx context.Context, userID, sourceID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM study_lists WHERE user_id = ? AND copied_from_id = ?`, userID, sourceID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check copy: %w", err)
	}
	return n > 0, nil
}

// CopyStudyList inserts copied at the head of its owner's lists and clones
// every item of sourceID into it with completion reset.
func (s *Store) CopyStudyList(ctx context.Context, sourceID string, copied *domain.StudyList) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		items, err := listItemsTx(ctx, tx, sourceID)
		if err != nil {
			return err
		}

		copied.CopiedFromID = &sourceID
		if err := insertListAtHead(ctx, tx, copied); err != nil {
			return err
		}

		for _, item := range items {
			itemID, err := id.Generate(id.PrefixItem)
			if err != nil {
				return err
			}
			clone := item.CloneForCopy(itemID, copied.ID, copied.CreatedAt)
			if err := insertItem(ctx, tx, &clone); err != nil {
				return err
			}
		}
		return nil
	})
}

// reindexList pushes the current state of a list to the search index.
// Index failures are logged; the database stays authoritative.
func (s *Store) reindexList(ctx context.Context, listID string) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listColumns+`, u.username, u.profile_picture_url, u.avatar_url
		FROM study_lists l JOIN users u ON u.id = l.user_id WHERE l.id = ?`, listID)

	var username, picture, avatar sql.NullString
	l, err := scanList(row, &username, &picture, &avatar)
	if err != nil {
		s.logger.Warn("failed to load study list for indexing", "list_id", listID, "error", err)
		return
	}

	indexer := s.indexer()
	if !l.IsPublic || !username.Valid {
		err = indexer.DeleteStudyList(ctx, l.ID)
	} else {
		err = indexer.IndexStudyList(ctx, l, domain.Owner{
			Username:          username.String,
			ProfilePictureURL: picture.String,
			AvatarURL:         avatar.String,
		})
	}
	if err != nil {
		s.logger.Warn("failed to update search index", "list_id", listID, "error", err)
	}
}

func (s *Store) reindexOwner(ctx context.Context, userID string) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM study_lists WHERE user_id = ? AND is_public = 1`, userID)
	if err != nil {
		return fmt.Errorf("list owner lists: %w", err)
	}
	var ids []string
	for rows.Next() {
		var listID string
		if err := rows.Scan(&listID); err != nil {
			rows.Close()
			return fmt.Errorf("scan list id: %w", err)
		}
		ids = append(ids, listID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, listID := range ids {
		s.reindexList(ctx, listID)
	}
	return nil
}
