package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/raygaledev/kiasu/internal/domain"
	"github.com/raygaledev/kiasu/internal/store"
)

const itemColumns = `id, study_list_id, title, notes, url, completed, position, created_at, updated_at`

const itemOrderQuery = `SELECT id FROM study_items WHERE study_list_id = ? ORDER BY position ASC, created_at ASC`

func scanItem(sc scanner) (*domain.StudyItem, error) {
	var (
		it                   domain.StudyItem
		notes, url           sql.NullString
		completed            int
		createdAt, updatedAt string
	)
	if err := sc.Scan(&it.ID, &it.StudyListID, &it.Title, &notes, &url, &completed,
		&it.Position, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	it.Notes = stringPtr(notes)
	it.URL = stringPtr(url)
	it.Completed = completed == 1

	var err error
	if it.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if it.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &it, nil
}

func insertItem(ctx context.Context, tx *sql.Tx, it *domain.StudyItem) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO study_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.StudyListID, it.Title, nullableString(it.Notes), nullableString(it.URL),
		boolInt(it.Completed), it.Position, formatTime(it.CreatedAt), formatTime(it.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert study item: %w", err)
	}
	return nil
}

func listItemsTx(ctx context.Context, q interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}, listID string) ([]domain.StudyItem, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+itemColumns+` FROM study_items
		WHERE study_list_id = ? ORDER BY position ASC, created_at ASC`, listID)
	if err != nil {
		return nil, fmt.Errorf("list study items: %w", err)
	}
	defer rows.Close()

	var items []domain.StudyItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan study item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// CreateStudyItem appends the item after the last item of its list.
func (s *Store) CreateStudyItem(ctx context.Context, it *domain.StudyItem) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := loadOrdering(ctx, tx, itemOrderQuery, it.StudyListID)
		if err != nil {
			return fmt.Errorf("load item order: %w", err)
		}
		it.Position = current.Len()
		return insertItem(ctx, tx, it)
	})
}

// GetStudyItem retrieves an item by ID.
func (s *Store) GetStudyItem(ctx context.Context, id string) (*domain.StudyItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM study_items WHERE id = ?`, id)
	it, err := scanItem(row)
	if err != nil {
		return nil, notFound(err)
	}
	return it, nil
}

// ListStudyItems returns a list's items in position order.
func (s *Store) ListStudyItems(ctx context.Context, listID string) ([]domain.StudyItem, error) {
	return listItemsTx(ctx, s.db, listID)
}

// UpdateStudyItem writes title, notes, url and completion.
func (s *Store) UpdateStudyItem(ctx context.Context, it *domain.StudyItem) error {
	res, err := s.db.ExecContext(ctx, `UPDATE study_items SET
		title = ?, notes = ?, url = ?, completed = ?, updated_at = ? WHERE id = ?`,
		it.Title, nullableString(it.Notes), nullableString(it.URL), boolInt(it.Completed),
		formatTime(it.UpdatedAt), it.ID)
	if err != nil {
		return fmt.Errorf("update study item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ToggleStudyItem flips completion in place and returns the new row.
func (s *Store) ToggleStudyItem(ctx context.Context, id string) (*domain.StudyItem, error) {
	var it *domain.StudyItem
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE study_items
			SET completed = 1 - completed, updated_at = ? WHERE id = ?`, formatTime(time.Now()), id)
		if err != nil {
			return fmt.Errorf("toggle study item: %w", err)
		}
		it, err = scanItem(tx.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM study_items WHERE id = ?`, id))
		return notFound(err)
	})
	return it, err
}

// DeleteStudyItem removes an item and closes the position gap.
func (s *Store) DeleteStudyItem(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var listID string
		err := tx.QueryRowContext(ctx, `SELECT study_list_id FROM study_items WHERE id = ?`, id).Scan(&listID)
		if err != nil {
			return notFound(err)
		}

		current, err := loadOrdering(ctx, tx, itemOrderQuery, listID)
		if err != nil {
			return fmt.Errorf("load item order: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM study_items WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete study item: %w", err)
		}
		return writeOrdering(ctx, tx, "study_items", current.Remove(id))
	})
}

// ReorderStudyItems assigns position = index within listID. Any id that
// does not belong to listID aborts the whole reorder.
func (s *Store) ReorderStudyItems(ctx context.Context, listID string, ids []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := loadOrdering(ctx, tx, itemOrderQuery, listID)
		if err != nil {
			return fmt.Errorf("load item order: %w", err)
		}
		return applyOrdering(ctx, tx, "study_items", current, ids)
	})
}
