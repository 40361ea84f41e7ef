package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/raygaledev/kiasu/internal/domain"
	"github.com/raygaledev/kiasu/internal/store"
)

const userColumns = `id, email, username, display_name, password_hash, avatar_url,
	profile_picture_url, avatar_blur_hash, role, tier, billing_customer_id, created_at, updated_at`

func scanUser(sc scanner) (*domain.User, error) {
	var (
		u                                            domain.User
		username, displayName, avatarURL, pictureURL sql.NullString
		blurHash, billingID                          sql.NullString
		role, tier, createdAt, updatedAt             string
	)
	err := sc.Scan(&u.ID, &u.Email, &username, &displayName, &u.PasswordHash, &avatarURL,
		&pictureURL, &blurHash, &role, &tier, &billingID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	u.Username = username.String
	u.DisplayName = displayName.String
	u.AvatarURL = avatarURL.String
	u.ProfilePictureURL = pictureURL.String
	u.AvatarBlurHash = blurHash.String
	u.BillingCustomerID = billingID.String
	u.Role = domain.Role(role)
	u.Tier = domain.Tier(tier)

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &u, nil
}

func mapUserConflict(err error) error {
	switch {
	case isUniqueViolation(err, "users.email"):
		return store.ErrEmailTaken
	case isUniqueViolation(err, "users.username"):
		return store.ErrUsernameTaken
	case isUniqueViolation(err, "users."):
		return store.ErrAlreadyExists
	default:
		return err
	}
}

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if u.Role == "" {
		u.Role = domain.RoleMember
	}
	if u.Tier == "" {
		u.Tier = domain.TierFree
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, nullString(u.Username), nullString(u.DisplayName), u.PasswordHash,
		nullString(u.AvatarURL), nullString(u.ProfilePictureURL), nullString(u.AvatarBlurHash),
		string(u.Role), string(u.Tier), nullString(u.BillingCustomerID),
		formatTime(u.CreatedAt), formatTime(u.UpdatedAt))
	if err != nil {
		if mapped := mapUserConflict(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) getUserWhere(ctx context.Context, where string, arg any) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserWhere(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by email, ignoring case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUserWhere(ctx, "email = ?", email)
}

// GetUserByUsername retrieves a user by username, ignoring case.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUserWhere(ctx, "username = ?", username)
}

// UpdateUser writes every mutable profile column.
func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET
		email = ?, username = ?, display_name = ?, password_hash = ?, avatar_url = ?,
		profile_picture_url = ?, avatar_blur_hash = ?, role = ?, tier = ?,
		billing_customer_id = ?, updated_at = ?
		WHERE id = ?`,
		u.Email, nullString(u.Username), nullString(u.DisplayName), u.PasswordHash,
		nullString(u.AvatarURL), nullString(u.ProfilePictureURL), nullString(u.AvatarBlurHash),
		string(u.Role), string(u.Tier), nullString(u.BillingCustomerID),
		formatTime(u.UpdatedAt), u.ID)
	if err != nil {
		if mapped := mapUserConflict(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	// Username and avatar feed the search documents of the user's public lists.
	return s.reindexOwner(ctx, u.ID)
}

// CountUsers returns the number of accounts.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// UsernameExists reports whether another account already uses username.
func (s *Store) UsernameExists(ctx context.Context, username, excludeUserID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ? AND id != ?`, username, excludeUserID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return n > 0, nil
}
