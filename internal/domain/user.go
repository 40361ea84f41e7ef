// Package domain holds the Kiasu entities and the pure rules that govern them.
package domain

import "time"

// Role represents the user's permission level.
type Role string

const (
	// RoleAdmin may moderate any public list.
	RoleAdmin Role = "admin"
	// RoleMember is a regular account.
	RoleMember Role = "member"
)

// Tier is the subscription tier recorded for an account. Billing itself is
// handled elsewhere; the server only stores the result.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// User is an account. Username is empty until the user picks one; lists of
// users without a username never appear in discovery.
type User struct {
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Username          string    `json:"username,omitempty"`
	DisplayName       string    `json:"display_name,omitempty"`
	PasswordHash      string    `json:"-"`
	AvatarURL         string    `json:"avatar_url,omitempty"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	AvatarBlurHash    string    `json:"avatar_blur_hash,omitempty"`
	Role              Role      `json:"role"`
	Tier              Tier      `json:"tier"`
	BillingCustomerID string    `json:"-"`
}

// IsAdmin reports whether the user can use moderation actions.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasUsername reports whether the user has chosen a public handle.
func (u *User) HasUsername() bool {
	return u.Username != ""
}

// Owner is the public projection of a user attached to listings.
type Owner struct {
	Username          string `json:"username"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	AvatarURL         string `json:"avatar_url,omitempty"`
}
