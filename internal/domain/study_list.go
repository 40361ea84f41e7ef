package domain

import (
	"slices"
	"time"
)

// Category classifies a study list.
type Category string

// Categories offered by the list editor.
const (
	CategoryProgramming Category = "programming"
	CategoryDesign      Category = "design"
	CategoryBusiness    Category = "business"
	CategoryScience     Category = "science"
	CategoryLanguage    Category = "language"
	CategoryMusic       Category = "music"
	CategoryHealth      Category = "health"
	CategoryWriting     Category = "writing"
	CategoryPersonal    Category = "personal"
	CategoryOther       Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryProgramming, CategoryDesign, CategoryBusiness, CategoryScience, CategoryLanguage,
	CategoryMusic, CategoryHealth, CategoryWriting, CategoryPersonal, CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// StudyList is an ordered checklist of learning resources owned by one user.
// Position is dense within the owner's lists; Slug is unique per owner.
type StudyList struct {
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	Slug         string    `json:"slug"`
	Category     Category  `json:"category"`
	CopiedFromID *string   `json:"copied_from_id"`
	Position     int       `json:"position"`
	IsPublic     bool      `json:"is_public"`
}

// OwnedBy reports whether userID owns the list.
func (l *StudyList) OwnedBy(userID string) bool {
	return userID != "" && l.UserID == userID
}

// ListSummary is a list with its item count, used by dashboards and profiles.
type ListSummary struct {
	StudyList
	ItemCount      int `json:"item_count"`
	CompletedCount int `json:"completed_count"`
}

// ListHref returns the link a viewer should follow for a list: the editable
// dashboard page for the owner, the read-only share page for everyone else.
func ListHref(viewer Viewer, list *StudyList) string {
	if viewer.Is(list.UserID) {
		return "/dashboard/" + list.Slug
	}
	return "/share/" + list.ID
}
