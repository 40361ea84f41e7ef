package domain

import "time"

// StudyItem is one resource in a list. Position is dense within the list.
type StudyItem struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	StudyListID string    `json:"study_list_id"`
	Title       string    `json:"title"`
	Notes       *string   `json:"notes"`
	URL         *string   `json:"url"`
	Position    int       `json:"position"`
	Completed   bool      `json:"completed"`
}

// CloneForCopy returns the item as it appears in a copied list: new id and
// list, same content and position, progress reset.
func (i StudyItem) CloneForCopy(newID, listID string, now time.Time) StudyItem {
	i.ID = newID
	i.StudyListID = listID
	i.Completed = false
	i.CreatedAt = now
	i.UpdatedAt = now
	return i
}

// AsShared hides the owner's progress when a list is viewed by others.
func (i StudyItem) AsShared() StudyItem {
	i.Completed = false
	return i
}
