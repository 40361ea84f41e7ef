// Package search provides full-text search over public study lists using
// Bleve. The database stays authoritative: the index only answers "which
// list ids match", and callers re-check visibility against the store.
package search

import (
	"github.com/raygaledev/kiasu/internal/domain"
)

// Document is one public list as stored in the index. Owner username is
// denormalized so "lists by ada" finds Ada's lists in one query.
type Document struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Owner       string `json:"owner"`
	CreatedAt   int64  `json:"created_at"` // Unix millis
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"title":      d.Title,
		"category":   d.Category,
		"owner":      d.Owner,
		"created_at": d.CreatedAt,
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	return m
}

// NewDocument builds the index document for a list.
func NewDocument(list *domain.StudyList, owner domain.Owner) *Document {
	doc := &Document{
		ID:        list.ID,
		Title:     list.Title,
		Category:  string(list.Category),
		Owner:     owner.Username,
		CreatedAt: list.CreatedAt.UnixMilli(),
	}
	if list.Description != nil {
		doc.Description = *list.Description
	}
	return doc
}
