// Package sse streams study list changes to connected clients with
// Server-Sent Events.
package sse

import (
	"time"

	"github.com/raygaledev/kiasu/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	EventListCreated    EventType = "list.created"
	EventListUpdated    EventType = "list.updated"
	EventListDeleted    EventType = "list.deleted"
	EventListsReordered EventType = "list.reordered"

	EventItemCreated    EventType = "item.created"
	EventItemUpdated    EventType = "item.updated"
	EventItemDeleted    EventType = "item.deleted"
	EventItemsReordered EventType = "item.reordered"

	// EventDiscoveryChanged tells every client that discovery ranking may
	// have moved (a vote, a copy, a visibility change).
	EventDiscoveryChanged EventType = "discovery.changed"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event is one message on the stream. UserID scopes delivery to a single
// account; empty means every client.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
	UserID    string    `json:"-"`
}

// ListEventData carries a full list.
type ListEventData struct {
	List *domain.StudyList `json:"list"`
}

// DeletedEventData carries the id of a removed entity.
type DeletedEventData struct {
	ID     string `json:"id"`
	ListID string `json:"list_id,omitempty"`
}

// ReorderEventData carries the new order.
type ReorderEventData struct {
	ListID string   `json:"list_id,omitempty"`
	IDs    []string `json:"ids"`
}

// ItemEventData carries a full item.
type ItemEventData struct {
	Item *domain.StudyItem `json:"item"`
}

// DiscoveryEventData names the list whose ranking inputs changed.
type DiscoveryEventData struct {
	ListID string `json:"list_id"`
	Reason string `json:"reason"`
}

func newEvent(t EventType, userID string, data any) Event {
	return Event{Type: t, UserID: userID, Data: data, Timestamp: time.Now()}
}

// NewListCreatedEvent notifies the owner of a new list.
func NewListCreatedEvent(list *domain.StudyList) Event {
	return newEvent(EventListCreated, list.UserID, ListEventData{List: list})
}

// NewListUpdatedEvent notifies the owner of an edited list.
func NewListUpdatedEvent(list *domain.StudyList) Event {
	return newEvent(EventListUpdated, list.UserID, ListEventData{List: list})
}

// NewListDeletedEvent notifies the owner that a list is gone.
func NewListDeletedEvent(userID, listID string) Event {
	return newEvent(EventListDeleted, userID, DeletedEventData{ID: listID})
}

// NewListsReorderedEvent notifies the owner of a new dashboard order.
func NewListsReorderedEvent(userID string, ids []string) Event {
	return newEvent(EventListsReordered, userID, ReorderEventData{IDs: ids})
}

// NewItemCreatedEvent notifies the list owner of a new item.
func NewItemCreatedEvent(ownerID string, item *domain.StudyItem) Event {
	return newEvent(EventItemCreated, ownerID, ItemEventData{Item: item})
}

// NewItemUpdatedEvent notifies the list owner of an edited or toggled item.
func NewItemUpdatedEvent(ownerID string, item *domain.StudyItem) Event {
	return newEvent(EventItemUpdated, ownerID, ItemEventData{Item: item})
}

// NewItemDeletedEvent notifies the list owner that an item is gone.
func NewItemDeletedEvent(ownerID, listID, itemID string) Event {
	return newEvent(EventItemDeleted, ownerID, DeletedEventData{ID: itemID, ListID: listID})
}

// NewItemsReorderedEvent notifies the list owner of a new item order.
func NewItemsReorderedEvent(ownerID, listID string, ids []string) Event {
	return newEvent(EventItemsReordered, ownerID, ReorderEventData{ListID: listID, IDs: ids})
}

// NewDiscoveryChangedEvent is broadcast to everyone.
func NewDiscoveryChangedEvent(listID, reason string) Event {
	return newEvent(EventDiscoveryChanged, "", DiscoveryEventData{ListID: listID, Reason: reason})
}

// NewHeartbeatEvent creates a keepalive event.
func NewHeartbeatEvent() Event {
	return newEvent(EventHeartbeat, "", map[string]any{})
}
