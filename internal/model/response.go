package model

import "time"

// MessageResponse carries a human-readable status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreatedResponse is returned after a document is inserted.
type CreatedResponse struct {
	ID string `json:"id"`
}

// ErrorResponse represents an error response structure.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ValidationErrorResponse lists the field errors of a rejected body.
type ValidationErrorResponse struct {
	Detail []FieldError `json:"detail"`
}

// Item event types published on the live feed.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// ItemEvent notifies subscribers about a change in the collection.
type ItemEvent struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewItemEvent creates an event stamped with the current time.
func NewItemEvent(eventType, id string) ItemEvent {
	return ItemEvent{
		Type:      eventType,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}
