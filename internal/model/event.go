package model

import (
	"time"
)

// EventType represents the type of conversation event.
type EventType string

const (
	EventTypeMessageCreated      EventType = "message.created"
	EventTypeConversationEdited  EventType = "conversation.edited"
	EventTypeConversationDeleted EventType = "conversation.deleted"
	EventTypeResponderFailed     EventType = "responder.failed"
)

// ConversationEvent is published to the event feed on conversation changes.
type ConversationEvent struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversation_id"`
	Type           EventType      `json:"type"`
	Reason         string         `json:"reason,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
