package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message represents one turn in a conversation.
type Message struct {
	// Identity
	ID             string `bson:"_id" json:"id"`
	ConversationID string `bson:"conversation_id" json:"conversation_id"`

	// Content
	Role Role   `bson:"role" json:"role"`
	Text string `bson:"text" json:"text"`

	// InReplyTo links a bot message to the user message that triggered it.
	InReplyTo string `bson:"in_reply_to,omitempty" json:"in_reply_to,omitempty"`

	// Seq is a per-conversation monotonic sequence number. It is the sole
	// ordering and truncation key; CreatedAt is informational.
	Seq int64 `bson:"seq" json:"seq"`

	// LLM metadata (set on bot messages only)
	Model     *string `bson:"model,omitempty" json:"model,omitempty"`
	TokensIn  *int    `bson:"tokens_in,omitempty" json:"tokens_in,omitempty"`
	TokensOut *int    `bson:"tokens_out,omitempty" json:"tokens_out,omitempty"`
	LatencyMs *int64  `bson:"latency_ms,omitempty" json:"latency_ms,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ConversationSummary describes one conversation in a listing.
type ConversationSummary struct {
	ConversationID string    `bson:"_id" json:"conversation_id"`
	LastMessageAt  time.Time `bson:"last_message_at" json:"last_message_at"`
	MessageCount   int64     `bson:"message_count" json:"message_count"`
}

// SendMessageRequest is the request to send a new chat message.
type SendMessageRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// SendMessageResponse is the response after a chat turn.
type SendMessageResponse struct {
	Response       string   `json:"response"`
	ConversationID string   `json:"conversation_id"`
	UserMessage    *Message `json:"user_message,omitempty"`
	BotMessage     *Message `json:"bot_message,omitempty"`
}

// EditMessageRequest is the request to edit a historical user message.
type EditMessageRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

// EditMessageResponse carries the regenerated tail of the conversation.
type EditMessageResponse struct {
	UpdatedMessage *Message  `json:"updated_message"`
	NewResponse    string    `json:"new_response,omitempty"`
	Messages       []Message `json:"messages"`
}

// HistoryResponse is the response for a conversation history request.
type HistoryResponse struct {
	ConversationID string    `json:"conversation_id"`
	Messages       []Message `json:"messages"`
	Count          int       `json:"count"`
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
}
