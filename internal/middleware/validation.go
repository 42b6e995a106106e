package middleware

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateMessageContent validates chat message text.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("message cannot be empty")
	}
	if len(content) > 100000 {
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}

// ValidateConversationID validates a client-minted conversation id. Ids are
// opaque tokens, not UUIDs, so only length and charset are enforced.
func ValidateConversationID(id string) error {
	if len(id) == 0 {
		return errors.New("conversation id cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("conversation id exceeds maximum length")
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return errors.New("conversation id contains invalid characters")
		}
	}
	return nil
}

// ValidateMessageID validates a message id.
func ValidateMessageID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid message ID format")
	}
	return nil
}
