package service

import (
	"fmt"
	"unicode/utf8"
)

const (
	maxMessageBytes        = 100000
	maxConversationIDBytes = 64
)

func validateText(text string) error {
	if len(text) == 0 {
		return fmt.Errorf("%w: message cannot be empty", ErrValidation)
	}
	if len(text) > maxMessageBytes {
		return fmt.Errorf("%w: message exceeds maximum length", ErrValidation)
	}
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: message must be valid UTF-8", ErrValidation)
	}
	return nil
}

// validateConversationID guards the client-minted partition key: opaque
// token, bounded length, conservative charset.
func validateConversationID(id string) error {
	if len(id) == 0 {
		return fmt.Errorf("%w: conversation id required", ErrValidation)
	}
	if len(id) > maxConversationIDBytes {
		return fmt.Errorf("%w: conversation id exceeds maximum length", ErrValidation)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return fmt.Errorf("%w: conversation id contains invalid characters", ErrValidation)
		}
	}
	return nil
}
