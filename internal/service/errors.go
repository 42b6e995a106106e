// Package service provides business logic for the receptionist backend.
package service

import (
	"errors"
)

var (
	// ErrValidation marks a rejected input. Nothing was persisted.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an id that does not resolve, or resolves outside
	// the caller's conversation.
	ErrNotFound = errors.New("not found")

	// ErrUpstream marks an AI responder failure. Writes that preceded the
	// responder call are committed; the turn simply has no reply.
	ErrUpstream = errors.New("ai responder unavailable")
)
