package service

import (
	"sync"
)

// conversationLocks serializes mutating operations per conversation id. The
// edit workflow is a destructive read-modify-write across several store
// calls; without this, a concurrent send could land inside the truncation
// window and be swept away.
type conversationLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newConversationLocks() *conversationLocks {
	return &conversationLocks{entries: make(map[string]*lockEntry)}
}

// acquire blocks until the caller holds the lock for the conversation.
func (l *conversationLocks) acquire(conversationID string) {
	l.mu.Lock()
	entry, ok := l.entries[conversationID]
	if !ok {
		entry = &lockEntry{}
		l.entries[conversationID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

// release drops the lock and discards the entry once nobody waits on it.
func (l *conversationLocks) release(conversationID string) {
	l.mu.Lock()
	entry := l.entries[conversationID]
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, conversationID)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}
