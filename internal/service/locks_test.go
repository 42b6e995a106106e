package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationLocksSerializeSameID(t *testing.T) {
	locks := newConversationLocks()

	const workers = 16
	const iterations = 100

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				locks.acquire("c1")
				counter++
				locks.release("c1")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*iterations, counter)

	// All entries are reclaimed once released.
	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.entries)
}

func TestConversationLocksIndependentIDs(t *testing.T) {
	locks := newConversationLocks()

	locks.acquire("c1")

	done := make(chan struct{})
	go func() {
		locks.acquire("c2")
		locks.release("c2")
		close(done)
	}()

	// A different conversation is not blocked by c1's holder.
	<-done
	locks.release("c1")
}
