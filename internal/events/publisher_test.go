package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "chat.c1.message.created", Subject("c1", model.EventTypeMessageCreated))
	assert.Equal(t, "chat.c1.conversation.deleted", Subject("c1", model.EventTypeConversationDeleted))
}
