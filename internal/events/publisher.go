package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
)

const (
	// StreamName is the name of the conversation events stream.
	StreamName = "CHAT_EVENTS"

	// SubjectPrefix is the prefix for all event subjects.
	SubjectPrefix = "chat"
)

// Publisher emits conversation domain events.
type Publisher interface {
	Publish(ctx context.Context, event *model.ConversationEvent)
}

// JetStreamPublisher publishes events to a JetStream stream.
type JetStreamPublisher struct {
	client *Client
}

// NewJetStreamPublisher creates a publisher and ensures the stream exists.
func NewJetStreamPublisher(ctx context.Context, client *Client) (*JetStreamPublisher, error) {
	_, err := client.js.Stream(ctx, StreamName)
	if err != nil {
		_, err = client.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:        StreamName,
			Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
			Retention:   jetstream.LimitsPolicy,
			MaxAge:      30 * 24 * time.Hour,
			Storage:     jetstream.FileStorage,
			Replicas:    1,
			Compression: jetstream.S2Compression,
			Description: "Conversation domain events",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create stream: %w", err)
		}
	}

	return &JetStreamPublisher{client: client}, nil
}

// Subject returns the subject for an event.
func Subject(conversationID string, eventType model.EventType) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, conversationID, eventType)
}

// Publish emits one event. Publishing is best-effort: a failed publish is
// logged and never fails the chat operation that produced it.
func (p *JetStreamPublisher) Publish(ctx context.Context, event *model.ConversationEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.client.logger.Error("failed to marshal event", zap.Error(err))
		return
	}

	if _, err := p.client.js.Publish(ctx, Subject(event.ConversationID, event.Type), data); err != nil {
		p.client.logger.Warn("failed to publish event",
			zap.String("type", string(event.Type)),
			zap.String("conversation_id", event.ConversationID),
			zap.Error(err),
		)
	}
}

// NoopPublisher drops all events. Used when no NATS URL is configured.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(context.Context, *model.ConversationEvent) {}
