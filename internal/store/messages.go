package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
)

// ErrMessageNotFound is returned when a message id does not resolve.
var ErrMessageNotFound = errors.New("message not found")

// MessageStore persists chat messages in the chat_history collection.
type MessageStore struct {
	client *Client
}

// NewMessageStore creates a message store on the shared client.
func NewMessageStore(client *Client) *MessageStore {
	return &MessageStore{client: client}
}

// Insert persists one message.
func (s *MessageStore) Insert(ctx context.Context, msg *model.Message) error {
	defer observe(collChatHistory, "insert", time.Now())

	if _, err := s.client.collection(collChatHistory).InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// FindByID returns one message by id.
func (s *MessageStore) FindByID(ctx context.Context, id string) (*model.Message, error) {
	defer observe(collChatHistory, "find_one", time.Now())

	var msg model.Message
	err := s.client.collection(collChatHistory).
		FindOne(ctx, bson.M{"_id": id}).
		Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find message: %w", err)
	}
	return &msg, nil
}

// ListByConversation returns all messages for a conversation in seq order.
func (s *MessageStore) ListByConversation(ctx context.Context, conversationID string) ([]model.Message, error) {
	defer observe(collChatHistory, "find", time.Now())

	cursor, err := s.client.collection(collChatHistory).Find(ctx,
		bson.M{"conversation_id": conversationID},
		options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}

	var messages []model.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

// UpdateText rewrites the text of one message and stamps the edit time,
// returning the updated message.
func (s *MessageStore) UpdateText(ctx context.Context, id, text string, at time.Time) (*model.Message, error) {
	defer observe(collChatHistory, "update_one", time.Now())

	var msg model.Message
	err := s.client.collection(collChatHistory).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"text": text, "created_at": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	return &msg, nil
}

// DeleteAfter removes every message in the conversation with seq > after.
// Returns the number of deleted messages.
func (s *MessageStore) DeleteAfter(ctx context.Context, conversationID string, after int64) (int64, error) {
	defer observe(collChatHistory, "delete_many", time.Now())

	res, err := s.client.collection(collChatHistory).DeleteMany(ctx, bson.M{
		"conversation_id": conversationID,
		"seq":             bson.M{"$gt": after},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to truncate conversation: %w", err)
	}
	return res.DeletedCount, nil
}

// DeleteConversation removes every message for a conversation. Deleting a
// conversation that does not exist is a no-op.
func (s *MessageStore) DeleteConversation(ctx context.Context, conversationID string) (int64, error) {
	defer observe(collChatHistory, "delete_many", time.Now())

	res, err := s.client.collection(collChatHistory).DeleteMany(ctx,
		bson.M{"conversation_id": conversationID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete conversation: %w", err)
	}
	return res.DeletedCount, nil
}

// ListConversations returns the distinct conversation ids with their message
// counts, newest-first by most recent message time.
func (s *MessageStore) ListConversations(ctx context.Context) ([]model.ConversationSummary, error) {
	defer observe(collChatHistory, "aggregate", time.Now())

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$conversation_id"},
			{Key: "last_message_at", Value: bson.D{{Key: "$max", Value: "$created_at"}}},
			{Key: "message_count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "last_message_at", Value: -1}}}},
	}

	cursor, err := s.client.collection(collChatHistory).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	var summaries []model.ConversationSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode conversation summaries: %w", err)
	}
	return summaries, nil
}
