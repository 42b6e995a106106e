package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sweetnothings-bakery/super-receptionist/internal/events"
	"github.com/sweetnothings-bakery/super-receptionist/internal/llm"
	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
	"github.com/sweetnothings-bakery/super-receptionist/internal/store"
	"github.com/sweetnothings-bakery/super-receptionist/pkg/logger"
	"github.com/sweetnothings-bakery/super-receptionist/pkg/metrics"
)

// MessageStore is the conversation store consumed by the chat service.
type MessageStore interface {
	Insert(ctx context.Context, msg *model.Message) error
	FindByID(ctx context.Context, id string) (*model.Message, error)
	ListByConversation(ctx context.Context, conversationID string) ([]model.Message, error)
	UpdateText(ctx context.Context, id, text string, at time.Time) (*model.Message, error)
	DeleteAfter(ctx context.Context, conversationID string, after int64) (int64, error)
	DeleteConversation(ctx context.Context, conversationID string) (int64, error)
	ListConversations(ctx context.Context) ([]model.ConversationSummary, error)
}

// ContextBuilder assembles the system context handed to the AI responder.
type ContextBuilder interface {
	ResponderContext(ctx context.Context) (string, error)
}

// ChatOptions configure the responder call.
type ChatOptions struct {
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// ChatService orchestrates chat turns and the edit-and-regenerate workflow.
type ChatService struct {
	store          MessageStore
	contextBuilder ContextBuilder
	llmClient      llm.Client
	publisher      events.Publisher
	logger         *logger.Logger
	opts           ChatOptions

	locks *conversationLocks
}

// NewChatService creates a new chat service.
func NewChatService(
	store MessageStore,
	contextBuilder ContextBuilder,
	llmClient llm.Client,
	publisher events.Publisher,
	log *logger.Logger,
	opts ChatOptions,
) *ChatService {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &ChatService{
		store:          store,
		contextBuilder: contextBuilder,
		llmClient:      llmClient,
		publisher:      publisher,
		logger:         log,
		opts:           opts,
		locks:          newConversationLocks(),
	}
}

// Send persists a user message, asks the responder for a reply against the
// full prior history, and persists the reply. When the responder fails the
// user message stays committed and ErrUpstream is returned alongside the
// partial response.
func (s *ChatService) Send(ctx context.Context, conversationID, text string) (*model.SendMessageResponse, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}
	if conversationID == "" {
		conversationID = uuid.Must(uuid.NewV7()).String()
	} else if err := validateConversationID(conversationID); err != nil {
		return nil, err
	}

	s.locks.acquire(conversationID)
	defer s.locks.release(conversationID)

	history, err := s.store.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	nextSeq := int64(1)
	if len(history) > 0 {
		nextSeq = history[len(history)-1].Seq + 1
	}

	userMsg := &model.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		Role:           model.RoleUser,
		Text:           text,
		Seq:            nextSeq,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, userMsg); err != nil {
		return nil, err
	}
	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()
	s.publishEvent(ctx, conversationID, model.EventTypeMessageCreated, "", map[string]any{
		"message_id": userMsg.ID,
		"role":       string(model.RoleUser),
	})

	resp := &model.SendMessageResponse{
		ConversationID: conversationID,
		UserMessage:    userMsg,
	}

	botMsg, err := s.generateReply(ctx, conversationID, history, userMsg)
	if err != nil {
		return resp, err
	}

	resp.BotMessage = botMsg
	resp.Response = botMsg.Text
	return resp, nil
}

// Edit rewrites a historical user message as if the user had typed the new
// text at that point: the message is updated in place, everything after it is
// truncated, and the responder regenerates a reply against the surviving
// prefix. The update runs before the sweep so a crash in between leaves
// stale trailing messages rather than a missing edit.
func (s *ChatService) Edit(ctx context.Context, messageID, newText, conversationID string) (*model.EditMessageResponse, error) {
	if err := validateText(newText); err != nil {
		return nil, err
	}
	if err := validateConversationID(conversationID); err != nil {
		return nil, err
	}
	if messageID == "" {
		return nil, fmt.Errorf("%w: message id required", ErrValidation)
	}

	s.locks.acquire(conversationID)
	defer s.locks.release(conversationID)

	target, err := s.store.FindByID(ctx, messageID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if target.ConversationID != conversationID || target.Role != model.RoleUser {
		return nil, fmt.Errorf("%w: message %s", ErrNotFound, messageID)
	}

	history, err := s.store.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	prefix := history[:0:0]
	for _, msg := range history {
		if msg.Seq < target.Seq {
			prefix = append(prefix, msg)
		}
	}

	updated, err := s.store.UpdateText(ctx, messageID, newText, time.Now().UTC())
	if err != nil {
		return nil, notFoundOr(err)
	}

	truncated, err := s.store.DeleteAfter(ctx, conversationID, target.Seq)
	if err != nil {
		return nil, err
	}
	metrics.EditsTotal.Inc()
	metrics.MessagesTruncated.Add(float64(truncated))
	s.publishEvent(ctx, conversationID, model.EventTypeConversationEdited, "", map[string]any{
		"message_id": messageID,
		"truncated":  truncated,
	})

	resp := &model.EditMessageResponse{UpdatedMessage: updated}

	botMsg, genErr := s.generateReply(ctx, conversationID, prefix, updated)
	if genErr == nil {
		resp.NewResponse = botMsg.Text
	}

	messages, err := s.store.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	resp.Messages = messages

	if genErr != nil {
		return resp, genErr
	}
	return resp, nil
}

// History returns all messages of a conversation in order.
func (s *ChatService) History(ctx context.Context, conversationID string) (*model.HistoryResponse, error) {
	if err := validateConversationID(conversationID); err != nil {
		return nil, err
	}

	messages, err := s.store.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return &model.HistoryResponse{
		ConversationID: conversationID,
		Messages:       messages,
		Count:          len(messages),
	}, nil
}

// ListConversations returns all known conversations, newest-first.
func (s *ChatService) ListConversations(ctx context.Context) (*model.ListConversationsResponse, error) {
	summaries, err := s.store.ListConversations(ctx)
	if err != nil {
		return nil, err
	}
	return &model.ListConversationsResponse{Conversations: summaries}, nil
}

// DeleteConversation removes a conversation and all its messages. Deleting a
// conversation that does not exist is a successful no-op.
func (s *ChatService) DeleteConversation(ctx context.Context, conversationID string) error {
	if err := validateConversationID(conversationID); err != nil {
		return err
	}

	s.locks.acquire(conversationID)
	defer s.locks.release(conversationID)

	deleted, err := s.store.DeleteConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if deleted > 0 {
		metrics.ConversationsDeleted.Inc()
		s.publishEvent(ctx, conversationID, model.EventTypeConversationDeleted, "", map[string]any{
			"deleted": deleted,
		})
	}
	return nil
}

// generateReply invokes the responder with the prior history plus the
// triggering user message and persists the reply.
func (s *ChatService) generateReply(ctx context.Context, conversationID string, history []model.Message, userMsg *model.Message) (*model.Message, error) {
	system, err := s.contextBuilder.ResponderContext(ctx)
	if err != nil {
		return nil, err
	}

	chatMessages := make([]llm.ChatMessage, 0, len(history)+1)
	for _, msg := range history {
		chatMessages = append(chatMessages, llm.ChatMessage{
			Role:    llmRole(msg.Role),
			Content: msg.Text,
		})
	}
	chatMessages = append(chatMessages, llm.ChatMessage{
		Role:    llmRole(model.RoleUser),
		Content: userMsg.Text,
	})

	llmCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	completion, err := s.llmClient.Complete(llmCtx, &llm.CompletionRequest{
		Model:     s.opts.Model,
		System:    system,
		Messages:  chatMessages,
		MaxTokens: s.opts.MaxTokens,
	})
	if err != nil {
		metrics.RecordLLMRequest(s.opts.Model, "error", time.Since(start).Seconds(), 0, 0)
		s.logger.Warn("responder call failed",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		s.publishEvent(ctx, conversationID, model.EventTypeResponderFailed, err.Error(), nil)
		return nil, fmt.Errorf("%w: %s", ErrUpstream, err)
	}
	metrics.RecordLLMRequest(completion.Model, "success",
		time.Since(start).Seconds(), completion.TokensIn, completion.TokensOut)

	latency := completion.LatencyMs
	botMsg := &model.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		Role:           model.RoleBot,
		Text:           completion.Content,
		InReplyTo:      userMsg.ID,
		Seq:            userMsg.Seq + 1,
		Model:          &completion.Model,
		TokensIn:       &completion.TokensIn,
		TokensOut:      &completion.TokensOut,
		LatencyMs:      &latency,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, botMsg); err != nil {
		return nil, err
	}
	metrics.MessagesTotal.WithLabelValues(string(model.RoleBot)).Inc()
	s.publishEvent(ctx, conversationID, model.EventTypeMessageCreated, "", map[string]any{
		"message_id":  botMsg.ID,
		"in_reply_to": userMsg.ID,
		"role":        string(model.RoleBot),
	})

	return botMsg, nil
}

func (s *ChatService) publishEvent(ctx context.Context, conversationID string, eventType model.EventType, reason string, metadata map[string]any) {
	s.publisher.Publish(ctx, &model.ConversationEvent{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		Type:           eventType,
		Reason:         reason,
		Metadata:       metadata,
		CreatedAt:      time.Now().UTC(),
	})
}

// llmRole maps the stored role onto the provider wire role.
func llmRole(role model.Role) string {
	if role == model.RoleBot {
		return "assistant"
	}
	return "user"
}

// notFoundOr converts a store-level not-found into the service sentinel;
// anything else is a store failure and passes through.
func notFoundOr(err error) error {
	if errors.Is(err, store.ErrMessageNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, err)
	}
	return err
}
