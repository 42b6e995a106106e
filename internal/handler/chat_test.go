package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetnothings-bakery/super-receptionist/internal/events"
	"github.com/sweetnothings-bakery/super-receptionist/internal/llm"
	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
	"github.com/sweetnothings-bakery/super-receptionist/internal/service"
	"github.com/sweetnothings-bakery/super-receptionist/internal/store"
	"github.com/sweetnothings-bakery/super-receptionist/pkg/logger"
)

type memoryMessageStore struct {
	messages map[string]*model.Message
}

func newMemoryMessageStore() *memoryMessageStore {
	return &memoryMessageStore{messages: make(map[string]*model.Message)}
}

func (s *memoryMessageStore) Insert(_ context.Context, msg *model.Message) error {
	copied := *msg
	s.messages[msg.ID] = &copied
	return nil
}

func (s *memoryMessageStore) FindByID(_ context.Context, id string) (*model.Message, error) {
	msg, ok := s.messages[id]
	if !ok {
		return nil, store.ErrMessageNotFound
	}
	copied := *msg
	return &copied, nil
}

func (s *memoryMessageStore) ListByConversation(_ context.Context, conversationID string) ([]model.Message, error) {
	var out []model.Message
	for _, msg := range s.messages {
		if msg.ConversationID == conversationID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (s *memoryMessageStore) UpdateText(_ context.Context, id, text string, at time.Time) (*model.Message, error) {
	msg, ok := s.messages[id]
	if !ok {
		return nil, store.ErrMessageNotFound
	}
	msg.Text = text
	msg.CreatedAt = at
	copied := *msg
	return &copied, nil
}

func (s *memoryMessageStore) DeleteAfter(_ context.Context, conversationID string, after int64) (int64, error) {
	var deleted int64
	for id, msg := range s.messages {
		if msg.ConversationID == conversationID && msg.Seq > after {
			delete(s.messages, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *memoryMessageStore) DeleteConversation(_ context.Context, conversationID string) (int64, error) {
	var deleted int64
	for id, msg := range s.messages {
		if msg.ConversationID == conversationID {
			delete(s.messages, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *memoryMessageStore) ListConversations(_ context.Context) ([]model.ConversationSummary, error) {
	byConv := make(map[string]*model.ConversationSummary)
	for _, msg := range s.messages {
		summary, ok := byConv[msg.ConversationID]
		if !ok {
			summary = &model.ConversationSummary{ConversationID: msg.ConversationID}
			byConv[msg.ConversationID] = summary
		}
		summary.MessageCount++
		if msg.CreatedAt.After(summary.LastMessageAt) {
			summary.LastMessageAt = msg.CreatedAt
		}
	}
	var out []model.ConversationSummary
	for _, summary := range byConv {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	return out, nil
}

type scriptedLLM struct {
	reply string
	err   error
}

func (f *scriptedLLM) Complete(context.Context, *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.reply, Model: "test-model"}, nil
}

func (f *scriptedLLM) Name() string     { return "fake" }
func (f *scriptedLLM) Models() []string { return []string{"test-model"} }

type fixedContext struct{}

func (fixedContext) ResponderContext(context.Context) (string, error) {
	return "system context", nil
}

func newChatTestServer(client *scriptedLLM) (*httptest.Server, *memoryMessageStore) {
	msgStore := newMemoryMessageStore()
	svc := service.NewChatService(msgStore, fixedContext{}, client,
		events.NoopPublisher{}, logger.NewNop(), service.ChatOptions{
			Model:     "test-model",
			MaxTokens: 256,
			Timeout:   time.Second,
		})
	h := NewChatHandler(svc, logger.NewNop())

	r := chi.NewRouter()
	r.Post("/api/v1/chat", h.Send)
	r.Post("/api/v1/chat/messages/{messageID}/edit", h.Edit)
	r.Get("/api/v1/chat/conversations", h.ListConversations)
	r.Get("/api/v1/chat/history/{conversationID}", h.History)
	r.Delete("/api/v1/chat/history/{conversationID}", h.DeleteConversation)

	return httptest.NewServer(r), msgStore
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestChatSendEndpoint(t *testing.T) {
	srv, _ := newChatTestServer(&scriptedLLM{reply: "We have chocolate and vanilla."})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/v1/chat", model.SendMessageRequest{
		Message:        "What cakes do you have?",
		ConversationID: "c1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON[model.SendMessageResponse](t, resp)
	assert.Equal(t, "c1", body.ConversationID)
	assert.Equal(t, "We have chocolate and vanilla.", body.Response)
	require.NotNil(t, body.UserMessage)
	require.NotNil(t, body.BotMessage)
	assert.Equal(t, body.UserMessage.ID, body.BotMessage.InReplyTo)
}

func TestChatSendRejectsBadInput(t *testing.T) {
	srv, _ := newChatTestServer(&scriptedLLM{})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/v1/chat", model.SendMessageRequest{Message: ""})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/v1/chat", model.SendMessageRequest{
		Message:        "hi",
		ConversationID: "bad id!",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatSendUpstreamFailure(t *testing.T) {
	srv, _ := newChatTestServer(&scriptedLLM{err: errors.New("quota exceeded")})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/v1/chat", model.SendMessageRequest{
		Message:        "hello",
		ConversationID: "c1",
	})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	body := decodeJSON[map[string]string](t, resp)
	assert.Equal(t, "c1", body["conversation_id"])
	assert.NotEmpty(t, body["error"])
}

func TestChatEditEndpoint(t *testing.T) {
	client := &scriptedLLM{reply: "We have chocolate and vanilla."}
	srv, _ := newChatTestServer(client)
	defer srv.Close()

	sendResp := postJSON(t, srv.URL+"/api/v1/chat", model.SendMessageRequest{
		Message:        "What cakes do you have?",
		ConversationID: "c1",
	})
	require.Equal(t, http.StatusOK, sendResp.StatusCode)
	sent := decodeJSON[model.SendMessageResponse](t, sendResp)

	client.reply = "$20-$50."
	editResp := postJSON(t, srv.URL+"/api/v1/chat/messages/"+sent.UserMessage.ID+"/edit",
		model.EditMessageRequest{Message: "What's your price range?", ConversationID: "c1"})
	require.Equal(t, http.StatusOK, editResp.StatusCode)

	body := decodeJSON[model.EditMessageResponse](t, editResp)
	assert.Equal(t, "$20-$50.", body.NewResponse)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "What's your price range?", body.Messages[0].Text)
	assert.Equal(t, "$20-$50.", body.Messages[1].Text)
}

func TestChatEditUnknownMessage(t *testing.T) {
	srv, _ := newChatTestServer(&scriptedLLM{})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/v1/chat/messages/0190c558-9d4a-7cc5-b9b6-8d72b0a3e001/edit",
		model.EditMessageRequest{Message: "text", ConversationID: "c1"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	malformed := postJSON(t, srv.URL+"/api/v1/chat/messages/not-a-uuid/edit",
		model.EditMessageRequest{Message: "text", ConversationID: "c1"})
	defer malformed.Body.Close()
	assert.Equal(t, http.StatusBadRequest, malformed.StatusCode)
}

func TestChatHistoryAndDeleteEndpoints(t *testing.T) {
	srv, _ := newChatTestServer(&scriptedLLM{reply: "hi there"})
	defer srv.Close()

	sendResp := postJSON(t, srv.URL+"/api/v1/chat", model.SendMessageRequest{
		Message:        "hello",
		ConversationID: "c1",
	})
	require.Equal(t, http.StatusOK, sendResp.StatusCode)
	sendResp.Body.Close()

	histResp, err := http.Get(srv.URL + "/api/v1/chat/history/c1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, histResp.StatusCode)
	history := decodeJSON[model.HistoryResponse](t, histResp)
	assert.Equal(t, 2, history.Count)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/chat/history/c1", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	histResp, err = http.Get(srv.URL + "/api/v1/chat/history/c1")
	require.NoError(t, err)
	history = decodeJSON[model.HistoryResponse](t, histResp)
	assert.Equal(t, 0, history.Count)
}

func TestChatListConversationsEndpoint(t *testing.T) {
	srv, _ := newChatTestServer(&scriptedLLM{})
	defer srv.Close()

	for _, id := range []string{"older", "newer"} {
		resp := postJSON(t, srv.URL+"/api/v1/chat", model.SendMessageRequest{
			Message:        "hello",
			ConversationID: id,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/api/v1/chat/conversations")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON[model.ListConversationsResponse](t, resp)
	require.Len(t, body.Conversations, 2)
	assert.Equal(t, "newer", body.Conversations[0].ConversationID)
}
