// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sweetnothings-bakery/super-receptionist/internal/middleware"
	"github.com/sweetnothings-bakery/super-receptionist/internal/model"
	"github.com/sweetnothings-bakery/super-receptionist/internal/service"
	"github.com/sweetnothings-bakery/super-receptionist/pkg/logger"
)

// ChatHandler handles chat endpoints.
type ChatHandler struct {
	service *service.ChatService
	logger  *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(svc *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: svc,
		logger:  log,
	}
}

// Send handles POST /api/v1/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Send(r.Context(), req.ConversationID, req.Message)
	if errors.Is(err, service.ErrUpstream) {
		// The user message is committed; hand back the conversation id so
		// the client can retry into the same conversation.
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":           "ai responder unavailable",
			"conversation_id": resp.ConversationID,
		})
		return
	}
	if err != nil {
		h.logger.Error("failed to send message", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Edit handles POST /api/v1/chat/messages/{messageID}/edit
func (h *ChatHandler) Edit(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")
	if err := middleware.ValidateMessageID(messageID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.EditMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Edit(r.Context(), messageID, req.Message, req.ConversationID)
	if errors.Is(err, service.ErrUpstream) {
		// The edit and truncation are committed even though no reply was
		// generated; return the surviving history with the error.
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":    "ai responder unavailable",
			"messages": resp.Messages,
		})
		return
	}
	if err != nil {
		if !errors.Is(err, service.ErrValidation) && !errors.Is(err, service.ErrNotFound) {
			h.logger.Error("failed to edit message", zap.Error(err))
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// History handles GET /api/v1/chat/history/{conversationID}
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.History(r.Context(), conversationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListConversations handles GET /api/v1/chat/conversations
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListConversations(r.Context())
	if err != nil {
		h.logger.Error("failed to list conversations", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// DeleteConversation handles DELETE /api/v1/chat/history/{conversationID}
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.DeleteConversation(r.Context(), conversationID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
