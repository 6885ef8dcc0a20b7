package handler

import (
	"net/http"
	"time"

	"casefile/internal/domain/models"
	"casefile/internal/domain/services"
	"casefile/internal/httputil"
)

// ChatHandler handles chat and message HTTP requests
type ChatHandler struct {
	conversations services.ConversationService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(conversations services.ConversationService) *ChatHandler {
	return &ChatHandler{conversations: conversations}
}

// CreateChat starts a new chat session
// POST /api/chats
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req services.CreateChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)

	chat, err := h.conversations.CreateChat(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, chat)
}

// ListChats returns the caller's chats, newest first
// GET /api/chats
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.conversations.ListChats(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chats)
}

// GetChat returns a chat the caller may see
// GET /api/chats/{id}
// Private chats are visible to their owner only; non-owners get 404 so
// the chat's existence is not leaked.
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.visibleChat(w, r)
	if !ok {
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chat)
}

// updateVisibilityRequest switches a chat between private and public
type updateVisibilityRequest struct {
	Visibility models.ChatVisibility `json:"visibility"`
}

// UpdateVisibility changes who can read the chat
// PATCH /api/chats/{id}/visibility
func (h *ChatHandler) UpdateVisibility(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.ownedChat(w, r)
	if !ok {
		return
	}

	var req updateVisibilityRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.conversations.UpdateVisibility(r.Context(), chat.ID, req.Visibility); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteChat removes a chat and its history
// DELETE /api/chats/{id}
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.ownedChat(w, r)
	if !ok {
		return
	}

	if err := h.conversations.DeleteChat(r.Context(), chat.ID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SaveMessages appends messages to the chat history
// POST /api/chats/{id}/messages
func (h *ChatHandler) SaveMessages(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.ownedChat(w, r)
	if !ok {
		return
	}

	var messages []models.Message
	if err := httputil.ParseJSON(w, r, &messages); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for i := range messages {
		messages[i].ChatID = chat.ID
	}

	if err := h.conversations.SaveMessages(r.Context(), messages); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, messages)
}

// GetMessages returns the chat's messages in conversation order
// GET /api/chats/{id}/messages
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.visibleChat(w, r)
	if !ok {
		return
	}

	messages, err := h.conversations.GetMessages(r.Context(), chat.ID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messages)
}

// truncateChatRequest names the rollback point: either a timestamp or a
// message id whose created_at becomes the (inclusive) boundary.
type truncateChatRequest struct {
	Since     time.Time `json:"since,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
}

// TruncateMessages deletes messages at or after the boundary, the
// regenerate-from-here operation
// POST /api/chats/{id}/truncate
func (h *ChatHandler) TruncateMessages(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.ownedChat(w, r)
	if !ok {
		return
	}

	var req truncateChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	since := req.Since
	if req.MessageID != "" {
		msg, err := h.conversations.GetMessage(r.Context(), req.MessageID)
		if err != nil {
			handleError(w, err)
			return
		}
		if msg.ChatID != chat.ID {
			httputil.RespondError(w, http.StatusBadRequest, "message does not belong to this chat")
			return
		}
		since = msg.CreatedAt
	}
	if since.IsZero() {
		httputil.RespondError(w, http.StatusBadRequest, "since timestamp or message_id is required")
		return
	}

	if err := h.conversations.TruncateAfter(r.Context(), chat.ID, since); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// voteRequest records a thumbs up or down on a message
type voteRequest struct {
	MessageID string `json:"message_id"`
	IsUpvoted bool   `json:"is_upvoted"`
}

// VoteMessage upserts the caller's vote on a message
// PATCH /api/chats/{id}/votes
func (h *ChatHandler) VoteMessage(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.visibleChat(w, r)
	if !ok {
		return
	}

	var req voteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.conversations.VoteMessage(r.Context(), &services.VoteRequest{
		ChatID:    chat.ID,
		MessageID: req.MessageID,
		IsUpvoted: req.IsUpvoted,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetVotes returns all votes of the chat
// GET /api/chats/{id}/votes
func (h *ChatHandler) GetVotes(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.visibleChat(w, r)
	if !ok {
		return
	}

	votes, err := h.conversations.GetVotes(r.Context(), chat.ID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, votes)
}

// ownedChat loads the chat and requires the caller to be its owner.
// Writes the error response itself and reports whether to continue.
func (h *ChatHandler) ownedChat(w http.ResponseWriter, r *http.Request) (*models.Chat, bool) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "chat ID is required")
		return nil, false
	}

	chat, err := h.conversations.GetChat(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return nil, false
	}
	if chat.UserID != httputil.GetUserID(r) {
		httputil.RespondError(w, http.StatusNotFound, "chat not found")
		return nil, false
	}
	return chat, true
}

// visibleChat loads the chat and requires the caller to be the owner or
// the chat to be public.
func (h *ChatHandler) visibleChat(w http.ResponseWriter, r *http.Request) (*models.Chat, bool) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "chat ID is required")
		return nil, false
	}

	chat, err := h.conversations.GetChat(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return nil, false
	}
	if chat.Visibility != models.VisibilityPublic && chat.UserID != httputil.GetUserID(r) {
		httputil.RespondError(w, http.StatusNotFound, "chat not found")
		return nil, false
	}
	return chat, true
}
