package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rsharan/bankbot/internal/dialogue"
	"github.com/rsharan/bankbot/internal/identity"
)

const maxMessageBytes = 4 << 10

// ChatHandler handles the single-turn chat endpoint.
type ChatHandler struct {
	*Handler
	engine *dialogue.Engine
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(base *Handler, engine *dialogue.Engine) *ChatHandler {
	return &ChatHandler{Handler: base, engine: engine}
}

// RegisterRoutes registers chat routes.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", h.Chat)
}

// ChatRequest is the request body for POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
	// SelectedAccount lets the frontend pre-bind the account picker, so
	// "check balance" skips the account prompt.
	SelectedAccount string `json:"selected_account,omitempty"`
}

// ChatResponse is the reply for POST /api/chat.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// Chat runs one dialogue turn for the caller's session.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ChatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxMessageBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionKey := identity.DialogueKey(r.Context())
	reply := h.engine.HandleTurn(r.Context(), sessionKey, strings.TrimSpace(req.Message), req.SelectedAccount)

	JSON(w, http.StatusOK, ChatResponse{
		Response:  reply,
		SessionID: identity.SessionIDFromContext(r.Context()),
	})
}
