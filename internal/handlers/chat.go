package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"chikka-backend/internal/models"
)

// chatService is the slice of the chat core the handler depends on.
type chatService interface {
	Respond(ctx context.Context, req *models.ChatRequest) *models.ResponseEnvelope
	FallbackEnvelope() *models.ResponseEnvelope
}

type ChatHandler struct {
	chat chatService
}

func NewChatHandler(chat chatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Respond always answers 200 with an assistant-shaped envelope. Even a body
// that cannot be parsed gets a degraded reply instead of an HTTP error — the
// frontend never has to handle a failure status from this endpoint.
func (h *ChatHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, h.chat.FallbackEnvelope())
		return
	}

	writeJSON(w, http.StatusOK, h.chat.Respond(r.Context(), &req))
}
