package handlers

import (
	"context"

	"jan-server/services/chat-router/internal/domain/chat"
	"jan-server/services/chat-router/internal/domain/conversation"
)

// ChatHandler handles inbound chat turns.
type ChatHandler struct {
	service chat.Service
}

func NewChatHandler(service chat.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

// SendMessage routes one turn and returns the consolidated response.
func (h *ChatHandler) SendMessage(ctx context.Context, payload chat.InboundPayload) (*conversation.AgentResponse, error) {
	return h.service.HandleMessage(ctx, payload)
}
