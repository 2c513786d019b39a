package handlers

import (
	"context"

	"jan-server/services/chat-router/internal/domain/conversation"
)

// ConversationHandler handles history, listing, deletion and labels.
type ConversationHandler struct {
	service conversation.Service
}

func NewConversationHandler(service conversation.Service) *ConversationHandler {
	return &ConversationHandler{service: service}
}

func (h *ConversationHandler) ListConversations(ctx context.Context, userID string) ([]conversation.Conversation, error) {
	return h.service.ListConversations(ctx, userID)
}

func (h *ConversationHandler) History(ctx context.Context, conversationID, userID string) ([]conversation.Turn, error) {
	return h.service.History(ctx, conversationID, userID)
}

func (h *ConversationHandler) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	return h.service.DeleteConversation(ctx, userID, conversationID)
}

func (h *ConversationHandler) SetLabel(ctx context.Context, userID, conversationID, label string) error {
	return h.service.SetLabel(ctx, userID, conversationID, label)
}

func (h *ConversationHandler) GetLabels(ctx context.Context, userID string) (map[string]string, error) {
	return h.service.GetLabels(ctx, userID)
}
