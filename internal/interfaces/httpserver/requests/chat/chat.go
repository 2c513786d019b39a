// Package chat contains HTTP request DTOs for the chat endpoints.
package chat

import (
	domainchat "jan-server/services/chat-router/internal/domain/chat"
)

// SendMessageRequest is the body of POST /chat.
type SendMessageRequest struct {
	Message           string `json:"message" binding:"required"`
	UserID            string `json:"user_id" binding:"required"`
	ConversationID    string `json:"conversation_id" binding:"required"`
	InitialBotMessage bool   `json:"initialBotMessage"`
}

// ToPayload converts the request to the router's inbound payload.
func (r SendMessageRequest) ToPayload() domainchat.InboundPayload {
	return domainchat.InboundPayload{
		Message:           r.Message,
		UserID:            r.UserID,
		ConversationID:    r.ConversationID,
		InitialBotMessage: r.InitialBotMessage,
	}
}

// UserQuery carries the user_id query parameter.
type UserQuery struct {
	UserID string `form:"user_id" binding:"required"`
}

// DeleteConversationRequest is the body of DELETE /chat/conversations.
type DeleteConversationRequest struct {
	UserID         string `json:"user_id" binding:"required"`
	ConversationID string `json:"conversation_id" binding:"required"`
}

// SetLabelRequest is the body of POST /chat/labels. An empty label is
// allowed and clears the visible title.
type SetLabelRequest struct {
	UserID         string `json:"user_id" binding:"required"`
	ConversationID string `json:"conversation_id" binding:"required"`
	Label          string `json:"label"`
}
