// Package chatres contains HTTP response DTOs for the chat endpoints.
package chatres

import (
	"jan-server/services/chat-router/internal/domain/conversation"
)

// ConversationResponse is one conversation of a user.
type ConversationResponse struct {
	ConversationID string              `json:"conversation_id"`
	Label          string              `json:"label,omitempty"`
	Messages       []conversation.Turn `json:"messages"`
}

// ListConversationsResponse is the body of GET /chat/conversations.
type ListConversationsResponse struct {
	ID            string                 `json:"id"`
	Conversations []ConversationResponse `json:"conversations"`
}

// DeleteConversationResponse is the body of DELETE /chat/conversations.
type DeleteConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	Deleted        bool   `json:"deleted"`
}

// LabelsResponse is the body of GET /chat/labels.
type LabelsResponse struct {
	Labels map[string]string `json:"labels"`
}

// StatusResponse acknowledges a write.
type StatusResponse struct {
	Status string `json:"status"`
}

func NewConversationResponse(conv conversation.Conversation) ConversationResponse {
	messages := conv.Turns
	if messages == nil {
		messages = []conversation.Turn{}
	}
	return ConversationResponse{
		ConversationID: conv.ConversationID,
		Label:          conv.Label,
		Messages:       messages,
	}
}

func NewConversationResponseFromTurns(conversationID string, turns []conversation.Turn) ConversationResponse {
	return NewConversationResponse(conversation.Conversation{ConversationID: conversationID, Turns: turns})
}

func NewListConversationsResponse(userID string, convs []conversation.Conversation) ListConversationsResponse {
	out := make([]ConversationResponse, len(convs))
	for i, conv := range convs {
		out[i] = NewConversationResponse(conv)
	}
	return ListConversationsResponse{ID: userID, Conversations: out}
}

func NewDeleteConversationResponse(conversationID string) DeleteConversationResponse {
	return DeleteConversationResponse{ConversationID: conversationID, Deleted: true}
}

func NewLabelsResponse(labels map[string]string) LabelsResponse {
	if labels == nil {
		labels = map[string]string{}
	}
	return LabelsResponse{Labels: labels}
}

func NewStatusOK() StatusResponse {
	return StatusResponse{Status: "ok"}
}
