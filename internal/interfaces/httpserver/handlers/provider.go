package handlers

import (
	"github.com/google/wire"

	"jan-server/services/chat-router/internal/domain/chat"
	"jan-server/services/chat-router/internal/domain/conversation"
)

// Provider holds all HTTP handlers.
type Provider struct {
	Chat          *ChatHandler
	Conversations *ConversationHandler
}

func NewProvider(chatService chat.Service, conversationService conversation.Service) *Provider {
	return &Provider{
		Chat:          NewChatHandler(chatService),
		Conversations: NewConversationHandler(conversationService),
	}
}

// HandlerProvider provides all handlers for wire.
var HandlerProvider = wire.NewSet(
	NewProvider,
)
