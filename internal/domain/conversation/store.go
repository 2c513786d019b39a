package conversation

import "context"

// Store persists bounded conversation histories, the per-user conversation
// index and the per-user label map.
type Store interface {
	// AppendTurn pushes the turn to the (conversationID, userID) history,
	// trims the history to its most recent entries and indexes
	// conversationID under userID.
	AppendTurn(ctx context.Context, conversationID, userID string, turn Turn) error
	// ReadHistory returns the stored history, oldest first.
	ReadHistory(ctx context.Context, conversationID, userID string) ([]Turn, error)
	// ListConversations reads the user's index and the history of every member.
	ListConversations(ctx context.Context, userID string) ([]Conversation, error)
	// DeleteConversation removes the index entry, the history and the label.
	DeleteConversation(ctx context.Context, userID, conversationID string) error
	SetLabel(ctx context.Context, userID, conversationID, label string) error
	GetLabels(ctx context.Context, userID string) (map[string]string, error)
}
