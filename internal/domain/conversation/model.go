package conversation

import (
	"time"
)

// DefaultHistoryLimit is the number of turns kept per (conversation, user) key.
const DefaultHistoryLimit = 50

// Sender identifies who produced a turn.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// WorkflowStep is one entry of the audit trail attached to an agent response.
type WorkflowStep struct {
	Agent    string `json:"agent"`
	Decision string `json:"decision,omitempty"`
	Error    string `json:"error,omitempty"`
}

// AgentResponse is the consolidated answer returned to the caller and
// persisted as the bot-side turn.
type AgentResponse struct {
	Response            string         `json:"response"`
	SourceAgentResponse string         `json:"source_agent_response"`
	AgentWorkflow       []WorkflowStep `json:"agent_workflow"`
}

// UserMessage is the user-side payload persisted for a turn.
type UserMessage struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
}

// Turn is one immutable entry of a conversation history. Exactly one of
// User or Agent is set, matching Sender.
type Turn struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Agent     string    `json:"agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	User  *UserMessage   `json:"-"`
	Reply *AgentResponse `json:"-"`
}

// Text returns the user-visible text of the turn.
func (t Turn) Text() string {
	switch {
	case t.User != nil:
		return t.User.Message
	case t.Reply != nil:
		return t.Reply.Response
	default:
		return ""
	}
}

// Conversation is the ordered history of one (conversation, user) key.
type Conversation struct {
	ConversationID string `json:"conversation_id"`
	Label          string `json:"label,omitempty"`
	Turns          []Turn `json:"messages"`
}
