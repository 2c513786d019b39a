package conversation

import (
	"encoding/json"
	"fmt"
	"time"
)

// turnRecord is the flat wire shape of a Turn. User turns carry the
// message/conversation_id/user_id fields, agent turns carry the
// response/source_agent_response/agent_workflow fields.
type turnRecord struct {
	ID        string     `json:"id,omitempty"`
	Sender    Sender     `json:"sender,omitempty"`
	Agent     string     `json:"agent,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`

	Message        *string `json:"message,omitempty"`
	ConversationID string  `json:"conversation_id,omitempty"`
	UserID         string  `json:"user_id,omitempty"`

	Response            *string         `json:"response,omitempty"`
	SourceAgentResponse *string         `json:"source_agent_response,omitempty"`
	AgentWorkflow       *[]WorkflowStep `json:"agent_workflow,omitempty"`
}

// MarshalJSON flattens the turn payload next to its envelope fields.
func (t Turn) MarshalJSON() ([]byte, error) {
	rec := turnRecord{
		ID:     t.ID,
		Sender: t.Sender,
		Agent:  t.Agent,
	}
	if !t.CreatedAt.IsZero() {
		createdAt := t.CreatedAt.UTC()
		rec.CreatedAt = &createdAt
	}

	switch {
	case t.User != nil:
		rec.Message = &t.User.Message
		rec.ConversationID = t.User.ConversationID
		rec.UserID = t.User.UserID
	case t.Reply != nil:
		workflow := t.Reply.AgentWorkflow
		if workflow == nil {
			workflow = []WorkflowStep{}
		}
		rec.Response = &t.Reply.Response
		rec.SourceAgentResponse = &t.Reply.SourceAgentResponse
		rec.AgentWorkflow = &workflow
	default:
		return nil, fmt.Errorf("turn %q has no payload", t.ID)
	}

	return json.Marshal(rec)
}

// UnmarshalJSON accepts both enveloped turns and bare payloads without
// id/sender, which are classified by the fields they carry.
func (t *Turn) UnmarshalJSON(data []byte) error {
	var rec turnRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	sender := rec.Sender
	if sender == "" {
		if rec.Response != nil {
			sender = SenderAgent
		} else {
			sender = SenderUser
		}
	}

	*t = Turn{
		ID:     rec.ID,
		Sender: sender,
		Agent:  rec.Agent,
	}
	if rec.CreatedAt != nil {
		t.CreatedAt = *rec.CreatedAt
	}

	switch sender {
	case SenderUser:
		msg := &UserMessage{ConversationID: rec.ConversationID, UserID: rec.UserID}
		if rec.Message != nil {
			msg.Message = *rec.Message
		}
		t.User = msg
	case SenderAgent:
		reply := &AgentResponse{AgentWorkflow: []WorkflowStep{}}
		if rec.Response != nil {
			reply.Response = *rec.Response
		}
		if rec.SourceAgentResponse != nil {
			reply.SourceAgentResponse = *rec.SourceAgentResponse
		}
		if rec.AgentWorkflow != nil {
			reply.AgentWorkflow = *rec.AgentWorkflow
		}
		t.Reply = reply
	default:
		return fmt.Errorf("unknown turn sender %q", sender)
	}

	return nil
}
