package conversation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnJSONUserRoundTrip(t *testing.T) {
	payload := UserMessage{Message: "2+2", ConversationID: "c1", UserID: "u1"}
	turn := Turn{
		ID:        "user_abc",
		Sender:    SenderUser,
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		User:      &payload,
	}

	data, err := json.Marshal(turn)
	require.NoError(t, err)

	var decoded Turn
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.User)
	assert.Equal(t, payload, *decoded.User)
	assert.Nil(t, decoded.Reply)
	assert.Equal(t, turn.CreatedAt, decoded.CreatedAt)
	assert.Equal(t, "2+2", decoded.Text())
}

func TestTurnJSONAgentShape(t *testing.T) {
	turn := Turn{
		ID:     "agent_abc",
		Sender: SenderAgent,
		Agent:  "Math",
		Reply: &AgentResponse{
			Response:            "A resposta é: 4 Fácil! 😎",
			SourceAgentResponse: "4",
			AgentWorkflow: []WorkflowStep{
				{Agent: "Router", Decision: "Math"},
				{Agent: "Math"},
			},
		},
	}

	data, err := json.Marshal(turn)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "4", raw["source_agent_response"])
	assert.NotContains(t, raw, "message")
	assert.Len(t, raw["agent_workflow"], 2)
}

func TestTurnJSONEmptyWorkflowIsArray(t *testing.T) {
	turn := Turn{ID: "agent_x", Sender: SenderAgent, Reply: &AgentResponse{Response: "Olá!", SourceAgentResponse: "Olá!"}}

	data, err := json.Marshal(turn)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"agent_workflow":[]`)
}

func TestTurnJSONBarePayloads(t *testing.T) {
	var user Turn
	require.NoError(t, json.Unmarshal([]byte(`{"message":"oi","conversation_id":"c","user_id":"u"}`), &user))
	assert.Equal(t, SenderUser, user.Sender)
	assert.Equal(t, "oi", user.Text())

	var bot Turn
	require.NoError(t, json.Unmarshal([]byte(`{"response":"olá","source_agent_response":"olá","agent_workflow":[]}`), &bot))
	assert.Equal(t, SenderAgent, bot.Sender)
	require.NotNil(t, bot.Reply)
	assert.Equal(t, "olá", bot.Reply.SourceAgentResponse)
	assert.Empty(t, bot.Reply.AgentWorkflow)
}

func TestTurnJSONWithoutPayload(t *testing.T) {
	_, err := json.Marshal(Turn{ID: "x", Sender: SenderUser})
	assert.Error(t, err)
}
