package chat

import (
	"jan-server/services/chat-router/internal/domain/conversation"
)

// RouterAgent is the agent name recorded for the routing decision.
const RouterAgent = "Router"

// UnknownAgent is recorded when a failure happens before any agent acted.
const UnknownAgent = "Unknown"

// Workflow records the ordered audit trail of one request: the routing
// decision first, then the outcome or the error.
type Workflow struct {
	steps []conversation.WorkflowStep
}

// Decide records the routing decision.
func (w *Workflow) Decide(agent string, category Category) {
	w.steps = append(w.steps, conversation.WorkflowStep{Agent: agent, Decision: string(category)})
}

// Complete records that agent produced the answer.
func (w *Workflow) Complete(agent string) {
	w.steps = append(w.steps, conversation.WorkflowStep{Agent: agent})
}

// Fail records err against the last agent that acted.
func (w *Workflow) Fail(err error) {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	w.steps = append(w.steps, conversation.WorkflowStep{Agent: w.LastAgent(), Error: msg})
}

// LastAgent returns the agent of the most recent step, or UnknownAgent.
func (w *Workflow) LastAgent() string {
	if len(w.steps) == 0 {
		return UnknownAgent
	}
	return w.steps[len(w.steps)-1].Agent
}

// Steps returns a copy of the recorded trail. It is never nil.
func (w *Workflow) Steps() []conversation.WorkflowStep {
	out := make([]conversation.WorkflowStep, len(w.steps))
	copy(out, w.steps)
	return out
}
