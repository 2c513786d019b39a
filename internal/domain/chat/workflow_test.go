package chat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"jan-server/services/chat-router/internal/domain/conversation"
)

func TestWorkflowSuccessShape(t *testing.T) {
	var w Workflow
	w.Decide(RouterAgent, CategoryMath)
	w.Complete(string(CategoryMath))

	assert.Equal(t, []conversation.WorkflowStep{
		{Agent: "Router", Decision: "Math"},
		{Agent: "Math"},
	}, w.Steps())
}

func TestWorkflowFailUsesLastAgent(t *testing.T) {
	var w Workflow
	w.Decide(RouterAgent, CategoryKnowledge)
	w.Fail(errors.New("boom"))

	steps := w.Steps()
	assert.Len(t, steps, 2)
	assert.Equal(t, "Knowledge", steps[0].Decision)
	assert.Equal(t, conversation.WorkflowStep{Agent: RouterAgent, Error: "boom"}, steps[1])
}

func TestWorkflowFailWithoutSteps(t *testing.T) {
	var w Workflow
	w.Fail(errors.New(""))

	steps := w.Steps()
	assert.Equal(t, UnknownAgent, steps[0].Agent)
	assert.Equal(t, "unknown error", steps[0].Error)
}

func TestWorkflowStepsIsCopy(t *testing.T) {
	var w Workflow
	assert.NotNil(t, w.Steps())

	w.Decide(RouterAgent, CategoryMath)
	steps := w.Steps()
	steps[0].Agent = "mutated"
	assert.Equal(t, RouterAgent, w.LastAgent())
}
