package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-router/internal/domain/conversation"
	"jan-server/services/chat-router/internal/utils/platformerrors"
)

func newTestStore(t *testing.T, prefix string) (*RedisStore, *miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, prefix, conversation.DefaultHistoryLimit, zerolog.Nop()), mr, client
}

func userTurn(id, cid, uid, text string) conversation.Turn {
	return conversation.Turn{
		ID:        id,
		Sender:    conversation.SenderUser,
		CreatedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		User:      &conversation.UserMessage{Message: text, ConversationID: cid, UserID: uid},
	}
}

func botTurn(id, text string) conversation.Turn {
	return conversation.Turn{
		ID:        id,
		Sender:    conversation.SenderAgent,
		Agent:     "Math",
		CreatedAt: time.Date(2025, 1, 1, 12, 0, 1, 0, time.UTC),
		Reply: &conversation.AgentResponse{
			Response:            text,
			SourceAgentResponse: "4",
			AgentWorkflow: []conversation.WorkflowStep{
				{Agent: "Router", Decision: "Math"},
				{Agent: "Math"},
			},
		},
	}
}

func TestAppendAndReadHistory(t *testing.T) {
	s, mr, _ := newTestStore(t, "")
	ctx := context.Background()

	require.NoError(t, s.AppendTurn(ctx, "c1", "u1", userTurn("t1", "c1", "u1", "2+2")))
	require.NoError(t, s.AppendTurn(ctx, "c1", "u1", botTurn("t2", "A resposta é: 4")))

	history, err := s.ReadHistory(ctx, "c1", "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2+2", history[0].Text())
	assert.Equal(t, "A resposta é: 4", history[1].Text())
	assert.Equal(t, "Math", history[1].Reply.AgentWorkflow[0].Decision)

	assert.True(t, mr.Exists("conversation:c1:u1"))
	ok, err := mr.SIsMember("user_conversations:u1", "c1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadHistoryMissingKey(t *testing.T) {
	s, _, _ := newTestStore(t, "")

	history, err := s.ReadHistory(context.Background(), "nope", "u1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAppendTrimsToLimit(t *testing.T) {
	s, _, _ := newTestStore(t, "")
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		require.NoError(t, s.AppendTurn(ctx, "c1", "u1", userTurn(fmt.Sprintf("t%d", i), "c1", "u1", fmt.Sprintf("msg %d", i))))
	}

	history, err := s.ReadHistory(ctx, "c1", "u1")
	require.NoError(t, err)
	require.Len(t, history, conversation.DefaultHistoryLimit)
	assert.Equal(t, "msg 10", history[0].Text())
	assert.Equal(t, "msg 59", history[len(history)-1].Text())
}

func TestReadHistorySkipsUndecodableEntries(t *testing.T) {
	s, mr, _ := newTestStore(t, "")
	ctx := context.Background()

	require.NoError(t, s.AppendTurn(ctx, "c1", "u1", userTurn("t1", "c1", "u1", "oi")))
	_, err := mr.Push("conversation:c1:u1", "{not json")
	require.NoError(t, err)

	history, err := s.ReadHistory(ctx, "c1", "u1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestListDeleteAndLabels(t *testing.T) {
	s, mr, _ := newTestStore(t, "")
	ctx := context.Background()

	require.NoError(t, s.AppendTurn(ctx, "c2", "u1", userTurn("t1", "c2", "u1", "segunda")))
	require.NoError(t, s.AppendTurn(ctx, "c1", "u1", userTurn("t2", "c1", "u1", "primeira")))
	require.NoError(t, s.AppendTurn(ctx, "c9", "u2", userTurn("t3", "c9", "u2", "outro usuário")))
	require.NoError(t, s.SetLabel(ctx, "u1", "c1", "Pix"))

	convs, err := s.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "c1", convs[0].ConversationID)
	assert.Equal(t, "c2", convs[1].ConversationID)

	labels, err := s.GetLabels(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"c1": "Pix"}, labels)

	require.NoError(t, s.DeleteConversation(ctx, "u1", "c1"))

	convs, err = s.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "c2", convs[0].ConversationID)
	assert.False(t, mr.Exists("conversation:c1:u1"))

	labels, err = s.GetLabels(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, labels)

	// deleting twice is harmless
	require.NoError(t, s.DeleteConversation(ctx, "u1", "c1"))
}

func TestListConversationsKeepsMembersWithoutHistory(t *testing.T) {
	s, mr, _ := newTestStore(t, "")
	ctx := context.Background()

	require.NoError(t, s.AppendTurn(ctx, "c1", "u1", userTurn("t1", "c1", "u1", "oi")))
	_, err := mr.SetAdd("user_conversations:u1", "c0")
	require.NoError(t, err)

	convs, err := s.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "c0", convs[0].ConversationID)
	assert.NotNil(t, convs[0].Turns)
	assert.Empty(t, convs[0].Turns)
	assert.Equal(t, "c1", convs[1].ConversationID)
	assert.Len(t, convs[1].Turns, 1)
}

func TestListConversationsEmptyUser(t *testing.T) {
	s, _, _ := newTestStore(t, "")

	convs, err := s.ListConversations(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, convs)
}

func TestKeyPrefix(t *testing.T) {
	s, mr, _ := newTestStore(t, "staging:")
	ctx := context.Background()

	require.NoError(t, s.AppendTurn(ctx, "c1", "u1", userTurn("t1", "c1", "u1", "oi")))
	require.NoError(t, s.SetLabel(ctx, "u1", "c1", "x"))

	assert.True(t, mr.Exists("staging:conversation:c1:u1"))
	assert.True(t, mr.Exists("staging:user_conversations:u1"))
	assert.True(t, mr.Exists("staging:user_conversation_labels:u1"))
	assert.False(t, mr.Exists("conversation:c1:u1"))
}

func TestStoreErrorsAreDatabaseErrors(t *testing.T) {
	s, mr, _ := newTestStore(t, "")
	mr.Close()

	_, err := s.ReadHistory(context.Background(), "c1", "u1")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeDatabaseError))
}
