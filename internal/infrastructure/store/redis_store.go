package store

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"jan-server/services/chat-router/internal/domain/conversation"
	"jan-server/services/chat-router/internal/infrastructure/metrics"
	"jan-server/services/chat-router/internal/utils/platformerrors"
)

const (
	historyPrefix    = "conversation:"
	userIndexPrefix  = "user_conversations:"
	userLabelsPrefix = "user_conversation_labels:"
)

// RedisStore keeps conversation histories as capped Redis lists, a per-user
// set of conversation ids and a per-user hash of labels.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	limit  int64
	log    zerolog.Logger
}

var _ conversation.Store = (*RedisStore)(nil)

// NewRedisStore creates a store. keyPrefix is prepended to every key; limit
// falls back to conversation.DefaultHistoryLimit when not positive.
func NewRedisStore(client redis.UniversalClient, keyPrefix string, limit int, log zerolog.Logger) *RedisStore {
	if limit <= 0 {
		limit = conversation.DefaultHistoryLimit
	}
	return &RedisStore{
		client: client,
		prefix: keyPrefix,
		limit:  int64(limit),
		log:    log.With().Str("component", "conversation-store").Logger(),
	}
}

func (s *RedisStore) historyKey(conversationID, userID string) string {
	return s.prefix + historyPrefix + conversationID + ":" + userID
}

func (s *RedisStore) indexKey(userID string) string {
	return s.prefix + userIndexPrefix + userID
}

func (s *RedisStore) labelsKey(userID string) string {
	return s.prefix + userLabelsPrefix + userID
}

// AppendTurn pushes, trims and indexes in one pipeline. The commands run in
// order but not atomically; a crash between them leaves at worst an index
// entry without a history, which the reconciler removes.
func (s *RedisStore) AppendTurn(ctx context.Context, conversationID, userID string, turn conversation.Turn) (err error) {
	defer s.observe("append_turn", time.Now(), &err)

	payload, err := json.Marshal(turn)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to encode conversation turn", err)
	}

	key := s.historyKey(conversationID, userID)
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		pipe.LTrim(ctx, key, -s.limit, -1)
		pipe.SAdd(ctx, s.indexKey(userID), conversationID)
		return nil
	})
	if err != nil {
		return s.wrap(ctx, err, "failed to append conversation turn", conversationID, userID)
	}
	return nil
}

// ReadHistory returns the stored turns oldest first. A missing key yields an
// empty history; entries that no longer decode are skipped.
func (s *RedisStore) ReadHistory(ctx context.Context, conversationID, userID string) (turns []conversation.Turn, err error) {
	defer s.observe("read_history", time.Now(), &err)

	raw, err := s.client.LRange(ctx, s.historyKey(conversationID, userID), 0, -1).Result()
	if err != nil {
		return nil, s.wrap(ctx, err, "failed to read conversation history", conversationID, userID)
	}
	return s.decode(conversationID, raw), nil
}

// ListConversations reads every indexed conversation of userID, ordered by
// conversation id. An index member whose history is gone is listed with no
// turns until the reconciler removes it.
func (s *RedisStore) ListConversations(ctx context.Context, userID string) (out []conversation.Conversation, err error) {
	defer s.observe("list_conversations", time.Now(), &err)

	ids, err := s.client.SMembers(ctx, s.indexKey(userID)).Result()
	if err != nil {
		return nil, s.wrap(ctx, err, "failed to read conversation index", "", userID)
	}
	sort.Strings(ids)

	cmds := make([]*redis.StringSliceCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.LRange(ctx, s.historyKey(id, userID), 0, -1)
		}
		return nil
	})
	if err != nil && err != redis.Nil {
		return nil, s.wrap(ctx, err, "failed to read conversation histories", "", userID)
	}

	out = make([]conversation.Conversation, 0, len(ids))
	for i, id := range ids {
		raw, cmdErr := cmds[i].Result()
		if cmdErr != nil && cmdErr != redis.Nil {
			return nil, s.wrap(ctx, cmdErr, "failed to read conversation history", id, userID)
		}
		out = append(out, conversation.Conversation{
			ConversationID: id,
			Turns:          s.decode(id, raw),
		})
	}
	return out, nil
}

// DeleteConversation drops the index entry, the history and the label in a
// single MULTI/EXEC.
func (s *RedisStore) DeleteConversation(ctx context.Context, userID, conversationID string) (err error) {
	defer s.observe("delete_conversation", time.Now(), &err)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SRem(ctx, s.indexKey(userID), conversationID)
		pipe.Del(ctx, s.historyKey(conversationID, userID))
		pipe.HDel(ctx, s.labelsKey(userID), conversationID)
		return nil
	})
	if err != nil {
		return s.wrap(ctx, err, "failed to delete conversation", conversationID, userID)
	}
	return nil
}

func (s *RedisStore) SetLabel(ctx context.Context, userID, conversationID, label string) (err error) {
	defer s.observe("set_label", time.Now(), &err)

	if err = s.client.HSet(ctx, s.labelsKey(userID), conversationID, label).Err(); err != nil {
		return s.wrap(ctx, err, "failed to set conversation label", conversationID, userID)
	}
	return nil
}

func (s *RedisStore) GetLabels(ctx context.Context, userID string) (labels map[string]string, err error) {
	defer s.observe("get_labels", time.Now(), &err)

	labels, err = s.client.HGetAll(ctx, s.labelsKey(userID)).Result()
	if err != nil {
		return nil, s.wrap(ctx, err, "failed to read conversation labels", "", userID)
	}
	return labels, nil
}

func (s *RedisStore) decode(conversationID string, raw []string) []conversation.Turn {
	turns := make([]conversation.Turn, 0, len(raw))
	for i, item := range raw {
		var turn conversation.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			s.log.Warn().Err(err).
				Str("conversation_id", conversationID).
				Int("position", i).
				Msg("skipping undecodable conversation entry")
			continue
		}
		turns = append(turns, turn)
	}
	return turns
}

func (s *RedisStore) wrap(ctx context.Context, err error, message, conversationID, userID string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
		message, err, map[string]any{
			"conversation_id": conversationID,
			"user_id":         userID,
		})
}

func (s *RedisStore) observe(operation string, started time.Time, err *error) {
	metrics.RecordStoreOperation(operation, time.Since(started).Seconds(), *err)
}
