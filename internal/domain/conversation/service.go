package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"jan-server/services/chat-router/internal/utils/idgen"
	"jan-server/services/chat-router/internal/utils/platformerrors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ':' separates the ids inside the history key, so neither id may hold one.
type conversationKey struct {
	ConversationID string `validate:"required,excludes=:"`
	UserID         string `validate:"required,excludes=:"`
}

type userKey struct {
	UserID string `validate:"required"`
}

// Service defines the conversation persistence operations.
type Service interface {
	AppendUserTurn(ctx context.Context, msg UserMessage) (*Turn, error)
	AppendBotTurn(ctx context.Context, conversationID, userID string, reply AgentResponse) (*Turn, error)
	History(ctx context.Context, conversationID, userID string) ([]Turn, error)
	ListConversations(ctx context.Context, userID string) ([]Conversation, error)
	DeleteConversation(ctx context.Context, userID, conversationID string) error
	SetLabel(ctx context.Context, userID, conversationID, label string) error
	GetLabels(ctx context.Context, userID string) (map[string]string, error)
}

type service struct {
	store Store
	now   func() time.Time
	log   zerolog.Logger
}

// NewService creates a new conversation service.
func NewService(store Store, log zerolog.Logger) Service {
	return &service{
		store: store,
		now:   time.Now,
		log:   log.With().Str("component", "conversation-service").Logger(),
	}
}

func (s *service) AppendUserTurn(ctx context.Context, msg UserMessage) (*Turn, error) {
	if err := validateKey(ctx, msg.ConversationID, msg.UserID); err != nil {
		return nil, err
	}

	turn, err := s.newTurn(SenderUser)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create user turn")
	}
	turn.User = &msg

	if err := s.store.AppendTurn(ctx, msg.ConversationID, msg.UserID, turn); err != nil {
		s.log.Error().Err(err).
			Str("conversation_id", msg.ConversationID).
			Str("user_id", msg.UserID).
			Msg("failed to append user turn")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to store user turn")
	}

	return &turn, nil
}

func (s *service) AppendBotTurn(ctx context.Context, conversationID, userID string, reply AgentResponse) (*Turn, error) {
	if err := validateKey(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	turn, err := s.newTurn(SenderAgent)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create bot turn")
	}
	if n := len(reply.AgentWorkflow); n > 0 {
		turn.Agent = reply.AgentWorkflow[n-1].Agent
	}
	turn.Reply = &reply

	if err := s.store.AppendTurn(ctx, conversationID, userID, turn); err != nil {
		s.log.Error().Err(err).
			Str("conversation_id", conversationID).
			Str("user_id", userID).
			Msg("failed to append bot turn")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to store bot turn")
	}

	return &turn, nil
}

func (s *service) History(ctx context.Context, conversationID, userID string) ([]Turn, error) {
	if err := validateKey(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	turns, err := s.store.ReadHistory(ctx, conversationID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to read history")
	}
	return turns, nil
}

func (s *service) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	if err := validateUser(ctx, userID); err != nil {
		return nil, err
	}

	conversations, err := s.store.ListConversations(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list conversations")
	}

	labels, err := s.store.GetLabels(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to read labels")
	}
	for i := range conversations {
		conversations[i].Label = labels[conversations[i].ConversationID]
	}

	return conversations, nil
}

func (s *service) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	if err := validateKey(ctx, conversationID, userID); err != nil {
		return err
	}

	if err := s.store.DeleteConversation(ctx, userID, conversationID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete conversation")
	}

	s.log.Info().
		Str("conversation_id", conversationID).
		Str("user_id", userID).
		Msg("conversation deleted")
	return nil
}

func (s *service) SetLabel(ctx context.Context, userID, conversationID, label string) error {
	if err := validateKey(ctx, conversationID, userID); err != nil {
		return err
	}

	if err := s.store.SetLabel(ctx, userID, conversationID, strings.TrimSpace(label)); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to store label")
	}
	return nil
}

func (s *service) GetLabels(ctx context.Context, userID string) (map[string]string, error) {
	if err := validateUser(ctx, userID); err != nil {
		return nil, err
	}

	labels, err := s.store.GetLabels(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to read labels")
	}
	if labels == nil {
		labels = map[string]string{}
	}
	return labels, nil
}

func (s *service) newTurn(sender Sender) (Turn, error) {
	id, err := idgen.NewTurnID(string(sender))
	if err != nil {
		return Turn{}, err
	}
	return Turn{ID: id, Sender: sender, CreatedAt: s.now().UTC()}, nil
}

func validateKey(ctx context.Context, conversationID, userID string) error {
	key := conversationKey{
		ConversationID: strings.TrimSpace(conversationID),
		UserID:         strings.TrimSpace(userID),
	}
	if err := validate.Struct(key); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"conversation_id and user_id are required and must not contain ':'", err)
	}
	return nil
}

func validateUser(ctx context.Context, userID string) error {
	if err := validate.Struct(userKey{UserID: strings.TrimSpace(userID)}); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"user_id is required", err)
	}
	return nil
}
