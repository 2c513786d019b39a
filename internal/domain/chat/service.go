package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"jan-server/services/chat-router/internal/domain/audit"
	"jan-server/services/chat-router/internal/domain/conversation"
	"jan-server/services/chat-router/internal/utils/platformerrors"
)

// Apology is returned when routing fails unexpectedly.
const Apology = "Ops! Algo deu errado ao processar sua solicitação. Tente novamente"

const tracerName = "jan-server/services/chat-router/chat"

var validate = validator.New(validator.WithRequiredStructEnabled())

// InboundPayload is one chat turn submitted by a user.
type InboundPayload struct {
	Message           string `json:"message" validate:"required"`
	UserID            string `json:"user_id" validate:"required,excludes=:"`
	ConversationID    string `json:"conversation_id" validate:"required,excludes=:"`
	InitialBotMessage bool   `json:"initialBotMessage,omitempty"`
}

// Locker serializes work on one key. fn runs while the key is held.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// LockKey is the lease key for a (conversation, user) pair.
func LockKey(conversationID, userID string) string {
	return "lock:conversation:" + conversationID + ":" + userID
}

// Service routes chat turns to responders and persists the exchange.
type Service interface {
	// HandleMessage returns an error only for invalid payloads and for
	// persistence or lease failures; responder failures produce a response.
	HandleMessage(ctx context.Context, payload InboundPayload) (*conversation.AgentResponse, error)
}

type service struct {
	dispatcher    Dispatcher
	persona       *PersonaComposer
	conversations conversation.Service
	sink          audit.Sink
	locker        Locker
	tracer        trace.Tracer
	log           zerolog.Logger
}

// Option configures the router service.
type Option func(*service)

// WithLocker serializes requests per (conversation, user) through locker.
func WithLocker(locker Locker) Option {
	return func(s *service) {
		s.locker = locker
	}
}

// WithSink sets the sink audit events are emitted to.
func WithSink(sink audit.Sink) Option {
	return func(s *service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// NewService creates the router service.
func NewService(
	dispatcher Dispatcher,
	persona *PersonaComposer,
	conversations conversation.Service,
	log zerolog.Logger,
	opts ...Option,
) Service {
	s := &service{
		dispatcher:    dispatcher,
		persona:       persona,
		conversations: conversations,
		sink:          audit.NopSink{},
		tracer:        otel.Tracer(tracerName),
		log:           log.With().Str("component", "chat-router").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) HandleMessage(ctx context.Context, payload InboundPayload) (*conversation.AgentResponse, error) {
	if err := validatePayload(ctx, payload); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "chat.HandleMessage", trace.WithAttributes(
		attribute.String("conversation_id", payload.ConversationID),
		attribute.Bool("initial_bot_message", payload.InitialBotMessage),
	))
	defer span.End()

	var resp *conversation.AgentResponse
	run := func(ctx context.Context) error {
		var err error
		if payload.InitialBotMessage {
			resp, err = s.seed(ctx, payload)
		} else {
			resp, err = s.route(ctx, payload)
		}
		return err
	}

	var err error
	if s.locker != nil {
		err = s.locker.WithLock(ctx, LockKey(payload.ConversationID, payload.UserID), run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return resp, nil
}

// seed stores the message verbatim as a bot turn without routing it.
func (s *service) seed(ctx context.Context, payload InboundPayload) (*conversation.AgentResponse, error) {
	reply := conversation.AgentResponse{
		Response:            payload.Message,
		SourceAgentResponse: payload.Message,
		AgentWorkflow:       []conversation.WorkflowStep{},
	}

	if _, err := s.conversations.AppendBotTurn(ctx, payload.ConversationID, payload.UserID, reply); err != nil {
		return nil, err
	}

	s.sink.Emit(ctx, audit.Event{
		Level:          audit.LevelInfo,
		Agent:          RouterAgent,
		Name:           audit.EventSeedBotMessage,
		ConversationID: payload.ConversationID,
		UserID:         payload.UserID,
		Response:       payload.Message,
		Success:        true,
	})

	return &reply, nil
}

func (s *service) route(ctx context.Context, payload InboundPayload) (*conversation.AgentResponse, error) {
	start := time.Now()

	if _, err := s.conversations.AppendUserTurn(ctx, conversation.UserMessage{
		Message:        payload.Message,
		ConversationID: payload.ConversationID,
		UserID:         payload.UserID,
	}); err != nil {
		return nil, err
	}

	category := s.dispatcher.Classify(payload.Message)
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("decision", string(category)))

	var workflow Workflow
	workflow.Decide(RouterAgent, category)

	result, err := s.dispatch(ctx, category, payload.Message)
	if err != nil {
		workflow.Fail(err)

		s.log.Error().Err(err).
			Str("conversation_id", payload.ConversationID).
			Str("decision", string(category)).
			Msg("responder failed")
		s.sink.Emit(ctx, audit.Event{
			Level:          audit.LevelError,
			Agent:          RouterAgent,
			Name:           audit.EventHandleUserMessage,
			ConversationID: payload.ConversationID,
			UserID:         payload.UserID,
			Decision:       string(category),
			Message:        payload.Message,
			Error:          err.Error(),
			Duration:       time.Since(start),
		})

		return &conversation.AgentResponse{
			Response:            Apology,
			SourceAgentResponse: "",
			AgentWorkflow:       workflow.Steps(),
		}, nil
	}

	workflow.Complete(string(category))

	reply := conversation.AgentResponse{
		Response:            s.persona.Compose(category, result.Success, result.Text),
		SourceAgentResponse: result.Text,
		AgentWorkflow:       workflow.Steps(),
	}

	if _, err := s.conversations.AppendBotTurn(ctx, payload.ConversationID, payload.UserID, reply); err != nil {
		return nil, err
	}

	s.sink.Emit(ctx, audit.Event{
		Level:          audit.LevelInfo,
		Agent:          RouterAgent,
		Name:           audit.EventHandleUserMessage,
		ConversationID: payload.ConversationID,
		UserID:         payload.UserID,
		Decision:       string(category),
		Message:        payload.Message,
		Response:       reply.Response,
		Success:        result.Success,
		Duration:       time.Since(start),
	})

	return &reply, nil
}

// dispatch runs the responder and turns a panic into an error.
func (s *service) dispatch(ctx context.Context, category Category, message string) (result AnswerResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("responder panic: %v", r)
		}
	}()
	return s.dispatcher.Dispatch(ctx, category, message)
}

func validatePayload(ctx context.Context, payload InboundPayload) error {
	trimmed := payload
	trimmed.Message = strings.TrimSpace(payload.Message)
	trimmed.UserID = strings.TrimSpace(payload.UserID)
	trimmed.ConversationID = strings.TrimSpace(payload.ConversationID)

	if err := validate.Struct(trimmed); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"message, user_id and conversation_id are required; ids must not contain ':'", err)
	}
	return nil
}
