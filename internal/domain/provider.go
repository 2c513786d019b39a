package domain

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"jan-server/services/chat-router/internal/config"
	"jan-server/services/chat-router/internal/domain/audit"
	"jan-server/services/chat-router/internal/domain/chat"
	"jan-server/services/chat-router/internal/domain/conversation"
	"jan-server/services/chat-router/internal/domain/responder"
)

// ProvideConversationService provides the conversation service.
func ProvideConversationService(store conversation.Store, log zerolog.Logger) conversation.Service {
	return conversation.NewService(store, log)
}

// ProvideMathResponder provides the arithmetic responder.
func ProvideMathResponder(completer responder.Completer, sink audit.Sink, log zerolog.Logger) *responder.Math {
	return responder.NewMath(completer, sink, log)
}

// ProvideKnowledgeResponder provides the help-center responder.
func ProvideKnowledgeResponder(
	retriever responder.Retriever,
	completer responder.Completer,
	cfg *config.Config,
	sink audit.Sink,
	log zerolog.Logger,
) *responder.Knowledge {
	return responder.NewKnowledge(retriever, completer, cfg.RetrievalTopK, sink, log)
}

// ProvideDispatcher registers the responders behind the rule classifier.
func ProvideDispatcher(cfg *config.Config, math *responder.Math, knowledge *responder.Knowledge) chat.Dispatcher {
	return chat.NewRegistry(chat.NewRuleClassifier(cfg.OperatorWords...)).
		Register(chat.CategoryMath, math).
		Register(chat.CategoryKnowledge, knowledge)
}

// ProvidePersonaComposer provides the persona for the configured locale.
func ProvidePersonaComposer(cfg *config.Config) *chat.PersonaComposer {
	return chat.NewPersonaComposer(cfg.PersonaLocale)
}

// ProvideChatService provides the router. A nil locker leaves requests
// unserialized.
func ProvideChatService(
	dispatcher chat.Dispatcher,
	persona *chat.PersonaComposer,
	conversations conversation.Service,
	sink audit.Sink,
	locker chat.Locker,
	log zerolog.Logger,
) chat.Service {
	opts := []chat.Option{chat.WithSink(sink)}
	if locker != nil {
		opts = append(opts, chat.WithLocker(locker))
	}
	return chat.NewService(dispatcher, persona, conversations, log, opts...)
}

// ServiceProvider provides all domain services.
var ServiceProvider = wire.NewSet(
	ProvideConversationService,
	ProvideMathResponder,
	ProvideKnowledgeResponder,
	ProvideDispatcher,
	ProvidePersonaComposer,
	ProvideChatService,
)
