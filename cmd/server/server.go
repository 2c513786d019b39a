// @title           Chat Router API
// @version         1.0
// @description     Routes chat messages to a math or a help-center agent and keeps
// @description     bounded per-conversation histories in Redis.

// @contact.name   Jan Team
// @contact.url    https://github.com/janhq/jan-server

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8190
// @BasePath  /v1

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jan-server/services/chat-router/internal/config"
	"jan-server/services/chat-router/internal/domain"
	"jan-server/services/chat-router/internal/infrastructure"
	"jan-server/services/chat-router/internal/infrastructure/logger"
	"jan-server/services/chat-router/internal/infrastructure/observability"
	"jan-server/services/chat-router/internal/infrastructure/store"
	"jan-server/services/chat-router/internal/interfaces/httpserver"
	"jan-server/services/chat-router/internal/interfaces/httpserver/handlers"
	"jan-server/services/chat-router/internal/interfaces/httpserver/routes"
)

// Application holds the main application components.
type Application struct {
	httpServer *httpserver.HTTPServer
	reconciler *store.Reconciler
	log        zerolog.Logger
}

// NewApplication creates a new application instance. reconciler may be nil.
func NewApplication(httpServer *httpserver.HTTPServer, reconciler *store.Reconciler, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		reconciler: reconciler,
		log:        log,
	}
}

// Start runs the application until ctx is cancelled or a component fails.
func (a *Application) Start(ctx context.Context) error {
	eg, gctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return a.httpServer.Run(gctx)
	})
	if a.reconciler != nil {
		eg.Go(func() error {
			a.reconciler.Start(gctx)
			<-gctx.Done()
			a.reconciler.Stop()
			return nil
		})
	}

	return eg.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	app, cleanup, err := buildApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build application")
	}
	defer cleanup()

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Str("retrieval_backend", cfg.RetrievalBackend).
		Bool("conversation_lock", cfg.LockEnabled).
		Msg("starting application")

	if err := app.Start(ctx); err != nil {
		log.Error().Err(err).Msg("application stopped with error")
		return
	}

	log.Info().Msg("application exited cleanly")
}

// buildApplication wires the same graph as CreateApplication in wire.go.
func buildApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, func(), error) {
	redisClient, cleanup, err := infrastructure.ProvideRedisClient(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	llmClient := infrastructure.ProvideLLMClient(cfg, log)
	completer := infrastructure.ProvideCompleter(llmClient)
	retriever, err := infrastructure.ProvideRetriever(cfg, llmClient, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	sink := infrastructure.ProvideEventSink(log, infrastructure.ProvideSanitizer(cfg))
	conversations := domain.ProvideConversationService(infrastructure.ProvideConversationStore(redisClient, cfg, log), log)

	dispatcher := domain.ProvideDispatcher(cfg,
		domain.ProvideMathResponder(completer, sink, log),
		domain.ProvideKnowledgeResponder(retriever, completer, cfg, sink, log),
	)
	chatService := domain.ProvideChatService(
		dispatcher,
		domain.ProvidePersonaComposer(cfg),
		conversations,
		sink,
		infrastructure.ProvideLocker(redisClient, cfg, log),
		log,
	)

	routeProvider := routes.NewProvider(handlers.NewProvider(chatService, conversations))
	httpServer := httpserver.New(cfg, log, routeProvider, redisClient)

	return NewApplication(httpServer, infrastructure.ProvideReconciler(redisClient, cfg, log), log), cleanup, nil
}

func loadEnvFiles() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
