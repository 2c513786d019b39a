package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"jan-server/services/chat-router/internal/interfaces/httpserver/handlers"
	v1 "jan-server/services/chat-router/internal/interfaces/httpserver/routes/v1"
)

// Provider holds all route providers.
type Provider struct {
	V1 *v1.Routes
}

func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{V1: v1.NewRoutes(handlerProvider)}
}

// Register registers all routes on the engine.
func (p *Provider) Register(engine *gin.Engine) {
	p.V1.Register(engine)
}

// RouteProvider provides the route tree for wire.
var RouteProvider = wire.NewSet(
	NewProvider,
)
