package v1

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/chat-router/internal/interfaces/httpserver/handlers"
)

// Routes holds the v1 route configuration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{handlers: handlerProvider}
}

// Register mounts the chat routes under /v1 and, for the web client, at
// the root.
func (r *Routes) Register(engine *gin.Engine) {
	RegisterChatRoutes(engine, r.handlers)
	RegisterChatRoutes(engine.Group("/v1"), r.handlers)
}
