package responses

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"jan-server/services/chat-router/internal/utils/platformerrors"
)

// HandleError writes err using its platform error type. Untyped errors
// become a 500 carrying message.
func HandleError(c *gin.Context, err error, message string) {
	logger := log.With().Str("path", c.Request.URL.Path).Logger()

	if platformerrors.GetPlatformError(err) == nil {
		err = platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler,
			platformerrors.ErrorTypeInternal, message, err)
	}
	_ = c.Error(err)
	platformerrors.WriteError(c, err, logger)
}

// HandleBindError reports a request that failed binding or validation.
func HandleBindError(c *gin.Context, err error) {
	_ = c.Error(err)
	platformerrors.WriteValidationError(c, err.Error())
}
