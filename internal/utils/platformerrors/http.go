package platformerrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPErrorResponse represents the standard error response format.
type HTTPErrorResponse struct {
	Error *HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail contains error details for HTTP responses.
type HTTPErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError writes err as an HTTP response.
// PlatformErrors keep their type; anything else is reported as an internal error.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	platformErr := GetPlatformError(err)
	if platformErr == nil {
		message := "unknown error"
		if err != nil {
			message = err.Error()
			log.Error().Err(err).Msg("unhandled error")
		}
		writeDetail(c, http.StatusInternalServerError, message, "internal_error")
		return
	}

	LogError(log, platformErr)

	c.JSON(ErrorTypeToHTTPStatus(platformErr.Type), HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message:   platformErr.Message,
			Type:      ErrorTypeString(platformErr.Type),
			Code:      platformErr.UUID,
			RequestID: platformErr.RequestID,
		},
	})
}

// WriteValidationError writes a 400 Bad Request response.
func WriteValidationError(c *gin.Context, message string) {
	writeDetail(c, http.StatusBadRequest, message, "validation_error")
}

func writeDetail(c *gin.Context, status int, message, errType string) {
	c.JSON(status, HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message:   message,
			Type:      errType,
			RequestID: RequestIDFromContext(c.Request.Context()),
		},
	})
}

// ErrorTypeString converts an ErrorType to a snake_case string for API responses.
func ErrorTypeString(t ErrorType) string {
	switch t {
	case ErrorTypeNotFound:
		return "not_found_error"
	case ErrorTypeValidation:
		return "validation_error"
	case ErrorTypeConflict:
		return "conflict_error"
	case ErrorTypeUnauthorized:
		return "unauthorized_error"
	case ErrorTypeForbidden:
		return "forbidden_error"
	case ErrorTypeNotImplemented:
		return "not_implemented_error"
	case ErrorTypeTimeout:
		return "timeout_error"
	case ErrorTypeExternal:
		return "external_error"
	case ErrorTypeDatabaseError:
		return "database_error"
	case ErrorTypeInternal:
		fallthrough
	default:
		return "internal_error"
	}
}
