package handler

import (
	"context"
	"errors"
	"net/http"
	"ops-portal/internal/auth"
	apperrors "ops-portal/pkg/app_errors"
	"ops-portal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sessionIDKey = "session_id"
	sessionKey   = "session"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindUri(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindUri(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// SearchQuery is the ?q= filter shared by the job and ticket lists.
type SearchQuery struct {
	Q string `form:"q"`
}

// sessionID is set by RequireAuth.
func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func currentSession(c *gin.Context) *auth.View {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*auth.View); ok {
			return s
		}
	}
	return nil
}

// errorStatus maps a domain error to its HTTP status and user-facing text.
func errorStatus(err error) (int, string) {
	var ve *apperrors.ValidationError
	var re *apperrors.RemoteError
	var ce *auth.CredentialsError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Msg
	case errors.Is(err, apperrors.ErrUnknownLineKind),
		errors.Is(err, apperrors.ErrUnknownField),
		errors.Is(err, apperrors.ErrUnknownLookup):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &ce):
		return http.StatusUnauthorized, ce.Message
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid login credentials"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrRowNotFound):
		return http.StatusNotFound, "Line row not found"
	case errors.Is(err, apperrors.ErrTicketNotFound):
		return http.StatusNotFound, "Ticket not found"
	case errors.Is(err, apperrors.ErrNoDraft):
		return http.StatusConflict, "No draft ticket"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrConfirmationRequired):
		return http.StatusPreconditionRequired, "Line items have unsaved changes; confirm to discard them"
	case errors.As(err, &re):
		return http.StatusBadGateway, re.Message
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Request cancelled"
	case errors.Is(err, apperrors.ErrInternalServerError):
		return http.StatusInternalServerError, "Internal server error"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func logError(err error, operation string, status int) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	if status >= http.StatusInternalServerError {
		log.Error("Request failed")
		return
	}
	log.Warn("Request rejected")
}

func handleError(c *gin.Context, err error, operation string) {
	status, msg := errorStatus(err)
	logError(err, operation, status)
	c.JSON(status, gin.H{"error": msg})
}
