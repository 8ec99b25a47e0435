package handler

import (
	"net/http"
	"ops-portal/internal/navigation"
	"ops-portal/internal/repository"
	"ops-portal/internal/service"
	"ops-portal/pkg/logger"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger logs every request through zap and tags it with an X-Request-ID.
func RequestLogger() gin.HandlerFunc {
	log := logger.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

// RequireAuth admits requests carrying a live session cookie. The session's access token is
// attached to the request context so data-store calls run as the signed-in user.
func RequireAuth(authService service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookieName)
		view, token, err := authService.Authenticate(c.Request.Context(), id)
		if err != nil {
			status, msg := errorStatus(err)
			if status != http.StatusUnauthorized {
				logError(err, "RequireAuth", status)
				c.AbortWithStatusJSON(status, gin.H{"error": msg})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":       "Unauthorized",
				"signin_path": navigation.SignInPath,
				"from":        c.Request.URL.Path,
			})
			return
		}

		c.Set(sessionIDKey, view.SessionID)
		c.Set(sessionKey, view)
		c.Request = c.Request.WithContext(repository.WithAccessToken(c.Request.Context(), token))
		c.Next()
	}
}
