package handler

import (
	"net/http"
	"ops-portal/internal/service"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	AllowedOrigins []string
	Cookie         CookieOptions
}

type Services struct {
	Auth      service.AuthService
	Reference service.ReferenceService
	Draft     service.DraftService
	Tickets   service.TicketService
}

// NewRouter assembles the API: public auth and navigation routes, and the guarded portal routes.
func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	NewAuthHandler(svc.Auth, opts.Cookie).RegisterRoutes(r)

	guarded := r.Group("/api/v1", RequireAuth(svc.Auth, opts.Cookie.Name))
	NewReferenceHandler(svc.Reference).RegisterRoutes(guarded)
	NewDraftHandler(svc.Draft).RegisterRoutes(guarded)
	NewTicketHandler(svc.Tickets).RegisterRoutes(guarded)

	return r
}
