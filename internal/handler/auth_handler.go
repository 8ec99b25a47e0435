package handler

import (
	"errors"
	"net/http"
	"ops-portal/internal/auth"
	"ops-portal/internal/navigation"
	"ops-portal/internal/service"
	apperrors "ops-portal/pkg/app_errors"
	"time"

	"github.com/gin-gonic/gin"
)

type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	service service.AuthService
	cookie  CookieOptions
}

func NewAuthHandler(service service.AuthService, cookie CookieOptions) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "portal_session"
	}
	return &AuthHandler{service: service, cookie: cookie}
}

func (h *AuthHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("auth/signin", h.SignIn)
		router.POST("auth/signout", h.SignOut)
		router.GET("auth/session", h.Session)
		router.GET("nav", h.Nav)
	}
}

// SignInRequest carries the form fields; From is the path the guard bounced the user from.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	From     string `json:"from"`
}

type SessionResponse struct {
	SignedIn bool       `json:"signed_in"`
	Session  *auth.View `json:"session"`
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	view, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, err, "SignIn")
		return
	}

	maxAge := int(h.cookie.TTL / time.Second)
	if !view.ExpiresAt.IsZero() {
		if remaining := int(time.Until(view.ExpiresAt) / time.Second); remaining > 0 && (maxAge == 0 || remaining < maxAge) {
			maxAge = remaining
		}
	}
	h.setCookie(c, view.SessionID, maxAge)
	c.JSON(http.StatusOK, gin.H{
		"session":  view,
		"redirect": navigation.RedirectTarget(req.From),
	})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	id, _ := c.Cookie(h.cookie.Name)
	if id != "" {
		if err := h.service.SignOut(c.Request.Context(), id); err != nil {
			handleError(c, err, "SignOut")
			return
		}
	}
	h.setCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// optionalSession resolves the cookie without rejecting anonymous callers.
func (h *AuthHandler) optionalSession(c *gin.Context) (*auth.View, error) {
	id, _ := c.Cookie(h.cookie.Name)
	if id == "" {
		return nil, nil
	}
	view, _, err := h.service.Authenticate(c.Request.Context(), id)
	if errors.Is(err, apperrors.ErrUnauthorized) {
		return nil, nil
	}
	return view, err
}

func (h *AuthHandler) Session(c *gin.Context) {
	view, err := h.optionalSession(c)
	if err != nil {
		handleError(c, err, "Session")
		return
	}
	c.JSON(http.StatusOK, SessionResponse{SignedIn: view != nil, Session: view})
}

func (h *AuthHandler) Nav(c *gin.Context) {
	view, err := h.optionalSession(c)
	if err != nil {
		handleError(c, err, "Nav")
		return
	}
	if view == nil {
		c.JSON(http.StatusOK, navigation.Build(false, ""))
		return
	}
	c.JSON(http.StatusOK, navigation.Build(true, view.Email))
}
