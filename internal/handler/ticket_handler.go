package handler

import (
	"net/http"
	"ops-portal/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service service.TicketService
}

func NewTicketHandler(service service.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("tickets", h.List)
	router.POST("tickets/refresh", h.Refresh)
}

func (h *TicketHandler) List(c *gin.Context) {
	var q SearchQuery
	if err := BindQuery(c, &q); err != nil {
		return
	}
	listing, err := h.service.List(c.Request.Context(), sessionID(c), q.Q)
	if err != nil {
		handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *TicketHandler) Refresh(c *gin.Context) {
	listing, err := h.service.Refresh(c.Request.Context(), sessionID(c))
	if err != nil {
		handleError(c, err, "Refresh")
		return
	}
	c.JSON(http.StatusOK, listing)
}
