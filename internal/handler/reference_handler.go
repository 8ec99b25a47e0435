package handler

import (
	"net/http"
	"ops-portal/internal/refdata"
	"ops-portal/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferenceHandler struct {
	service service.ReferenceService
}

func NewReferenceHandler(service service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

func (h *ReferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("reference", h.Snapshot)
	router.POST("reference/:kind/retry", h.Retry)
	router.GET("jobs", h.Jobs)
}

type ReferenceResponse struct {
	*refdata.Snapshot
	Message string `json:"message,omitempty"`
}

func (h *ReferenceHandler) Snapshot(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context(), sessionID(c))
	if err != nil {
		handleError(c, err, "Snapshot")
		return
	}
	c.JSON(http.StatusOK, ReferenceResponse{Snapshot: snap, Message: snap.Message()})
}

type kindURI struct {
	Kind string `uri:"kind" binding:"required"`
}

func (h *ReferenceHandler) Retry(c *gin.Context) {
	var uri kindURI
	if err := BindUri(c, &uri); err != nil {
		return
	}
	kind, err := refdata.ParseKind(uri.Kind)
	if err != nil {
		handleError(c, err, "Retry")
		return
	}

	snap, err := h.service.Retry(c.Request.Context(), sessionID(c), kind)
	if err != nil {
		handleError(c, err, "Retry")
		return
	}
	c.JSON(http.StatusOK, ReferenceResponse{Snapshot: snap, Message: snap.Message()})
}

func (h *ReferenceHandler) Jobs(c *gin.Context) {
	var q SearchQuery
	if err := BindQuery(c, &q); err != nil {
		return
	}
	jobs, err := h.service.Jobs(c.Request.Context(), sessionID(c), q.Q)
	if err != nil {
		handleError(c, err, "Jobs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}
