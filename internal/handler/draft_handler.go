package handler

import (
	"net/http"
	"ops-portal/internal/draft"
	"ops-portal/internal/lines"
	"ops-portal/internal/service"

	"github.com/gin-gonic/gin"
)

type DraftHandler struct {
	service service.DraftService
}

func NewDraftHandler(service service.DraftService) *DraftHandler {
	return &DraftHandler{service: service}
}

func (h *DraftHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("draft", h.View)
	router.PATCH("draft/header", h.UpdateHeader)
	router.POST("draft/lines/:kind", h.AddRow)
	router.PATCH("draft/lines/:kind/:index", h.UpdateRow)
	router.DELETE("draft/lines/:kind/:index", h.RemoveRow)
	router.POST("draft/save", h.SaveLines)
	router.POST("draft/submit", h.Submit)
	router.POST("draft/refresh", h.Refresh)
	router.DELETE("draft", h.Cancel)
}

type lineKindURI struct {
	Kind string `uri:"kind" binding:"required"`
}

type lineRowURI struct {
	Kind  string `uri:"kind" binding:"required"`
	Index int    `uri:"index" binding:"min=0"`
}

// UpdateRowRequest sets one field of one row; an empty value clears it.
type UpdateRowRequest struct {
	Field string  `json:"field" binding:"required"`
	Value *string `json:"value" binding:"required"`
}

type CancelQuery struct {
	Confirm bool `form:"confirm"`
}

// respond writes the draft alongside any error so the client can render the banner.
func (h *DraftHandler) respond(c *gin.Context, view draft.View, err error, operation string) {
	if err == nil {
		c.JSON(http.StatusOK, view)
		return
	}
	status, msg := errorStatus(err)
	if view.Message != nil && view.Message.Type == draft.MessageError {
		msg = view.Message.Text
	}
	logError(err, operation, status)
	c.JSON(status, gin.H{"error": msg, "draft": view})
}

func (h *DraftHandler) View(c *gin.Context) {
	view, err := h.service.View(c.Request.Context(), sessionID(c))
	h.respond(c, view, err, "View")
}

func (h *DraftHandler) UpdateHeader(c *gin.Context) {
	var patch draft.HeaderPatch
	if err := BindJson(c, &patch); err != nil {
		return
	}
	view, err := h.service.UpdateHeader(c.Request.Context(), sessionID(c), patch)
	h.respond(c, view, err, "UpdateHeader")
}

func (h *DraftHandler) AddRow(c *gin.Context) {
	var uri lineKindURI
	if err := BindUri(c, &uri); err != nil {
		return
	}
	kind, err := lines.ParseKind(uri.Kind)
	if err != nil {
		handleError(c, err, "AddRow")
		return
	}
	view, err := h.service.AddRow(c.Request.Context(), sessionID(c), kind)
	h.respond(c, view, err, "AddRow")
}

func (h *DraftHandler) UpdateRow(c *gin.Context) {
	var uri lineRowURI
	if err := BindUri(c, &uri); err != nil {
		return
	}
	kind, err := lines.ParseKind(uri.Kind)
	if err != nil {
		handleError(c, err, "UpdateRow")
		return
	}
	var req UpdateRowRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	view, err := h.service.UpdateRow(c.Request.Context(), sessionID(c), kind, uri.Index, req.Field, *req.Value)
	h.respond(c, view, err, "UpdateRow")
}

func (h *DraftHandler) RemoveRow(c *gin.Context) {
	var uri lineRowURI
	if err := BindUri(c, &uri); err != nil {
		return
	}
	kind, err := lines.ParseKind(uri.Kind)
	if err != nil {
		handleError(c, err, "RemoveRow")
		return
	}
	view, err := h.service.RemoveRow(c.Request.Context(), sessionID(c), kind, uri.Index)
	h.respond(c, view, err, "RemoveRow")
}

func (h *DraftHandler) SaveLines(c *gin.Context) {
	view, err := h.service.SaveLines(c.Request.Context(), sessionID(c))
	h.respond(c, view, err, "SaveLines")
}

func (h *DraftHandler) Submit(c *gin.Context) {
	view, err := h.service.Submit(c.Request.Context(), sessionID(c))
	h.respond(c, view, err, "Submit")
}

func (h *DraftHandler) Refresh(c *gin.Context) {
	view, err := h.service.Refresh(c.Request.Context(), sessionID(c))
	h.respond(c, view, err, "Refresh")
}

func (h *DraftHandler) Cancel(c *gin.Context) {
	var q CancelQuery
	if err := BindQuery(c, &q); err != nil {
		return
	}
	view, err := h.service.Cancel(c.Request.Context(), sessionID(c), q.Confirm)
	h.respond(c, view, err, "Cancel")
}
