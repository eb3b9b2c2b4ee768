package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/folio/internal/store"
)

type serviceRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"max=2000"`
	Icon        string   `json:"icon" binding:"max=100"`
	Features    []string `json:"features" binding:"max=30,dive,max=200"`
	SortOrder   int32    `json:"sortOrder"`
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.queries.ListServices(c.Request.Context())
	if err != nil {
		internalError(c, err, "failed to list services")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": services})
}

func (h *Handler) CreateService(c *gin.Context) {
	var body serviceRequest
	if !bindJSON(c, &body) {
		return
	}
	svc, err := h.queries.CreateService(c.Request.Context(), store.CreateServiceParams{
		Title:       body.Title,
		Description: body.Description,
		Icon:        body.Icon,
		Features:    body.Features,
		SortOrder:   body.SortOrder,
	})
	if err != nil {
		storeError(c, err, "service")
		return
	}
	ok(c, http.StatusCreated, gin.H{"data": svc})
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var body serviceRequest
	if !bindJSON(c, &body) {
		return
	}
	svc, err := h.queries.UpdateService(c.Request.Context(), store.UpdateServiceParams{
		ID:          id,
		Title:       body.Title,
		Description: body.Description,
		Icon:        body.Icon,
		Features:    body.Features,
		SortOrder:   body.SortOrder,
	})
	if err != nil {
		storeError(c, err, "service")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": svc})
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	n, err := h.queries.DeleteService(c.Request.Context(), id)
	deleted(c, n, err, "service")
}
