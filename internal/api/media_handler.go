package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/folio/internal/store"
)

// MediaKinds are the accepted values of a media item's kind.
var MediaKinds = []string{"image", "video", "article", "podcast", "press"}

type mediaItemRequest struct {
	Title        string     `json:"title" binding:"required,max=200"`
	Kind         string     `json:"kind" binding:"required,oneof=image video article podcast press"`
	Url          string     `json:"url" binding:"required,url"`
	ThumbnailUrl string     `json:"thumbnailUrl" binding:"omitempty,url"`
	Description  string     `json:"description" binding:"max=2000"`
	PublishedAt  *time.Time `json:"publishedAt"`
}

// ListMedia returns every media item, optionally filtered by ?kind.
func (h *Handler) ListMedia(c *gin.Context) {
	kind := c.Query("kind")
	if kind != "" && !isMediaKind(kind) {
		fail(c, http.StatusBadRequest, "unknown media kind")
		return
	}
	items, err := h.queries.ListMediaItems(c.Request.Context(), kind)
	if err != nil {
		internalError(c, err, "failed to list media")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": items})
}

func isMediaKind(kind string) bool {
	for _, k := range MediaKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (h *Handler) CreateMedia(c *gin.Context) {
	var body mediaItemRequest
	if !bindJSON(c, &body) {
		return
	}
	item, err := h.queries.CreateMediaItem(c.Request.Context(), store.CreateMediaItemParams{
		Title:        body.Title,
		Kind:         body.Kind,
		Url:          body.Url,
		ThumbnailUrl: body.ThumbnailUrl,
		Description:  body.Description,
		PublishedAt:  body.PublishedAt,
	})
	if err != nil {
		storeError(c, err, "media item")
		return
	}
	ok(c, http.StatusCreated, gin.H{"data": item})
}

func (h *Handler) UpdateMedia(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var body mediaItemRequest
	if !bindJSON(c, &body) {
		return
	}
	item, err := h.queries.UpdateMediaItem(c.Request.Context(), store.UpdateMediaItemParams{
		ID:           id,
		Title:        body.Title,
		Kind:         body.Kind,
		Url:          body.Url,
		ThumbnailUrl: body.ThumbnailUrl,
		Description:  body.Description,
		PublishedAt:  body.PublishedAt,
	})
	if err != nil {
		storeError(c, err, "media item")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": item})
}

func (h *Handler) DeleteMedia(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	n, err := h.queries.DeleteMediaItem(c.Request.Context(), id)
	deleted(c, n, err, "media item")
}
