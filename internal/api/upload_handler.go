package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/folio/internal/upload"
)

const uploadField = "file"

// Upload streams the "file" part of a multipart body to the image host
// without buffering it to disk.
func (h *Handler) Upload(c *gin.Context) {
	if h.uploads == nil || !h.uploads.Enabled() {
		fail(c, http.StatusServiceUnavailable, "image uploads are not configured")
		return
	}
	if h.opts.UploadMaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.UploadMaxBytes)
	}
	mr, err := c.Request.MultipartReader()
	if err != nil {
		fail(c, http.StatusBadRequest, "expected a multipart/form-data body")
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			fail(c, http.StatusBadRequest, "missing file field")
			return
		}
		if err != nil {
			uploadError(c, err)
			return
		}
		if part.FormName() != uploadField {
			part.Close()
			continue
		}

		res, err := h.uploads.Upload(c.Request.Context(), part.FileName(), part)
		part.Close()
		if err != nil {
			uploadError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{
			"url":        res.URL,
			"displayUrl": res.DisplayURL,
			"deleteUrl":  res.DeleteURL,
			"width":      res.Width,
			"height":     res.Height,
			"size":       res.Size,
			"mimeType":   res.MimeType,
		})
		return
	}
}

func uploadError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, upload.ErrTooLarge), errors.As(err, &maxErr):
		fail(c, http.StatusRequestEntityTooLarge, "file is too large")
	case errors.Is(err, upload.ErrUnsupportedType):
		fail(c, http.StatusUnsupportedMediaType, "only JPEG, PNG, GIF, WebP and SVG images are accepted")
	case errors.Is(err, upload.ErrUpstream):
		internalLog(c, err)
		fail(c, http.StatusBadGateway, "image host is unavailable")
	default:
		internalError(c, err, "upload failed")
	}
}
