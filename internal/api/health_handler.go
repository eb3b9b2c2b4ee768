package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/folio/internal/worker"
)

const healthTimeout = 3 * time.Second

// HealthCheck is one dependency checked by /health.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	checks := h.checks
	err := worker.ForEach(ctx, len(checks), len(checks), func(ctx context.Context, i int) error {
		if err := checks[i].Ping(ctx); err != nil {
			return &checkError{name: checks[i].Name, err: err}
		}
		return nil
	})
	if err != nil {
		internalLog(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type checkError struct {
	name string
	err  error
}

func (e *checkError) Error() string { return e.name + ": " + e.err.Error() }
func (e *checkError) Unwrap() error { return e.err }
