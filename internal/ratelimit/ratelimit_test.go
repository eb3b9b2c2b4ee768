package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestMemory_BurstThenRefuse(t *testing.T) {
	clk := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(3)
	m.now = clk.now
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := m.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i)
	}
	d, err := m.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.InDelta(t, (20 * time.Second).Seconds(), d.RetryAfter.Seconds(), 0.5)

	// Other keys have their own bucket.
	d, _ = m.Allow(ctx, "other")
	assert.True(t, d.Allowed)

	// One token refills after a third of a minute.
	clk.t = clk.t.Add(20 * time.Second)
	d, _ = m.Allow(ctx, "ip")
	assert.True(t, d.Allowed)
}

func TestMemory_Sweep(t *testing.T) {
	clk := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(10)
	m.now = clk.now
	m.Allow(context.Background(), "old")
	clk.t = clk.t.Add(2 * time.Hour)
	m.Allow(context.Background(), "fresh")

	m.sweep(clk.t)
	assert.Equal(t, 1, m.size())
}

func TestWindowArithmetic(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)
	assert.Equal(t, 15*time.Second, untilNextWindow(now))

	a := windowKey("p", "contact:1.2.3.4", now)
	b := windowKey("p", "contact:1.2.3.4", now.Add(14*time.Second))
	c := windowKey("p", "contact:1.2.3.4", now.Add(15*time.Second))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "p:contact:1.2.3.4:")
}

func newRouter(l Limiter) *gin.Engine {
	r := gin.New()
	r.POST("/api/subscribe", Middleware(l, "subscribe"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func post(r http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_Memory(t *testing.T) {
	r := newRouter(NewMemory(2))

	assert.Equal(t, http.StatusOK, post(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, post(r, "10.0.0.1").Code)

	w := post(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"message":"too many requests, please try again later"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, post(r, "10.0.0.2").Code)
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (Decision, error) {
	return Decision{}, errors.New("redis: connection refused")
}

func TestMiddleware_FailsOpen(t *testing.T) {
	r := newRouter(brokenLimiter{})
	assert.Equal(t, http.StatusOK, post(r, "10.0.0.1").Code)
}

func TestMemory_StartCleanupStops(t *testing.T) {
	m := NewMemory(1)
	ctx, cancel := context.WithCancel(context.Background())
	m.StartCleanup(ctx, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	cancel()
}
