package email_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsarma/folio/internal/email"
)

func TestResendProvider_Send(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_key", r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	p := email.NewResendProvider(email.ResendConfig{APIKey: "re_key", Endpoint: srv.URL})
	id, err := p.Send(context.Background(), email.Message{
		From:    "Site <news@example.com>",
		To:      []string{"a@x.com"},
		Subject: "Hello",
		Body:    "<p>Hi</p>",
		HTML:    true,
		Headers: map[string]string{"List-Unsubscribe": "<https://example.com/u>"},
	})

	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
	assert.Equal(t, "<p>Hi</p>", got["html"])
	assert.Nil(t, got["text"])
	assert.Equal(t, []any{"a@x.com"}, got["to"])
	assert.Equal(t, map[string]any{"List-Unsubscribe": "<https://example.com/u>"}, got["headers"])
}

func TestResendProvider_StatusClassification(t *testing.T) {
	tests := []struct {
		status   int
		rejected bool
		limited  bool
	}{
		{http.StatusUnprocessableEntity, true, false},
		{http.StatusTooManyRequests, false, true},
		{http.StatusInternalServerError, false, false},
		{http.StatusUnauthorized, false, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"name":"error","message":"nope"}`))
			}))
			defer srv.Close()

			p := email.NewResendProvider(email.ResendConfig{APIKey: "k", Endpoint: srv.URL})
			_, err := p.Send(context.Background(), email.Message{From: "a@b.com", To: []string{"c@d.com"}})

			require.Error(t, err)
			assert.Contains(t, err.Error(), "nope")
			assert.Equal(t, tt.rejected, errors.Is(err, email.ErrRejected))
			assert.Equal(t, tt.limited, errors.Is(err, email.ErrRateLimited))
		})
	}
}

func TestSendGridProvider_Send(t *testing.T) {
	var got struct {
		From struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"from"`
		Content []struct {
			Type string `json:"type"`
		} `json:"content"`
		Headers map[string]string `json:"headers"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sg_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("X-Message-Id", "sg-1")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	p := email.NewSendGridProvider(email.SendGridConfig{APIKey: "sg_key", Endpoint: srv.URL})
	id, err := p.Send(context.Background(), email.Message{
		From:    "Jane Doe <jane@example.com>",
		To:      []string{"a@x.com"},
		Subject: "s",
		Body:    "<b>b</b>",
		HTML:    true,
		Headers: map[string]string{"X-Test": "1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "sg-1", id)
	assert.Equal(t, "jane@example.com", got.From.Email)
	assert.Equal(t, "Jane Doe", got.From.Name)
	require.Len(t, got.Content, 1)
	assert.Equal(t, "text/html", got.Content[0].Type)
	assert.Equal(t, "1", got.Headers["X-Test"])
}

func TestSendGridProvider_BadFromIsRejected(t *testing.T) {
	p := email.NewSendGridProvider(email.SendGridConfig{APIKey: "k", Endpoint: "http://127.0.0.1:1"})
	_, err := p.Send(context.Background(), email.Message{From: "not an address", To: []string{"a@x.com"}})
	assert.ErrorIs(t, err, email.ErrRejected)
}

type stubProvider struct {
	calls  atomic.Int32
	sendFn func(ctx context.Context, msg email.Message) (string, error)
}

func (s *stubProvider) Send(ctx context.Context, msg email.Message) (string, error) {
	s.calls.Add(1)
	if s.sendFn != nil {
		return s.sendFn(ctx, msg)
	}
	return "id", nil
}

func TestWithBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubProvider{sendFn: func(context.Context, email.Message) (string, error) {
		return "", errors.New("connection refused")
	}}
	p := email.WithBreakerSettings(stub, "test", email.BreakerSettings{FailureThreshold: 3, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		_, err := p.Send(context.Background(), email.Message{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, email.ErrUnavailable)
	}

	_, err := p.Send(context.Background(), email.Message{})
	assert.ErrorIs(t, err, email.ErrUnavailable)
	assert.Equal(t, int32(3), stub.calls.Load())

	assert.ErrorIs(t, email.Check(context.Background(), p), email.ErrUnavailable)
}

func TestWithBreaker_RejectionsDoNotTrip(t *testing.T) {
	stub := &stubProvider{sendFn: func(context.Context, email.Message) (string, error) {
		return "", email.ErrRejected
	}}
	p := email.WithBreakerSettings(stub, "test", email.BreakerSettings{FailureThreshold: 2, OpenTimeout: time.Minute})

	for i := 0; i < 5; i++ {
		_, err := p.Send(context.Background(), email.Message{})
		assert.ErrorIs(t, err, email.ErrRejected)
	}
	assert.Equal(t, int32(5), stub.calls.Load())
	assert.NoError(t, email.Check(context.Background(), p))
}

func TestWithBreaker_RateLimitingDoesNotTrip(t *testing.T) {
	stub := &stubProvider{sendFn: func(context.Context, email.Message) (string, error) {
		return "", fmt.Errorf("%w: too many requests", email.ErrRateLimited)
	}}
	p := email.WithBreakerSettings(stub, "test", email.BreakerSettings{FailureThreshold: 2, OpenTimeout: time.Minute})

	for i := 0; i < 5; i++ {
		_, err := p.Send(context.Background(), email.Message{})
		assert.ErrorIs(t, err, email.ErrRateLimited)
	}
	assert.Equal(t, int32(5), stub.calls.Load())
	assert.NoError(t, email.Check(context.Background(), p))
}

func TestWithTimeout(t *testing.T) {
	stub := &stubProvider{sendFn: func(ctx context.Context, _ email.Message) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	p := email.WithTimeout(stub, 10*time.Millisecond)

	start := time.Now()
	_, err := p.Send(context.Background(), email.Message{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWithTimeout_NonPositiveIsPassthrough(t *testing.T) {
	stub := &stubProvider{}
	assert.Same(t, stub, email.WithTimeout(stub, 0))
}

func TestRender_DefaultTemplates(t *testing.T) {
	vars := map[string]any{
		"SiteName":       "Folio",
		"UnsubscribeURL": "https://example.com/unsubscribe?token=abc",
		"Name":           "Ann",
		"Email":          "ann@example.com",
		"Message":        "<script>alert(1)</script>",
	}
	for name := range email.DefaultTemplates {
		t.Run(name, func(t *testing.T) {
			out, err := email.Render(name, vars)
			require.NoError(t, err)
			assert.NotEmpty(t, out.Subject)
			assert.NotEmpty(t, out.Body)
			assert.NotContains(t, out.HTML, "<script>")
		})
	}
}

func TestRender_ContactNotificationOmitsEmptyPhone(t *testing.T) {
	out, err := email.Render(email.TemplateContactNotification, map[string]any{
		"Name": "Ann", "Email": "ann@example.com", "Message": "hello there",
	})
	require.NoError(t, err)
	assert.False(t, strings.Contains(out.Body, "Phone:"))
	assert.Equal(t, "New contact message from Ann", out.Subject)
}

func TestRender_Unknown(t *testing.T) {
	_, err := email.Render("nope", nil)
	assert.ErrorIs(t, err, email.ErrUnknownTemplate)
}

func TestRenderedTemplate_Message(t *testing.T) {
	msg := email.RenderedTemplate{Subject: "s", Body: "plain", HTML: "<p>x</p>"}.Message("a@b.com", "c@d.com")
	assert.True(t, msg.HTML)
	assert.Equal(t, "<p>x</p>", msg.Body)
	assert.Equal(t, []string{"c@d.com"}, msg.To)

	plain := email.RenderedTemplate{Subject: "s", Body: "plain"}.Message("a@b.com", "c@d.com")
	assert.False(t, plain.HTML)
	assert.Equal(t, "plain", plain.Body)
}
