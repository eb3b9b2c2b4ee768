package folio

import (
	"context"
	"net/http"
)

// NewsletterService sends newsletters. Both calls need an admin session.
type NewsletterService struct {
	c *Client
}

// Send delivers a newsletter and waits for the whole batch. A nil error means
// the batch ran; check FailedCount for per-recipient failures.
func (s *NewsletterService) Send(ctx context.Context, req NewsletterRequest) (*NewsletterResponse, error) {
	return doRequest[NewsletterResponse](ctx, s.c, http.MethodPost, "/api/newsletter/send", nil, req, http.StatusOK)
}

// Recipients returns the addresses of all active subscribers.
func (s *NewsletterService) Recipients(ctx context.Context) ([]string, error) {
	out, err := doRequest[struct {
		Recipients []string `json:"recipients"`
	}](ctx, s.c, http.MethodGet, "/api/newsletter/recipients", nil, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return out.Recipients, nil
}

// SendToSubscribers sends to every active subscriber.
func (s *NewsletterService) SendToSubscribers(ctx context.Context, subject, content string) (*NewsletterResponse, error) {
	recipients, err := s.Recipients(ctx)
	if err != nil {
		return nil, err
	}
	return s.Send(ctx, NewsletterRequest{Subject: subject, Content: content, Recipients: recipients})
}
