package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendConfig holds credentials for the Resend API.
type ResendConfig struct {
	APIKey   string `json:"api_key"`
	Endpoint string `json:"endpoint,omitempty"`
}

// ResendProvider sends email via the Resend HTTP API.
type ResendProvider struct {
	cfg    ResendConfig
	client *http.Client
}

func NewResendProvider(cfg ResendConfig) *ResendProvider {
	if cfg.Endpoint == "" {
		cfg.Endpoint = resendEndpoint
	}
	return &ResendProvider{cfg: cfg, client: http.DefaultClient}
}

type resendRequest struct {
	From    string            `json:"from"`
	To      []string          `json:"to"`
	Subject string            `json:"subject"`
	HTML    string            `json:"html,omitempty"`
	Text    string            `json:"text,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Name    string `json:"name"`
}

func (p *ResendProvider) Send(ctx context.Context, msg Message) (string, error) {
	payload := resendRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Headers: msg.Headers,
	}
	if msg.HTML {
		payload.HTML = msg.Body
	} else {
		payload.Text = msg.Body
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var out resendResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode >= 300 {
		return "", statusError("resend", resp.StatusCode, out.Message)
	}
	if out.ID == "" {
		return "", fmt.Errorf("resend: response carried no message id")
	}
	return out.ID, nil
}

// statusError classifies a non-2xx provider response.
func statusError(provider string, status int, detail string) error {
	msg := fmt.Sprintf("%s returned status %d", provider, status)
	if detail != "" {
		msg += ": " + detail
	}
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, msg)
	case status >= 400 && status < 500 && status != http.StatusUnauthorized && status != http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	default:
		return fmt.Errorf("%s", msg)
	}
}
