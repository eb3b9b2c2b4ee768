package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendGridConfig holds credentials for the SendGrid API.
type SendGridConfig struct {
	APIKey   string `json:"api_key"`
	Endpoint string `json:"endpoint,omitempty"`
}

// SendGridProvider sends email via the SendGrid v3 Mail Send API.
type SendGridProvider struct {
	cfg    SendGridConfig
	client *http.Client
}

func NewSendGridProvider(cfg SendGridConfig) *SendGridProvider {
	if cfg.Endpoint == "" {
		cfg.Endpoint = sendGridEndpoint
	}
	return &SendGridProvider{cfg: cfg, client: http.DefaultClient}
}

func (p *SendGridProvider) Send(ctx context.Context, msg Message) (string, error) {
	toList := make([]map[string]string, len(msg.To))
	for i, addr := range msg.To {
		toList[i] = map[string]string{"email": addr}
	}

	contentType := "text/plain"
	if msg.HTML {
		contentType = "text/html"
	}

	from, err := parseAddress(msg.From)
	if err != nil {
		return "", fmt.Errorf("%w: from address: %v", ErrRejected, err)
	}

	payload := map[string]any{
		"personalizations": []map[string]any{
			{"to": toList},
		},
		"from":    map[string]string{"email": from.Address, "name": from.Name},
		"subject": msg.Subject,
		"content": []map[string]string{
			{"type": contentType, "value": msg.Body},
		},
	}
	if len(msg.Headers) > 0 {
		payload["headers"] = msg.Headers
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal sendgrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build sendgrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var out struct {
			Errors []struct {
				Message string `json:"message"`
			} `json:"errors"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(raw, &out)
		detail := ""
		if len(out.Errors) > 0 {
			detail = out.Errors[0].Message
		}
		return "", statusError("sendgrid", resp.StatusCode, detail)
	}

	id := resp.Header.Get("X-Message-Id")
	if id == "" {
		return "", fmt.Errorf("sendgrid: response carried no X-Message-Id")
	}
	return id, nil
}
