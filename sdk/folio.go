// Package folio provides a Go client for the folio site API.
//
// Usage:
//
//	client := folio.New("https://example.com")
//
//	// Public endpoints need no session.
//	_, err := client.Subscribers.Subscribe(ctx, "reader@example.com")
//
//	// Admin endpoints need a session.
//	if _, err := client.Login(ctx, "admin@example.com", password); err != nil {
//	    return err
//	}
//	res, err := client.Newsletter.Send(ctx, folio.NewsletterRequest{
//	    Subject:    "Hello",
//	    Content:    "<p>Hi</p>",
//	    Recipients: []string{"reader@example.com"},
//	})
package folio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Client talks to one folio deployment.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string

	Subscribers *SubscriberService
	Newsletter  *NewsletterService
	Blog        *BlogService
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken starts the client with an existing session token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a client. baseURL is the site origin, e.g. "https://example.com".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	c.Subscribers = &SubscriberService{c: c}
	c.Newsletter = &NewsletterService{c: c}
	c.Blog = &BlogService{c: c}
	return c
}

// Token returns the current session token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a session token, which is then sent with
// every request.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	out, err := doRequest[LoginResponse](ctx, c, http.MethodPost, "/api/auth/login", nil,
		map[string]string{"email": email, "password": password}, http.StatusOK)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.token = out.Token
	c.mu.Unlock()
	return out, nil
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	out, err := doRequest[struct {
		User User `json:"user"`
	}](ctx, c, http.MethodGet, "/api/auth/me", nil, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Health checks that the server and its dependencies are up.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	return doRequest[HealthResponse](ctx, c, http.MethodGet, "/health", nil, nil, http.StatusOK)
}

// --- internal helpers ---

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("folio: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// doRequest sends the request and decodes the body when the status is one of
// expected.
func doRequest[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any, expected ...int) (*T, error) {
	out, _, err := doRequestStatus[T](ctx, c, method, path, query, body, expected...)
	return out, err
}

// doRequestStatus is doRequest that also reports which expected status was
// returned.
func doRequestStatus[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any, expected ...int) (*T, int, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	for _, s := range expected {
		if resp.StatusCode == s {
			var out T
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return nil, s, fmt.Errorf("folio: decode response: %w", err)
			}
			return &out, s, nil
		}
	}
	return nil, resp.StatusCode, parseError(resp)
}

func parseError(resp *http.Response) *APIError {
	e := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		e.Message = body.Message
	} else {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}
