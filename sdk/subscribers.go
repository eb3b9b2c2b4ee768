package folio

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// SubscriberService covers the public subscribe flow and the admin
// subscriber list.
type SubscriberService struct {
	c *Client
}

// Subscribe signs email up for the newsletter. Subscribing an address that is
// already active fails with a 409 (see IsConflict).
func (s *SubscriberService) Subscribe(ctx context.Context, email string) (*SubscribeResponse, error) {
	return s.create(ctx, "/api/subscribe", email)
}

// Create adds a subscriber from the admin side without a welcome email.
func (s *SubscriberService) Create(ctx context.Context, email string) (*SubscribeResponse, error) {
	return s.create(ctx, "/api/subscribers", email)
}

func (s *SubscriberService) create(ctx context.Context, path, email string) (*SubscribeResponse, error) {
	out, status, err := doRequestStatus[SubscribeResponse](ctx, s.c, http.MethodPost, path, nil,
		map[string]string{"email": email}, http.StatusCreated, http.StatusOK)
	if err != nil {
		return nil, err
	}
	out.Reactivated = status == http.StatusOK
	return out, nil
}

// Unsubscribe deactivates email. It succeeds for addresses that are already
// unsubscribed.
func (s *SubscriberService) Unsubscribe(ctx context.Context, email string) (*MessageResponse, error) {
	return doRequest[MessageResponse](ctx, s.c, http.MethodPost, "/api/unsubscribe", nil,
		map[string]string{"email": email}, http.StatusOK)
}

// DecodeToken resolves the token of an unsubscribe link into its address.
func (s *SubscriberService) DecodeToken(ctx context.Context, token string) (string, error) {
	out, err := doRequest[struct {
		Email string `json:"email"`
	}](ctx, s.c, http.MethodGet, "/api/unsubscribe", url.Values{"token": {token}}, nil, http.StatusOK)
	if err != nil {
		return "", err
	}
	return out.Email, nil
}

// List returns subscribers, optionally only active or inactive ones. Counts
// always cover the whole list.
func (s *SubscriberService) List(ctx context.Context, active *bool) (*SubscriberList, error) {
	var q url.Values
	if active != nil {
		q = url.Values{"active": {strconv.FormatBool(*active)}}
	}
	return doRequest[SubscriberList](ctx, s.c, http.MethodGet, "/api/subscribers", q, nil, http.StatusOK)
}

func (s *SubscriberService) Update(ctx context.Context, id string, req UpdateSubscriberRequest) (*Subscriber, error) {
	out, err := doRequest[struct {
		Data Subscriber `json:"data"`
	}](ctx, s.c, http.MethodPut, "/api/subscribers/"+url.PathEscape(id), nil, req, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Delete removes a subscriber permanently.
func (s *SubscriberService) Delete(ctx context.Context, id string) error {
	_, err := doRequest[MessageResponse](ctx, s.c, http.MethodDelete, "/api/subscribers/"+url.PathEscape(id), nil, nil, http.StatusOK)
	return err
}
