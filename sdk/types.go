package folio

import "time"

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResponse is returned by POST /api/auth/login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// MessageResponse is the generic {success, message} envelope.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Subscriber struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
	Active       bool      `json:"active"`
}

// SubscriberCounts summarises the whole subscriber list.
type SubscriberCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// SubscribeResponse is returned by the subscribe endpoints. Reactivated is
// set when an existing, previously unsubscribed address was re-enabled.
type SubscribeResponse struct {
	Success     bool       `json:"success"`
	Message     string     `json:"message"`
	Subscriber  Subscriber `json:"data"`
	Reactivated bool       `json:"-"`
}

// SubscriberList is returned by GET /api/subscribers.
type SubscriberList struct {
	Subscribers []Subscriber     `json:"data"`
	Counts      SubscriberCounts `json:"counts"`
}

// UpdateSubscriberRequest changes an address or status. Nil fields are left
// unchanged.
type UpdateSubscriberRequest struct {
	Email  *string `json:"email,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// NewsletterRequest is the body of POST /api/newsletter/send.
type NewsletterRequest struct {
	Subject    string   `json:"subject"`
	Content    string   `json:"content"`
	Recipients []string `json:"recipients"`
}

// RecipientResult is the outcome for one recipient. Error is set only when
// Success is false.
type RecipientResult struct {
	Email     string `json:"email"`
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewsletterResponse reports a finished newsletter batch.
type NewsletterResponse struct {
	Success         bool              `json:"success"`
	Message         string            `json:"message"`
	SentCount       int               `json:"sentCount"`
	FailedCount     int               `json:"failedCount"`
	TotalRecipients int               `json:"totalRecipients"`
	Results         []RecipientResult `json:"results"`
}

// Failed returns the results of recipients that did not receive the email.
func (r *NewsletterResponse) Failed() []RecipientResult {
	var out []RecipientResult
	for _, res := range r.Results {
		if !res.Success {
			out = append(out, res)
		}
	}
	return out
}

type BlogPost struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"coverImage"`
	Tags        []string   `json:"tags"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
