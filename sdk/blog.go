package folio

import (
	"context"
	"net/http"
	"net/url"
)

type BlogService struct {
	c *Client
}

// List returns published posts. With drafts set and a staff session, drafts
// are included.
func (s *BlogService) List(ctx context.Context, drafts bool) ([]BlogPost, error) {
	var q url.Values
	if drafts {
		q = url.Values{"drafts": {"true"}}
	}
	out, err := doRequest[struct {
		Data []BlogPost `json:"data"`
	}](ctx, s.c, http.MethodGet, "/api/blog", q, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (s *BlogService) Get(ctx context.Context, slug string) (*BlogPost, error) {
	out, err := doRequest[struct {
		Data BlogPost `json:"data"`
	}](ctx, s.c, http.MethodGet, "/api/blog/"+url.PathEscape(slug), nil, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}
