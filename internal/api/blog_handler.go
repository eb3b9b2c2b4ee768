package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/folio/internal/auth"
	"github.com/gsarma/folio/internal/store"
	"github.com/gsarma/folio/internal/validation"
)

type blogPostRequest struct {
	Title      string   `json:"title" binding:"required,max=200"`
	Slug       string   `json:"slug" binding:"omitempty,max=100,slug"`
	Excerpt    string   `json:"excerpt" binding:"max=500"`
	Content    string   `json:"content"`
	CoverImage string   `json:"coverImage" binding:"omitempty,url"`
	Tags       []string `json:"tags" binding:"max=20,dive,max=40"`
	Published  bool     `json:"published"`
}

// resolveSlug returns the explicit slug or one derived from title.
func resolveSlug(c *gin.Context, slug, title string) (string, bool) {
	if slug != "" {
		return slug, true
	}
	slug = validation.Slugify(title)
	if slug == "" {
		fail(c, http.StatusBadRequest, "slug is required when the title has no letters or digits")
		return "", false
	}
	return slug, true
}

// ListBlogPosts returns published posts; staff may pass ?drafts=true to
// include drafts.
func (h *Handler) ListBlogPosts(c *gin.Context) {
	publishedOnly := !(c.Query("drafts") == "true" && auth.IsStaff(c))
	posts, err := h.queries.ListBlogPosts(c.Request.Context(), publishedOnly)
	if err != nil {
		internalError(c, err, "failed to list blog posts")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": posts})
}

// GetBlogPost looks a post up by slug. Drafts are visible to staff only.
func (h *Handler) GetBlogPost(c *gin.Context) {
	post, err := h.queries.GetBlogPostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		storeError(c, err, "blog post")
		return
	}
	if !post.Published && !auth.IsStaff(c) {
		fail(c, http.StatusNotFound, "blog post not found")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": post})
}

func (h *Handler) CreateBlogPost(c *gin.Context) {
	var body blogPostRequest
	if !bindJSON(c, &body) {
		return
	}
	slug, valid := resolveSlug(c, body.Slug, body.Title)
	if !valid {
		return
	}
	post, err := h.queries.CreateBlogPost(c.Request.Context(), store.CreateBlogPostParams{
		Title:      body.Title,
		Slug:       slug,
		Excerpt:    body.Excerpt,
		Content:    body.Content,
		CoverImage: body.CoverImage,
		Tags:       body.Tags,
		Published:  body.Published,
	})
	if err != nil {
		storeError(c, err, "blog post")
		return
	}
	ok(c, http.StatusCreated, gin.H{"data": post})
}

func (h *Handler) UpdateBlogPost(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var body blogPostRequest
	if !bindJSON(c, &body) {
		return
	}
	slug, valid := resolveSlug(c, body.Slug, body.Title)
	if !valid {
		return
	}
	post, err := h.queries.UpdateBlogPost(c.Request.Context(), store.UpdateBlogPostParams{
		ID:         id,
		Title:      body.Title,
		Slug:       slug,
		Excerpt:    body.Excerpt,
		Content:    body.Content,
		CoverImage: body.CoverImage,
		Tags:       body.Tags,
		Published:  body.Published,
	})
	if err != nil {
		storeError(c, err, "blog post")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": post})
}

func (h *Handler) DeleteBlogPost(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	n, err := h.queries.DeleteBlogPost(c.Request.Context(), id)
	deleted(c, n, err, "blog post")
}
