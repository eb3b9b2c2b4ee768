package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/folio/internal/store"
)

type projectRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Slug        string   `json:"slug" binding:"omitempty,max=100,slug"`
	Summary     string   `json:"summary" binding:"max=500"`
	Description string   `json:"description"`
	ImageUrl    string   `json:"imageUrl" binding:"omitempty,url"`
	TechStack   []string `json:"techStack" binding:"max=30,dive,max=40"`
	LiveUrl     string   `json:"liveUrl" binding:"omitempty,url"`
	RepoUrl     string   `json:"repoUrl" binding:"omitempty,url"`
	Featured    bool     `json:"featured"`
	SortOrder   int32    `json:"sortOrder"`
}

// ListProjects returns every project, or only featured ones with
// ?featured=true.
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.queries.ListProjects(c.Request.Context(), c.Query("featured") == "true")
	if err != nil {
		internalError(c, err, "failed to list projects")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": projects})
}

func (h *Handler) GetProject(c *gin.Context) {
	project, err := h.queries.GetProjectBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		storeError(c, err, "project")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": project})
}

func (h *Handler) CreateProject(c *gin.Context) {
	var body projectRequest
	if !bindJSON(c, &body) {
		return
	}
	slug, valid := resolveSlug(c, body.Slug, body.Title)
	if !valid {
		return
	}
	project, err := h.queries.CreateProject(c.Request.Context(), store.CreateProjectParams{
		Title:       body.Title,
		Slug:        slug,
		Summary:     body.Summary,
		Description: body.Description,
		ImageUrl:    body.ImageUrl,
		TechStack:   body.TechStack,
		LiveUrl:     body.LiveUrl,
		RepoUrl:     body.RepoUrl,
		Featured:    body.Featured,
		SortOrder:   body.SortOrder,
	})
	if err != nil {
		storeError(c, err, "project")
		return
	}
	ok(c, http.StatusCreated, gin.H{"data": project})
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var body projectRequest
	if !bindJSON(c, &body) {
		return
	}
	slug, valid := resolveSlug(c, body.Slug, body.Title)
	if !valid {
		return
	}
	project, err := h.queries.UpdateProject(c.Request.Context(), store.UpdateProjectParams{
		ID:          id,
		Title:       body.Title,
		Slug:        slug,
		Summary:     body.Summary,
		Description: body.Description,
		ImageUrl:    body.ImageUrl,
		TechStack:   body.TechStack,
		LiveUrl:     body.LiveUrl,
		RepoUrl:     body.RepoUrl,
		Featured:    body.Featured,
		SortOrder:   body.SortOrder,
	})
	if err != nil {
		storeError(c, err, "project")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": project})
}

func (h *Handler) DeleteProject(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	n, err := h.queries.DeleteProject(c.Request.Context(), id)
	deleted(c, n, err, "project")
}
