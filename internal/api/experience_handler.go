package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/folio/internal/store"
)

const dateLayout = "2006-01-02"

type experienceRequest struct {
	Company     string   `json:"company" binding:"required,max=200"`
	Role        string   `json:"role" binding:"required,max=200"`
	Location    string   `json:"location" binding:"max=200"`
	StartDate   string   `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     string   `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Current     bool     `json:"current"`
	Description string   `json:"description" binding:"max=5000"`
	Highlights  []string `json:"highlights" binding:"max=30,dive,max=500"`
	SortOrder   int32    `json:"sortOrder"`
}

// dates parses the request's date range. A current role never has an
// end date.
func (r experienceRequest) dates() (start time.Time, end *time.Time, msg string) {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return start, nil, "startDate must be YYYY-MM-DD"
	}
	if r.Current || r.EndDate == "" {
		return start, nil, ""
	}
	e, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return start, nil, "endDate must be YYYY-MM-DD"
	}
	if e.Before(start) {
		return start, nil, "endDate must not be before startDate"
	}
	return start, &e, ""
}

func (h *Handler) ListExperience(c *gin.Context) {
	items, err := h.queries.ListExperiences(c.Request.Context())
	if err != nil {
		internalError(c, err, "failed to list experience")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": items})
}

func (h *Handler) CreateExperience(c *gin.Context) {
	var body experienceRequest
	if !bindJSON(c, &body) {
		return
	}
	start, end, msg := body.dates()
	if msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	exp, err := h.queries.CreateExperience(c.Request.Context(), store.CreateExperienceParams{
		Company:     body.Company,
		Role:        body.Role,
		Location:    body.Location,
		StartDate:   start,
		EndDate:     end,
		Current:     body.Current,
		Description: body.Description,
		Highlights:  body.Highlights,
		SortOrder:   body.SortOrder,
	})
	if err != nil {
		storeError(c, err, "experience")
		return
	}
	ok(c, http.StatusCreated, gin.H{"data": exp})
}

func (h *Handler) UpdateExperience(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var body experienceRequest
	if !bindJSON(c, &body) {
		return
	}
	start, end, msg := body.dates()
	if msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	exp, err := h.queries.UpdateExperience(c.Request.Context(), store.UpdateExperienceParams{
		ID:          id,
		Company:     body.Company,
		Role:        body.Role,
		Location:    body.Location,
		StartDate:   start,
		EndDate:     end,
		Current:     body.Current,
		Description: body.Description,
		Highlights:  body.Highlights,
		SortOrder:   body.SortOrder,
	})
	if err != nil {
		storeError(c, err, "experience")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": exp})
}

func (h *Handler) DeleteExperience(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	n, err := h.queries.DeleteExperience(c.Request.Context(), id)
	deleted(c, n, err, "experience")
}
