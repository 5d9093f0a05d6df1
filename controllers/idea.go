package controllers

import (
	"net/http"

	"innovation-portal-api/services"

	"github.com/gin-gonic/gin"
)

// GET /api/ideas?limit=50&offset=0&mine=true
func (h *Handler) ListIdeas(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	limit := parseIntOrDefault(c.Query("limit"), 50)
	if limit > 200 {
		limit = 200
	}
	offset := parseIntOrDefault(c.Query("offset"), 0)

	items, total, err := h.ideas.List(c.Request.Context(), viewer, services.ListOptions{
		Limit:  limit,
		Offset: offset,
		Mine:   c.Query("mine") == "true",
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"paging": gin.H{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// POST /api/ideas {title, description?, category?}
func (h *Handler) CreateIdea(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	var input services.IdeaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badJSON(c, err)
		return
	}
	idea, err := h.ideas.Create(c.Request.Context(), viewer.UserID, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"idea": idea})
}

// GET /api/ideas/:id
func (h *Handler) GetIdea(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	ideaID, ok := parseIdeaID(c)
	if !ok {
		return
	}
	view, err := h.ideas.GetVisible(c.Request.Context(), viewer, ideaID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"idea": view})
}

// POST /api/ideas/:id/submit
func (h *Handler) SubmitIdea(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	ideaID, ok := parseIdeaID(c)
	if !ok {
		return
	}
	result, err := h.ideas.Submit(c.Request.Context(), viewer, ideaID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
