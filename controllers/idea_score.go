package controllers

import (
	"net/http"

	"innovation-portal-api/services"

	"github.com/gin-gonic/gin"
)

// PUT /api/ideas/:id/score {score, comment?}
func (h *Handler) PutIdeaScore(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	ideaID, ok := parseIdeaID(c)
	if !ok {
		return
	}
	var input services.ScoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badJSON(c, err)
		return
	}
	score, comment, err := services.ValidateScoreInput(input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entry, aggregate, err := h.scoring.Submit(c.Request.Context(), ideaID, viewer.UserID, score, comment)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": entry, "aggregate": aggregate})
}

// GET /api/ideas/:id/scores
func (h *Handler) GetIdeaScores(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	ideaID, ok := parseIdeaID(c)
	if !ok {
		return
	}
	scores, err := h.scoring.ListVisible(c.Request.Context(), viewer, ideaID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scores)
}
