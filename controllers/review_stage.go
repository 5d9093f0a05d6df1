package controllers

import (
	"net/http"

	"innovation-portal-api/services"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/review/ideas/:id/stage
func (h *Handler) GetIdeaStage(c *gin.Context) {
	ideaID, ok := parseIdeaID(c)
	if !ok {
		return
	}
	detail, err := h.stages.GetStageDetail(c.Request.Context(), ideaID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// POST /api/admin/review/ideas/:id/stage {action, expectedStateVersion, comment?}
func (h *Handler) PostIdeaStage(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	ideaID, ok := parseIdeaID(c)
	if !ok {
		return
	}
	var input services.TransitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badJSON(c, err)
		return
	}
	action, version, comment, err := services.ValidateTransitionInput(input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.stages.Transition(c.Request.Context(), services.TransitionRequest{
		IdeaID:               ideaID,
		Action:               action,
		ExpectedStateVersion: version,
		ActorID:              viewer.UserID,
		Comment:              comment,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	body := gin.H{
		"state":            result.State,
		"stage":            result.Stage,
		"event":            result.Event,
		"audit_incomplete": result.AuditIncomplete,
	}
	if result.AuditIncomplete {
		body["warning"] = "Stage updated but the audit trail could not be recorded"
	}
	c.JSON(http.StatusOK, body)
}

// GET /api/ideas/:id/review-progress
func (h *Handler) GetReviewProgress(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	ideaID, ok := parseIdeaID(c)
	if !ok {
		return
	}
	progress, err := h.stages.GetProgress(c.Request.Context(), viewer, ideaID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
