package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type workflowStageRequest struct {
	Name string `json:"name"`
}

type putWorkflowRequest struct {
	Stages []workflowStageRequest `json:"stages"`
}

// GET /api/admin/review/workflow
func (h *Handler) GetReviewWorkflow(c *gin.Context) {
	wf, err := h.workflows.GetActive(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if wf == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active review workflow"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"workflow": wf})
}

// PUT /api/admin/review/workflow {stages:[{name}]}
func (h *Handler) PutReviewWorkflow(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	var req putWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	names := make([]string, len(req.Stages))
	for i, stage := range req.Stages {
		names[i] = stage.Name
	}

	wf, err := h.workflows.CreateAndActivate(c.Request.Context(), names, viewer.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workflow": wf})
}
