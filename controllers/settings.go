package controllers

import (
	"net/http"

	"innovation-portal-api/models"
	"innovation-portal-api/services"

	"github.com/gin-gonic/gin"
)

type blindReviewRequest struct {
	Enabled *bool `json:"enabled"`
}

func blindReviewBody(setting models.PortalSetting) gin.H {
	body := gin.H{"enabled": setting.BoolValue, "updated_by": setting.UpdatedBy}
	if !setting.UpdatedAt.IsZero() {
		body["updated_at"] = setting.UpdatedAt
	} else {
		body["updated_at"] = nil
	}
	return body
}

// GET /api/admin/settings/blind-review
func (h *Handler) GetBlindReview(c *gin.Context) {
	setting, err := h.settings.BlindReview(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blindReviewBody(setting))
}

// PUT /api/admin/settings/blind-review {enabled}
func (h *Handler) PutBlindReview(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	var req blindReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	if req.Enabled == nil {
		h.respondError(c, services.ValidationFailed(services.FieldError{Field: "enabled", Message: "is required"}))
		return
	}

	setting, err := h.settings.SetBlindReview(c.Request.Context(), *req.Enabled, viewer.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blindReviewBody(setting))
}
