package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"innovation-portal-api/middleware"
	"innovation-portal-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the portal's HTTP endpoints.
type Handler struct {
	workflows *services.WorkflowService
	stages    *services.StageStateService
	scoring   *services.ScoringService
	settings  *services.SettingsService
	ideas     *services.IdeaService
	logger    *zap.Logger
}

// Services groups the dependencies of Handler.
type Services struct {
	Workflows *services.WorkflowService
	Stages    *services.StageStateService
	Scoring   *services.ScoringService
	Settings  *services.SettingsService
	Ideas     *services.IdeaService
}

func NewHandler(svc Services, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		workflows: svc.Workflows,
		stages:    svc.Stages,
		scoring:   svc.Scoring,
		settings:  svc.Settings,
		ideas:     svc.Ideas,
		logger:    logger,
	}
}

// currentViewer returns the authenticated caller or writes 401.
func currentViewer(c *gin.Context) (services.Viewer, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return services.Viewer{}, false
	}
	role, _ := middleware.RoleFromContext(c)
	return services.Viewer{UserID: userID, Role: role}, true
}

func parseIdeaID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid idea id"})
		return 0, false
	}
	return uint(id64), true
}

func parseIntOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func badJSON(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
}

// respondError maps service errors to HTTP responses.
func (h *Handler) respondError(c *gin.Context, err error) {
	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		svcErr = &services.ServiceError{Kind: services.KindStorage, Message: "unexpected error", Err: err}
	}

	switch svcErr.Kind {
	case services.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": svcErr.Message})
	case services.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": svcErr.Message})
	case services.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": svcErr.Fields})
	case services.KindInvalidTransition, services.KindNotUnderReview:
		c.JSON(http.StatusBadRequest, gin.H{"error": svcErr.Message, "details": gin.H{"code": svcErr.Kind}})
	case services.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict", "message": svcErr.Message})
	default:
		_ = c.Error(err)
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(middleware.ContextRequestID)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
