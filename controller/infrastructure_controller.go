package controller

import (
	"movehub-backend/models"
	"movehub-backend/services"
	"movehub-backend/utils/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type InfrastructureController struct {
	service services.InfrastructureServiceInterface
	logger  logger.Logger
}

func NewInfrastructureController(service services.InfrastructureServiceInterface, logger logger.Logger) *InfrastructureController {
	return &InfrastructureController{
		service: service,
		logger:  logger,
	}
}

// Health handles GET /api/health
// @Summary Service health
// @Description Table status and the last run of each background job. A degraded service answers 503.
// @Tags Infrastructure
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus}
// @Failure 503 {object} models.APIResponse{data=models.HealthStatus}
// @Router /health [get]
func (h *InfrastructureController) Health(c *gin.Context) {
	health := h.service.Health(c.Request.Context())

	if health.Status != "ok" {
		h.logger.Warnf("Health check degraded: %v", health.Tables)
		c.JSON(http.StatusServiceUnavailable, models.APIResponse{
			Status:  "error",
			Code:    http.StatusServiceUnavailable,
			Message: "Service degraded",
			Data:    health,
		})
		return
	}

	respond(c, http.StatusOK, "Service healthy", health)
}
