package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/internhub/internal/app/models/dto"
)

// Pinger is anything whose liveness the health check reports
type Pinger func(ctx context.Context) error

// HealthController reports service health
type HealthController struct {
	checks map[string]Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(checks map[string]Pinger) *HealthController {
	return &HealthController{checks: checks}
}

// HealthStatus is the body of the health response
type HealthStatus struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=controllers.HealthStatus}
// @Failure 503 {object} dto.APIResponse{data=controllers.HealthStatus}
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{Status: "ok", Checks: make(map[string]string, len(c.checks))}
	code := http.StatusOK
	for name, ping := range c.checks {
		if err := ping(reqCtx); err != nil {
			status.Checks[name] = err.Error()
			status.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status.Checks[name] = "ok"
	}
	ctx.JSON(code, dto.NewSuccessResponse(status))
}
