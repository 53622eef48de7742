package handler

import (
	"net/http"

	"wanderlust/internal/service"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthStatus *service.HealthService
}

func NewHealthHandler(status *service.HealthService) *HealthHandler {
	return &HealthHandler{healthStatus: status}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	if h.healthStatus.IsLive() {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
		return
	}
	c.Status(http.StatusServiceUnavailable)
}

// Readiness 啟動完成且 MongoDB / Redis 皆可連線才回 200
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.healthStatus.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
		return
	}
	deps, healthy := h.healthStatus.CheckDependencies(c.Request.Context())
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "dependencies": deps})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "dependencies": deps})
}
