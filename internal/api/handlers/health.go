// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/card-service/internal/api/dto"
)

// Pinger is a dependency whose health can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SessionCounter reports the number of live sessions.
type SessionCounter interface {
	SessionCount() int
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	components map[string]Pinger
	sessions   SessionCounter
}

// NewHealthHandler creates a new HealthHandler. Nil components are skipped.
func NewHealthHandler(sessions SessionCounter, components map[string]Pinger) *HealthHandler {
	checked := make(map[string]Pinger, len(components))
	for name, p := range components {
		if p != nil {
			checked[name] = p
		}
	}
	return &HealthHandler{
		components: checked,
		sessions:   sessions,
	}
}

// check pings every component and returns the first unhealthy name in sorted order.
func (h *HealthHandler) check(ctx context.Context) (map[string]string, string) {
	names := make([]string, 0, len(h.components))
	for name := range h.components {
		names = append(names, name)
	}
	sort.Strings(names)

	statuses := make(map[string]string, len(names))
	failed := ""
	for _, name := range names {
		if err := h.components[name].Ping(ctx); err != nil {
			statuses[name] = "unhealthy"
			if failed == "" {
				failed = name
			}
			continue
		}
		statuses[name] = "healthy"
	}
	return statuses, failed
}

// Health handles the /health endpoint.
// @Summary Health check
// @Description Returns the overall health status and component statuses
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy"
// @Failure 503 {object} dto.HealthResponse "Service unhealthy"
// @Router /api/v1/card-service/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	components, failed := h.check(c.Request.Context())

	resp := dto.HealthResponse{
		Status:     "healthy",
		Components: components,
	}
	if h.sessions != nil {
		resp.Sessions = h.sessions.SessionCount()
	}

	statusCode := http.StatusOK
	if failed != "" {
		resp.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, resp)
}

// Ready handles the /ready endpoint.
// @Summary Readiness check
// @Description Returns 200 if the service is ready to accept traffic
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service ready"
// @Failure 503 {object} map[string]string "Service not ready"
// @Router /api/v1/card-service/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if _, failed := h.check(c.Request.Context()); failed != "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": failed + " unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// Live handles the /live endpoint.
// @Summary Liveness check
// @Description Returns 200 if the service is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service alive"
// @Router /api/v1/card-service/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
