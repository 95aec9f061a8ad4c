package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mongobridge/tool-service/internal/conn"
	"github.com/mongobridge/tool-service/internal/core/cache"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	connections *conn.Registry
	cacheClient cache.Cache
}

// NewHealthHandler creates a new HealthHandler. cacheClient may be nil when
// caching is disabled.
func NewHealthHandler(connections *conn.Registry, cacheClient cache.Cache) *HealthHandler {
	return &HealthHandler{
		connections: connections,
		cacheClient: cacheClient,
	}
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// Health handles the /health endpoint. An unconfigured connection is not a
// fault: the service is fully operational before the first configure call.
// @Summary Health check
// @Description Returns the overall health status and component statuses
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Service healthy"
// @Failure 503 {object} HealthResponse "Service unhealthy"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	components := make(map[string]string)
	healthy := true

	// Check document database connection
	if handle := h.connections.Active(); handle == nil {
		components["docdb"] = "not_configured"
	} else if err := handle.Ping(c.Request.Context()); err != nil {
		components["docdb"] = "unhealthy"
		healthy = false
	} else {
		components["docdb"] = "healthy"
	}

	// Check cache
	if h.cacheClient == nil {
		components["cache"] = "disabled"
	} else if err := h.cacheClient.Ping(c.Request.Context()); err != nil {
		components["cache"] = "unhealthy"
		healthy = false
	} else {
		components["cache"] = "healthy"
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:     status,
		Components: components,
	})
}

// Ready handles the /ready endpoint. Readiness means the HTTP surface can
// serve tool calls; it does not require a configured connection.
// @Summary Readiness check
// @Description Returns 200 if the service is ready to accept traffic
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service ready"
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
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
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
