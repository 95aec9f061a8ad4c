// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mongobridge/tool-service/internal/tools"
)

// ToolsHandler exposes the tool catalogue over HTTP.
type ToolsHandler struct {
	registry *tools.Registry
}

// NewToolsHandler creates a new ToolsHandler.
func NewToolsHandler(registry *tools.Registry) *ToolsHandler {
	return &ToolsHandler{registry: registry}
}

// ListResponse is the catalogue listing payload.
type ListResponse struct {
	Tools []tools.Info `json:"tools"`
	Count int          `json:"count"`
}

// List handles GET /tools.
// @Summary List tools
// @Description Returns the tool catalogue sorted by name
// @Tags Tools
// @Produce json
// @Success 200 {object} ListResponse "Tool catalogue"
// @Router /tools [get]
func (h *ToolsHandler) List(c *gin.Context) {
	infos := h.registry.List()
	c.JSON(http.StatusOK, ListResponse{Tools: infos, Count: len(infos)})
}

// Invoke handles POST /tools/:name. The response is always the tool's own
// envelope: invocation faults surface as error envelopes with HTTP 200, and
// only an unknown tool name changes the status code.
// @Summary Invoke a tool
// @Description Runs the named tool with a JSON parameter object
// @Tags Tools
// @Accept json
// @Produce json
// @Param name path string true "Tool name"
// @Param params body object false "Tool parameters"
// @Success 200 {object} map[string]interface{} "Result envelope"
// @Failure 404 {object} map[string]interface{} "Unknown tool"
// @Router /tools/{name} [post]
func (h *ToolsHandler) Invoke(c *gin.Context) {
	name := c.Param("name")
	if !h.registry.Has(name) {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "tool '" + name + "' not found",
			"code":   "NOT_FOUND",
		})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"status": "error",
			"error":  "failed to read request body",
			"code":   "VALIDATION_ERROR",
		})
		return
	}

	result := h.registry.Invoke(c.Request.Context(), name, json.RawMessage(body))
	c.JSON(http.StatusOK, result)
}
