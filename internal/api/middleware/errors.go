package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorMiddleware handles panic recovery and fallback routes.
type ErrorMiddleware struct {
	logger zerolog.Logger
}

// NewErrorMiddleware creates a new ErrorMiddleware.
func NewErrorMiddleware(logger zerolog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger}
}

// Recovery returns a gin middleware that recovers from panics.
func (m *ErrorMiddleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				m.logger.Error().
					Interface("error", err).
					Str("path", c.Request.URL.Path).
					Str("method", c.Request.Method).
					Msg("panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"status": "error",
					"error":  "internal server error",
					"code":   "INTERNAL_ERROR",
				})
			}
		}()
		c.Next()
	}
}

// NotFound returns a 404 handler for unmatched routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "resource not found",
			"code":   "NOT_FOUND",
		})
	}
}
