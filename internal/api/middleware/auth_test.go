package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func authRouter(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewAuthMiddleware(token).Authenticate())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func get(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuth_DisabledWhenNoToken(t *testing.T) {
	router := authRouter("")
	assert.Equal(t, http.StatusOK, get(router, "").Code)
}

func TestAuth_ValidToken(t *testing.T) {
	router := authRouter("sekrit")
	assert.Equal(t, http.StatusOK, get(router, "Bearer sekrit").Code)
}

func TestAuth_MissingHeader(t *testing.T) {
	router := authRouter("sekrit")
	assert.Equal(t, http.StatusUnauthorized, get(router, "").Code)
}

func TestAuth_WrongToken(t *testing.T) {
	router := authRouter("sekrit")
	assert.Equal(t, http.StatusUnauthorized, get(router, "Bearer nope").Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	router := authRouter("sekrit")
	assert.Equal(t, http.StatusUnauthorized, get(router, "Token sekrit").Code)
}
