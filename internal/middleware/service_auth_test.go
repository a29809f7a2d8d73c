package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)

	// Initialize logger for tests
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "development"})
}

func TestServiceAuthMiddleware_ValidToken(t *testing.T) {
	router := gin.New()

	handlerCalled := false
	router.Use(ServiceAuthMiddleware("service-secret"))
	router.POST("/callback", func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/callback", nil)
	req.Header.Set(ServiceAuthHeader, "service-secret")

	router.ServeHTTP(w, req)

	assert.True(t, handlerCalled, "Handler should be called for valid token")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServiceAuthMiddleware_InvalidToken(t *testing.T) {
	router := gin.New()

	handlerCalled := false
	router.Use(ServiceAuthMiddleware("service-secret"))
	router.POST("/callback", func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/callback", nil)
	req.Header.Set(ServiceAuthHeader, "wrong-token")

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled, "Handler should not be called for invalid token")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestServiceAuthMiddleware_MissingToken(t *testing.T) {
	router := gin.New()

	handlerCalled := false
	router.Use(ServiceAuthMiddleware("service-secret"))
	router.POST("/callback", func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/callback", nil)

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled, "Handler should not be called when token is missing")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServiceAuthMiddleware_NotConfigured(t *testing.T) {
	router := gin.New()

	handlerCalled := false
	router.Use(ServiceAuthMiddleware(""))
	router.POST("/callback", func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/callback", nil)
	req.Header.Set(ServiceAuthHeader, "anything")

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled, "Handler should not be called when no token is configured")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
