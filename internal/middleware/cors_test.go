package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/xenz/backend/internal/config"
)

func newCORSRouter(origins []string, env string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(&config.Config{AllowedOrigins: origins, Env: env}))
	router.POST("/api/v1/send-otp", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	router := newCORSRouter([]string{"https://app.example.com"}, "production")

	// Preflight is answered by the middleware; no OPTIONS route exists
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/send-otp", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Admin-Key")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Razorpay-Signature")
}

func TestCORSDisallowedOrigin(t *testing.T) {
	router := newCORSRouter([]string{"https://app.example.com"}, "production")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/send-otp", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSDevelopmentAllowsAnyOrigin(t *testing.T) {
	router := newCORSRouter([]string{"http://localhost:3000"}, "development")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/send-otp", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
