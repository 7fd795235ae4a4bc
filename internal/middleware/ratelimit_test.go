package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farmstore/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ping(engine http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":40000"
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitKeysByClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(NewInMemoryRateLimiter(2, time.Minute)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, ping(r, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, ping(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, ping(r, "10.0.0.1"))

	// a different client is counted separately
	assert.Equal(t, http.StatusOK, ping(r, "10.0.0.2"))
}

func TestRateLimitKeysByUserWhenAuthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var userID uint
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(claimsKey, &auth.AccessClaims{UserID: userID})
	})
	r.Use(RateLimit(NewInMemoryRateLimiter(2, time.Minute)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	userID = 1
	assert.Equal(t, http.StatusOK, ping(r, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, ping(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, ping(r, "10.0.0.1"))

	// same IP, different account: the user key partitions the budget
	userID = 2
	assert.Equal(t, http.StatusOK, ping(r, "10.0.0.1"))
}
