package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/najmfleet/employee_requests_app/internal/middleware"
)

func TestRateLimit_BlocksSixthAttemptPerMinute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rate, err := limiter.NewRateFromFormatted("5-M")
	require.NoError(t, err)
	ipLimiter := limiter.New(memory.NewStore(), rate)

	r := gin.New()
	r.POST("/login", middleware.RateLimit(ipLimiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 1; i <= 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "attempt %d", i)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
