package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg Config) *Limiter {
	t.Helper()
	l := New(cfg)
	t.Cleanup(l.Stop)
	return l
}

func TestAllowWithinBurst(t *testing.T) {
	l := newTestLimiter(t, Config{Rate: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d should pass", i)
	}
	assert.False(t, l.Allow("10.0.0.1"))
}

func TestProducersAreIndependent(t *testing.T) {
	l := newTestLimiter(t, Config{Rate: 1, Burst: 1})

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
	assert.Equal(t, 2, l.Len())
}

func TestSweepDropsStaleProducers(t *testing.T) {
	l := newTestLimiter(t, Config{Rate: 1, Burst: 1, CleanupInterval: time.Hour, MaxAge: time.Millisecond})

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")
	require.Equal(t, 2, l.Len())

	time.Sleep(5 * time.Millisecond)
	l.sweep()

	assert.Equal(t, 0, l.Len())
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	l := newTestLimiter(t, Config{Rate: 1, Burst: 1})

	engine := gin.New()
	engine.POST("/notify", l.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/notify", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/notify", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "rate limit exceeded")
}

func TestDefaultsApplied(t *testing.T) {
	l := newTestLimiter(t, Config{Rate: 5, Burst: 10})

	assert.Equal(t, time.Minute, l.config.CleanupInterval)
	assert.Equal(t, 5*time.Minute, l.config.MaxAge)
}
