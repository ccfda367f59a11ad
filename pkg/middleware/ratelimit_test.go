package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAuthRateLimitConfig_SetDefaults(t *testing.T) {
	cfg := AuthRateLimitConfig{}
	cfg.SetDefaults()

	assert.Equal(t, 10, cfg.MaxAttempts)
	assert.Equal(t, 60, cfg.WindowSeconds)
	assert.Equal(t, 300, cfg.LockoutSeconds)

	custom := AuthRateLimitConfig{MaxAttempts: 3, WindowSeconds: 10, LockoutSeconds: 5}
	custom.SetDefaults()
	assert.Equal(t, 3, custom.MaxAttempts)
}

func TestAuthRateLimiter_Disabled(t *testing.T) {
	rl := NewAuthRateLimiter(AuthRateLimitConfig{Enabled: false, MaxAttempts: 1}, zap.NewNop())

	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow("ip"))
	}
}

func TestAuthRateLimiter_LocksOutAfterBurst(t *testing.T) {
	// burst = ceil(4/2) = 2
	rl := NewAuthRateLimiter(AuthRateLimitConfig{
		Enabled:        true,
		MaxAttempts:    4,
		WindowSeconds:  3600,
		LockoutSeconds: 3600,
	}, zap.NewNop())

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	// still locked out
	assert.False(t, rl.Allow("1.2.3.4"))

	// other identifiers are unaffected
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestAuthRateLimitMiddleware_FailuresCostMore(t *testing.T) {
	rl := NewAuthRateLimiter(AuthRateLimitConfig{
		Enabled:        true,
		MaxAttempts:    6,
		WindowSeconds:  3600,
		LockoutSeconds: 3600,
	}, zap.NewNop())

	router := gin.New()
	router.POST("/login", AuthRateLimitMiddleware(rl), func(c *gin.Context) {
		c.Status(http.StatusUnauthorized)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}

	// burst 3: first attempt costs 1+2, the second is refused
	assert.Equal(t, http.StatusUnauthorized, codes[0])
	assert.Equal(t, http.StatusTooManyRequests, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}
