package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Per-IP request budgets. Auth endpoints get a tighter budget than the
// rest of the API to slow down credential guessing.
const (
	GeneralRateLimit = 100
	AuthRateLimit    = 10
)

// RateLimit creates a per-IP rate limiting middleware backed by an
// in-memory store.
func RateLimit(limit int64, period time.Duration) gin.HandlerFunc {
	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: period,
		Limit:  limit,
	})
	return mgin.NewMiddleware(instance)
}

// NewAuthRateLimitMiddleware creates the stricter limiter for the auth
// endpoints.
func NewAuthRateLimitMiddleware() gin.HandlerFunc {
	return RateLimit(AuthRateLimit, time.Minute)
}
