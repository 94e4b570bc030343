package middleware

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nextbase/internal/cache"
	"nextbase/internal/transport/http/response"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (cache.Decision, error)
}

// RateLimit rejects clients over their per-window budget with 429. Limiter failures
// let the request through.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Printf("rate limit check failed: %v", err)
			c.Next()
			return
		}

		resetSec := int(math.Ceil(decision.ResetIn.Seconds()))
		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(resetSec))
			response.Error(c, http.StatusTooManyRequests, response.CodeRateLimited, "too many requests, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
