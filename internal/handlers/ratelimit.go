package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/utils"
)

// RateLimiter enforces a fixed-window request limit per client IP, backed by
// Redis so counts are shared across instances. A nil client disables limiting.
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Limit allows max requests per window, keyed by client IP and the given name.
func (rl *RateLimiter) Limit(name string, max int, window time.Duration) gin.HandlerFunc {
	return rl.limit(name, max, window, false)
}

// LimitWithRefund behaves like Limit but decrements the counter again when the
// request succeeds. Only failed attempts consume the budget, which keeps
// legitimate login traffic from locking an account's IP out.
func (rl *RateLimiter) LimitWithRefund(name string, max int, window time.Duration) gin.HandlerFunc {
	return rl.limit(name, max, window, true)
}

func (rl *RateLimiter) limit(name string, max int, window time.Duration, refundOnSuccess bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.client == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", name, c.ClientIP())

		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down must not take the API with it.
			utils.FromContext(ctx).Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			rl.client.Expire(ctx, key, window)
		}

		if count > int64(max) {
			ttl, _ := rl.client.TTL(ctx, key).Result()
			if ttl > 0 {
				c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			}
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Success: false,
				Error: models.ErrorBody{
					Code:    CodeRateLimit,
					Message: "Too many requests, please try again later",
				},
			})
			c.Abort()
			return
		}

		c.Next()

		if refundOnSuccess && c.Writer.Status() < http.StatusBadRequest {
			if err := rl.client.Decr(ctx, key).Err(); err != nil {
				utils.FromContext(ctx).Warn("rate limit refund failed", "error", err)
			}
		}
	}
}
