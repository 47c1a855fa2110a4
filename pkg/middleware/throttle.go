package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/juliusmarkwei/swift-send/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SendThrottleMiddleware limits how many dispatches a user may start per
// window, counted in Redis with a fixed window per user. A nil client
// disables throttling. Redis outages fail open so a cache incident never
// blocks sending.
func SendThrottleMiddleware(client *redis.Client, maxPerWindow int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || maxPerWindow <= 0 {
			c.Next()
			return
		}

		userID, _ := c.Get("userID")
		id, _ := userID.(string)
		if id == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("throttle:send:%s", id)

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("Throttle counter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := client.Expire(ctx, key, window).Err(); err != nil {
				logger.Warn("Failed to set throttle window", zap.Error(err))
			}
		}

		if count > int64(maxPerWindow) {
			ttl, _ := client.TTL(ctx, key).Result()
			logger.Warn("Send throttled",
				zap.String("user_id", id),
				zap.Int64("count", count),
			)
			c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many send requests, slow down"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// NewThrottleClient connects to Redis for send throttling. An empty addr
// means throttling is disabled and nil is returned.
func NewThrottleClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, send throttling disabled", zap.Error(err))
	}

	return client
}
