package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"farkle_server/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const defaultPerMinute = 60

var rdb *redis.Client
var limitPerMinute int

// InitRedisRateLimiter подключает redis для лимитера.
// Без адреса или при недоступном redis лимитер выключен -
// сервер работает дальше без ограничений.
func InitRedisRateLimiter(addr, password string, perMinute int) {
	if perMinute <= 0 {
		perMinute = defaultPerMinute
	}
	limitPerMinute = perMinute

	if addr == "" {
		logger.Info("rate limiter выключен: REDIS_ADDR не задан")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("rate limiter выключен: redis недоступен", "addr", addr, "error", err)
		return
	}

	rdb = client
	logger.Info("rate limiter включен", "addr", addr, "per_minute", perMinute)
}

// RateLimit - фиксированное окно в минуту на ip и путь
func RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rl:%s:%s:%d", c.ClientIP(), c.FullPath(), time.Now().Unix()/60)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		defer cancel()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// redis лег - пропускаем, игра важнее лимитера
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, time.Minute)
		}

		if count > int64(limitPerMinute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
