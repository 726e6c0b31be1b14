package middleware

import (
	"context"
	"fmt"
	"time"

	"jarrib-bot/internal/storage/redis"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// RateLimiter counts a user's requests in the current minute
type RateLimiter interface {
	IncrementUserRateLimit(ctx context.Context, userID int64) (int64, error)
}

var _ RateLimiter = (*redis.Cache)(nil)

// RateLimit drops updates past perMinute in a user's window. A failing
// counter lets the update through.
func RateLimit(limiter RateLimiter, perMinute int, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			count, err := limiter.IncrementUserRateLimit(ctx, user.ID)
			if err != nil {
				logger.Error("failed to check rate limit",
					zap.Int64("user_id", user.ID),
					zap.Error(err),
				)
				return next(c)
			}

			if count <= int64(perMinute) {
				return next(c)
			}

			first := count == int64(perMinute)+1
			if first {
				logger.Warn("rate limit exceeded", zap.Int64("user_id", user.ID))
			}

			// buttons spin until answered, messages get one notice per window
			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: "⚠️ Too many requests, wait a minute"})
			}
			if !first {
				return nil
			}
			return c.Reply(fmt.Sprintf("⚠️ Too many requests. The limit is %d per minute, please wait a little.", perMinute))
		}
	}
}
