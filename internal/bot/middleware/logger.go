package middleware

import (
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Logger writes one line per handled update. Free text may hold a password,
// so only the command name or the callback data is logged.
func Logger(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			kind, label := describeUpdate(c)

			err := next(c)

			fields := []zap.Field{
				zap.String("type", kind),
				zap.String("text", label),
				zap.Duration("duration", time.Since(start)),
			}
			if user := c.Sender(); user != nil {
				fields = append(fields,
					zap.Int64("user_id", user.ID),
					zap.String("username", user.Username),
				)
			}

			if err != nil {
				logger.Error("handler error", append(fields, zap.Error(err))...)
				return err
			}

			logger.Info("request handled", fields...)
			return nil
		}
	}
}

func describeUpdate(c tele.Context) (kind, label string) {
	if cb := c.Callback(); cb != nil {
		return "callback", strings.TrimPrefix(cb.Data, "\f")
	}

	msg := c.Message()
	if msg == nil {
		return "other", ""
	}
	if strings.HasPrefix(msg.Text, "/") {
		return "command", strings.SplitN(msg.Text, " ", 2)[0]
	}
	return "message", ""
}
