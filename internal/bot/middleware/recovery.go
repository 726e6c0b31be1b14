package middleware

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Recovery middleware for panic handling
func Recovery(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var userID int64
					if c.Sender() != nil {
						userID = c.Sender().ID
					}

					// log panic
					logger.Error("panic recovered",
						zap.Any("panic", r),
						zap.Stack("stack"),
						zap.Int64("user_id", userID),
					)

					// send error msg to user
					if c.Callback() != nil {
						_ = c.Respond(&tele.CallbackResponse{Text: "😔 Something went wrong"})
					}
					_ = c.Send("😔 Something went wrong. Please try again later.")
					err = nil
				}
			}()

			return next(c)
		}
	}
}
