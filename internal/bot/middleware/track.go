package middleware

import (
	"context"
	"time"

	"jarrib-bot/internal/models"
	"jarrib-bot/internal/storage/postgres"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// FirstVisitKey is set on the telebot context when the update is the
// chat's first contact with the bot
const FirstVisitKey = "first_visit"

// Track records the chat as active before its update is handled
func Track(store *postgres.Store, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || sender.IsBot {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			user := models.NewUser(sender.ID, sender.Username, sender.FirstName, sender.LastName)
			first, err := store.TouchUser(ctx, user)
			if err != nil {
				logger.Warn("failed to track user", zap.Int64("user_id", sender.ID), zap.Error(err))
			}
			c.Set(FirstVisitKey, first)

			return next(c)
		}
	}
}

// AdminOnly stops updates from chats whose session isn't an admin
func AdminOnly(isAdmin func(c tele.Context) bool) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !isAdmin(c) {
				if c.Callback() != nil {
					return c.Respond(&tele.CallbackResponse{Text: "⛔ Admins only"})
				}
				return c.Reply("⛔ Admins only")
			}
			return next(c)
		}
	}
}
