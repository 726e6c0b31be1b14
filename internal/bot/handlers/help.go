package handlers

import (
	"jarrib-bot/internal/bot/utils"

	tele "gopkg.in/telebot.v3"
)

// /help
func HandleHelp(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		isAdmin := false
		if sess, err := ctx.session(c); err == nil {
			isAdmin = sess.IsAdmin()
		}

		return c.Send(
			utils.FormatHelpMessage(ctx.Config.BrandName),
			utils.MainMenuKeyboard(isAdmin),
			tele.ModeMarkdownV2,
		)
	}
}
