package handlers

import (
	"jarrib-bot/internal/bot/middleware"
	"jarrib-bot/internal/bot/utils"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /start command
func HandleStart(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID

		ctx.Logger.Info("user started bot",
			zap.Int64("user_id", userID),
			zap.String("username", c.Sender().Username),
		)

		if err := clearUserState(ctx, userID); err != nil {
			ctx.Logger.Warn("failed to clear user state", zap.Error(err))
		}

		first, _ := c.Get(middleware.FirstVisitKey).(bool)
		returning := !first

		// bootstrap again so a role granted since the last visit shows up
		ctx.Sessions.Forget(userID)

		sess, err := ctx.session(c)
		if err != nil {
			return c.Send("😔 Something went wrong. Please try again later.")
		}

		if err := c.Send(
			utils.FormatWelcomeMessage(c.Sender().FirstName, ctx.Config.BrandName, returning),
			utils.MainMenuKeyboard(sess.IsAdmin()),
			tele.ModeMarkdownV2,
		); err != nil {
			return err
		}

		return sendHome(ctx, c)
	}
}

// sendHome shows the featured listings and the category shortcuts
func sendHome(ctx *Context, c tele.Context) error {
	reqCtx, cancel := withTimeout()
	defer cancel()

	featured, err := ctx.loadFeatured(reqCtx)
	if err != nil {
		ctx.Logger.Warn("failed to load featured listings", zap.Error(err))
	} else if len(featured) > 0 {
		if err := c.Send(
			utils.FormatListingList("⭐ Featured classes", featured, ""),
			utils.ListingLinksKeyboard(featured),
			tele.ModeMarkdownV2,
		); err != nil {
			return err
		}
	}

	categories, err := ctx.loadCategories(reqCtx)
	if err != nil {
		ctx.Logger.Warn("failed to load categories", zap.Error(err))
		return nil
	}

	return c.Send(
		utils.FormatCategories(categories),
		utils.CategoriesKeyboard(categories),
		tele.ModeMarkdownV2,
	)
}
