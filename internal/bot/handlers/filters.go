package handlers

import (
	"strconv"
	"strings"

	"jarrib-bot/internal/bot/utils"
	"jarrib-bot/internal/browse"
	"jarrib-bot/internal/listingform"
	"jarrib-bot/internal/models"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	StateAwaitingMinPrice = "awaiting_min_price"
	StateAwaitingMaxPrice = "awaiting_max_price"
)

// /filters command
func HandleFilters(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		if err := clearUserState(ctx, c.Sender().ID); err != nil {
			ctx.Logger.Warn("failed to clear user state", zap.Error(err))
		}

		v, err := ctx.view(c)
		if err != nil {
			ctx.Logger.Error("failed to open browse view", zap.Int64("user_id", c.Sender().ID), zap.Error(err))
			return c.Send("😔 Something went wrong. Please try again later.")
		}

		return sendPanel(ctx, c, v)
	}
}

func panelContent(ctx *Context, v *browse.View) (string, *tele.ReplyMarkup) {
	reqCtx, cancel := withTimeout()
	defer cancel()

	categories, err := v.Categories(reqCtx, ctx.loadCategories)
	if err != nil {
		// the panel still works without the category section
		ctx.Logger.Warn("failed to load categories", zap.Int64("chat_id", v.ChatID), zap.Error(err))
	}

	q := v.Store.Read()
	return utils.FormatFilterPanel(q, categories), utils.FilterPanelKeyboard(q, v.IsExpanded, categories)
}

// sendPanel posts a new panel message below the results
func sendPanel(ctx *Context, c tele.Context, v *browse.View) error {
	text, markup := panelContent(ctx, v)

	msg, err := c.Bot().Send(c.Chat(), text, markup, tele.ModeMarkdownV2)
	if err != nil {
		ctx.Logger.Error("failed to send filter panel", zap.Error(err))
		return err
	}
	v.SetPanelMessage(browse.NewMessageRef(msg.ID, c.Chat().ID))
	return nil
}

// redrawPanel edits the panel in place
func redrawPanel(ctx *Context, c tele.Context, v *browse.View) error {
	text, markup := panelContent(ctx, v)
	if c.Message() != nil {
		v.SetPanelMessage(messageRef(c))
	}
	return editOrSend(ctx, c, text, markup)
}

// emitFilters replaces the whole filter set, the panel's only write
func emitFilters(ctx *Context, c tele.Context, v *browse.View, filters browse.FilterState) {
	writeLocation(ctx, c, v, browse.Update{Filters: filters, ReplaceFilters: true}, false)
}

// ==================== Callbacks ====================

func handleOpenPanel(ctx *Context, c tele.Context) error {
	v, err := ctx.view(c)
	if err != nil {
		return respond(c, "😔 Something went wrong")
	}
	_ = respond(c, "")
	return sendPanel(ctx, c, v)
}

func handleExpandSection(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}

	v, err := ctx.view(c)
	if err != nil {
		return respond(c, "😔 Something went wrong")
	}

	v.ToggleSection(parts[1])
	_ = respond(c, "")
	return redrawPanel(ctx, c, v)
}

func handleSingleSelect(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 3 || browse.FilterKey(parts[1]) != browse.FilterCategory {
		return respond(c, "❌ Invalid request")
	}

	v, err := ctx.view(c)
	if err != nil {
		return respond(c, "😔 Something went wrong")
	}

	_ = respond(c, "")
	q := v.Store.Read()
	emitFilters(ctx, c, v, browse.ToggleSingle(q.Filters, browse.FilterCategory, parts[2]))
	return redrawPanel(ctx, c, v)
}

var multiOptions = map[browse.FilterKey][]models.Option{
	browse.FilterArea:           models.AreaOptions,
	browse.FilterDays:           models.DayOptions,
	browse.FilterSkillLevel:     models.SkillLevelOptions,
	browse.FilterCommitmentType: models.CommitmentOptions,
}

func handleMultiSelect(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 3 {
		return respond(c, "❌ Invalid request")
	}
	key := browse.FilterKey(parts[1])
	options, ok := multiOptions[key]
	if !ok || !models.IsValidOption(options, parts[2]) {
		return respond(c, "❌ Invalid request")
	}

	v, err := ctx.view(c)
	if err != nil {
		return respond(c, "😔 Something went wrong")
	}

	_ = respond(c, "")
	q := v.Store.Read()
	emitFilters(ctx, c, v, browse.ToggleMulti(q.Filters, key, parts[2]))
	return redrawPanel(ctx, c, v)
}

func handleClearFilters(ctx *Context, c tele.Context) error {
	v, err := ctx.view(c)
	if err != nil {
		return respond(c, "😔 Something went wrong")
	}

	_ = respond(c, "🗑 Filters cleared")
	emitFilters(ctx, c, v, browse.ClearFilters())
	return redrawPanel(ctx, c, v)
}

func handlePriceInput(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}

	var state, prompt string
	switch browse.FilterKey(parts[1]) {
	case browse.FilterMinPrice:
		state, prompt = StateAwaitingMinPrice, "Send the minimum price in KD, or - to clear it."
	case browse.FilterMaxPrice:
		state, prompt = StateAwaitingMaxPrice, "Send the maximum price in KD, or - to clear it."
	default:
		return respond(c, "❌ Invalid request")
	}

	if err := setUserState(ctx, c.Sender().ID, state); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
		return respond(c, "😔 Something went wrong")
	}

	_ = respond(c, "")
	return c.Send("💰 "+prompt, utils.CancelKeyboard())
}

// handlePriceValue reads a typed price bound. "-" clears the bound.
func handlePriceValue(ctx *Context, c tele.Context, key browse.FilterKey) error {
	text := strings.TrimSpace(c.Text())

	value := ""
	if text != "-" {
		price, ok := listingform.ParsePrice(text)
		if !ok {
			return c.Send("❌ Price must be a number, e.g. 25", utils.CancelKeyboard())
		}
		value = strconv.FormatFloat(price, 'f', -1, 64)
	}

	if err := clearUserState(ctx, c.Sender().ID); err != nil {
		ctx.Logger.Warn("failed to clear user state", zap.Error(err))
	}

	v, err := ctx.view(c)
	if err != nil {
		return c.Send("😔 Something went wrong. Please try again later.")
	}
	sess, err := ctx.session(c)
	if err != nil {
		return c.Send("😔 Something went wrong. Please try again later.")
	}

	q := v.Store.Read()
	emitFilters(ctx, c, v, browse.SetValue(q.Filters, key, value))

	if err := c.Send("✅ Price updated", utils.MainMenuKeyboard(sess.IsAdmin())); err != nil {
		return err
	}

	// the panel is sent again below the reply, the old one would go stale
	if old, ok := v.PanelMessage(); ok {
		if err := ctx.Bot.Delete(old); err != nil {
			ctx.Logger.Debug("failed to delete old filter panel", zap.Error(err))
		}
	}
	return sendPanel(ctx, c, v)
}
