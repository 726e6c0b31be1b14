package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"jarrib-bot/internal/bot/utils"
	"jarrib-bot/internal/browse"
	"jarrib-bot/internal/models"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const StateAwaitingSearch = "awaiting_search"

// OnBrowseChange is the registry hook: every location change triggers one
// fetch whose result replaces the results message.
func OnBrowseChange(ctx *Context) browse.ChangeFunc {
	return func(v *browse.View, q browse.QueryState) {
		refreshResults(ctx, v)
	}
}

// ReportFetchError is the fetcher's error boundary, users see nothing
func ReportFetchError(ctx *Context) browse.ErrorReporter {
	return func(err error, q browse.QueryState) {
		ctx.Logger.Error("failed to fetch listings",
			zap.String("location", q.Encode()),
			zap.Error(err),
		)
	}
}

// refreshResults fetches the current location. Reading the store here
// instead of trusting the notified state keeps a slow handler from
// fetching an older location after a newer one.
func refreshResults(ctx *Context, v *browse.View) {
	fetchCtx, cancel := context.WithTimeout(context.Background(), ctx.Config.APITimeout)
	defer cancel()

	_, err := v.Fetcher.Fetch(fetchCtx, v.Store.Read(), func(res *browse.Result) error {
		return renderResults(ctx, v, res)
	})
	if errors.Is(err, browse.ErrSuperseded) {
		ctx.Logger.Debug("browse fetch superseded", zap.Int64("chat_id", v.ChatID))
		return
	}
	if err != nil {
		ctx.Logger.Debug("browse results not rendered", zap.Int64("chat_id", v.ChatID), zap.Error(err))
	}
}

func renderResults(ctx *Context, v *browse.View, res *browse.Result) error {
	if !res.Query.Equal(v.Store.Read()) {
		return browse.ErrSuperseded
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	categories, err := v.Categories(reqCtx, ctx.loadCategories)
	if err != nil {
		ctx.Logger.Warn("failed to load categories", zap.Error(err))
	}

	isSaved := func(string) bool { return false }
	if sess, err := ctx.Sessions.Get(reqCtx, v.ChatID); err == nil {
		isSaved = sess.Saved.IsSaved
	}

	text := utils.FormatResults(res, categories)
	markup := utils.ResultsKeyboard(res, isSaved)

	if ref, ok := v.ResultsMessage(); ok {
		_, err := ctx.Bot.Edit(ref, text, markup, tele.ModeMarkdownV2)
		if err == nil || errors.Is(err, tele.ErrSameMessageContent) {
			return nil
		}
		ctx.Logger.Warn("failed to edit results message", zap.Int64("chat_id", v.ChatID), zap.Error(err))
	}

	msg, err := ctx.Bot.Send(tele.ChatID(v.ChatID), text, markup, tele.ModeMarkdownV2)
	if err != nil {
		ctx.Logger.Error("failed to send results", zap.Int64("chat_id", v.ChatID), zap.Error(err))
		return fmt.Errorf("send results: %w", err)
	}
	v.SetResultsMessage(browse.NewMessageRef(msg.ID, v.ChatID))

	ctx.Logger.Debug("results rendered",
		zap.Int64("chat_id", v.ChatID),
		zap.String("location", res.Query.Encode()),
		zap.Int("count", len(res.Listings)),
	)
	return nil
}

// openResults posts a placeholder that the next render replaces
func openResults(c tele.Context, v *browse.View) error {
	msg, err := c.Bot().Send(c.Chat(), "🔎 Loading classes…")
	if err != nil {
		return err
	}
	v.SetResultsMessage(browse.NewMessageRef(msg.ID, c.Chat().ID))
	return nil
}

func messageRef(c tele.Context) browse.MessageRef {
	return browse.NewMessageRef(c.Message().ID, c.Chat().ID)
}

// writeLocation applies u; an unchanged location is fetched again when
// refresh is set, since nobody gets notified for it
func writeLocation(ctx *Context, c tele.Context, v *browse.View, u browse.Update, refresh bool) {
	_, changed, err := v.Store.Write(u)
	if err != nil {
		ctx.Logger.Warn("failed to persist browse location",
			zap.Int64("user_id", c.Sender().ID),
			zap.Error(err),
		)
	}
	if !changed && refresh {
		refreshResults(ctx, v)
	}
}

// /browse
func HandleBrowse(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		if err := clearUserState(ctx, c.Sender().ID); err != nil {
			ctx.Logger.Warn("failed to clear user state", zap.Error(err))
		}

		v, err := ctx.view(c)
		if err != nil {
			ctx.Logger.Error("failed to open browse view", zap.Int64("user_id", c.Sender().ID), zap.Error(err))
			return c.Send("😔 Something went wrong. Please try again later.")
		}

		if err := openResults(c, v); err != nil {
			return err
		}
		refreshResults(ctx, v)
		return nil
	}
}

// /reset drops the search, filters and admin list positions of the chat
func HandleReset(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		if err := clearUserState(ctx, userID); err != nil {
			ctx.Logger.Warn("failed to clear user state", zap.Error(err))
		}

		v, err := ctx.view(c)
		if err != nil {
			ctx.Logger.Error("failed to open browse view", zap.Int64("user_id", userID), zap.Error(err))
			return c.Send("😔 Something went wrong. Please try again later.")
		}

		if err := openResults(c, v); err != nil {
			return err
		}

		_, changed, err := v.Store.Reset()
		if err != nil {
			ctx.Logger.Warn("failed to persist browse location", zap.Int64("user_id", userID), zap.Error(err))
		}

		dbCtx, cancel := withTimeout()
		defer cancel()
		if err := ctx.Store.ClearLocations(dbCtx, userID); err != nil {
			ctx.Logger.Warn("failed to clear locations", zap.Int64("user_id", userID), zap.Error(err))
		}

		if !changed {
			refreshResults(ctx, v)
		}
		return nil
	}
}

// /search <text>
func HandleSearch(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		query := strings.TrimSpace(c.Message().Payload)
		if query == "" {
			if err := setUserState(ctx, c.Sender().ID, StateAwaitingSearch); err != nil {
				ctx.Logger.Error("failed to set user state", zap.Error(err))
			}
			return c.Send("🔍 What are you looking for? Send a keyword, e.g. pottery or coding.", utils.CancelKeyboard())
		}
		return applySearch(ctx, c, query)
	}
}

func handleSearchInput(ctx *Context, c tele.Context) error {
	if err := clearUserState(ctx, c.Sender().ID); err != nil {
		ctx.Logger.Warn("failed to clear user state", zap.Error(err))
	}
	return applySearch(ctx, c, strings.TrimSpace(c.Text()))
}

func applySearch(ctx *Context, c tele.Context, query string) error {
	v, err := ctx.view(c)
	if err != nil {
		return c.Send("😔 Something went wrong. Please try again later.")
	}

	sess, err := ctx.session(c)
	if err != nil {
		return c.Send("😔 Something went wrong. Please try again later.")
	}

	if err := c.Send(
		utils.EscapeMarkdown(fmt.Sprintf("🔍 Searching for \"%s\"", query)),
		utils.MainMenuKeyboard(sess.IsAdmin()),
		tele.ModeMarkdownV2,
	); err != nil {
		return err
	}

	if err := openResults(c, v); err != nil {
		return err
	}
	writeLocation(ctx, c, v, browse.Update{Query: browse.StringPtr(query)}, true)
	return nil
}

// ==================== Callbacks ====================

// results callbacks edit the message that carried the button
func resultsView(ctx *Context, c tele.Context) (*browse.View, error) {
	v, err := ctx.view(c)
	if err != nil {
		return nil, err
	}
	if c.Message() != nil {
		v.SetResultsMessage(messageRef(c))
	}
	return v, nil
}

func handleResultsPage(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return respond(c, "❌ Invalid request")
	}

	v, err := resultsView(ctx, c)
	if err != nil {
		return respond(c, "😔 Something went wrong")
	}

	_ = respond(c, "")
	writeLocation(ctx, c, v, browse.Update{Page: browse.IntPtr(page)}, false)
	return nil
}

func handleSort(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 || !models.IsValidOption(models.SortOptions, parts[1]) {
		return respond(c, "❌ Invalid request")
	}

	v, err := resultsView(ctx, c)
	if err != nil {
		return respond(c, "😔 Something went wrong")
	}

	_ = respond(c, "Sorted by "+models.DisplayName(models.SortOptions, parts[1]))
	writeLocation(ctx, c, v, browse.Update{Sort: browse.StringPtr(parts[1])}, false)
	return nil
}

// handleCommitmentPill sets a single commitment type, "All" clears it
func handleCommitmentPill(ctx *Context, c tele.Context, parts []string) error {
	value := ""
	if len(parts) > 1 {
		value = parts[1]
	}
	if value != "" && !models.IsValidOption(models.CommitmentOptions, value) {
		return respond(c, "❌ Invalid request")
	}

	v, err := resultsView(ctx, c)
	if err != nil {
		return respond(c, "😔 Something went wrong")
	}

	_ = respond(c, "")
	writeLocation(ctx, c, v, browse.Update{
		Filters: browse.FilterState{browse.FilterCommitmentType: value},
	}, false)
	return nil
}

// handleSaveFromResults toggles a saved listing and redraws the card buttons
func handleSaveFromResults(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	listingID := parts[1]

	sess, err := ctx.session(c)
	if err != nil {
		return respond(c, "😔 Something went wrong")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	saved, err := sess.Saved.Toggle(reqCtx, listingID)
	if err != nil {
		ctx.Logger.Error("failed to toggle saved listing", zap.String("listing_id", listingID), zap.Error(err))
		return respond(c, "😔 Could not save")
	}

	v, err := ctx.view(c)
	if err == nil {
		if latest, ok := v.Fetcher.Latest(); ok && c.Message() != nil {
			if _, err := c.Bot().EditReplyMarkup(c.Message(), utils.ResultsKeyboard(latest, sess.Saved.IsSaved)); err != nil &&
				!errors.Is(err, tele.ErrSameMessageContent) {
				ctx.Logger.Warn("failed to update results keyboard", zap.Error(err))
			}
		}
	}

	if saved {
		return respond(c, "♥ Saved")
	}
	return respond(c, "Removed from saved")
}

// handleShowResults turns the pressed message into the results message
func handleShowResults(ctx *Context, c tele.Context) error {
	v, err := resultsView(ctx, c)
	if err != nil {
		return respond(c, "😔 Something went wrong")
	}

	_ = respond(c, "")
	refreshResults(ctx, v)
	return nil
}
