package handlers

import (
	"errors"
	"strings"

	"jarrib-bot/internal/api/jarrib"
	"jarrib-bot/internal/bot/utils"
	"jarrib-bot/internal/models"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /listing <id>
func HandleListing(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		id := strings.TrimSpace(c.Message().Payload)
		if id == "" {
			return c.Send("Usage: /listing <id>")
		}
		return showListing(ctx, c, id)
	}
}

// /provider <listing id>
func HandleProvider(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		id := strings.TrimSpace(c.Message().Payload)
		if id == "" {
			return c.Send("Usage: /provider <listing id>")
		}
		return showProvider(ctx, c, id)
	}
}

func listingDetailContent(ctx *Context, c tele.Context, d *jarrib.ListingDetail) (string, *tele.ReplyMarkup) {
	reqCtx, cancel := withTimeout()
	defer cancel()

	categories, err := ctx.loadCategories(reqCtx)
	if err != nil {
		ctx.Logger.Warn("failed to load categories", zap.Error(err))
	}

	saved := false
	if sess, err := ctx.session(c); err == nil {
		saved = sess.Saved.IsSaved(d.Listing.ID)
	}

	l := &d.Listing
	waURL := models.WhatsAppURL(l.Provider.WhatsApp, models.InterestMessage(l.Title(), ctx.Config.BrandName))

	return utils.FormatListingDetail(d, categories), utils.ListingKeyboard(d, saved, waURL)
}

func showListing(ctx *Context, c tele.Context, id string) error {
	reqCtx, cancel := withTimeout()
	defer cancel()

	d, err := ctx.API.GetListing(reqCtx, id)
	if errors.Is(err, jarrib.ErrNotFound) {
		return c.Send("🤷 This class is no longer available.")
	}
	if err != nil {
		return sendError(ctx, c, "load the class", err)
	}

	text, markup := listingDetailContent(ctx, c, d)
	return c.Send(text, markup, tele.ModeMarkdownV2, tele.NoPreview)
}

func handleOpenListing(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	_ = respond(c, "")
	return showListing(ctx, c, parts[1])
}

// handleSaveFromDetail toggles the listing and redraws the detail buttons
func handleSaveFromDetail(ctx *Context, c tele.Context, parts []string) error {
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

	if d, err := ctx.API.GetListing(reqCtx, listingID); err == nil && c.Message() != nil {
		_, markup := listingDetailContent(ctx, c, d)
		if _, err := c.Bot().EditReplyMarkup(c.Message(), markup); err != nil && !errors.Is(err, tele.ErrSameMessageContent) {
			ctx.Logger.Warn("failed to update listing keyboard", zap.Error(err))
		}
	}

	if saved {
		return respond(c, "♥ Saved")
	}
	return respond(c, "Removed from saved")
}

// ==================== Provider ====================

// showProvider opens the provider page; providers are addressed by one of
// their listings
func showProvider(ctx *Context, c tele.Context, listingID string) error {
	reqCtx, cancel := withTimeout()
	defer cancel()

	p, err := ctx.API.GetProvider(reqCtx, listingID)
	if errors.Is(err, jarrib.ErrNotFound) {
		return c.Send("🤷 Provider not found.")
	}
	if err != nil {
		return sendError(ctx, c, "load the provider", err)
	}

	message := "Hi! I found you on " + ctx.Config.BrandName + " and I'm interested in your classes."
	waURL := models.WhatsAppURL(p.Provider.WhatsApp, message)

	return c.Send(utils.FormatProvider(p), utils.ProviderKeyboard(p, waURL), tele.ModeMarkdownV2, tele.NoPreview)
}

func handleProvider(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	_ = respond(c, "")
	return showProvider(ctx, c, parts[1])
}
