package handlers

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"jarrib-bot/internal/api/jarrib"
	"jarrib-bot/internal/bot/utils"
	"jarrib-bot/internal/browse"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const categoryPageSize = 12

// /categories
func HandleCategories(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		reqCtx, cancel := withTimeout()
		defer cancel()

		categories, err := ctx.loadCategories(reqCtx)
		if err != nil {
			return sendError(ctx, c, "load categories", err)
		}

		return c.Send(
			utils.FormatCategories(categories),
			utils.CategoriesKeyboard(categories),
			tele.ModeMarkdownV2,
		)
	}
}

// handleCategoryPage renders cat:<slug>:<page>[:<subcategory>]
func handleCategoryPage(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 || parts[1] == "" {
		return respond(c, "❌ Invalid request")
	}
	slug := parts[1]

	page := 1
	if len(parts) > 2 {
		if n, err := strconv.Atoi(parts[2]); err == nil && n > 0 {
			page = n
		}
	}

	subcategory := ""
	if len(parts) > 3 {
		subcategory = strings.Join(parts[3:], ":")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	resp, err := ctx.API.GetCategory(reqCtx, slug, subcategory, page, categoryPageSize)
	if errors.Is(err, jarrib.ErrNotFound) {
		return respond(c, "🤷 Category not found")
	}
	if err != nil {
		_ = respond(c, "")
		return sendError(ctx, c, "load the category", err)
	}

	_ = respond(c, "")
	return editOrSend(ctx, c, utils.FormatCategoryPage(resp, subcategory), utils.CategoryKeyboard(resp, subcategory))
}

// handleBrowseCategory opens the browse view filtered to one category,
// like following a link to it
func handleBrowseCategory(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 || parts[1] == "" {
		return respond(c, "❌ Invalid request")
	}

	v, err := ctx.view(c)
	if err != nil {
		return respond(c, "😔 Something went wrong")
	}
	_ = respond(c, "")

	if err := openResults(c, v); err != nil {
		return err
	}

	location := url.Values{string(browse.FilterCategory): {parts[1]}}.Encode()
	_, changed, err := v.Store.Navigate(location)
	if err != nil {
		ctx.Logger.Warn("failed to persist browse location", zap.Int64("user_id", c.Sender().ID), zap.Error(err))
	}
	if !changed {
		refreshResults(ctx, v)
	}
	return nil
}
