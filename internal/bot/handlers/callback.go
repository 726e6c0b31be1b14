package handlers

import (
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// admin callback actions, checked before routing
var adminActions = map[string]bool{
	"adm": true,
	"as":  true, "al": true, "ap": true, "asq": true, "aa": true, "ae": true, "ar": true, "ad": true, "adc": true,
	"us": true, "uo": true, "up": true, "usq": true, "ut": true, "ud": true, "udc": true,
	"co": true, "cn": true, "ce": true, "cd": true, "cdc": true,
}

// HandleCallback processes all callback queries from inline buttons
func HandleCallback(ctx *Context) tele.HandlerFunc {
	isAdmin := IsAdmin(ctx)

	return func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			ctx.Logger.Warn("callback is nil")
			return nil
		}

		// telebot adds \f prefix
		data := strings.TrimPrefix(cb.Data, "\f")
		parts := strings.Split(data, ":")
		action := parts[0]

		ctx.Logger.Debug("routing callback",
			zap.String("action", action),
			zap.Int("parts_count", len(parts)),
			zap.Int64("user_id", c.Sender().ID),
		)

		if adminActions[action] && !isAdmin(c) {
			return respond(c, "⛔ Admins only")
		}

		switch action {
		case "noop":
			return respond(c, "")

		// browse
		case "lst":
			return handleOpenListing(ctx, c, parts)
		case "sv":
			return handleSaveFromResults(ctx, c, parts)
		case "svd":
			return handleSaveFromDetail(ctx, c, parts)
		case "cm":
			return handleCommitmentPill(ctx, c, parts)
		case "so":
			return handleSort(ctx, c, parts)
		case "pg":
			return handleResultsPage(ctx, c, parts)
		case "pv":
			return handleProvider(ctx, c, parts)
		case "cat":
			return handleCategoryPage(ctx, c, parts)
		case "cb":
			return handleBrowseCategory(ctx, c, parts)

		// filter panel
		case "fp":
			return handleOpenPanel(ctx, c)
		case "fx":
			return handleExpandSection(ctx, c, parts)
		case "fs":
			return handleSingleSelect(ctx, c, parts)
		case "fm":
			return handleMultiSelect(ctx, c, parts)
		case "fi":
			return handlePriceInput(ctx, c, parts)
		case "fc":
			return handleClearFilters(ctx, c)
		case "fr":
			return handleShowResults(ctx, c)

		case "acc":
			return handleAccountAction(ctx, c, parts)

		// admin
		case "adm":
			return handleAdminMenu(ctx, c, parts)
		case "as":
			return handleAdminStatus(ctx, c, parts)
		case "ap":
			return handleAdminListingsPage(ctx, c, parts)
		case "asq":
			return startAdminSearch(ctx, c, StateAdminListingSearch, "Send words to look for in listing titles.")
		case "al":
			return handleAdminOpenListing(ctx, c, parts)
		case "aa":
			return handleApproveListing(ctx, c, parts)
		case "ae":
			return handleEditPrice(ctx, c, parts)
		case "ar":
			return handleRejectListing(ctx, c, parts)
		case "ad":
			return handleDeleteListing(ctx, c, parts)
		case "adc":
			return handleConfirmDeleteListing(ctx, c, parts)
		case "us":
			return handleAdminRole(ctx, c, parts)
		case "up":
			return handleAdminUsersPage(ctx, c, parts)
		case "usq":
			return startAdminSearch(ctx, c, StateAdminUserSearch, "Send a name or email to look for.")
		case "uo":
			return handleAdminOpenUser(ctx, c, parts)
		case "ut":
			return handleToggleRole(ctx, c, parts)
		case "ud":
			return handleDeleteUser(ctx, c, parts)
		case "udc":
			return handleConfirmDeleteUser(ctx, c, parts)
		case "co":
			return handleAdminOpenCategory(ctx, c, parts)
		case "cn":
			return handleNewCategory(ctx, c)
		case "ce":
			return handleEditCategory(ctx, c, parts)
		case "cd":
			return handleDeleteCategory(ctx, c, parts)
		case "cdc":
			return handleConfirmDeleteCategory(ctx, c, parts)

		default:
			ctx.Logger.Warn("unknown callback action",
				zap.String("action", action),
				zap.String("data", data),
			)
			return respond(c, "❓ Unknown action")
		}
	}
}
