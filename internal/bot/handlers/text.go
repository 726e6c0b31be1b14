package handlers

import (
	"strings"

	"jarrib-bot/internal/bot/utils"
	"jarrib-bot/internal/browse"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const StateIdle = ""

// HandleText routes plain messages: conversation input first, then the
// reply keyboard buttons
func HandleText(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		text := strings.TrimSpace(c.Text())
		userID := c.Sender().ID

		if text == utils.BtnCancel {
			return cancelConversation(ctx, c)
		}

		state, err := getUserState(ctx, userID)
		if err != nil {
			ctx.Logger.Warn("failed to get user state", zap.Error(err))
			state = StateIdle
		}

		if state != StateIdle {
			return handleStateInput(ctx, c, state)
		}

		switch text {
		case utils.BtnBrowse:
			return HandleBrowse(ctx)(c)
		case utils.BtnCategories:
			return HandleCategories(ctx)(c)
		case utils.BtnSaved:
			return HandleSaved(ctx)(c)
		case utils.BtnAddListing:
			return HandleAddListing(ctx)(c)
		case utils.BtnAccount:
			return HandleAccount(ctx)(c)
		case utils.BtnHelp:
			return HandleHelp(ctx)(c)
		case utils.BtnAdmin:
			if !IsAdmin(ctx)(c) {
				return c.Reply("⛔ Admins only")
			}
			return HandleAdmin(ctx)(c)
		}

		// anything else is treated as a search
		if text != "" && !strings.HasPrefix(text, "/") {
			return applySearch(ctx, c, text)
		}
		return c.Reply("Use the menu buttons or /help")
	}
}

func handleStateInput(ctx *Context, c tele.Context, state string) error {
	switch state {
	case StateAwaitingSearch:
		return handleSearchInput(ctx, c)
	case StateAwaitingMinPrice:
		return handlePriceValue(ctx, c, browse.FilterMinPrice)
	case StateAwaitingMaxPrice:
		return handlePriceValue(ctx, c, browse.FilterMaxPrice)

	case StateLoginEmail:
		return handleLoginEmail(ctx, c)
	case StateLoginPassword:
		return handleLoginPassword(ctx, c)
	case StateRegisterName:
		return handleRegisterName(ctx, c)
	case StateRegisterEmail:
		return handleRegisterEmail(ctx, c)
	case StateRegisterPassword:
		return handleRegisterPassword(ctx, c)

	case StateListingForm:
		return handleListingInput(ctx, c)
	case StateListingConfirm:
		return handleListingConfirm(ctx, c)

	case StateAdminListingSearch:
		return handleAdminListingSearchInput(ctx, c)
	case StateAdminUserSearch:
		return handleAdminUserSearchInput(ctx, c)
	case StateAdminRejectReason:
		return handleRejectReasonInput(ctx, c)
	case StateAdminListingPrice:
		return handleListingPriceInput(ctx, c)
	case StateCategoryNameEn:
		return handleCategoryNameEn(ctx, c)
	case StateCategoryNameAr:
		return handleCategoryNameAr(ctx, c)

	default:
		_ = clearUserState(ctx, c.Sender().ID)
		return c.Reply("Use the menu buttons or /help")
	}
}

// cancelConversation drops the state and any half filled form
func cancelConversation(ctx *Context, c tele.Context) error {
	userID := c.Sender().ID

	if err := clearUserState(ctx, userID); err != nil {
		ctx.Logger.Warn("failed to clear state", zap.Error(err))
	}
	clearTempData(ctx, userID,
		tempLoginEmail,
		tempRegister,
		tempListingForm,
		tempRejectTarget,
		tempPriceTarget,
		tempCategoryDraft,
	)

	return c.Send("❌ Cancelled", utils.MainMenuKeyboard(IsAdmin(ctx)(c)))
}
