package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"jarrib-bot/internal/bot/utils"
	"jarrib-bot/internal/listingform"
	"jarrib-bot/internal/models"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	StateListingForm    = "listing_form"
	StateListingConfirm = "listing_confirm"
)

const tempListingForm = "listing_form"

// wizard is the add listing conversation kept in temp data
type wizard struct {
	Form *listingform.Form `json:"form"`
	Step int               `json:"step"`
	// Fixing jumps from one invalid field to the next instead of walking
	// through every step again
	Fixing bool `json:"fixing"`
}

// /addlisting
func HandleAddListing(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		if ok, err := requireAuth(ctx, c); !ok {
			return err
		}

		w := &wizard{Form: listingform.New()}
		if err := saveWizard(ctx, c.Sender().ID, w); err != nil {
			return c.Send("😔 Something went wrong. Please try again later.")
		}
		if err := setUserState(ctx, c.Sender().ID, StateListingForm); err != nil {
			ctx.Logger.Error("failed to set user state", zap.Error(err))
		}

		if err := c.Send(utils.EscapeMarkdown(fmt.Sprintf(
			"➕ Let's list your class. %d short questions, press %s any time to stop.",
			len(listingform.Steps), utils.BtnCancel,
		)), tele.ModeMarkdownV2); err != nil {
			return err
		}
		return promptStep(ctx, c, w)
	}
}

func saveWizard(ctx *Context, userID int64, w *wizard) error {
	if err := setTempData(ctx, userID, tempListingForm, w); err != nil {
		ctx.Logger.Error("failed to store listing form", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func loadWizard(ctx *Context, c tele.Context) (*wizard, error) {
	var w wizard
	ok, err := getTempData(ctx, c.Sender().ID, tempListingForm, &w)
	if err != nil || !ok || w.Form == nil {
		_ = clearUserState(ctx, c.Sender().ID)
		return nil, c.Send("⌛ Your draft expired. Send /addlisting to start again.", utils.MainMenuKeyboard(false))
	}
	return &w, nil
}

// stepChoices returns the options of a step, categories come from the API
func stepChoices(ctx *Context, step listingform.Step) []models.Option {
	if step.Field != listingform.FieldCategory {
		return step.Choices
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	categories, err := ctx.loadCategories(reqCtx)
	if err != nil {
		ctx.Logger.Warn("failed to load categories", zap.Error(err))
		return nil
	}

	options := make([]models.Option, 0, len(categories))
	for _, c := range categories {
		options = append(options, models.Option{Value: c.Slug, Label: strings.TrimSpace(c.Icon + " " + c.NameEn)})
	}
	return options
}

func currentValue(w *wizard, step listingform.Step, choices []models.Option) string {
	switch step.Field {
	case listingform.FieldDays:
		if len(w.Form.Days) == 0 {
			return ""
		}
		return models.DaysLabel(w.Form.Days)
	case listingform.FieldPhotos:
		if len(w.Form.Photos) == 0 {
			return ""
		}
		return fmt.Sprintf("%d of %d photos", len(w.Form.Photos), listingform.MaxPhotos)
	}

	value := w.Form.Get(step.Field)
	if value != "" && choices != nil {
		return models.DisplayName(choices, value)
	}
	return value
}

func promptStep(ctx *Context, c tele.Context, w *wizard) error {
	step := listingform.Steps[w.Step]
	choices := stepChoices(ctx, step)

	return c.Send(
		utils.FormatStepPrompt(step, w.Step, len(listingform.Steps), currentValue(w, step, choices)),
		utils.StepKeyboard(step, choices, w.Form),
		tele.ModeMarkdownV2,
	)
}

// handleListingInput answers the current step
func handleListingInput(ctx *Context, c tele.Context) error {
	w, err := loadWizard(ctx, c)
	if w == nil {
		return err
	}
	if w.Step < 0 || w.Step >= len(listingform.Steps) {
		w.Step = 0
	}

	step := listingform.Steps[w.Step]
	text := strings.TrimSpace(c.Text())

	switch {
	case step.Field == listingform.FieldDays:
		if text != utils.BtnDone {
			day, ok := utils.OptionForLabel(models.DayOptions, text)
			if !ok {
				return c.Send("Pick days from the keyboard, then press Done.")
			}
			_ = w.Form.ToggleDay(day)
			if err := saveWizard(ctx, c.Sender().ID, w); err != nil {
				return c.Send("😔 Something went wrong. Please try again later.")
			}
			return promptStep(ctx, c, w)
		}

	case step.Field == listingform.FieldPhotos:
		if text != utils.BtnDone {
			u, err := url.ParseRequestURI(text)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				return c.Send("❌ Send a photo link starting with http:// or https://")
			}
			if !w.Form.AddPhoto(text) {
				return c.Send(fmt.Sprintf("You can add up to %d photos. Press Done to continue.", listingform.MaxPhotos))
			}
			if err := saveWizard(ctx, c.Sender().ID, w); err != nil {
				return c.Send("😔 Something went wrong. Please try again later.")
			}
			return promptStep(ctx, c, w)
		}

	case text == utils.BtnSkip && step.Optional:
		_ = w.Form.Set(step.Field, "")

	default:
		value := c.Text()
		if choices := stepChoices(ctx, step); choices != nil {
			v, ok := utils.OptionForLabel(choices, text)
			if !ok {
				if err := c.Send("Please pick one of the options."); err != nil {
					return err
				}
				return promptStep(ctx, c, w)
			}
			value = v
		}

		if err := w.Form.Set(step.Field, value); err != nil {
			return c.Send("❌ " + err.Error())
		}
	}

	return advance(ctx, c, w)
}

// advance moves to the next step, or to the review once every step is done
func advance(ctx *Context, c tele.Context, w *wizard) error {
	next := w.Step + 1
	if w.Fixing {
		next = listingform.FirstInvalidStep(w.Form.Validate())
	}

	if next < 0 || next >= len(listingform.Steps) {
		return showReview(ctx, c, w)
	}

	w.Step = next
	if err := saveWizard(ctx, c.Sender().ID, w); err != nil {
		return c.Send("😔 Something went wrong. Please try again later.")
	}
	return promptStep(ctx, c, w)
}

func showReview(ctx *Context, c tele.Context, w *wizard) error {
	userID := c.Sender().ID
	w.Fixing = false
	if err := saveWizard(ctx, userID, w); err != nil {
		return c.Send("😔 Something went wrong. Please try again later.")
	}
	if err := setUserState(ctx, userID, StateListingConfirm); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
	}

	reqCtx, cancel := withTimeout()
	defer cancel()
	categories, err := ctx.loadCategories(reqCtx)
	if err != nil {
		ctx.Logger.Warn("failed to load categories", zap.Error(err))
	}

	return c.Send(utils.FormatFormReview(w.Form, categories), utils.ReviewKeyboard(), tele.ModeMarkdownV2)
}

// handleListingConfirm handles Submit and Edit on the review
func handleListingConfirm(ctx *Context, c tele.Context) error {
	w, err := loadWizard(ctx, c)
	if w == nil {
		return err
	}

	switch strings.TrimSpace(c.Text()) {
	case utils.BtnSubmit:
		return submitListing(ctx, c, w)
	case utils.BtnEdit:
		w.Step = 0
		if err := saveWizard(ctx, c.Sender().ID, w); err != nil {
			return c.Send("😔 Something went wrong. Please try again later.")
		}
		if err := setUserState(ctx, c.Sender().ID, StateListingForm); err != nil {
			ctx.Logger.Error("failed to set user state", zap.Error(err))
		}
		return promptStep(ctx, c, w)
	}

	return c.Send("Please use the buttons below.", utils.ReviewKeyboard())
}

// fixFields shows the validation messages and jumps to the first bad field
func fixFields(ctx *Context, c tele.Context, w *wizard, errs listingform.FieldErrors) error {
	if err := c.Send(utils.FormatFieldErrors(errs), tele.ModeMarkdownV2); err != nil {
		return err
	}

	w.Step = listingform.FirstInvalidStep(errs)
	if w.Step < 0 {
		w.Step = 0
	}
	w.Fixing = true
	if err := saveWizard(ctx, c.Sender().ID, w); err != nil {
		return c.Send("😔 Something went wrong. Please try again later.")
	}
	if err := setUserState(ctx, c.Sender().ID, StateListingForm); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
	}
	return promptStep(ctx, c, w)
}

func submitListing(ctx *Context, c tele.Context, w *wizard) error {
	userID := c.Sender().ID

	if errs := w.Form.Validate(); errs != nil {
		return fixFields(ctx, c, w, errs)
	}

	draft, err := w.Form.Draft()
	var fieldErrs listingform.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fixFields(ctx, c, w, fieldErrs)
	}
	if err != nil {
		return sendError(ctx, c, "prepare your listing", err)
	}

	if err := listingform.ValidateDraft(draft); err != nil {
		ctx.Logger.Warn("listing draft rejected by schema", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send("❌ Some answers are not valid. Press Edit to review them.", utils.ReviewKeyboard())
	}

	sess, err := ctx.session(c)
	if err != nil {
		return c.Send("😔 Something went wrong. Please try again later.")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	listing, err := sess.Client().CreateListing(reqCtx, draft)
	if isUnauthorized(err) {
		_ = sess.Logout(reqCtx)
		return c.Send("🔑 Your session expired. Sign in again with /login.")
	}
	if err != nil {
		return sendError(ctx, c, "submit your listing", err)
	}

	clearTempData(ctx, userID, tempListingForm)
	if err := clearUserState(ctx, userID); err != nil {
		ctx.Logger.Warn("failed to clear user state", zap.Error(err))
	}

	ctx.Logger.Info("listing submitted",
		zap.Int64("user_id", userID),
		zap.String("listing_id", listing.ID),
	)

	return c.Send(
		utils.EscapeMarkdown("🎉 Thanks! Your class was submitted and goes live once it's reviewed."),
		utils.MainMenuKeyboard(sess.IsAdmin()),
		tele.ModeMarkdownV2,
	)
}
