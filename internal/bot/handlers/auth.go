package handlers

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"jarrib-bot/internal/api/jarrib"
	"jarrib-bot/internal/bot/utils"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	StateLoginEmail       = "login_email"
	StateLoginPassword    = "login_password"
	StateRegisterName     = "register_name"
	StateRegisterEmail    = "register_email"
	StateRegisterPassword = "register_password"
)

const (
	tempLoginEmail = "login_email"
	tempRegister   = "register"
)

const minPasswordLength = 6

type registration struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// /login
func HandleLogin(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		return startLogin(ctx, c)
	}
}

// /register
func HandleRegister(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		return startRegister(ctx, c)
	}
}

// /logout
func HandleLogout(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		return logout(ctx, c)
	}
}

// HandleAccount shows who is signed in
func HandleAccount(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		sess, err := ctx.session(c)
		if err != nil {
			return c.Send("😔 Something went wrong. Please try again later.")
		}

		user := sess.User()
		if user == nil {
			return c.Send(
				utils.EscapeMarkdown("👤 You're not signed in. Sign in to sync your saved classes and list your own."),
				utils.AccountKeyboard(false),
				tele.ModeMarkdownV2,
			)
		}

		text := fmt.Sprintf("👤 *%s*\n%s\n%s",
			utils.EscapeMarkdown(user.Name),
			utils.EscapeMarkdown(user.Email),
			utils.EscapeMarkdown(fmt.Sprintf("Saved classes: %d", sess.Saved.Len())),
		)
		if user.IsAdmin() {
			text += "\n" + utils.EscapeMarkdown("🛡 Admin")
		}
		return c.Send(text, utils.AccountKeyboard(true), tele.ModeMarkdownV2)
	}
}

func handleAccountAction(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return respond(c, "❌ Invalid request")
	}
	_ = respond(c, "")

	switch parts[1] {
	case "login":
		return startLogin(ctx, c)
	case "register":
		return startRegister(ctx, c)
	case "logout":
		return logout(ctx, c)
	}
	return nil
}

// ==================== Login ====================

func startLogin(ctx *Context, c tele.Context) error {
	sess, err := ctx.session(c)
	if err != nil {
		return c.Send("😔 Something went wrong. Please try again later.")
	}
	if user := sess.User(); user != nil {
		return c.Send(fmt.Sprintf("You're already signed in as %s. Use /logout to switch accounts.", user.Email))
	}

	if err := setUserState(ctx, c.Sender().ID, StateLoginEmail); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
		return c.Send("😔 Something went wrong. Please try again later.")
	}
	return c.Send("🔑 Send your email address", utils.CancelKeyboard())
}

func validEmail(text string) (string, bool) {
	addr, err := mail.ParseAddress(strings.TrimSpace(text))
	if err != nil {
		return "", false
	}
	return strings.ToLower(addr.Address), true
}

func handleLoginEmail(ctx *Context, c tele.Context) error {
	email, ok := validEmail(c.Text())
	if !ok {
		return c.Send("❌ That doesn't look like an email address. Try again.", utils.CancelKeyboard())
	}

	userID := c.Sender().ID
	if err := setTempData(ctx, userID, tempLoginEmail, email); err != nil {
		ctx.Logger.Error("failed to store login email", zap.Error(err))
		return c.Send("😔 Something went wrong. Please try again later.")
	}
	if err := setUserState(ctx, userID, StateLoginPassword); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
	}

	return c.Send("🔒 Now send your password. The message is deleted right after.", utils.CancelKeyboard())
}

func handleLoginPassword(ctx *Context, c tele.Context) error {
	userID := c.Sender().ID
	password := c.Text()
	deletePasswordMessage(ctx, c)

	var email string
	if ok, err := getTempData(ctx, userID, tempLoginEmail, &email); err != nil || !ok {
		_ = clearUserState(ctx, userID)
		return c.Send("⌛ The login timed out. Send /login to start again.")
	}

	sess, err := ctx.session(c)
	if err != nil {
		return c.Send("😔 Something went wrong. Please try again later.")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	user, err := sess.Login(reqCtx, email, password)
	clearTempData(ctx, userID, tempLoginEmail)
	_ = clearUserState(ctx, userID)

	if err != nil {
		ctx.Logger.Info("login failed", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(
			utils.FormatError("sign in", err)+"\n"+utils.EscapeMarkdown("Send /login to try again."),
			utils.MainMenuKeyboard(false),
			tele.ModeMarkdownV2,
		)
	}

	ctx.Logger.Info("user signed in", zap.Int64("user_id", userID), zap.String("api_user_id", user.ID))
	return c.Send(
		utils.EscapeMarkdown(fmt.Sprintf("✅ Welcome back, %s!", user.Name)),
		utils.MainMenuKeyboard(user.IsAdmin()),
		tele.ModeMarkdownV2,
	)
}

// ==================== Register ====================

func startRegister(ctx *Context, c tele.Context) error {
	sess, err := ctx.session(c)
	if err != nil {
		return c.Send("😔 Something went wrong. Please try again later.")
	}
	if user := sess.User(); user != nil {
		return c.Send(fmt.Sprintf("You're already signed in as %s.", user.Email))
	}

	if err := setUserState(ctx, c.Sender().ID, StateRegisterName); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
		return c.Send("😔 Something went wrong. Please try again later.")
	}
	return c.Send("📝 What's your name?", utils.CancelKeyboard())
}

func handleRegisterName(ctx *Context, c tele.Context) error {
	name := strings.TrimSpace(c.Text())
	if name == "" {
		return c.Send("❌ Name can't be empty.", utils.CancelKeyboard())
	}

	userID := c.Sender().ID
	if err := setTempData(ctx, userID, tempRegister, registration{Name: name}); err != nil {
		ctx.Logger.Error("failed to store registration", zap.Error(err))
		return c.Send("😔 Something went wrong. Please try again later.")
	}
	if err := setUserState(ctx, userID, StateRegisterEmail); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
	}
	return c.Send("📧 Your email address", utils.CancelKeyboard())
}

func handleRegisterEmail(ctx *Context, c tele.Context) error {
	email, ok := validEmail(c.Text())
	if !ok {
		return c.Send("❌ That doesn't look like an email address. Try again.", utils.CancelKeyboard())
	}

	userID := c.Sender().ID
	var reg registration
	if ok, err := getTempData(ctx, userID, tempRegister, &reg); err != nil || !ok {
		_ = clearUserState(ctx, userID)
		return c.Send("⌛ The registration timed out. Send /register to start again.")
	}

	reg.Email = email
	if err := setTempData(ctx, userID, tempRegister, reg); err != nil {
		ctx.Logger.Error("failed to store registration", zap.Error(err))
		return c.Send("😔 Something went wrong. Please try again later.")
	}
	if err := setUserState(ctx, userID, StateRegisterPassword); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
	}
	return c.Send(fmt.Sprintf("🔒 Choose a password, at least %d characters. The message is deleted right after.", minPasswordLength), utils.CancelKeyboard())
}

func handleRegisterPassword(ctx *Context, c tele.Context) error {
	userID := c.Sender().ID
	password := c.Text()
	deletePasswordMessage(ctx, c)

	if len([]rune(password)) < minPasswordLength {
		return c.Send(fmt.Sprintf("❌ Password must be at least %d characters.", minPasswordLength), utils.CancelKeyboard())
	}

	var reg registration
	if ok, err := getTempData(ctx, userID, tempRegister, &reg); err != nil || !ok {
		_ = clearUserState(ctx, userID)
		return c.Send("⌛ The registration timed out. Send /register to start again.")
	}

	sess, err := ctx.session(c)
	if err != nil {
		return c.Send("😔 Something went wrong. Please try again later.")
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	user, err := sess.Register(reqCtx, reg.Email, password, reg.Name)
	clearTempData(ctx, userID, tempRegister)
	_ = clearUserState(ctx, userID)

	if err != nil {
		ctx.Logger.Info("registration failed", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(
			utils.FormatError("create your account", err)+"\n"+utils.EscapeMarkdown("Send /register to try again."),
			utils.MainMenuKeyboard(false),
			tele.ModeMarkdownV2,
		)
	}

	ctx.Logger.Info("user registered", zap.Int64("user_id", userID), zap.String("api_user_id", user.ID))
	return c.Send(
		utils.EscapeMarkdown(fmt.Sprintf("🎉 Welcome to %s, %s!", ctx.Config.BrandName, user.Name)),
		utils.MainMenuKeyboard(user.IsAdmin()),
		tele.ModeMarkdownV2,
	)
}

// ==================== Logout ====================

func logout(ctx *Context, c tele.Context) error {
	sess, err := ctx.session(c)
	if err != nil {
		return c.Send("😔 Something went wrong. Please try again later.")
	}
	if !sess.IsAuthenticated() {
		return c.Send("You're not signed in.", utils.MainMenuKeyboard(false))
	}

	reqCtx, cancel := withTimeout()
	defer cancel()

	if err := sess.Logout(reqCtx); err != nil {
		ctx.Logger.Error("logout failed", zap.Int64("user_id", c.Sender().ID), zap.Error(err))
		return c.Send("😔 Something went wrong. Please try again later.")
	}

	return c.Send("👋 Signed out. Your saved classes stay on this chat.", utils.MainMenuKeyboard(false))
}

func deletePasswordMessage(ctx *Context, c tele.Context) {
	if err := c.Delete(); err != nil {
		ctx.Logger.Warn("failed to delete password message", zap.Error(err))
	}
}

// requireAuth answers for handlers that need a signed in user
func requireAuth(ctx *Context, c tele.Context) (bool, error) {
	sess, err := ctx.session(c)
	if err != nil {
		return false, c.Send("😔 Something went wrong. Please try again later.")
	}
	if sess.IsAuthenticated() {
		return true, nil
	}
	return false, c.Send("🔑 Please sign in first with /login or create an account with /register.")
}

// isUnauthorized reports a token the API no longer accepts
func isUnauthorized(err error) bool {
	return errors.Is(err, jarrib.ErrUnauthorized)
}
