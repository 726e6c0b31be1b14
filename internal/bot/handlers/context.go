package handlers

import (
	"context"
	"errors"
	"time"

	"jarrib-bot/internal/api/jarrib"
	"jarrib-bot/internal/bot/utils"
	"jarrib-bot/internal/browse"
	"jarrib-bot/internal/config"
	"jarrib-bot/internal/session"
	"jarrib-bot/internal/storage/postgres"
	"jarrib-bot/internal/storage/redis"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const requestTimeout = 10 * time.Second

// Context contains deps for all handlers
type Context struct {
	Store    *postgres.Store
	Cache    *redis.Cache
	API      *jarrib.Client
	Sessions *session.Manager
	Views    *browse.Registry
	Config   *config.Config
	Logger   *zap.Logger

	// Bot is set once the bot is created, results are rendered outside
	// of a telebot context
	Bot *tele.Bot
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// session returns the sender's session
func (ctx *Context) session(c tele.Context) (*session.Session, error) {
	reqCtx, cancel := withTimeout()
	defer cancel()
	return ctx.Sessions.Get(reqCtx, c.Sender().ID)
}

func (ctx *Context) view(c tele.Context) (*browse.View, error) {
	reqCtx, cancel := withTimeout()
	defer cancel()
	return ctx.Views.Get(reqCtx, c.Sender().ID)
}

// loadCategories reads the cached catalog and falls back to the API
func (ctx *Context) loadCategories(reqCtx context.Context) ([]jarrib.Category, error) {
	categories, err := ctx.Cache.GetCategories(reqCtx)
	if err == nil {
		return categories, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		ctx.Logger.Warn("failed to read cached categories", zap.Error(err))
	}

	categories, err = ctx.API.GetCategories(reqCtx)
	if err != nil {
		return nil, err
	}
	jarrib.SortCategories(categories)

	if err := ctx.Cache.SetCategories(reqCtx, categories); err != nil {
		ctx.Logger.Warn("failed to cache categories", zap.Error(err))
	}
	return categories, nil
}

func (ctx *Context) loadFeatured(reqCtx context.Context) ([]jarrib.Listing, error) {
	featured, err := ctx.Cache.GetFeatured(reqCtx)
	if err == nil {
		return featured, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		ctx.Logger.Warn("failed to read cached featured listings", zap.Error(err))
	}

	featured, err = ctx.API.FeaturedListings(reqCtx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Cache.SetFeatured(reqCtx, featured); err != nil {
		ctx.Logger.Warn("failed to cache featured listings", zap.Error(err))
	}
	return featured, nil
}

// ==================== Conversation state ====================

func setUserState(ctx *Context, userID int64, state string) error {
	return ctx.Cache.SetUserState(context.Background(), userID, state)
}

func getUserState(ctx *Context, userID int64) (string, error) {
	return ctx.Cache.GetUserState(context.Background(), userID)
}

func clearUserState(ctx *Context, userID int64) error {
	return ctx.Cache.DeleteUserState(context.Background(), userID)
}

func setTempData(ctx *Context, userID int64, key string, value interface{}) error {
	return ctx.Cache.SetTempData(context.Background(), userID, key, value)
}

// getTempData reports false when nothing is stored under key
func getTempData(ctx *Context, userID int64, key string, dest interface{}) (bool, error) {
	err := ctx.Cache.GetTempData(context.Background(), userID, key, dest)
	if errors.Is(err, redis.ErrCacheMiss) {
		return false, nil
	}
	return err == nil, err
}

func clearTempData(ctx *Context, userID int64, keys ...string) {
	if err := ctx.Cache.DeleteTempData(context.Background(), userID, keys...); err != nil {
		ctx.Logger.Warn("failed to clear temp data", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// ==================== Messages ====================

// editOrSend replaces the callback's message, a failed edit falls back to
// a new message
func editOrSend(ctx *Context, c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() != nil && c.Message() != nil {
		err := c.Edit(text, markup, tele.ModeMarkdownV2)
		if err == nil || errors.Is(err, tele.ErrSameMessageContent) {
			return nil
		}
		ctx.Logger.Warn("failed to edit message", zap.Error(err))
	}
	return c.Send(text, markup, tele.ModeMarkdownV2)
}

// respond acknowledges a callback, the spinner on the button stops
func respond(c tele.Context, text string) error {
	if c.Callback() == nil {
		return nil
	}
	return c.Respond(&tele.CallbackResponse{Text: text})
}

func sendError(ctx *Context, c tele.Context, action string, err error) error {
	ctx.Logger.Error("request failed",
		zap.String("action", action),
		zap.Int64("user_id", c.Sender().ID),
		zap.Error(err),
	)
	return c.Send(utils.FormatError(action, err), tele.ModeMarkdownV2)
}
