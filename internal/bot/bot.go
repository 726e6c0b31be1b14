package bot

import (
	"context"
	"fmt"
	"time"

	"jarrib-bot/internal/api/jarrib"
	"jarrib-bot/internal/bot/handlers"
	"jarrib-bot/internal/bot/middleware"
	"jarrib-bot/internal/browse"
	"jarrib-bot/internal/config"
	"jarrib-bot/internal/models"
	"jarrib-bot/internal/session"
	"jarrib-bot/internal/storage/postgres"
	"jarrib-bot/internal/storage/redis"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Bot represents Telegram bot
type Bot struct {
	bot    *tele.Bot
	hctx   *handlers.Context
	logger *zap.Logger
}

func New(
	cfg *config.Config,
	store *postgres.Store,
	cache *redis.Cache,
	api *jarrib.Client,
	sessions *session.Manager,
	logger *zap.Logger,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.TelegramToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("unhandled bot error", zap.Error(err))
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	hctx := &handlers.Context{
		Store:    store,
		Cache:    cache,
		API:      api,
		Sessions: sessions,
		Config:   cfg,
		Logger:   logger,
		Bot:      b,
	}
	hctx.Views = browse.NewRegistry(
		models.ViewBrowse,
		store,
		api,
		handlers.ReportFetchError(hctx),
		handlers.OnBrowseChange(hctx),
	)

	bot := &Bot{
		bot:    b,
		hctx:   hctx,
		logger: logger,
	}

	bot.setupMiddleware()

	bot.registerHandlers()

	logger.Info("bot initialized successfully")

	return bot, nil
}

func (b *Bot) setupMiddleware() {
	b.bot.Use(middleware.Recovery(b.logger))

	b.bot.Use(middleware.Logger(b.logger))

	b.bot.Use(middleware.RateLimit(b.hctx.Cache, b.hctx.Config.RateLimit, b.logger))

	b.bot.Use(middleware.Track(b.hctx.Store, b.logger))
}

func (b *Bot) registerHandlers() {
	ctx := b.hctx

	b.bot.Handle("/start", handlers.HandleStart(ctx))
	b.bot.Handle("/help", handlers.HandleHelp(ctx))

	b.bot.Handle("/browse", handlers.HandleBrowse(ctx))
	b.bot.Handle("/search", handlers.HandleSearch(ctx))
	b.bot.Handle("/filters", handlers.HandleFilters(ctx))
	b.bot.Handle("/reset", handlers.HandleReset(ctx))
	b.bot.Handle("/categories", handlers.HandleCategories(ctx))
	b.bot.Handle("/listing", handlers.HandleListing(ctx))
	b.bot.Handle("/provider", handlers.HandleProvider(ctx))
	b.bot.Handle("/saved", handlers.HandleSaved(ctx))

	b.bot.Handle("/login", handlers.HandleLogin(ctx))
	b.bot.Handle("/register", handlers.HandleRegister(ctx))
	b.bot.Handle("/logout", handlers.HandleLogout(ctx))
	b.bot.Handle("/account", handlers.HandleAccount(ctx))
	b.bot.Handle("/addlisting", handlers.HandleAddListing(ctx))

	adminOnly := middleware.AdminOnly(handlers.IsAdmin(ctx))
	b.bot.Handle("/admin", handlers.HandleAdmin(ctx), adminOnly)

	b.bot.Handle(tele.OnText, handlers.HandleText(ctx))

	b.bot.Handle(tele.OnCallback, handlers.HandleCallback(ctx))

	b.logger.Info("handlers registered")
}

// setCommands publishes the command menu shown by Telegram clients
func (b *Bot) setCommands() {
	commands := []tele.Command{
		{Text: "start", Description: "Home"},
		{Text: "browse", Description: "Browse classes"},
		{Text: "search", Description: "Search classes"},
		{Text: "filters", Description: "Filter classes"},
		{Text: "reset", Description: "Clear search and filters"},
		{Text: "categories", Description: "All categories"},
		{Text: "saved", Description: "Saved classes"},
		{Text: "addlisting", Description: "List your class"},
		{Text: "account", Description: "Your account"},
		{Text: "help", Description: "Help"},
	}
	if err := b.bot.SetCommands(commands); err != nil {
		b.logger.Warn("failed to set commands", zap.Error(err))
	}
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting bot...")

	b.setCommands()

	go b.bot.Start()

	<-ctx.Done()

	b.logger.Info("stopping bot...")
	b.bot.Stop()

	return nil
}
