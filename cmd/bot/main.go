package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jarrib-bot/internal/api/jarrib"
	"jarrib-bot/internal/bot"
	"jarrib-bot/internal/bot/scheduler"
	"jarrib-bot/internal/config"
	"jarrib-bot/internal/logger"
	"jarrib-bot/internal/server"
	"jarrib-bot/internal/session"
	"jarrib-bot/internal/storage/postgres"
	"jarrib-bot/internal/storage/redis"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	envFile := pflag.String("env-file", ".env", "path to a .env file, missing files are ignored")
	logLevel := pflag.String("log-level", "", "overrides LOG_LEVEL")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting bot",
		zap.String("brand", cfg.BrandName),
		zap.String("log_level", cfg.LogLevel),
		zap.String("api", cfg.APIBaseURL),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("connecting to PostgreSQL...")
	store, err := postgres.New(cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatal("failed to migrate PostgreSQL", zap.Error(err))
	}

	log.Info("PostgreSQL connected successfully")

	log.Info("connecting to Redis...")
	cache, err := redis.New(redis.Options{
		Addr:      cfg.RedisAddr,
		Password:  cfg.RedisPassword,
		DB:        cfg.RedisDB,
		Namespace: cfg.RedisNamespace,
	}, log)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer cache.Close()

	log.Info("Redis connected successfully")

	api := jarrib.New(cfg.APIBaseURL, cfg.APITimeout, log)
	sessions := session.NewManager(func(chatID int64) session.Storage {
		return store.ChatStorage(chatID)
	}, api, log)

	log.Info("initializing Telegram bot...")
	tgBot, err := bot.New(cfg, store, cache, api, sessions, log)
	if err != nil {
		log.Fatal("failed to create bot", zap.Error(err))
	}

	log.Info("Telegram bot initialized successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	refresher := scheduler.New(api, cache, cfg.CacheRefreshSpec, log)
	if err := refresher.Start(ctx); err != nil {
		log.Fatal("failed to start catalog refresher", zap.Error(err))
	}
	defer refresher.Stop()

	var ops *server.Server
	if cfg.OpsAddr != "" {
		ops = server.New(cfg.OpsAddr, map[string]server.Pinger{
			"postgres": store,
			"redis":    cache,
		}, log)

		go func() {
			if err := ops.Start(); err != nil {
				log.Error("ops server stopped", zap.Error(err))
			}
		}()
	}

	log.Info("bot is running...")
	log.Info("press Ctrl+C to stop")

	if err := tgBot.Start(ctx); err != nil {
		log.Error("bot stopped with error", zap.Error(err))
	}

	log.Info("shutting down gracefully...")

	if ops != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := ops.Stop(shutdownCtx); err != nil {
			log.Error("failed to stop ops server", zap.Error(err))
		}
	}

	log.Info("bot stopped")
}
