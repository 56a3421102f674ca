package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/breaders/whatsapp-bot/internal/assistant"
	"github.com/breaders/whatsapp-bot/internal/catalog"
	"github.com/breaders/whatsapp-bot/internal/conversation"
	"github.com/breaders/whatsapp-bot/internal/database"
	apperrors "github.com/breaders/whatsapp-bot/internal/errors"
	"github.com/breaders/whatsapp-bot/internal/health"
	"github.com/breaders/whatsapp-bot/internal/idempotency"
	"github.com/breaders/whatsapp-bot/internal/intent"
	"github.com/breaders/whatsapp-bot/internal/lifecycle"
	"github.com/breaders/whatsapp-bot/internal/menu"
	"github.com/breaders/whatsapp-bot/internal/middleware"
	"github.com/breaders/whatsapp-bot/internal/ratelimit"
	"github.com/breaders/whatsapp-bot/internal/repository"
	"github.com/breaders/whatsapp-bot/internal/state"
	"github.com/breaders/whatsapp-bot/internal/whatsapp"
	"github.com/breaders/whatsapp-bot/pkg/config"
	"github.com/breaders/whatsapp-bot/pkg/graceful"
	"github.com/breaders/whatsapp-bot/pkg/logger"
	appredis "github.com/breaders/whatsapp-bot/pkg/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:         cfg.Log.Level,
		Format:        cfg.Log.Format,
		File:          cfg.Log.File,
		MaxSizeMB:     cfg.Log.MaxSizeMB,
		MaxBackups:    cfg.Log.MaxBackups,
		MaxAgeDays:    cfg.Log.MaxAgeDays,
		SentryEnabled: cfg.Sentry.Enabled,
	})
	slog.SetDefault(log)

	log.Info("starting breaders whatsapp bot",
		slog.String("env", cfg.AppEnv),
		slog.String("port", cfg.Server.Port),
	)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			TracesSampleRate: cfg.Sentry.SampleRate,
		}); err != nil {
			log.Error("failed to init sentry", slog.Any("error", err))
			os.Exit(1)
		}
	}

	redisClient, err := appredis.Connect(ctx, appredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to ping database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := database.NewMigrator(db, log).ApplyDir(ctx, "migrations"); err != nil {
		log.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	stateStore := state.NewRedisStore(redisClient, log)
	catalogSvc := catalog.NewService(catalog.NewRepository(db, log), log)
	machine := menu.NewMachine(stateStore, catalogSvc, log)

	assistantClient := assistant.NewClient(assistant.Config{
		AccountSID:  cfg.Twilio.AccountSID,
		AuthToken:   cfg.Twilio.AuthToken,
		AssistantID: cfg.Twilio.AssistantID,
	}, log)

	messageLog := repository.NewMessageLog(
		repository.NewCustomerRepository(db, log),
		repository.NewConversationRepository(db, log),
		repository.NewMessageRepository(db, log),
		log,
	)

	orchestrator := conversation.NewOrchestrator(
		stateStore,
		machine,
		intent.NewDetector(),
		assistantClient,
		messageLog,
		apperrors.NewHandler(log, cfg.Sentry.Enabled),
		log,
	)
	orchestrator.SetIntentThreshold(cfg.Conversation.IntentConfidence)

	// Tunables follow the config file without a restart.
	config.Watch(v, cfg.AppEnv, log, func(updated *config.Config) {
		orchestrator.SetIntentThreshold(updated.Conversation.IntentConfidence)
	})

	checker := health.NewChecker(log)
	checker.AddCheck("database", health.NewDBChecker(db))
	checker.AddCheck("redis", health.NewRedisChecker(redisClient))
	checker.AddCheck("assistant", health.NewAssistantChecker(assistantClient.Enabled))

	webhook := http.Handler(whatsapp.NewWebhookHandler(orchestrator, messageLog, log))
	webhook = middleware.Idempotency(idempotency.NewDeduper(redisClient, idempotency.DefaultTTL, log), log)(webhook)
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewRedisLimiter(redisClient, log)
		webhook = middleware.RateLimit(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window, log)(webhook)
	}
	webhook = middleware.Metrics(webhook)
	webhook = middleware.Logging(log)(webhook)
	webhook = logger.CorrelationIDMiddleware(webhook)

	mux := http.NewServeMux()
	mux.Handle("/webhook/whatsapp", webhook)
	mux.Handle("/healthz", checker.Handler())
	mux.Handle("/metrics", promhttp.Handler())

	server := graceful.NewServer(log, &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, cfg.Server.ShutdownTimeout)

	shutdown := lifecycle.NewShutdown(log)
	shutdown.Register("redis", func(context.Context) error { return redisClient.Close() })
	shutdown.Register("database", func(context.Context) error { return db.Close() })
	if cfg.Sentry.Enabled {
		shutdown.Register("sentry", func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		})
	}

	if err := server.ListenAndServe(ctx); err != nil {
		log.Error("http server stopped with error", slog.Any("error", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown finished with errors", slog.Any("error", err))
	}

	log.Info("breaders whatsapp bot stopped")
}
