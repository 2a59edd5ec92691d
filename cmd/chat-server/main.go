// cmd/chat-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	commonaws "zerohunger-chat/internal/common/aws"
	"zerohunger-chat/internal/common/config"
	"zerohunger-chat/internal/common/database"
	commonhttp "zerohunger-chat/internal/common/http"
	"zerohunger-chat/internal/common/logger"
	"zerohunger-chat/internal/common/observability"
	"zerohunger-chat/internal/conversation/engine"
	"zerohunger-chat/internal/conversation/session"
	"zerohunger-chat/internal/fulfillment"
	"zerohunger-chat/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting chat server...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("chat-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Session store: Redis when enabled, in-memory otherwise ---
	// An unreachable Redis degrades to in-memory sessions rather than
	// refusing to start: conversations keep working, they just stop
	// surviving restarts until Redis is back.
	var sessionStore session.Store = session.NewMemoryStore()
	if cfg.Database.Redis.Enabled {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unreachable after retries, falling back to in-memory session store", zap.Error(err))
		} else {
			defer rdb.Close()
			sessionStore = session.NewRedisStore(
				rdb.Client,
				config.GetDuration(cfg.Conversation.SessionTTL),
				config.GetDuration(cfg.Conversation.LockTTL),
			)
			zapLog.Info("Redis connected successfully, using Redis session store")
		}
	} else {
		zapLog.Info("Redis disabled, using in-memory session store")
	}

	// --- Fulfillment notifiers ---
	var notifiers []fulfillment.Notifier

	if cfg.Fulfillment.Webhook.URL != "" {
		notifiers = append(notifiers, fulfillment.NewWebhookNotifier(
			commonhttp.NewClient(config.GetDuration(cfg.Fulfillment.Webhook.Timeout)),
			cfg.Fulfillment.Webhook.URL,
			cfg.Fulfillment.Webhook.MaxRetries,
			log,
		))
		zapLog.Info("Fulfillment webhook enabled", zap.String("url", cfg.Fulfillment.Webhook.URL))
	}

	if cfg.Fulfillment.AWS.SNS.Enabled || cfg.Fulfillment.AWS.SES.Enabled {
		var sms fulfillment.SMSPublisher
		var email fulfillment.EmailSender

		if cfg.Fulfillment.AWS.SNS.Enabled {
			snsClient, err := commonaws.NewSNSClient(ctx, cfg.Fulfillment.AWS.Region)
			if err != nil {
				zapLog.Fatal("sns client init failed", zap.Error(err))
			}
			sms = snsClient
		}
		if cfg.Fulfillment.AWS.SES.Enabled {
			sesClient, err := commonaws.NewSESClient(ctx, cfg.Fulfillment.AWS.Region)
			if err != nil {
				zapLog.Fatal("ses client init failed", zap.Error(err))
			}
			email = sesClient
		}

		notifiers = append(notifiers, fulfillment.NewPartnerNotifier(sms, email, fulfillment.PartnerNotifyConfig{
			SMSEnabled:   cfg.Fulfillment.AWS.SNS.Enabled,
			PartnerPhone: cfg.Fulfillment.AWS.SNS.PartnerPhone,
			EmailEnabled: cfg.Fulfillment.AWS.SES.Enabled,
			FromEmail:    cfg.Fulfillment.AWS.SES.FromEmail,
			PartnerEmail: cfg.Fulfillment.AWS.SES.PartnerEmail,
		}, log))
		zapLog.Info("Partner notifications enabled",
			zap.Bool("sms", cfg.Fulfillment.AWS.SNS.Enabled),
			zap.Bool("email", cfg.Fulfillment.AWS.SES.Enabled),
		)
	}

	if cfg.Fulfillment.Reporting.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}

		notifiers = append(notifiers, fulfillment.NewReportingIndex(
			esClient.Client,
			cfg.Fulfillment.Reporting.Index,
			log,
		))
		zapLog.Info("Elasticsearch reporting enabled", zap.String("index", cfg.Fulfillment.Reporting.Index))
	}

	dispatcher := fulfillment.NewService(fulfillment.NewPostgresStore(pg.DB), log, notifiers...)
	eng := engine.New(sessionStore, dispatcher, obs, log)

	router := server.NewRouter(eng, log, func() error {
		return pg.Ping(context.Background())
	}, cfg.Server.CORSOrigins)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Chat server stopped")
}
