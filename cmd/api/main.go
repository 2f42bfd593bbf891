package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/strengthclub/coaching-ai-platform/cmd/mainconfig"
	"github.com/strengthclub/coaching-ai-platform/internal/api/router"
	appconfig "github.com/strengthclub/coaching-ai-platform/internal/config"
	"github.com/strengthclub/coaching-ai-platform/internal/conversation"
	"github.com/strengthclub/coaching-ai-platform/internal/escalation"
	"github.com/strengthclub/coaching-ai-platform/internal/notify"
	"github.com/strengthclub/coaching-ai-platform/internal/observability/metrics"
	"github.com/strengthclub/coaching-ai-platform/internal/webchat"
	"github.com/strengthclub/coaching-ai-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting coaching-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics registry with process/runtime collectors plus chat metrics.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	chatMetrics := metrics.NewChatMetrics(registry)

	// Live session store.
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()

	// Durable archive. In-memory fallback keeps local development working
	// without Postgres.
	var (
		archive conversation.Store
		escRepo escalation.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		archive = conversation.NewPostgresStore(pool)
		escRepo = escalation.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, conversations will not survive restarts")
		archive = conversation.NewInMemoryStore()
		escRepo = escalation.NewInMemoryRepository()
	}

	llm := buildLLMClient(ctx, cfg, logger)

	systemPrompt, err := conversation.LoadSystemPrompt(cfg.SystemPromptFile)
	if err != nil {
		logger.Warn("failed to load system prompt file, using built-in prompt", "error", err)
	}

	chatService := conversation.NewService(llm, redisClient, archive, nil, chatMetrics, logger, conversation.Settings{
		SystemPrompt: systemPrompt,
		Model:        cfg.OpenAIModel,
		Temperature:  float32(cfg.OpenAITemperature),
		MaxTokens:    int32(cfg.OpenAIMaxTokens),
	})
	go chatService.RunCleanup(ctx, cfg.CleanupInterval, cfg.SessionLifetime)

	notifier := notify.NewService(buildEmailSender(ctx, cfg, logger), cfg.CoachInboxEmail, logger)
	escService := escalation.NewService(escRepo, chatService, notifier, chatMetrics, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Webchat:            webchat.NewHandler(chatService, escService, webchat.WidgetJS, logger),
		Escalations:        escalation.NewHandler(escService, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AdminJWTSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSec:    cfg.ChatRateLimit,
		RateLimitBurst:     cfg.ChatRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can be slow
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildLLMClient assembles the chat model: OpenAI as primary, Gemini as an
// optional fallback when both keys are configured.
func buildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) conversation.LLMClient {
	openaiClient, err := conversation.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if err != nil {
		logger.Error("failed to create OpenAI client", "error", err)
		os.Exit(1)
	}

	if cfg.GeminiAPIKey == "" {
		return openaiClient
	}

	geminiClient, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Warn("failed to create Gemini fallback client, continuing without fallback", "error", err)
		return openaiClient
	}
	logger.Info("LLM fallback enabled", "model", cfg.GeminiModel)
	return conversation.NewFallbackLLMClient(openaiClient, geminiClient, logger)
}

// buildEmailSender picks the configured email provider. Returns nil when no
// provider is configured in production; development falls back to a stub that
// just logs the messages.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config for SES", "error", err)
			break
		}
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); sender != nil {
			return sender
		}
	default:
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender
		}
	}

	if cfg.Env != "production" {
		logger.Warn("no email provider configured, logging emails instead")
		return notify.NewStubEmailSender(logger)
	}
	return nil
}
