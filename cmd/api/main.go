package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timely-scheduler/config"
	_ "timely-scheduler/docs" // Swagger docs
	"timely-scheduler/internal/app"
	feedbackHTTP "timely-scheduler/internal/feedback/delivery/http"
	"timely-scheduler/internal/httpserver"
	"timely-scheduler/pkg/log"
)

// @title       Timely Scheduler API
// @description Learns when each user likes to work and places task chunks into free calendar hours.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Timely Scheduler...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Timezone: %s, horizon: %dh, policy store: %s", cfg.Scheduler.Timezone, cfg.Scheduler.HorizonHours, cfg.Policy.Store)

	// 3. Storage, policy, scheduling and feedback
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize application: ", err)
		return
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			logger.Error(closeCtx, "Failed to close application: ", err)
			return
		}
		logger.Info(closeCtx, "Policies persisted")
	}()

	// 4. HTTP Server
	srvCfg := httpserver.Config{
		Logger:         logger,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		ScheduleUC:     a.Schedule,
		DateParser:     a.DateParser,
		FeedbackUC:     a.Feedback,
		ReadyCheck:     a.Ping,
		WebhookEnabled: cfg.Webhook.Enabled,
		Webhook: feedbackHTTP.SecurityConfig{
			Secret:          cfg.Webhook.Secret,
			AllowedIPs:      cfg.Webhook.AllowedIPs,
			RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
		},
	}
	if a.Registry != nil {
		srvCfg.Gatherer = a.Registry
	}

	httpServer, err := httpserver.New(logger, srvCfg)
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 5. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
