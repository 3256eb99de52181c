package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/bitrix"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/config"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/http/handler"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/http/middleware"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/http/router"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/jobs"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/logger"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	// CRM connectivity is optional: without a webhook URL the client is
	// nil and every report degrades to empty data
	crm := bitrix.NewClient(&cfg.Bitrix, log)

	// Services
	catalog := service.NewCatalogProvider(crm, cfg, log)
	overviewService := service.NewOverviewService(crm, catalog, cfg, log)
	agentService := service.NewAgentService(crm, catalog, cfg, log)
	dealService := service.NewDealService(crm, catalog, cfg, log)

	// Handlers
	healthHandler := handler.NewHealthHandler(crm, &cfg.App, log)
	overviewHandler := handler.NewOverviewHandler(overviewService, log)
	agentHandler := handler.NewAgentHandler(agentService, log)
	dealHandler := handler.NewDealHandler(dealService, log)

	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(cfg, log, rateLimiter, healthHandler, overviewHandler, agentHandler, dealHandler)

	// Background cache warm, only meaningful with a live CRM
	var scheduler *jobs.Scheduler
	if crm.IsEnabled() && cfg.Cache.WarmEnabled {
		scheduler = jobs.NewScheduler(log)
		warmer := jobs.NewCacheWarmer(overviewService, agentService, &cfg.Cache, log)
		if err := warmer.Register(scheduler); err != nil {
			return fmt.Errorf("failed to register cache warm job: %w", err)
		}
		scheduler.Start()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
