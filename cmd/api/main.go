package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/tenantry/internal/application"
	applicationStore "github.com/MrJamesThe3rd/tenantry/internal/application/store"
	"github.com/MrJamesThe3rd/tenantry/internal/auth"
	authStore "github.com/MrJamesThe3rd/tenantry/internal/auth/store"
	"github.com/MrJamesThe3rd/tenantry/internal/cache"
	"github.com/MrJamesThe3rd/tenantry/internal/categorize"
	categorizeStore "github.com/MrJamesThe3rd/tenantry/internal/categorize/store"
	"github.com/MrJamesThe3rd/tenantry/internal/config"
	"github.com/MrJamesThe3rd/tenantry/internal/dashboard"
	"github.com/MrJamesThe3rd/tenantry/internal/database"
	"github.com/MrJamesThe3rd/tenantry/internal/document"
	documentStore "github.com/MrJamesThe3rd/tenantry/internal/document/store"
	"github.com/MrJamesThe3rd/tenantry/internal/export"
	tenantryHttp "github.com/MrJamesThe3rd/tenantry/internal/http"
	applicationHandler "github.com/MrJamesThe3rd/tenantry/internal/http/application"
	authHandler "github.com/MrJamesThe3rd/tenantry/internal/http/auth"
	categorizeHandler "github.com/MrJamesThe3rd/tenantry/internal/http/categorize"
	dashboardHandler "github.com/MrJamesThe3rd/tenantry/internal/http/dashboard"
	documentHandler "github.com/MrJamesThe3rd/tenantry/internal/http/document"
	exportHandler "github.com/MrJamesThe3rd/tenantry/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/tenantry/internal/http/importcsv"
	messageHandler "github.com/MrJamesThe3rd/tenantry/internal/http/message"
	portalHandler "github.com/MrJamesThe3rd/tenantry/internal/http/portal"
	propertyHandler "github.com/MrJamesThe3rd/tenantry/internal/http/property"
	screeningHandler "github.com/MrJamesThe3rd/tenantry/internal/http/screening"
	tenantHandler "github.com/MrJamesThe3rd/tenantry/internal/http/tenant"
	txHandler "github.com/MrJamesThe3rd/tenantry/internal/http/transaction"
	workOrderHandler "github.com/MrJamesThe3rd/tenantry/internal/http/workorder"
	"github.com/MrJamesThe3rd/tenantry/internal/importer"
	"github.com/MrJamesThe3rd/tenantry/internal/message"
	messageStore "github.com/MrJamesThe3rd/tenantry/internal/message/store"
	"github.com/MrJamesThe3rd/tenantry/internal/metrics"
	"github.com/MrJamesThe3rd/tenantry/internal/notify"
	"github.com/MrJamesThe3rd/tenantry/internal/property"
	propertyStore "github.com/MrJamesThe3rd/tenantry/internal/property/store"
	"github.com/MrJamesThe3rd/tenantry/internal/screening"
	screeningStore "github.com/MrJamesThe3rd/tenantry/internal/screening/store"
	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
	tenantStore "github.com/MrJamesThe3rd/tenantry/internal/tenant/store"
	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tenantry/internal/transaction/store"
	"github.com/MrJamesThe3rd/tenantry/internal/workorder"
	workOrderStore "github.com/MrJamesThe3rd/tenantry/internal/workorder/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := cfg.ValidateAuth(); err != nil {
		slog.Error("invalid auth config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString(), database.Options{
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		ConnLifetime: cfg.DB.ConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	var (
		registry = prometheus.NewRegistry()
		m        = metrics.New(registry)
	)

	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	redisCache, err := cache.New(ctx, cfg.Redis.URL, cfg.Redis.PoolSize, cache.WithMetrics(m))
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer redisCache.Close()

	var statsCache dashboard.Cache
	if redisCache != nil {
		statsCache = redisCache
	} else {
		slog.Info("redis not configured, dashboard stats are not cached")
	}

	var notifier notify.Sender = notify.Log{}
	if cfg.MailEnabled() {
		mailer, err := notify.NewMailer(notify.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			FromName: cfg.Mail.FromName,
		})
		if err != nil {
			return fmt.Errorf("creating mailer: %w", err)
		}

		notifier = mailer
	}

	var (
		tenantService      = tenant.NewService(tenantStore.New(db))
		propertyService    = property.NewService(propertyStore.New(db))
		transactionService = transaction.NewService(txStore.New(db))
		documentService    = document.NewService(documentStore.New(db))
		workOrderService   = workorder.NewService(workOrderStore.New(db))
		categorizeService  = categorize.NewService(categorizeStore.New(db))
		applicationService = application.NewService(applicationStore.New(db), tenantService)
		screeningService   = screening.NewService(screeningStore.New(db), applicationService,
			screening.WithNotifier(notifier),
			screening.WithMetrics(m),
			screening.WithReviewer(cfg.Screening.Reviewer),
		)
		messageService = message.NewService(messageStore.New(db), tenantService, workOrderService,
			message.WithNotifier(notifier),
			message.WithManagerName(cfg.Screening.Reviewer),
		)
		importService = importer.NewService(transactionService, tenantService, propertyService, categorizeService,
			importer.WithMetrics(m),
		)
		exportService    = export.NewService(documentService, transactionService, cfg.Documents.Token)
		authService      = auth.NewService(cfg.Auth.Secret, cfg.Auth.ManagerKey, cfg.Auth.TokenTTL,
			tenantService, authStore.New(db),
			auth.WithNotifier(notifier),
			auth.WithCodeTTL(cfg.Auth.CodeTTL),
		)
		dashboardService = dashboard.NewService(dashboard.Sources{
			Properties:   propertyService,
			Tenants:      tenantService,
			Ledger:       transactionService,
			WorkOrders:   workOrderService,
			Applications: applicationService,
			Messages:     messageService,
		}, statsCache, cfg.Redis.StatsTTL)
	)

	handlers := tenantryHttp.Handlers{
		Auth:         authHandler.NewHandler(authService),
		Applications: applicationHandler.NewHandler(applicationService),
		Screenings:   screeningHandler.NewHandler(screeningService),
		Tenants:      tenantHandler.NewHandler(tenantService, transactionService),
		Properties:   propertyHandler.NewHandler(propertyService),
		Transactions: txHandler.NewHandler(transactionService),
		Documents:    documentHandler.NewHandler(documentService),
		WorkOrders:   workOrderHandler.NewHandler(workOrderService),
		Messages:     messageHandler.NewHandler(messageService),
		Dashboard:    dashboardHandler.NewHandler(dashboardService),
		Import:       importHandler.NewHandler(importService, transactionService),
		Categories:   categorizeHandler.NewHandler(categorizeService),
		Export:       exportHandler.NewHandler(exportService),
		Portal: portalHandler.NewHandler(portalHandler.Services{
			Tenants:    tenantService,
			Messages:   messageService,
			WorkOrders: workOrderService,
			Ledger:     transactionService,
			Documents:  documentService,
		}),
	}

	opts := tenantryHttp.Options{
		Tokens:         authService,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
		Health: map[string]tenantryHttp.HealthCheck{
			"database": db.PingContext,
		},
	}

	if redisCache != nil {
		opts.Health["redis"] = redisCache.Health
	}

	if cfg.Metrics.Enabled {
		opts.Metrics = m
		opts.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
		opts.MetricsPath = cfg.Metrics.Path
	}

	if cfg.Auth.ManagerKey == "" {
		slog.Warn("AUTH_MANAGER_KEY is not set, manager login is disabled")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           tenantryHttp.New(handlers, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
