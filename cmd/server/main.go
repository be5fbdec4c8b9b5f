package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	httpadapter "github.com/fixr105/Seven-Render-sub004/internal/adapter/http"
	httpmiddleware "github.com/fixr105/Seven-Render-sub004/internal/adapter/http/middleware"
	"github.com/fixr105/Seven-Render-sub004/internal/adapter/persistence"
	"github.com/fixr105/Seven-Render-sub004/internal/adapter/webhookstore"
	"github.com/fixr105/Seven-Render-sub004/internal/config"
	"github.com/fixr105/Seven-Render-sub004/internal/metrics"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
	"github.com/fixr105/Seven-Render-sub004/internal/service/directory"
	"github.com/fixr105/Seven-Render-sub004/internal/service/formschema"
	"github.com/fixr105/Seven-Render-sub004/internal/service/jwt"
	"github.com/fixr105/Seven-Render-sub004/internal/service/logger"
	"github.com/fixr105/Seven-Render-sub004/internal/service/notifier"
	"github.com/fixr105/Seven-Render-sub004/internal/service/password"
	"github.com/fixr105/Seven-Render-sub004/internal/service/ratelimit"
	"github.com/fixr105/Seven-Render-sub004/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "loanflow",
	})
	appLogger.WithField("environment", cfg.Server.Environment).Info("Application starting")

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Repositories, selected by store backend
	var (
		appRepo   ports.ApplicationRepository
		queryRepo ports.QueryRepository
		auditRepo ports.AuditRepository
		kamDir    ports.KamDirectory
		userRepo  ports.UserRepository
	)
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL())
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to open database")
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			appLogger.WithError(err).Fatal("Failed to ping database")
		}
		appLogger.Info("Database connection established")

		appRepo = persistence.NewPostgresApplicationRepository(db)
		queryRepo = persistence.NewPostgresQueryRepository(db)
		auditRepo = persistence.NewPostgresAuditRepository(db)
		kamDir = persistence.NewPostgresKamDirectory(db)
		userRepo = persistence.NewPostgresUserRepository(db)
	default:
		store := webhookstore.NewClient(cfg.Store.WebhookBaseURL, cfg.Store.WebhookToken, cfg.Store.WebhookTimeout)
		appRepo = webhookstore.NewApplicationRepository(store)
		queryRepo = webhookstore.NewQueryRepository(store)
		auditRepo = webhookstore.NewAuditRepository(store)
		kamDir = webhookstore.NewKamDirectory(store)
		userRepo = webhookstore.NewUserRepository(store)
		appLogger.WithField("base_url", cfg.Store.WebhookBaseURL).Info("Webhook record store configured")
	}

	// Services
	tokenService, err := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize token service")
	}
	passwordService := password.NewBcryptService(10)

	schemaJSON := ""
	if cfg.FormSchema.Path != "" {
		raw, err := os.ReadFile(cfg.FormSchema.Path)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to read form schema file")
		}
		schemaJSON = string(raw)
	}
	formSchema, err := formschema.NewService(cfg.FormSchema.Version, schemaJSON)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to compile form schema")
	}

	cachedDirectory := directory.NewCachedDirectory(kamDir, 5*time.Minute)

	var notifierService ports.Notifier
	if cfg.Notifier.WebhookURL != "" {
		notifierService = notifier.NewWebhookNotifier(cfg.Notifier.WebhookURL, cfg.Notifier.Timeout, appLogger)
	} else {
		notifierService = notifier.NoopNotifier{}
		appLogger.Info("Notification delivery disabled")
	}

	limiter, err := ratelimit.NewLimiter(ratelimit.Config{
		Enabled:  cfg.RateLimit.Enabled,
		RedisURL: cfg.RateLimit.RedisURL,
	}, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize rate limiter")
	}

	// Use cases
	accessFilter := usecase.NewAccessFilter(cachedDirectory, appLogger)
	recorder := usecase.NewAuditTrailRecorder(auditRepo, appLogger, m)
	lifecycle := usecase.NewLifecycleUseCase(appRepo, accessFilter, auditRepo, recorder, notifierService, formSchema, appLogger, m)
	queries := usecase.NewQueryUseCase(queryRepo, appRepo, accessFilter, recorder, notifierService, appLogger, m)
	auth := usecase.NewAuthUseCase(userRepo, passwordService, tokenService, recorder, appLogger)

	// HTTP layer
	authMiddleware := httpmiddleware.NewAuthMiddleware(tokenService)
	rateLimitMiddleware := httpmiddleware.NewRateLimitMiddleware(limiter, appLogger)

	server := httpadapter.NewServer(
		httpadapter.ServerConfig{
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		httpadapter.Handlers{
			Auth:        httpadapter.NewAuthHandler(auth),
			Application: httpadapter.NewApplicationHandler(lifecycle, authMiddleware),
			Query:       httpadapter.NewQueryHandler(queries, authMiddleware),
		},
		rateLimitMiddleware,
		registry,
		appLogger,
	)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}
	appLogger.Info("Server exited")
}
