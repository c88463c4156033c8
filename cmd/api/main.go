package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/nmoralesdev/receiptdesk-backend/api/controllers"
	"github.com/nmoralesdev/receiptdesk-backend/api/routes"
	"github.com/nmoralesdev/receiptdesk-backend/internal/auth"
	"github.com/nmoralesdev/receiptdesk-backend/internal/inventory"
	"github.com/nmoralesdev/receiptdesk-backend/internal/profile"
	"github.com/nmoralesdev/receiptdesk-backend/internal/receipts"
	"github.com/nmoralesdev/receiptdesk-backend/internal/reports"
	"github.com/nmoralesdev/receiptdesk-backend/internal/users"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/auth/session"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/config"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/db"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/logger"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/metrics"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/migrate"
	redisclient "github.com/nmoralesdev/receiptdesk-backend/pkg/redis"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/security"
	"github.com/nmoralesdev/receiptdesk-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redisclient.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	healthChecks := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	var gcsClient *gcs.Client
	if cfg.GCS.BucketName != "" {
		gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap object storage", err)
			os.Exit(1)
		}
		healthChecks["gcs"] = gcsClient
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	hasher := security.NewHasher(cfg.Password)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		Hasher:         hasher,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:     dbClient,
		Hasher: hasher,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	inventoryService, err := inventory.NewService(inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	receiptRepo := receipts.NewRepository(dbClient.DB())
	receiptService, err := receipts.NewService(receipts.ServiceParams{
		Repo:    receiptRepo,
		Catalog: inventoryRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create receipt service", err)
		os.Exit(1)
	}

	profileRepo := profile.NewRepository(dbClient.DB())
	var signer profile.ObjectSigner
	if gcsClient != nil {
		signer = gcsClient
	}
	profileService, err := profile.NewService(profileRepo, signer, cfg.GCS)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	reportService, err := reports.NewService(reports.ServiceParams{
		Receipts: receiptRepo,
		Profiles: profileRepo,
		Config:   cfg.Reports,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	reportLocation, err := cfg.Reports.Location()
	if err != nil {
		logg.Error(context.Background(), "invalid reports timezone", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	router := routes.NewRouter(routes.Deps{
		Config:           cfg,
		Logger:           logg,
		Metrics:          httpMetrics,
		Redis:            redisClient,
		Sessions:         sessionManager,
		HealthChecks:     healthChecks,
		AuthService:      authService,
		RegisterService:  registerService,
		InventoryService: inventoryService,
		ReceiptService:   receiptService,
		ReportService:    reportService,
		ProfileService:   profileService,
		ReportLocation:   reportLocation,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var shutdownErr error
	shutdownErr = multierr.Append(shutdownErr, server.Shutdown(shutdownCtx))
	shutdownErr = multierr.Append(shutdownErr, redisClient.Close())
	shutdownErr = multierr.Append(shutdownErr, dbClient.Close())
	if shutdownErr != nil {
		logg.Error(ctx, "shutdown finished with errors", shutdownErr)
		os.Exit(1)
	}
	logg.Info(ctx, "shutdown complete")
}
