package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/renoa-ops/renoa-api/api/swagger"
	"github.com/renoa-ops/renoa-api/internal/handler"
	"github.com/renoa-ops/renoa-api/internal/repository"
	"github.com/renoa-ops/renoa-api/internal/service"
	"github.com/renoa-ops/renoa-api/pkg/cache"
	"github.com/renoa-ops/renoa-api/pkg/config"
	"github.com/renoa-ops/renoa-api/pkg/database"
	"github.com/renoa-ops/renoa-api/pkg/export"
	"github.com/renoa-ops/renoa-api/pkg/logger"
	"github.com/renoa-ops/renoa-api/pkg/mailer"
	"github.com/renoa-ops/renoa-api/pkg/storage"
)

// @title RENOA API
// @version 1.0.0
// @description Shift compliance grid, novedades and statistics for security posts.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	app, err := buildApp(cfg, logr, db, redisClient)
	if err != nil {
		return err
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	if app.notifications != nil {
		app.notifications.Start(workerCtx)
		defer app.notifications.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, logr, app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logr.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type app struct {
	metrics       *service.MetricsService
	audit         *repository.UserRepository
	auth          *service.AuthService
	notifications *service.NotificationService

	authHandler          *handler.AuthHandler
	businessUnitHandler  *handler.BusinessUnitHandler
	postHandler          *handler.PostHandler
	configurationHandler *handler.ConfigurationHandler
	gridHandler          *handler.GridHandler
	noteHandler          *handler.NoteHandler
	exportHandler        *handler.ExportHandler
	novedadHandler       *handler.NovedadHandler
	statisticsHandler    *handler.StatisticsHandler
	metricsHandler       *handler.MetricsHandler
	userHandler          *handler.UserHandler
}

func buildApp(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, redisClient *redis.Client) (*app, error) {
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	businessUnitRepo := repository.NewBusinessUnitRepository(db)
	postRepo := repository.NewPostRepository(db)
	configurationRepo := repository.NewConfigurationRepository(db)
	recordRepo := repository.NewShiftRecordRepository(db)
	novedadRepo := repository.NewNovedadRepository(db)
	statisticsRepo := repository.NewStatisticsRepository(db)

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Statistics.CacheTTL, logr, cfg.Statistics.Enabled && cacheRepo != nil)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "renoa-api",
	})
	businessUnitSvc := service.NewBusinessUnitService(businessUnitRepo, logr)
	postSvc := service.NewPostService(postRepo, userRepo, nil, logr)
	configurationSvc := service.NewConfigurationService(configurationRepo, userRepo, nil, logr)
	gridSvc := service.NewGridService(postRepo, configurationRepo, recordRepo, userRepo, cacheSvc, metrics, nil, logr, service.GridServiceConfig{
		SaveConcurrency: cfg.Grid.SaveConcurrency,
		SaveTimeout:     cfg.Grid.SaveTimeout,
	})
	noteSvc := service.NewNoteService(recordRepo, userRepo, nil, logr)
	exportSvc := service.NewExportService(recordRepo, businessUnitRepo, userRepo, metrics, nil, logr,
		service.ExportServiceConfig{MaxRangeDays: cfg.Export.MaxRangeDays},
		export.NewXLSXExporter(), export.NewCSVExporter(),
	)
	statisticsSvc := service.NewStatisticsService(recordRepo, businessUnitRepo, statisticsRepo, cacheSvc, metrics, nil, logr)

	evidenceStore, err := storage.NewLocalStorage(cfg.Evidence.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("init evidence storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Evidence.SignedURLSecret, cfg.Evidence.SignedURLTTL)

	var (
		notifications *service.NotificationService
		notifier      interface {
			Enqueue(ctx context.Context, novedadID string, recipients []string) (string, error)
		}
	)
	if cfg.Notifications.Enabled {
		notifications = service.NewNotificationService(novedadRepo, mailer.NewSMTPMailer(cfg.SMTP), export.NewPDFExporter(), metrics, logr, service.NotificationServiceConfig{
			Recipients: cfg.Notifications.Recipients,
			Workers:    cfg.Notifications.WorkerConcurrency,
			MaxRetries: cfg.Notifications.WorkerRetries,
			RetryDelay: 5 * time.Second,
		})
		notifier = notifications
	}
	novedadSvc := service.NewNovedadService(novedadRepo, evidenceStore, signer, notifier, userRepo, cacheSvc, nil, logr, service.NovedadServiceConfig{
		MaxFileSize:  cfg.Evidence.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Evidence.AllowedMIMEs,
		APIPrefix:    cfg.APIPrefix,
	})

	checks := map[string]handler.ReadinessCheck{
		"postgres": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return cache.Ping(ctx, redisClient) }
	}

	return &app{
		metrics:       metrics,
		audit:         userRepo,
		auth:          authSvc,
		notifications: notifications,

		authHandler:          handler.NewAuthHandler(authSvc, cfg.JWT.CookieName, cfg.Env == config.EnvProduction),
		businessUnitHandler:  handler.NewBusinessUnitHandler(businessUnitSvc),
		postHandler:          handler.NewPostHandler(postSvc),
		configurationHandler: handler.NewConfigurationHandler(configurationSvc),
		gridHandler:          handler.NewGridHandler(gridSvc),
		noteHandler:          handler.NewNoteHandler(noteSvc),
		exportHandler:        handler.NewExportHandler(exportSvc),
		novedadHandler:       handler.NewNovedadHandler(novedadSvc),
		statisticsHandler:    handler.NewStatisticsHandler(statisticsSvc),
		metricsHandler:       handler.NewMetricsHandler(metrics, checks),
		userHandler:          handler.NewUserHandler(service.NewUserService(userRepo, nil, logr)),
	}, nil
}
