package app

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

	"field-tech-api/internal/carrier"
	"field-tech-api/internal/config"
	"field-tech-api/internal/database"
	"field-tech-api/internal/handler"
	"field-tech-api/internal/middleware"
	"field-tech-api/internal/repository"
	"field-tech-api/internal/router"
	"field-tech-api/internal/service"
	"field-tech-api/internal/storage"
	"field-tech-api/internal/token"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server       *http.Server
	logger       *slog.Logger
	cleanupFuncs []func()
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, database.PoolConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}
	logger.Info("database ready")

	appRouter, err := Routes(ctx, cfg, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	return &App{
		server: server,
		logger: logger,
		cleanupFuncs: []func(){
			db.Close,
		},
	}, nil
}

// Routes builds every repository, service and handler on top of db and
// returns the HTTP handler. It seeds the bootstrap admin when configured.
func Routes(ctx context.Context, cfg *config.Config, db *database.DB, logger *slog.Logger) (http.Handler, error) {
	files, err := storage.New(cfg.UploadRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	historyRepo := repository.NewSerialHistoryRepository(pool)
	photoRepo := repository.NewPhotoRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	codec := token.NewCodec(cfg.JWTSecret, cfg.JWTTTL)
	guard := middleware.NewGuard(codec)

	auditService := service.NewAuditService(auditRepo, logger)
	authService := service.NewAuthService(userRepo, codec, auditService, logger)
	if err := authService.EnsureBootstrapAdmin(ctx, cfg.BootstrapAdminPassword); err != nil {
		return nil, fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	scopes := service.NewScopeResolver(userRepo)
	clientService := service.NewClientService(clientRepo, historyRepo, auditService, cfg.DefaultPlanID, logger)
	photoService := service.NewPhotoService(photoRepo, clientRepo, userRepo, files, auditService, service.PhotoLimits{
		MaxPhotoBytes:   cfg.MaxPhotoSize,
		MaxProfileBytes: cfg.MaxProfilePhotoSize,
	}, logger)
	dashboardService := service.NewDashboardService(statsRepo)
	performanceService := service.NewPerformanceService(statsRepo, cfg.MonthlyGoal)
	catalogService := service.NewCatalogService(catalogRepo)
	carrierService := service.NewCarrierService(carrier.NewClient(carrier.Config{
		BaseURL: cfg.Carrier.BaseURL,
		App:     cfg.Carrier.App,
		Token:   cfg.Carrier.Token,
		Timeout: cfg.Carrier.Timeout,
	}), clientService)
	if !carrierService.Configured() {
		logger.Warn("carrier proxy disabled", "reason", "CARRIER_BASE_URL not set")
	}

	handler.ExposeInternalErrors(!cfg.IsProduction())

	return router.New(router.Config{
		CORSOrigins:      cfg.CORSOrigins,
		RateLimitRPM:     cfg.RateLimitRPM,
		AuthRateLimitRPM: cfg.AuthRateLimitRPM,
		RequestTimeout:   cfg.RequestTimeout,
		UploadRoot:       files.RootAbs(),
		StaticRoot:       cfg.StaticRoot,
	}, guard, router.Handlers{
		Health:    handler.NewHealthHandler(db),
		Docs:      handler.NewDocsHandler(cfg.DocsSpecPath),
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(authService, photoService, cfg.MaxProfilePhotoSize),
		Client:    handler.NewClientHandler(clientService, scopes),
		Equipment: handler.NewEquipmentHandler(clientService),
		Audit:     handler.NewAuditHandler(auditService),
		Stats:     handler.NewStatsHandler(dashboardService, performanceService, scopes),
		Photo:     handler.NewPhotoHandler(photoService, cfg.MaxPhotoSize),
		Carrier:   handler.NewCarrierHandler(carrierService),
		Catalog:   handler.NewCatalogHandler(catalogService),
	}, logger), nil
}

// Run serves until SIGINT or SIGTERM and then drains in-flight requests.
func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		if err != nil {
			a.cleanup()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-stop:
		a.logger.Info("shutdown requested", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)
	a.cleanup()
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	a.logger.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
}
