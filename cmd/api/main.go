package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"

	"github.com/ShawnLiGH/wwtp-equipment-tool/config"
	"github.com/ShawnLiGH/wwtp-equipment-tool/db"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/handlers"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/document"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/equipment"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/instance"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/project"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/quote"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/database"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/middleware"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName: cfg.AppName,
		Exporter:    cfg.TracingExporter,
		Endpoint:    cfg.TracingEndpoint,
		Insecure:    cfg.TracingInsecure,
	})
	if err != nil {
		logger.WithError(err).Error("failed to initialize tracing")
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.WithError(err).Error("failed to shut down tracing")
		}
	}()

	dbConn, err := database.Connect(database.Config{
		Path:        cfg.DatabasePath,
		BusyTimeout: cfg.DatabaseBusyTimeout,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("failed to connect to database")
		os.Exit(1)
	}
	defer dbConn.Close()

	migrations := database.NewMigrationService(dbConn, db.Migrations, db.MigrationFolder, logger)
	if cfg.DatabaseMigrateOnStart {
		if err := migrations.Create(); err != nil {
			logger.WithError(err).Error("failed to apply schema migrations")
			os.Exit(1)
		}
	}

	projectRepo := project.NewRepository(dbConn, logger)
	equipmentRepo := equipment.NewRepository(dbConn, logger)
	instanceRepo := instance.NewRepository(dbConn, logger)
	quoteRepo := quote.NewRepository(dbConn, logger)
	documentRepo := document.NewRepository(dbConn, logger)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))

	handlers.NewHealthHandler(dbConn).RegisterRoutes(e)

	api := e.Group("/api")
	handlers.NewProjectHandler(projectRepo, logger).RegisterRoutes(api)
	handlers.NewEquipmentHandler(equipmentRepo, logger).RegisterRoutes(api)
	handlers.NewInstanceHandler(instanceRepo, projectRepo, quoteRepo, logger).RegisterRoutes(api)
	handlers.NewQuoteHandler(quoteRepo, equipmentRepo, logger).RegisterRoutes(api)
	handlers.NewDocumentHandler(documentRepo, equipmentRepo, logger).RegisterRoutes(api)
	handlers.NewAdminHandler(migrations, projectRepo, equipmentRepo, instanceRepo, quoteRepo, documentRepo, logger).RegisterRoutes(api)

	e.Server.ReadTimeout = cfg.HTTPServerReadTimeout
	e.Server.WriteTimeout = cfg.HTTPServerWriteTimeout
	e.Server.IdleTimeout = cfg.HTTPServerIdleTimeout

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.WithField("addr", addr).Info("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("failed to shut down server cleanly")
	}
}

func newLogger(cfg *config.Config) (ectologger.Logger, error) {
	var zapLogger *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	return zapadapter.NewZapEctoLogger(zapLogger, nil), nil
}
