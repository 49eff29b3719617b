package main

import (
	"context"
	"flag"
	"log"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/t3-analytics/trucklake/internal/pkg/athena"
	"github.com/t3-analytics/trucklake/internal/pkg/cache"
	"github.com/t3-analytics/trucklake/internal/pkg/config"
	"github.com/t3-analytics/trucklake/internal/pkg/database"
	"github.com/t3-analytics/trucklake/internal/pkg/health"
	"github.com/t3-analytics/trucklake/internal/pkg/logger"
	"github.com/t3-analytics/trucklake/internal/pkg/middleware"
	"github.com/t3-analytics/trucklake/internal/pkg/server"
	"github.com/t3-analytics/trucklake/services/dashboard/handler"
	"github.com/t3-analytics/trucklake/services/dashboard/repository"
	"github.com/t3-analytics/trucklake/services/dashboard/usecase"
)

func main() {
	appName := "dashboard-service"
	configPath := flag.String("config", "config/dashboard.env", "path to the env file")
	flag.Parse()

	configs := config.InitConfig(*configPath)
	if configs.App.Name == "" {
		configs.App.Name = appName
	}
	if err := config.ValidateAnalytics(configs); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger, err := logger.InitAppLogger(configs)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Close()
	logger.SetGlobalLogger(appLogger)

	logger.Info("Starting application", logrus.Fields{
		"app":         configs.App.Name,
		"version":     configs.App.Version,
		"environment": configs.App.Environment,
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(configs.AWS.Region))
	if err != nil {
		logger.Fatal("Failed to load AWS configuration", logrus.Fields{"error": err.Error()})
	}

	athenaClient, err := athena.NewClient(awsCfg, athena.Config{
		Database:       configs.Athena.Database,
		Workgroup:      configs.Athena.Workgroup,
		OutputLocation: configs.Athena.OutputLocation,
		PollInterval:   time.Duration(configs.Athena.PollIntervalMillis) * time.Millisecond,
	})
	if err != nil {
		logger.Fatal("Failed to create query engine client", logrus.Fields{"error": err.Error()})
	}

	// The cache is optional; without Redis the dashboard recomputes
	// every request.
	var appCache cache.Cache = cache.NewNoopCache()
	if configs.Redis.Host != "" {
		redisClient, redisErr := database.NewRedisClient(configs.Redis)
		if redisErr != nil {
			logger.Fatal("Failed to connect to Redis", logrus.Fields{"error": redisErr.Error()})
		}
		defer redisClient.Close()
		appCache = cache.NewRedisCache(redisClient)
		logger.Info("Redis cache enabled", logrus.Fields{"host": configs.Redis.Host})
	} else {
		logger.Info("Running without a cache")
	}

	// Initialize repository
	salesRepo := repository.NewSalesRepo(configs, athenaClient, appCache)

	// Initialize use case
	dashboardUC := usecase.NewDashboardUC(configs, salesRepo, appCache)

	// Initialize handler
	dashboardHandler := handler.NewDashboardHandler(dashboardUC)

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true

	// Add middlewares
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.EchoMiddleware(appLogger))
	e.Use(middleware.PanicRecoveryMiddleware(middleware.DefaultPanicRecoveryConfig(appLogger)))

	// Register health endpoints
	health.RegisterHealthEndpoints(e, configs.App.Name)

	// Register service routes
	dashboardHandler.RegisterRoutes(e)

	srv := server.NewGracefulServer(e, appLogger, configs.Server.Port)
	if err := srv.Start(); err != nil {
		logger.Fatal("Server shutdown with error", logrus.Fields{"error": err.Error()})
	}
}
