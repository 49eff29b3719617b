package main

import (
	"context"
	"flag"
	"log"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/go-co-op/gocron"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/t3-analytics/trucklake/internal/pkg/athena"
	"github.com/t3-analytics/trucklake/internal/pkg/config"
	"github.com/t3-analytics/trucklake/internal/pkg/health"
	"github.com/t3-analytics/trucklake/internal/pkg/logger"
	"github.com/t3-analytics/trucklake/internal/pkg/middleware"
	"github.com/t3-analytics/trucklake/internal/pkg/models"
	"github.com/t3-analytics/trucklake/internal/pkg/server"
	"github.com/t3-analytics/trucklake/services/report"
	"github.com/t3-analytics/trucklake/services/report/handler"
	"github.com/t3-analytics/trucklake/services/report/repository"
	"github.com/t3-analytics/trucklake/services/report/usecase"
)

func main() {
	appName := "report-service"
	configPath := flag.String("config", "config/report.env", "path to the env file")
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

	// Initialize repository
	salesRepo := repository.NewSalesRepo(configs, athenaClient)

	// Initialize use case
	reportUC := usecase.NewReportUC(salesRepo)

	// Initialize handler
	reportHandler := handler.NewReportHandler(reportUC)

	// Generate yesterday's report every morning. The rendered document
	// is logged, not delivered; callers fetch it over HTTP.
	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(1).Day().At(configs.Report.GenerateAt).Do(func() {
		scheduledRun(reportUC)
	}); err != nil {
		logger.Fatal("Failed to schedule daily report", logrus.Fields{"error": err.Error()})
	}
	scheduler.StartAsync()
	defer scheduler.Stop()
	logger.Info("Report scheduler started", logrus.Fields{"generate_at": configs.Report.GenerateAt})

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
	reportHandler.RegisterRoutes(e)

	srv := server.NewGracefulServer(e, appLogger, configs.Server.Port)
	if err := srv.Start(); err != nil {
		logger.Fatal("Server shutdown with error", logrus.Fields{"error": err.Error()})
	}
}

func scheduledRun(reportUC report.ReportUC) {
	dailyReport, err := reportUC.Generate(context.Background(), models.Yesterday())
	if err != nil {
		logger.WithError(err).Error("Scheduled report generation failed")
		return
	}
	logger.Info("Scheduled report generated", logrus.Fields{
		"report_date":  dailyReport.ReportDate,
		"generated_at": dailyReport.GeneratedAt,
		"bytes":        len(dailyReport.HTML),
	})
}
