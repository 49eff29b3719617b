package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/t3-analytics/trucklake/internal/pkg/config"
	"github.com/t3-analytics/trucklake/internal/pkg/database"
	"github.com/t3-analytics/trucklake/internal/pkg/logger"
	"github.com/t3-analytics/trucklake/internal/pkg/models"
	"github.com/t3-analytics/trucklake/services/pipeline"
	"github.com/t3-analytics/trucklake/services/pipeline/gateway"
	"github.com/t3-analytics/trucklake/services/pipeline/repository"
	"github.com/t3-analytics/trucklake/services/pipeline/usecase"
)

func main() {
	appName := "pipeline-service"
	configPath := flag.String("config", "config/pipeline.env", "path to the env file")
	mode := flag.String("mode", "once", "once runs a single cycle, scheduled keeps running")
	flag.Parse()

	configs := config.InitConfig(*configPath)
	if configs.App.Name == "" {
		configs.App.Name = appName
	}
	if err := config.ValidatePipeline(configs); err != nil {
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
		"mode":        *mode,
	})

	mysqlClient, err := database.NewMySQLClient(configs.Database)
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", logrus.Fields{"error": err.Error()})
	}
	defer mysqlClient.Close()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(configs.AWS.Region))
	if err != nil {
		logger.Fatal("Failed to load AWS configuration", logrus.Fields{"error": err.Error()})
	}

	// Initialize repositories
	transactionRepo := repository.NewTransactionRepo(mysqlClient)
	lakeRepo := repository.NewLakeRepo(configs)

	// Initialize gateway
	s3Gateway := gateway.NewS3Gateway(awsCfg, configs)

	// Initialize use case
	pipelineUC := usecase.NewPipelineUC(configs, transactionRepo, lakeRepo, s3Gateway)

	switch *mode {
	case "once":
		runOnce(pipelineUC)
	case "scheduled":
		runScheduled(configs, pipelineUC)
	default:
		logger.Fatal("Unknown mode", logrus.Fields{"mode": *mode})
	}
}

func runOnce(pipelineUC pipeline.PipelineUC) {
	if _, err := pipelineUC.RunOnce(context.Background()); err != nil {
		logger.Fatal("Pipeline run failed", logrus.Fields{"error": err.Error()})
	}
}

func runScheduled(configs *models.Config, pipelineUC pipeline.PipelineUC) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := gocron.NewScheduler(time.UTC)
	_, err := scheduler.Every(configs.Pipeline.IntervalMinutes).Minutes().Do(func() {
		if _, runErr := pipelineUC.RunOnce(context.Background()); runErr != nil {
			logger.WithError(runErr).Error("Scheduled pipeline run failed")
		}
	})
	if err != nil {
		logger.Fatal("Failed to schedule pipeline runs", logrus.Fields{"error": err.Error()})
	}

	scheduler.StartAsync()
	logger.Info("Pipeline scheduler started", logrus.Fields{
		"interval_minutes": configs.Pipeline.IntervalMinutes,
	})

	<-ctx.Done()
	scheduler.Stop()
	logger.Info("Pipeline scheduler stopped")
}
