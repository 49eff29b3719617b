package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	// Create config from environment variables
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "")
	configs.App.Environment = GetEnv("APP_ENV", "")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", true)
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 0)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 0)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 0)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 0)

	// Operational store config
	configs.Database.Host = GetEnv("DB_HOST", "")
	configs.Database.Port = GetEnvAsInt("DB_PORT", 3306)
	configs.Database.Username = GetEnv("DB_USER", "")
	configs.Database.Password = GetEnv("DB_PASSWORD", "")
	configs.Database.Database = GetEnv("DB_NAME", "")
	configs.Database.MaxConns = GetEnvAsInt("DB_MAX_CONNS", 10)
	configs.Database.IdleConns = GetEnvAsInt("DB_IDLE_CONNS", 5)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 6379)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 10)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "")

	// AWS config
	configs.AWS.Region = GetEnv("AWS_REGION", "eu-west-2")

	// Athena config
	configs.Athena.Database = GetEnv("ATHENA_DATABASE", "")
	configs.Athena.Workgroup = GetEnv("ATHENA_WORKGROUP", "")
	configs.Athena.OutputLocation = GetEnv("ATHENA_S3_OUTPUT", "")
	configs.Athena.TransactionTable = GetEnv("ATHENA_TX_TABLE", "transaction")
	configs.Athena.TruckTable = GetEnv("ATHENA_TRUCK_TABLE", "truck")
	configs.Athena.PaymentMethodTable = GetEnv("ATHENA_PM_TABLE", "payment_method")
	configs.Athena.PollIntervalMillis = GetEnvAsInt("ATHENA_POLL_INTERVAL_MS", 500)

	// Lake config
	configs.Lake.StagingDir = GetEnv("LAKE_STAGING_DIR", "input")
	configs.Lake.Bucket = GetEnv("S3_BUCKET", "")
	configs.Lake.Prefix = GetEnv("S3_PREFIX", "input")

	// Pipeline config
	configs.Pipeline.ExtractWindowHours = GetEnvAsInt("EXTRACT_WINDOW_HOURS", 3)
	configs.Pipeline.IntervalMinutes = GetEnvAsInt("PIPELINE_INTERVAL_MINUTES", 180)

	// Dashboard config
	configs.Dashboard.RowsCacheTTLSeconds = GetEnvAsInt("DASHBOARD_ROWS_CACHE_TTL", 900)
	configs.Dashboard.ViewCacheTTLSeconds = GetEnvAsInt("DASHBOARD_VIEW_CACHE_TTL", 300)
	configs.Dashboard.DefaultRangeDays = GetEnvAsInt("DASHBOARD_DEFAULT_RANGE_DAYS", 30)

	// Report config
	configs.Report.GenerateAt = GetEnv("REPORT_GENERATE_AT", "06:10")

	return configs
}

// ValidatePipeline checks the settings the batch pipeline cannot run
// without. Called once at startup; failures are fatal.
func ValidatePipeline(configs *models.Config) error {
	if configs.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if configs.Database.Username == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if configs.Database.Database == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if configs.Lake.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required")
	}
	return nil
}

// ValidateAnalytics checks the settings the read path cannot run without.
func ValidateAnalytics(configs *models.Config) error {
	if configs.Athena.Database == "" {
		return fmt.Errorf("ATHENA_DATABASE is required")
	}
	if configs.Athena.OutputLocation == "" {
		return fmt.Errorf("ATHENA_S3_OUTPUT is required")
	}
	return nil
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
