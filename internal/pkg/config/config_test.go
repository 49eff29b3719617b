package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// clearEnv blanks a key for the duration of the test. Setenv registers
// the restore; the unset makes godotenv treat the key as absent.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	clearEnv(t,
		"DB_PORT", "REDIS_PORT", "LOG_LEVEL", "AWS_REGION",
		"ATHENA_TX_TABLE", "ATHENA_TRUCK_TABLE", "ATHENA_PM_TABLE", "ATHENA_POLL_INTERVAL_MS",
		"LAKE_STAGING_DIR", "S3_PREFIX",
		"EXTRACT_WINDOW_HOURS", "PIPELINE_INTERVAL_MINUTES",
		"DASHBOARD_ROWS_CACHE_TTL", "DASHBOARD_VIEW_CACHE_TTL", "DASHBOARD_DEFAULT_RANGE_DAYS",
		"REPORT_GENERATE_AT",
	)

	configs := loadConfigFromEnv()

	assert.Equal(t, 3306, configs.Database.Port)
	assert.Equal(t, 6379, configs.Redis.Port)
	assert.Equal(t, "info", configs.Logger.Level)
	assert.Equal(t, "eu-west-2", configs.AWS.Region)
	assert.Equal(t, "transaction", configs.Athena.TransactionTable)
	assert.Equal(t, "truck", configs.Athena.TruckTable)
	assert.Equal(t, "payment_method", configs.Athena.PaymentMethodTable)
	assert.Equal(t, 500, configs.Athena.PollIntervalMillis)
	assert.Equal(t, "input", configs.Lake.StagingDir)
	assert.Equal(t, "input", configs.Lake.Prefix)
	assert.Equal(t, 3, configs.Pipeline.ExtractWindowHours)
	assert.Equal(t, 180, configs.Pipeline.IntervalMinutes)
	assert.Equal(t, 900, configs.Dashboard.RowsCacheTTLSeconds)
	assert.Equal(t, 300, configs.Dashboard.ViewCacheTTLSeconds)
	assert.Equal(t, 30, configs.Dashboard.DefaultRangeDays)
	assert.Equal(t, "06:10", configs.Report.GenerateAt)
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "mysql.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("S3_BUCKET", "t3-lake")
	t.Setenv("ATHENA_DATABASE", "trucklake")
	t.Setenv("EXTRACT_WINDOW_HOURS", "6")
	t.Setenv("REPORT_GENERATE_AT", "07:30")

	configs := loadConfigFromEnv()

	assert.Equal(t, "mysql.internal", configs.Database.Host)
	assert.Equal(t, 3307, configs.Database.Port)
	assert.Equal(t, "t3-lake", configs.Lake.Bucket)
	assert.Equal(t, "trucklake", configs.Athena.Database)
	assert.Equal(t, 6, configs.Pipeline.ExtractWindowHours)
	assert.Equal(t, "07:30", configs.Report.GenerateAt)
}

func TestInitConfigLoadsDotenvFile(t *testing.T) {
	clearEnv(t, "APP_ENV", "DB_HOST")

	envFile := filepath.Join(t.TempDir(), "pipeline.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_HOST=from-file\n"), 0o600))

	configs := InitConfig(envFile)

	assert.Equal(t, "from-file", configs.Database.Host)
}

func TestInitConfigMissingFileFallsBackToEnv(t *testing.T) {
	clearEnv(t, "APP_ENV")
	t.Setenv("DB_HOST", "from-env")

	configs := InitConfig(filepath.Join(t.TempDir(), "does-not-exist.env"))

	assert.Equal(t, "from-env", configs.Database.Host)
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, GetEnvAsInt("TEST_INT", 7))

	t.Setenv("TEST_INT", "not a number")
	assert.Equal(t, 7, GetEnvAsInt("TEST_INT", 7))

	t.Setenv("TEST_INT", "")
	assert.Equal(t, 7, GetEnvAsInt("TEST_INT", 7))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "false")
	assert.False(t, GetEnvAsBool("TEST_BOOL", true))

	t.Setenv("TEST_BOOL", "1")
	assert.True(t, GetEnvAsBool("TEST_BOOL", false))

	t.Setenv("TEST_BOOL", "maybe")
	assert.True(t, GetEnvAsBool("TEST_BOOL", true))
}

func validPipelineConfig() *models.Config {
	configs := &models.Config{}
	configs.Database.Host = "mysql.internal"
	configs.Database.Username = "etl"
	configs.Database.Database = "t3_pos"
	configs.Lake.Bucket = "t3-lake"
	return configs
}

func TestValidatePipeline(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*models.Config) {},
		},
		{
			name:    "missing host",
			mutate:  func(c *models.Config) { c.Database.Host = "" },
			wantErr: "DB_HOST is required",
		},
		{
			name:    "missing user",
			mutate:  func(c *models.Config) { c.Database.Username = "" },
			wantErr: "DB_USER is required",
		},
		{
			name:    "missing database",
			mutate:  func(c *models.Config) { c.Database.Database = "" },
			wantErr: "DB_NAME is required",
		},
		{
			name:    "missing bucket",
			mutate:  func(c *models.Config) { c.Lake.Bucket = "" },
			wantErr: "S3_BUCKET is required",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			configs := validPipelineConfig()
			tc.mutate(configs)

			err := ValidatePipeline(configs)

			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tc.wantErr)
			}
		})
	}
}

func TestValidateAnalytics(t *testing.T) {
	configs := &models.Config{}
	configs.Athena.Database = "trucklake"
	configs.Athena.OutputLocation = "s3://t3-lake/athena-results/"
	assert.NoError(t, ValidateAnalytics(configs))

	configs.Athena.Database = ""
	assert.EqualError(t, ValidateAnalytics(configs), "ATHENA_DATABASE is required")

	configs.Athena.Database = "trucklake"
	configs.Athena.OutputLocation = ""
	assert.EqualError(t, ValidateAnalytics(configs), "ATHENA_S3_OUTPUT is required")
}
