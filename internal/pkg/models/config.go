package models

// Config represents application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	AWS       AWSConfig
	Athena    AthenaConfig
	Lake      LakeConfig
	Pipeline  PipelineConfig
	Dashboard DashboardConfig
	Report    ReportConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains the operational MySQL store configuration
type DatabaseConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration. An empty Host
// disables the read-path cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}

// AWSConfig contains shared AWS client configuration
type AWSConfig struct {
	Region string
}

// AthenaConfig contains the analytical query engine configuration.
// OutputLocation is required; construction fails without it.
type AthenaConfig struct {
	Database           string
	Workgroup          string
	OutputLocation     string
	TransactionTable   string
	TruckTable         string
	PaymentMethodTable string
	PollIntervalMillis int
}

// LakeConfig contains the local staging directory and the object
// storage destination for the lake.
type LakeConfig struct {
	StagingDir string
	Bucket     string
	Prefix     string
}

// PipelineConfig contains batch run configuration
type PipelineConfig struct {
	ExtractWindowHours int
	IntervalMinutes    int
}

// DashboardConfig contains read-path cache and default range settings
type DashboardConfig struct {
	RowsCacheTTLSeconds int
	ViewCacheTTLSeconds int
	DefaultRangeDays    int
}

// ReportConfig contains the daily report schedule ("HH:MM", UTC)
type ReportConfig struct {
	GenerateAt string
}
