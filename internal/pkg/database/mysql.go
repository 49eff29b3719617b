package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/t3-analytics/trucklake/internal/pkg/models"
)

// MySQLClient represents the operational store client
type MySQLClient struct {
	db *sqlx.DB
}

// NewMySQLClient creates a new MySQL client. parseTime is deliberately
// left off so every column scans as raw text and the cleaner owns all
// type decisions.
func NewMySQLClient(config models.DatabaseConfig) (*MySQLClient, error) {
	// Build connection string
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s",
		config.Username,
		config.Password,
		config.Host,
		config.Port,
		config.Database,
	)

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}

	// Configure connection pool
	if config.MaxConns > 0 {
		db.SetMaxOpenConns(config.MaxConns)
	}
	if config.IdleConns > 0 {
		db.SetMaxIdleConns(config.IdleConns)
	}
	db.SetConnMaxLifetime(1 * time.Hour)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	return &MySQLClient{db: db}, nil
}

// GetDB returns the underlying sqlx handle
func (m *MySQLClient) GetDB() *sqlx.DB {
	return m.db
}

// Close closes the database connection pool
func (m *MySQLClient) Close() error {
	return m.db.Close()
}
