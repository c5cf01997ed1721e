// Package database provides PostgreSQL connectivity and the process history store.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	infraconfig "github.com/jonesrussell/north-cloud/review-responder/internal/infrastructure/config"
)

// DefaultPingTimeout bounds the startup connectivity check.
const DefaultPingTimeout = 5 * time.Second

// NewPostgresConnection opens and verifies a PostgreSQL connection pool.
func NewPostgresConnection(ctx context.Context, cfg *infraconfig.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	return db, nil
}
