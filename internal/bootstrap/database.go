package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/review-responder/internal/config"
	"github.com/jonesrussell/north-cloud/review-responder/internal/database"
)

// SetupDatabase creates a database connection.
func SetupDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.NewPostgresConnection(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}
	return db, nil
}
