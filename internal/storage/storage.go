package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"siteindex/internal/models"
)

type Store interface {
	Initialize() error
	Close() error

	// Run operations
	CreateRun(ctx context.Context, run *models.GenerationRun) error
	UpdateRun(ctx context.Context, run *models.GenerationRun) error
	GetRun(ctx context.Context, id uuid.UUID) (*models.GenerationRun, error)
	ListRuns(ctx context.Context, limit, offset int) ([]*models.GenerationRun, error)

	// Route operations
	CreateRoute(ctx context.Context, route *models.RouteRecord) error
	GetRoutesByRun(ctx context.Context, runID uuid.UUID, limit, offset int) ([]*models.RouteRecord, error)
	SearchRoutes(ctx context.Context, query string, limit, offset int) ([]*models.RouteRecord, error)
}

// NewStore opens the history store for the given driver.
func NewStore(driver, dsn string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgresStore(dsn)
	case "sqlite3", "":
		return NewSQLiteStore(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
