package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"siteindex/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
            id UUID PRIMARY KEY,
            site_url VARCHAR(2048) NOT NULL,
            output_dir VARCHAR(1024) NOT NULL,
            route_count INTEGER NOT NULL DEFAULT 0,
            skipped_count INTEGER NOT NULL DEFAULT 0,
            status VARCHAR(32) NOT NULL,
            started_at TIMESTAMP NOT NULL,
            completed_at TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS routes (
            id UUID PRIMARY KEY,
            run_id UUID NOT NULL REFERENCES runs(id),
            url_path VARCHAR(2048) NOT NULL,
            loc VARCHAR(2048) NOT NULL,
            title VARCHAR(1024),
            priority REAL NOT NULL,
            changefreq VARCHAR(16) NOT NULL,
            lastmod VARCHAR(10) NOT NULL,
            noindex BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_routes_run_id ON routes(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_routes_url_path ON routes(url_path)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, run *models.GenerationRun) error {
	query := `
        INSERT INTO runs (id, site_url, output_dir, route_count, skipped_count, status, started_at, completed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.SiteURL,
		run.OutputDir,
		run.RouteCount,
		run.SkippedCount,
		run.Status,
		run.StartedAt,
		run.CompletedAt,
	)

	return err
}

func (s *PostgresStore) UpdateRun(ctx context.Context, run *models.GenerationRun) error {
	query := `
        UPDATE runs SET
            route_count = $1,
            skipped_count = $2,
            status = $3,
            completed_at = $4
        WHERE id = $5
    `

	_, err := s.db.ExecContext(ctx, query,
		run.RouteCount,
		run.SkippedCount,
		run.Status,
		run.CompletedAt,
		run.ID,
	)

	return err
}

func (s *PostgresStore) GetRun(ctx context.Context, id uuid.UUID) (*models.GenerationRun, error) {
	query := `
        SELECT id, site_url, output_dir, route_count, skipped_count, status, started_at, completed_at
        FROM runs
        WHERE id = $1
    `

	run, err := scanPostgresRun(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit, offset int) ([]*models.GenerationRun, error) {
	query := `
        SELECT id, site_url, output_dir, route_count, skipped_count, status, started_at, completed_at
        FROM runs
        ORDER BY started_at DESC
        LIMIT $1 OFFSET $2
    `

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.GenerationRun
	for rows.Next() {
		run, err := scanPostgresRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (s *PostgresStore) CreateRoute(ctx context.Context, route *models.RouteRecord) error {
	query := `
        INSERT INTO routes (id, run_id, url_path, loc, title, priority, changefreq, lastmod, noindex, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `

	_, err := s.db.ExecContext(ctx, query,
		route.ID,
		route.RunID,
		route.URLPath,
		route.Loc,
		route.Title,
		route.Priority,
		string(route.ChangeFreq),
		route.LastMod,
		route.Noindex,
		route.CreatedAt,
	)

	return err
}

func (s *PostgresStore) GetRoutesByRun(ctx context.Context, runID uuid.UUID, limit, offset int) ([]*models.RouteRecord, error) {
	query := `
        SELECT id, run_id, url_path, loc, title, priority, changefreq, lastmod, noindex, created_at
        FROM routes
        WHERE run_id = $1
        ORDER BY created_at
        LIMIT $2 OFFSET $3
    `

	rows, err := s.db.QueryContext(ctx, query, runID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPostgresRoutes(rows)
}

func (s *PostgresStore) SearchRoutes(ctx context.Context, query string, limit, offset int) ([]*models.RouteRecord, error) {
	stmt := `
        SELECT id, run_id, url_path, loc, title, priority, changefreq, lastmod, noindex, created_at
        FROM routes
        WHERE url_path ILIKE $1 OR title ILIKE $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `

	rows, err := s.db.QueryContext(ctx, stmt, "%"+query+"%", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPostgresRoutes(rows)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func scanPostgresRun(row rowScanner) (*models.GenerationRun, error) {
	run := &models.GenerationRun{}
	var completedAt sql.NullTime

	err := row.Scan(
		&run.ID,
		&run.SiteURL,
		&run.OutputDir,
		&run.RouteCount,
		&run.SkippedCount,
		&run.Status,
		&run.StartedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	return run, nil
}

func collectPostgresRoutes(rows *sql.Rows) ([]*models.RouteRecord, error) {
	var routeRecords []*models.RouteRecord
	for rows.Next() {
		route := &models.RouteRecord{}
		var changeFreq string
		var title sql.NullString

		err := rows.Scan(
			&route.ID,
			&route.RunID,
			&route.URLPath,
			&route.Loc,
			&title,
			&route.Priority,
			&changeFreq,
			&route.LastMod,
			&route.Noindex,
			&route.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		route.Title = title.String
		route.ChangeFreq = models.ChangeFreq(changeFreq)

		routeRecords = append(routeRecords, route)
	}

	return routeRecords, rows.Err()
}
