package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"siteindex/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
            id TEXT PRIMARY KEY,
            site_url TEXT NOT NULL,
            output_dir TEXT NOT NULL,
            route_count INTEGER NOT NULL DEFAULT 0,
            skipped_count INTEGER NOT NULL DEFAULT 0,
            status TEXT NOT NULL,
            started_at DATETIME NOT NULL,
            completed_at DATETIME
        )`,
		`CREATE TABLE IF NOT EXISTS routes (
            id TEXT PRIMARY KEY,
            run_id TEXT NOT NULL,
            url_path TEXT NOT NULL,
            loc TEXT NOT NULL,
            title TEXT,
            priority REAL NOT NULL,
            changefreq TEXT NOT NULL,
            lastmod TEXT NOT NULL,
            noindex INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME NOT NULL,
            FOREIGN KEY(run_id) REFERENCES runs(id)
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

func (s *SQLiteStore) CreateRun(ctx context.Context, run *models.GenerationRun) error {
	query := `
        INSERT INTO runs (id, site_url, output_dir, route_count, skipped_count, status, started_at, completed_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err := s.db.ExecContext(ctx, query,
		run.ID.String(),
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

func (s *SQLiteStore) UpdateRun(ctx context.Context, run *models.GenerationRun) error {
	query := `
        UPDATE runs SET
            route_count = ?,
            skipped_count = ?,
            status = ?,
            completed_at = ?
        WHERE id = ?
    `

	_, err := s.db.ExecContext(ctx, query,
		run.RouteCount,
		run.SkippedCount,
		run.Status,
		run.CompletedAt,
		run.ID.String(),
	)

	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id uuid.UUID) (*models.GenerationRun, error) {
	query := `
        SELECT id, site_url, output_dir, route_count, skipped_count, status, started_at, completed_at
        FROM runs
        WHERE id = ?
    `

	run, err := scanRun(s.db.QueryRowContext(ctx, query, id.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit, offset int) ([]*models.GenerationRun, error) {
	query := `
        SELECT id, site_url, output_dir, route_count, skipped_count, status, started_at, completed_at
        FROM runs
        ORDER BY started_at DESC
        LIMIT ? OFFSET ?
    `

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.GenerationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (s *SQLiteStore) CreateRoute(ctx context.Context, route *models.RouteRecord) error {
	query := `
        INSERT INTO routes (id, run_id, url_path, loc, title, priority, changefreq, lastmod, noindex, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err := s.db.ExecContext(ctx, query,
		route.ID.String(),
		route.RunID.String(),
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

func (s *SQLiteStore) GetRoutesByRun(ctx context.Context, runID uuid.UUID, limit, offset int) ([]*models.RouteRecord, error) {
	query := `
        SELECT id, run_id, url_path, loc, title, priority, changefreq, lastmod, noindex, created_at
        FROM routes
        WHERE run_id = ?
        ORDER BY created_at
        LIMIT ? OFFSET ?
    `

	rows, err := s.db.QueryContext(ctx, query, runID.String(), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRoutes(rows)
}

func (s *SQLiteStore) SearchRoutes(ctx context.Context, query string, limit, offset int) ([]*models.RouteRecord, error) {
	stmt := `
        SELECT id, run_id, url_path, loc, title, priority, changefreq, lastmod, noindex, created_at
        FROM routes
        WHERE url_path LIKE ? OR title LIKE ?
        ORDER BY created_at DESC
        LIMIT ? OFFSET ?
    `

	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, stmt, pattern, pattern, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRoutes(rows)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*models.GenerationRun, error) {
	run := &models.GenerationRun{}
	var idStr string
	var completedAt sql.NullTime

	err := row.Scan(
		&idStr,
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

	run.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	return run, nil
}

func collectRoutes(rows *sql.Rows) ([]*models.RouteRecord, error) {
	var routeRecords []*models.RouteRecord
	for rows.Next() {
		route := &models.RouteRecord{}
		var idStr, runIDStr, changeFreq string

		err := rows.Scan(
			&idStr,
			&runIDStr,
			&route.URLPath,
			&route.Loc,
			&route.Title,
			&route.Priority,
			&changeFreq,
			&route.LastMod,
			&route.Noindex,
			&route.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if route.ID, err = uuid.Parse(idStr); err != nil {
			return nil, err
		}
		if route.RunID, err = uuid.Parse(runIDStr); err != nil {
			return nil, err
		}
		route.ChangeFreq = models.ChangeFreq(changeFreq)

		routeRecords = append(routeRecords, route)
	}

	return routeRecords, rows.Err()
}
