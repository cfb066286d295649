package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/markdave123-py/dmpart/internal/config"
	"github.com/markdave123-py/dmpart/internal/core"
	"github.com/markdave123-py/dmpart/internal/models"
)

var _ core.DbClient = (*DatabaseClient)(nil)

// DatabaseClient is the Postgres run ledger.
type DatabaseClient struct {
	db *sql.DB
}

// NewDatabaseClient connects, pings and bootstraps the ledger schema.
func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	opts := DefaultPoolOptions
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(pingCtx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an already opened handle; the schema must exist.
func NewWithDB(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *DatabaseClient) CreateRun(ctx context.Context, run *models.Run) error {
	if run == nil {
		return errors.New("nil run")
	}
	if run.Status == "" {
		run.Status = models.RunProcessing
	}
	const q = `
		INSERT INTO runs (id, file_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, COALESCE($4, now()), COALESCE($5, now()))
	`
	_, err := c.db.ExecContext(ctx, q, run.ID, run.FileName, run.Status, nullTime(run.CreatedAt), nullTime(run.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (c *DatabaseClient) FinishRun(ctx context.Context, id, status, cacheID, errorKind, errorMessage string) error {
	const q = `
		UPDATE runs
		SET status = $2, cache_id = $3, error_kind = $4, error_message = $5, updated_at = now()
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, id, status, cacheID, errorKind, errorMessage)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

const runColumns = `id, file_name, status, cache_id, error_kind, error_message, created_at, updated_at`

// GetRun returns nil without error when the id is unknown.
func (c *DatabaseClient) GetRun(ctx context.Context, id string) (*models.Run, error) {
	q := `SELECT ` + runColumns + ` FROM runs WHERE id = $1`
	r, err := scanRun(c.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRuns returns the most recent runs first.
func (c *DatabaseClient) ListRuns(ctx context.Context, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	q := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC LIMIT $1`
	rows, err := c.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.Run, error) {
	var r models.Run
	if err := s.Scan(&r.ID, &r.FileName, &r.Status, &r.CacheID, &r.ErrorKind, &r.ErrorMessage, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
