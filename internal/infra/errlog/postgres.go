package errlog

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib" // Use pgx via database/sql
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresConfig holds PostgreSQL sink configuration.
type PostgresConfig struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// PostgresLog stores failure summaries in a PostgreSQL table. The schema is
// managed by embedded goose migrations applied at startup.
type PostgresLog struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewPostgresLog connects to the database, applies migrations and verifies
// the connection.
func NewPostgresLog(ctx context.Context, cfg PostgresConfig) (*PostgresLog, error) {
	db, err := sqlx.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set pool configuration
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	} else {
		db.SetMaxOpenConns(10)
	}
	if cfg.MinConns > 0 {
		db.SetMaxIdleConns(cfg.MinConns)
	} else {
		db.SetMaxIdleConns(2)
	}
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &PostgresLog{db: db, now: time.Now}, nil
}

// Append records one failure summary.
func (l *PostgresLog) Append(ctx context.Context, message string) error {
	query := `
		INSERT INTO rpc_errors (id, message, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := l.db.ExecContext(ctx, query, uuid.NewString(), message, l.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert error entry: %w", err)
	}
	return nil
}

// Recent returns up to n most recent entries, newest first.
func (l *PostgresLog) Recent(ctx context.Context, n int) ([]Entry, error) {
	query := `
		SELECT id, message, created_at
		FROM rpc_errors
		ORDER BY created_at DESC
		LIMIT $1
	`
	var entries []Entry
	if err := l.db.SelectContext(ctx, &entries, query, n); err != nil {
		return nil, fmt.Errorf("failed to select error entries: %w", err)
	}
	return entries, nil
}

// Close closes the database connection.
func (l *PostgresLog) Close() error {
	return l.db.Close()
}
