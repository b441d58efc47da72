package postgres

import (
	"context"
	"fmt"

	"asistente-normativo/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func NewPool(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.DBName),
	)

	return pool, nil
}

// EnsureSchema creates the tables used by the service if they do not exist
// yet. Documents are soft-deleted via the active flag, never dropped.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			file_name TEXT NOT NULL,
			source_format TEXT NOT NULL DEFAULT '',
			doc_type TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			is_normative BOOLEAN NOT NULL DEFAULT FALSE,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			description TEXT NOT NULL DEFAULT '',
			extracted_text TEXT NOT NULL DEFAULT '',
			analysis_report TEXT NOT NULL DEFAULT '',
			quality_score INT NOT NULL DEFAULT 0,
			quality_band TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id UUID PRIMARY KEY,
			session_id TEXT NOT NULL,
			query TEXT NOT NULL,
			response TEXT NOT NULL,
			model TEXT NOT NULL DEFAULT '',
			used_repository BOOLEAN NOT NULL DEFAULT FALSE,
			used_evidence BOOLEAN NOT NULL DEFAULT FALSE,
			used_web BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_session ON conversations (session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS evidence (
			id UUID PRIMARY KEY,
			session_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			extracted_text TEXT NOT NULL DEFAULT '',
			evidence_type TEXT NOT NULL DEFAULT '',
			factor TEXT NOT NULL DEFAULT '',
			characteristic TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evidence_session ON evidence (session_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	logger.Info("Database schema ensured")
	return nil
}
