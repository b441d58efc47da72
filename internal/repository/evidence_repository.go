package repository

import (
	"context"

	"asistente-normativo/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var evidenceColumns = []string{
	"id", "session_id", "file_name", "extracted_text",
	"evidence_type", "factor", "characteristic", "created_at",
}

type EvidenceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewEvidenceRepository(db *pgxpool.Pool, logger *zap.Logger) *EvidenceRepository {
	return &EvidenceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *EvidenceRepository) Create(ctx context.Context, record *models.EvidenceRecord) error {
	query := squirrel.Insert("evidence").
		Columns(evidenceColumns...).
		Values(record.ID, record.SessionID, record.FileName, record.ExtractedText,
			record.EvidenceType, record.Factor, record.Characteristic, record.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListBySession returns recent evidence for a session, newest first.
func (r *EvidenceRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.EvidenceRecord, error) {
	query := squirrel.Select(evidenceColumns...).
		From("evidence").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.EvidenceRecord
	for rows.Next() {
		var record models.EvidenceRecord
		if err := rows.Scan(
			&record.ID, &record.SessionID, &record.FileName, &record.ExtractedText,
			&record.EvidenceType, &record.Factor, &record.Characteristic, &record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}
