package repository

import (
	"context"

	"asistente-normativo/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var conversationColumns = []string{
	"id", "session_id", "query", "response", "model",
	"used_repository", "used_evidence", "used_web", "created_at",
}

type ConversationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewConversationRepository(db *pgxpool.Pool, logger *zap.Logger) *ConversationRepository {
	return &ConversationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ConversationRepository) Create(ctx context.Context, turn *models.ConversationTurn) error {
	query := squirrel.Insert("conversations").
		Columns(conversationColumns...).
		Values(turn.ID, turn.SessionID, turn.Query, turn.Response, turn.Model,
			turn.UsedRepository, turn.UsedEvidence, turn.UsedWeb, turn.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListBySession returns the most recent turns for a session in
// chronological order.
func (r *ConversationRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.ConversationTurn, error) {
	// Fetch newest first, then reverse so callers get chronological order.
	query := squirrel.Select(conversationColumns...).
		From("conversations").
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

	var turns []*models.ConversationTurn
	for rows.Next() {
		var turn models.ConversationTurn
		if err := rows.Scan(
			&turn.ID, &turn.SessionID, &turn.Query, &turn.Response, &turn.Model,
			&turn.UsedRepository, &turn.UsedEvidence, &turn.UsedWeb, &turn.CreatedAt,
		); err != nil {
			return nil, err
		}
		turns = append(turns, &turn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	return turns, nil
}

// DeleteBySession removes all turns for a session key in bulk.
func (r *ConversationRepository) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	query := squirrel.Delete("conversations").
		Where(squirrel.Eq{"session_id": sessionID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
