package repository

import (
	"context"

	"asistente-normativo/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var documentColumns = []string{
	"id", "file_name", "source_format", "doc_type", "category",
	"is_normative", "active", "description", "extracted_text",
	"analysis_report", "quality_score", "quality_band", "created_at", "updated_at",
}

type DocumentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDocumentRepository(db *pgxpool.Pool, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := squirrel.Insert("documents").
		Columns(documentColumns...).
		Values(doc.ID, doc.FileName, doc.SourceFormat, doc.DocType, doc.Category,
			doc.IsNormative, doc.Active, doc.Description, doc.ExtractedText,
			doc.AnalysisReport, doc.QualityScore, doc.QualityBand, doc.CreatedAt, doc.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := squirrel.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var doc models.Document
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&doc.ID, &doc.FileName, &doc.SourceFormat, &doc.DocType, &doc.Category,
		&doc.IsNormative, &doc.Active, &doc.Description, &doc.ExtractedText,
		&doc.AnalysisReport, &doc.QualityScore, &doc.QualityBand, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// ListActive returns the active corpus ordered by most recent ingestion.
func (r *DocumentRepository) ListActive(ctx context.Context) ([]*models.Document, error) {
	query := squirrel.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"active": true}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	return r.queryDocuments(ctx, query)
}

func (r *DocumentRepository) List(ctx context.Context, limit, offset int) ([]*models.Document, error) {
	query := squirrel.Select(documentColumns...).
		From("documents").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	return r.queryDocuments(ctx, query)
}

// UpdateMetadata applies administrative edits. Fields left nil keep their
// stored value; the document body is never touched here.
func (r *DocumentRepository) UpdateMetadata(ctx context.Context, id uuid.UUID, docType, category, description *string, isNormative *bool) error {
	query := squirrel.Update("documents").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	if docType != nil {
		query = query.Set("doc_type", *docType)
	}
	if category != nil {
		query = query.Set("category", *category)
	}
	if description != nil {
		query = query.Set("description", *description)
	}
	if isNormative != nil {
		query = query.Set("is_normative", *isNormative)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *DocumentRepository) UpdateAnalysis(ctx context.Context, id uuid.UUID, report string, qualityScore int, qualityBand string) error {
	query := squirrel.Update("documents").
		Set("analysis_report", report).
		Set("quality_score", qualityScore).
		Set("quality_band", qualityBand).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// Deactivate performs the logical delete. Rows are never physically removed.
func (r *DocumentRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Update("documents").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *DocumentRepository) ExistsByFileName(ctx context.Context, fileName string) (bool, error) {
	query := squirrel.Select("COUNT(1)").
		From("documents").
		Where(squirrel.Eq{"file_name": fileName}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *DocumentRepository) queryDocuments(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Document, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID, &doc.FileName, &doc.SourceFormat, &doc.DocType, &doc.Category,
			&doc.IsNormative, &doc.Active, &doc.Description, &doc.ExtractedText,
			&doc.AnalysisReport, &doc.QualityScore, &doc.QualityBand, &doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		documents = append(documents, &doc)
	}

	return documents, rows.Err()
}
