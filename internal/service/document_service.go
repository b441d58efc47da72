package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"asistente-normativo/internal/dto"
	"asistente-normativo/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// DocumentStore is the write side of the corpus collection.
type DocumentStore interface {
	DocumentSource
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	List(ctx context.Context, limit, offset int) ([]*models.Document, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, docType, category, description *string, isNormative *bool) error
	UpdateAnalysis(ctx context.Context, id uuid.UUID, report string, qualityScore int, qualityBand string) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// DocumentService handles corpus ingestion and administration. Ingestion
// runs extraction and the full analysis pipeline before the document is
// stored, so queries never observe a half-ingested record.
type DocumentService struct {
	store      DocumentStore
	extraction *ExtractionService
	analysis   *AnalysisService
	quality    *QualityService
	uploadDir  string
	logger     *zap.Logger
}

func NewDocumentService(
	store DocumentStore,
	extraction *ExtractionService,
	analysis *AnalysisService,
	quality *QualityService,
	uploadDir string,
	logger *zap.Logger,
) *DocumentService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		logger.Warn("Failed to create upload directory", zap.Error(err))
	}

	return &DocumentService{
		store:      store,
		extraction: extraction,
		analysis:   analysis,
		quality:    quality,
		uploadDir:  uploadDir,
		logger:     logger,
	}
}

type IngestRequest struct {
	FileName    string
	DocType     models.DocumentType
	Category    string
	IsNormative bool
	Description string
}

// Ingest saves the upload, extracts its text, produces the analysis report
// and quality record, and persists the document. An unreadable body still
// enters the corpus with its placeholder text.
func (s *DocumentService) Ingest(ctx context.Context, file io.Reader, req IngestRequest) (*dto.DocumentResponse, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	docID := uuid.New()
	ext := filepath.Ext(req.FileName)
	storedPath := filepath.Join(s.uploadDir, docID.String()+ext)

	dst, err := os.Create(storedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(storedPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	dst.Close()

	extraction := s.extraction.Extract(ctx, storedPath)

	report := s.analysis.Analyze(ctx, AnalysisInput{
		Text:     extraction.Text,
		FileName: req.FileName,
		DocType:  req.DocType,
	})
	evaluation := s.quality.Evaluate(extraction.Text)

	now := time.Now()
	doc := &models.Document{
		ID:             docID,
		FileName:       req.FileName,
		SourceFormat:   extraction.Method,
		DocType:        req.DocType,
		Category:       req.Category,
		IsNormative:    req.IsNormative,
		Active:         true,
		Description:    req.Description,
		ExtractedText:  extraction.Text,
		AnalysisReport: sanitizeUTF8(report),
		QualityScore:   evaluation.Score,
		QualityBand:    evaluation.Band,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Create(ctx, doc); err != nil {
		os.Remove(storedPath)
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	s.logger.Info("Document ingested",
		zap.String("document_id", docID.String()),
		zap.String("file", req.FileName),
		zap.String("method", extraction.Method),
		zap.Int("quality_score", evaluation.Score),
	)

	return documentResponse(doc), nil
}

func (s *DocumentService) List(ctx context.Context, limit, offset int) ([]*dto.DocumentResponse, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	docs, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	responses := make([]*dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, documentResponse(doc))
	}
	return responses, nil
}

func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (*dto.DocumentDetailResponse, error) {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.DocumentDetailResponse{
		DocumentResponse: *documentResponse(doc),
		ExtractedText:    doc.ExtractedText,
		AnalysisReport:   doc.AnalysisReport,
	}, nil
}

// UpdateMetadata applies administrative edits; the document body stays
// immutable.
func (s *DocumentService) UpdateMetadata(ctx context.Context, id uuid.UUID, req *dto.UpdateDocumentRequest) error {
	if _, err := s.getDocument(ctx, id); err != nil {
		return err
	}
	return s.store.UpdateMetadata(ctx, id, req.DocType, req.Category, req.Description, req.IsNormative)
}

// Deactivate soft-deletes: the record stays stored but leaves the active
// corpus.
func (s *DocumentService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getDocument(ctx, id); err != nil {
		return err
	}
	return s.store.Deactivate(ctx, id)
}

// Reanalyze reruns the analysis pipeline and quality rubric over the stored
// body and replaces the derived report.
func (s *DocumentService) Reanalyze(ctx context.Context, id uuid.UUID) (*dto.DocumentDetailResponse, error) {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	report := s.analysis.Analyze(ctx, AnalysisInput{
		Text:     doc.ExtractedText,
		FileName: doc.FileName,
		DocType:  doc.DocType,
	})
	evaluation := s.quality.Evaluate(doc.ExtractedText)

	if err := s.store.UpdateAnalysis(ctx, id, sanitizeUTF8(report), evaluation.Score, evaluation.Band); err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}

	doc.AnalysisReport = report
	doc.QualityScore = evaluation.Score
	doc.QualityBand = evaluation.Band

	return &dto.DocumentDetailResponse{
		DocumentResponse: *documentResponse(doc),
		ExtractedText:    doc.ExtractedText,
		AnalysisReport:   doc.AnalysisReport,
	}, nil
}

func (s *DocumentService) getDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	doc, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return doc, nil
}

func documentResponse(doc *models.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		ID:           doc.ID.String(),
		FileName:     doc.FileName,
		SourceFormat: doc.SourceFormat,
		DocType:      string(doc.DocType),
		Category:     doc.Category,
		IsNormative:  doc.IsNormative,
		Active:       doc.Active,
		Description:  strings.TrimSpace(doc.Description),
		QualityScore: doc.QualityScore,
		QualityBand:  doc.QualityBand,
		CreatedAt:    doc.CreatedAt.Format(time.RFC3339),
	}
}
