package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"asistente-normativo/internal/dto"
	"asistente-normativo/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EvidenceStore is the write side of the session-scoped evidence collection.
type EvidenceStore interface {
	EvidenceSource
	Create(ctx context.Context, record *models.EvidenceRecord) error
}

// EvidenceService handles user-submitted evidence. Records are immutable
// after upload and only surface as supplementary context for their session.
type EvidenceService struct {
	store      EvidenceStore
	extraction *ExtractionService
	logger     *zap.Logger
}

func NewEvidenceService(store EvidenceStore, extraction *ExtractionService, logger *zap.Logger) *EvidenceService {
	return &EvidenceService{
		store:      store,
		extraction: extraction,
		logger:     logger,
	}
}

type EvidenceUpload struct {
	SessionID      string
	FileName       string
	EvidenceType   string
	Factor         string
	Characteristic string
}

func (s *EvidenceService) Upload(ctx context.Context, file io.Reader, upload EvidenceUpload) (*dto.EvidenceResponse, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	extraction := s.extraction.ExtractFromReader(ctx, file, upload.FileName)

	record := &models.EvidenceRecord{
		ID:             uuid.New(),
		SessionID:      upload.SessionID,
		FileName:       upload.FileName,
		ExtractedText:  extraction.Text,
		EvidenceType:   upload.EvidenceType,
		Factor:         upload.Factor,
		Characteristic: upload.Characteristic,
		CreatedAt:      time.Now(),
	}

	if err := s.store.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create evidence record: %w", err)
	}

	s.logger.Info("Evidence uploaded",
		zap.String("session_id", upload.SessionID),
		zap.String("file", upload.FileName),
	)

	return evidenceResponse(record), nil
}

func (s *EvidenceService) ListBySession(ctx context.Context, sessionID string, limit int) ([]*dto.EvidenceResponse, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	records, err := s.store.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence: %w", err)
	}

	responses := make([]*dto.EvidenceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, evidenceResponse(record))
	}
	return responses, nil
}

func evidenceResponse(record *models.EvidenceRecord) *dto.EvidenceResponse {
	return &dto.EvidenceResponse{
		ID:             record.ID.String(),
		SessionID:      record.SessionID,
		FileName:       record.FileName,
		EvidenceType:   record.EvidenceType,
		Factor:         record.Factor,
		Characteristic: record.Characteristic,
		CreatedAt:      record.CreatedAt.Format(time.RFC3339),
	}
}
