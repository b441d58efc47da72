package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"asistente-normativo/internal/dto"
	"asistente-normativo/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

// fakeDocumentStore keeps the corpus in memory behind the DocumentStore
// interface.
type fakeDocumentStore struct {
	docs      map[uuid.UUID]*models.Document
	createErr error
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{docs: make(map[uuid.UUID]*models.Document)}
}

func (f *fakeDocumentStore) ListActive(_ context.Context) ([]*models.Document, error) {
	var active []*models.Document
	for _, doc := range f.docs {
		if doc.Active {
			active = append(active, doc)
		}
	}
	return active, nil
}

func (f *fakeDocumentStore) Create(_ context.Context, doc *models.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeDocumentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return doc, nil
}

func (f *fakeDocumentStore) List(_ context.Context, _, _ int) ([]*models.Document, error) {
	var all []*models.Document
	for _, doc := range f.docs {
		all = append(all, doc)
	}
	return all, nil
}

func (f *fakeDocumentStore) UpdateMetadata(_ context.Context, id uuid.UUID, docType, category, description *string, isNormative *bool) error {
	doc := f.docs[id]
	if docType != nil {
		doc.DocType = models.DocumentType(*docType)
	}
	if category != nil {
		doc.Category = *category
	}
	if description != nil {
		doc.Description = *description
	}
	if isNormative != nil {
		doc.IsNormative = *isNormative
	}
	return nil
}

func (f *fakeDocumentStore) UpdateAnalysis(_ context.Context, id uuid.UUID, report string, qualityScore int, qualityBand string) error {
	doc := f.docs[id]
	doc.AnalysisReport = report
	doc.QualityScore = qualityScore
	doc.QualityBand = qualityBand
	return nil
}

func (f *fakeDocumentStore) Deactivate(_ context.Context, id uuid.UUID) error {
	f.docs[id].Active = false
	return nil
}

func newTestDocumentService(t *testing.T, store DocumentStore, generator TextGenerator) *DocumentService {
	t.Helper()
	logger := zap.NewNop()
	analysis := NewAnalysisService(generator, NewEntityService(generator, logger), NewQualityService(), logger)
	return NewDocumentService(store, NewExtractionService(logger), analysis, NewQualityService(), t.TempDir(), logger)
}

func TestDocumentIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("stores text, report and quality", func(t *testing.T) {
		store := newFakeDocumentStore()
		svc := newTestDocumentService(t, store, &stubGenerator{reply: "Resumen del documento."})

		body := strings.NewReader("Decreto 1330 de 2019. Artículo 1. Condiciones de calidad de los programas.")
		resp, err := svc.Ingest(ctx, body, IngestRequest{
			FileName:    "decreto_1330.txt",
			DocType:     models.DocumentTypeNorma,
			Category:    "registro_calificado",
			IsNormative: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "decreto_1330.txt", resp.FileName)
		assert.Equal(t, "plaintext", resp.SourceFormat)
		assert.True(t, resp.Active)

		id, err := uuid.Parse(resp.ID)
		require.NoError(t, err)
		stored := store.docs[id]
		require.NotNil(t, stored)
		assert.Contains(t, stored.ExtractedText, "Decreto 1330 de 2019")
		assert.Contains(t, stored.AnalysisReport, "INFORME DE ANÁLISIS — decreto_1330.txt")
		assert.Equal(t, resp.QualityScore, stored.QualityScore)
	})

	t.Run("unreadable body still enters the corpus", func(t *testing.T) {
		store := newFakeDocumentStore()
		svc := newTestDocumentService(t, store, &stubGenerator{err: errors.New("backend down")})

		resp, err := svc.Ingest(ctx, strings.NewReader("no es un zip"), IngestRequest{
			FileName: "roto.docx",
			DocType:  models.DocumentTypeGuia,
		})

		require.NoError(t, err)
		id, err := uuid.Parse(resp.ID)
		require.NoError(t, err)
		assert.Contains(t, store.docs[id].ExtractedText, "[No fue posible extraer el texto del documento")
	})

	t.Run("store failure is surfaced", func(t *testing.T) {
		store := newFakeDocumentStore()
		store.createErr = errors.New("connection refused")
		svc := newTestDocumentService(t, store, &stubGenerator{reply: "Resumen."})

		_, err := svc.Ingest(ctx, strings.NewReader("texto"), IngestRequest{
			FileName: "doc.txt",
			DocType:  models.DocumentTypeAcademico,
		})

		assert.Error(t, err)
	})

	t.Run("nil store is unavailable", func(t *testing.T) {
		svc := newTestDocumentService(t, nil, &stubGenerator{})

		_, err := svc.Ingest(ctx, strings.NewReader("texto"), IngestRequest{FileName: "doc.txt"})

		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}

func TestDocumentLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newFakeDocumentStore()
	svc := newTestDocumentService(t, store, &stubGenerator{reply: "Resumen."})

	resp, err := svc.Ingest(ctx, strings.NewReader("Decreto 1330 de 2019 sobre condiciones de calidad."), IngestRequest{
		FileName: "decreto.txt",
		DocType:  models.DocumentTypeNorma,
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	t.Run("get returns the detail view", func(t *testing.T) {
		detail, err := svc.Get(ctx, id)

		require.NoError(t, err)
		assert.Contains(t, detail.ExtractedText, "Decreto 1330")
		assert.NotEmpty(t, detail.AnalysisReport)
	})

	t.Run("metadata edits apply only provided fields", func(t *testing.T) {
		category := "acreditacion"
		err := svc.UpdateMetadata(ctx, id, &dto.UpdateDocumentRequest{Category: &category})

		require.NoError(t, err)
		assert.Equal(t, "acreditacion", store.docs[id].Category)
		assert.Equal(t, models.DocumentTypeNorma, store.docs[id].DocType)
	})

	t.Run("reanalyze replaces the derived report", func(t *testing.T) {
		store.docs[id].AnalysisReport = "obsoleto"

		detail, err := svc.Reanalyze(ctx, id)

		require.NoError(t, err)
		assert.Contains(t, detail.AnalysisReport, "INFORME DE ANÁLISIS")
		assert.Contains(t, store.docs[id].AnalysisReport, "INFORME DE ANÁLISIS")
	})

	t.Run("deactivate is a soft delete", func(t *testing.T) {
		require.NoError(t, svc.Deactivate(ctx, id))

		assert.False(t, store.docs[id].Active)

		active, err := store.ListActive(ctx)
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		_, err := svc.Get(ctx, uuid.New())

		assert.ErrorIs(t, err, ErrNotFound)
	})
}
