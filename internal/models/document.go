package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentTypeNorma      DocumentType = "norma"
	DocumentTypeAcademico  DocumentType = "academico"
	DocumentTypeResolucion DocumentType = "resolucion"
	DocumentTypeGuia       DocumentType = "guia"
)

// Document is a corpus entry. The body is immutable after ingestion;
// administrative metadata may change and deletion is logical (active=false).
type Document struct {
	ID             uuid.UUID    `db:"id"`
	FileName       string       `db:"file_name"`
	SourceFormat   string       `db:"source_format"`
	DocType        DocumentType `db:"doc_type"`
	Category       string       `db:"category"`
	IsNormative    bool         `db:"is_normative"`
	Active         bool         `db:"active"`
	Description    string       `db:"description"`
	ExtractedText  string       `db:"extracted_text"`
	AnalysisReport string       `db:"analysis_report"`
	QualityScore   int          `db:"quality_score"`
	QualityBand    string       `db:"quality_band"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}
