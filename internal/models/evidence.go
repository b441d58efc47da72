package models

import (
	"time"

	"github.com/google/uuid"
)

// EvidenceRecord is a user-submitted document scoped to a session key.
// Records are created on upload and never mutated.
type EvidenceRecord struct {
	ID             uuid.UUID `db:"id"`
	SessionID      string    `db:"session_id"`
	FileName       string    `db:"file_name"`
	ExtractedText  string    `db:"extracted_text"`
	EvidenceType   string    `db:"evidence_type"`
	Factor         string    `db:"factor"`
	Characteristic string    `db:"characteristic"`
	CreatedAt      time.Time `db:"created_at"`
}
