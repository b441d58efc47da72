package models

import (
	"time"

	"github.com/google/uuid"
)

// ConversationTurn records one request-response cycle for a session.
// Turns are append-only; they are deleted only in bulk by session key.
type ConversationTurn struct {
	ID             uuid.UUID `db:"id"`
	SessionID      string    `db:"session_id"`
	Query          string    `db:"query"`
	Response       string    `db:"response"`
	Model          string    `db:"model"`
	UsedRepository bool      `db:"used_repository"`
	UsedEvidence   bool      `db:"used_evidence"`
	UsedWeb        bool      `db:"used_web"`
	CreatedAt      time.Time `db:"created_at"`
}
