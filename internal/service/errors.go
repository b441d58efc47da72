package service

import "errors"

// Only request validation and terminal generation failures are surfaced to
// callers. Source fetches and analysis sub-stages absorb their own errors
// and degrade to empty or placeholder values.
var (
	ErrEmptyQuery         = errors.New("query text is required")
	ErrStoreUnavailable   = errors.New("persistence layer is not available")
	ErrNotFound           = errors.New("record not found")
	ErrGenerationBackend  = errors.New("generation backend failure")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
