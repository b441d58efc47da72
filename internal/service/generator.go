package service

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry of a generation request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TextGenerator is the generation backend collaborator: an ordered message
// list in, a single text completion out. Implementations map transport
// errors, non-success statuses and malformed replies to ErrGenerationBackend.
type TextGenerator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
	Model() string
}
