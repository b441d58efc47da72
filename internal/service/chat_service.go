package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"asistente-normativo/internal/dto"
	"asistente-normativo/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConversationStore extends the read-side source with turn logging and the
// bulk session delete.
type ConversationStore interface {
	ConversationSource
	Create(ctx context.Context, turn *models.ConversationTurn) error
	DeleteBySession(ctx context.Context, sessionID string) (int64, error)
}

const systemInstruction = `Eres un asistente virtual experto en normativa de educación superior colombiana y en procesos de acreditación de alta calidad (Decreto 1330 de 2019, lineamientos del CNA, registro calificado).

Instrucciones:
- Responde de forma profesional, clara y en español
- Fundamenta tus respuestas en el contexto documental proporcionado y cita el documento fuente cuando sea posible
- Si el contexto no contiene la respuesta, dilo explícitamente y sugiere consultar la norma original
- Sé conciso pero completo`

// ChatService orchestrates one request-response cycle: validation, context
// assembly, generation and turn logging.
type ChatService struct {
	contextService *ContextService
	generator      TextGenerator
	turns          ConversationStore
	timeout        time.Duration
	logger         *zap.Logger
}

func NewChatService(
	contextService *ContextService,
	generator TextGenerator,
	turns ConversationStore,
	timeout time.Duration,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		contextService: contextService,
		generator:      generator,
		turns:          turns,
		timeout:        timeout,
		logger:         logger,
	}
}

// Chat answers a user query grounded on the assembled context. Only request
// validation and the terminal generation failure are surfaced; degraded
// sources silently yield a thinner context.
func (s *ChatService) Chat(ctx context.Context, query, sessionID string) (*dto.ChatResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	assembled := s.contextService.Assemble(ctx, query, sessionID)

	messages := make([]Message, 0, len(assembled.History)*2+2)
	messages = append(messages, Message{
		Role:    RoleSystem,
		Content: buildSystemMessage(assembled.Text),
	})
	for _, turn := range assembled.History {
		messages = append(messages,
			Message{Role: RoleUser, Content: turn.Query},
			Message{Role: RoleAssistant, Content: turn.Response},
		)
	}
	messages = append(messages, Message{Role: RoleUser, Content: query})

	// The backend call is a single blocking request under an explicit
	// deadline; no retry.
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.generator.Generate(genCtx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	s.logTurn(sessionID, query, response, assembled)

	return &dto.ChatResponse{
		Respuesta:      response,
		SessionID:      sessionID,
		UsedRepository: assembled.UsedRepository,
		UsedEvidence:   assembled.UsedEvidence,
		UsedWeb:        assembled.UsedWeb,
	}, nil
}

// logTurn persists the turn without blocking the response. A store failure
// only logs.
func (s *ChatService) logTurn(sessionID, query, response string, assembled AssembledContext) {
	if s.turns == nil {
		return
	}

	turn := &models.ConversationTurn{
		ID:             uuid.New(),
		SessionID:      sessionID,
		Query:          query,
		Response:       response,
		Model:          s.generator.Model(),
		UsedRepository: assembled.UsedRepository,
		UsedEvidence:   assembled.UsedEvidence,
		UsedWeb:        assembled.UsedWeb,
		CreatedAt:      time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.turns.Create(ctx, turn); err != nil {
			s.logger.Warn("Failed to log conversation turn",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
	}()
}

func (s *ChatService) History(ctx context.Context, sessionID string) ([]*models.ConversationTurn, error) {
	if s.turns == nil {
		return nil, ErrStoreUnavailable
	}
	return s.turns.ListBySession(ctx, sessionID, 100)
}

func (s *ChatService) ClearHistory(ctx context.Context, sessionID string) (int64, error) {
	if s.turns == nil {
		return 0, ErrStoreUnavailable
	}
	return s.turns.DeleteBySession(ctx, sessionID)
}

func buildSystemMessage(contextText string) string {
	if strings.TrimSpace(contextText) == "" {
		return systemInstruction + "\n\nNo hay contexto documental disponible para esta consulta."
	}
	return systemInstruction + "\n\nContexto documental:\n" + contextText
}
