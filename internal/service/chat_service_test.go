package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func newTestChatService(t *testing.T, generator TextGenerator, turns ConversationStore) *ChatService {
	t.Helper()
	contextService := newTestContextService(t, &fakeDocumentSource{}, &fakeConversationSource{}, &fakeEvidenceSource{}, testContextConfig())
	return NewChatService(contextService, generator, turns, 5*time.Second, zap.NewNop())
}

func TestChat(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query is rejected before any work", func(t *testing.T) {
		generator := &stubGenerator{reply: "Respuesta."}
		svc := newTestChatService(t, generator, &fakeConversationSource{})

		_, err := svc.Chat(ctx, "   ", "session-1")

		assert.ErrorIs(t, err, ErrEmptyQuery)
		assert.Zero(t, generator.calls)
	})

	t.Run("missing session gets a generated identifier", func(t *testing.T) {
		svc := newTestChatService(t, &stubGenerator{reply: "Respuesta."}, &fakeConversationSource{})

		resp, err := svc.Chat(ctx, "¿Qué es el registro calificado?", "")

		require.NoError(t, err)
		_, parseErr := uuid.Parse(resp.SessionID)
		assert.NoError(t, parseErr)
	})

	t.Run("response carries the generated text and source flags", func(t *testing.T) {
		svc := newTestChatService(t, &stubGenerator{reply: "El registro calificado es obligatorio."}, &fakeConversationSource{})

		resp, err := svc.Chat(ctx, "¿Qué es el registro calificado?", "session-1")

		require.NoError(t, err)
		assert.Equal(t, "El registro calificado es obligatorio.", resp.Respuesta)
		assert.Equal(t, "session-1", resp.SessionID)
		assert.False(t, resp.UsedRepository)
		assert.False(t, resp.UsedEvidence)
		assert.False(t, resp.UsedWeb)
	})

	t.Run("generation failure is surfaced", func(t *testing.T) {
		generator := &stubGenerator{err: fmt.Errorf("%w: status 500", ErrGenerationBackend)}
		svc := newTestChatService(t, generator, &fakeConversationSource{})

		_, err := svc.Chat(ctx, "¿Qué dice el decreto?", "session-1")

		assert.ErrorIs(t, err, ErrGenerationBackend)
	})

	t.Run("history requires the store", func(t *testing.T) {
		svc := newTestChatService(t, &stubGenerator{}, nil)

		_, err := svc.History(ctx, "session-1")
		assert.ErrorIs(t, err, ErrStoreUnavailable)

		_, err = svc.ClearHistory(ctx, "session-1")
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})

	t.Run("clear history reports removed turns", func(t *testing.T) {
		turns := &fakeConversationSource{deleted: 4}
		svc := newTestChatService(t, &stubGenerator{}, turns)

		removed, err := svc.ClearHistory(ctx, "session-1")

		require.NoError(t, err)
		assert.Equal(t, int64(4), removed)
	})
}

func TestBuildSystemMessage(t *testing.T) {
	t.Run("without context states its absence", func(t *testing.T) {
		message := buildSystemMessage("")

		assert.Contains(t, message, "No hay contexto documental disponible")
	})

	t.Run("with context embeds the assembled text", func(t *testing.T) {
		message := buildSystemMessage("=== CONTEXTO RELEVANTE PARA LA CONSULTA ===\ntexto")

		assert.Contains(t, message, "Contexto documental:")
		assert.Contains(t, message, "=== CONTEXTO RELEVANTE PARA LA CONSULTA ===")
	})
}

func TestChatLogsTurn(t *testing.T) {
	turns := &fakeConversationSource{}
	svc := newTestChatService(t, &stubGenerator{reply: "Respuesta."}, turns)

	_, err := svc.Chat(context.Background(), "¿Qué es la acreditación?", "session-1")
	require.NoError(t, err)

	// Turn logging is fire-and-forget; wait for the goroutine.
	require.Eventually(t, func() bool {
		return len(turns.createdTurns()) == 1
	}, time.Second, 10*time.Millisecond)
	logged := turns.createdTurns()[0]
	assert.Equal(t, "¿Qué es la acreditación?", logged.Query)
	assert.Equal(t, "stub-model", logged.Model)
}

func TestChatWithFailingStoreStillAnswers(t *testing.T) {
	turns := &fakeConversationSource{err: errors.New("connection refused")}
	svc := newTestChatService(t, &stubGenerator{reply: "Respuesta."}, turns)

	resp, err := svc.Chat(context.Background(), "¿Qué es la acreditación?", "session-1")

	require.NoError(t, err)
	assert.Equal(t, "Respuesta.", resp.Respuesta)
}
