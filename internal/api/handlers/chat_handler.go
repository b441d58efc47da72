package handlers

import (
	"errors"

	"asistente-normativo/internal/dto"
	"asistente-normativo/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat answers a user query grounded on the corpus.
// POST /api/chat
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.chatService.Chat(c.Context(), req.Mensaje, req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyQuery):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Mensaje requerido",
			})
		case errors.Is(err, service.ErrGenerationBackend):
			h.logger.Error("Generation failed", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Error procesando mensaje",
			})
		default:
			h.logger.Error("Chat request failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error procesando mensaje",
			})
		}
	}

	return c.JSON(resp)
}

// History returns the turns of a session in chronological order.
// GET /api/historial/:sessionID
func (h *ChatHandler) History(c *fiber.Ctx) error {
	sessionID := c.Params("sessionID")

	turns, err := h.chatService.History(c.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrStoreUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Base de datos no disponible",
			})
		}
		h.logger.Error("Failed to load history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error obteniendo historial",
		})
	}

	entries := make([]dto.HistoryEntry, 0, len(turns))
	for _, turn := range turns {
		entries = append(entries, dto.HistoryEntry{
			Query:     turn.Query,
			Response:  turn.Response,
			CreatedAt: turn.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return c.JSON(dto.HistoryResponse{
		SessionID: sessionID,
		Historial: entries,
	})
}

// ClearHistory deletes every turn of a session.
// DELETE /api/historial/:sessionID
func (h *ChatHandler) ClearHistory(c *fiber.Ctx) error {
	sessionID := c.Params("sessionID")

	deleted, err := h.chatService.ClearHistory(c.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrStoreUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Base de datos no disponible",
			})
		}
		h.logger.Error("Failed to clear history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error eliminando historial",
		})
	}

	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"deleted":    deleted,
	})
}
