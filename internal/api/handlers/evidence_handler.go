package handlers

import (
	"errors"

	"asistente-normativo/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type EvidenceHandler struct {
	evidenceService *service.EvidenceService
	logger          *zap.Logger
}

func NewEvidenceHandler(evidenceService *service.EvidenceService, logger *zap.Logger) *EvidenceHandler {
	return &EvidenceHandler{
		evidenceService: evidenceService,
		logger:          logger,
	}
}

// Upload attaches an institutional evidence file to a chat session.
// POST /api/v1/evidencias
func (h *EvidenceHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	sessionID := c.FormValue("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	record, err := h.evidenceService.Upload(c.Context(), src, service.EvidenceUpload{
		SessionID:      sessionID,
		FileName:       file.Filename,
		EvidenceType:   c.FormValue("evidence_type"),
		Factor:         c.FormValue("factor"),
		Characteristic: c.FormValue("characteristic"),
	})
	if err != nil {
		return h.mapError(c, err, "Failed to store evidence")
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// List returns the evidence attached to a session, newest first.
// GET /api/v1/evidencias/:sessionID
func (h *EvidenceHandler) List(c *fiber.Ctx) error {
	sessionID := c.Params("sessionID")
	limit := c.QueryInt("limit", 20)

	records, err := h.evidenceService.ListBySession(c.Context(), sessionID, limit)
	if err != nil {
		return h.mapError(c, err, "Failed to list evidence")
	}

	return c.JSON(records)
}

func (h *EvidenceHandler) mapError(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, service.ErrStoreUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Base de datos no disponible",
		})
	}
	h.logger.Error(message, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": message,
	})
}
