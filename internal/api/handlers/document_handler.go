package handlers

import (
	"errors"

	"asistente-normativo/internal/dto"
	"asistente-normativo/internal/models"
	"asistente-normativo/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	docService *service.DocumentService
	logger     *zap.Logger
}

func NewDocumentHandler(docService *service.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// Upload ingests a corpus document: extraction, analysis and persistence.
// POST /api/v1/documents/upload
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	docType, ok := parseDocType(c.FormValue("type"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document type",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	doc, err := h.docService.Ingest(c.Context(), src, service.IngestRequest{
		FileName:    file.Filename,
		DocType:     docType,
		Category:    c.FormValue("category"),
		IsNormative: c.FormValue("is_normative") == "true",
		Description: c.FormValue("description"),
	})
	if err != nil {
		return h.mapError(c, err, "Failed to ingest document")
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}

// List returns corpus documents, newest first.
// GET /api/v1/documents
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	docs, err := h.docService.List(c.Context(), limit, offset)
	if err != nil {
		return h.mapError(c, err, "Failed to list documents")
	}

	return c.JSON(docs)
}

// Get returns one document with its body and analysis report.
// GET /api/v1/documents/:id
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID",
		})
	}

	doc, err := h.docService.Get(c.Context(), id)
	if err != nil {
		return h.mapError(c, err, "Failed to load document")
	}

	return c.JSON(doc)
}

// Update applies administrative metadata edits.
// PATCH /api/v1/documents/:id
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID",
		})
	}

	var req dto.UpdateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.docService.UpdateMetadata(c.Context(), id, &req); err != nil {
		return h.mapError(c, err, "Failed to update document")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Delete soft-deletes a document via its active flag.
// DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID",
		})
	}

	if err := h.docService.Deactivate(c.Context(), id); err != nil {
		return h.mapError(c, err, "Failed to delete document")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Reanalyze reruns the analysis pipeline over a stored document.
// POST /api/v1/documents/:id/reanalyze
func (h *DocumentHandler) Reanalyze(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID",
		})
	}

	doc, err := h.docService.Reanalyze(c.Context(), id)
	if err != nil {
		return h.mapError(c, err, "Failed to reanalyze document")
	}

	return c.JSON(doc)
}

func (h *DocumentHandler) mapError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Document not found",
		})
	case errors.Is(err, service.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Base de datos no disponible",
		})
	default:
		h.logger.Error(message, zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": message,
		})
	}
}

func parseDocType(value string) (models.DocumentType, bool) {
	switch value {
	case "norma":
		return models.DocumentTypeNorma, true
	case "academico":
		return models.DocumentTypeAcademico, true
	case "resolucion":
		return models.DocumentTypeResolucion, true
	case "guia":
		return models.DocumentTypeGuia, true
	default:
		return "", false
	}
}
