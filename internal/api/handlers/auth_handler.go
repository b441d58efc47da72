package handlers

import (
	"errors"

	"asistente-normativo/internal/dto"
	"asistente-normativo/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	adminService *service.AdminService
	logger       *zap.Logger
}

func NewAuthHandler(adminService *service.AdminService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// Login exchanges admin credentials for a bearer token.
// POST /api/admin/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.adminService.Login(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Credenciales inválidas",
			})
		}
		h.logger.Error("Admin login failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login failed",
		})
	}

	return c.JSON(resp)
}
