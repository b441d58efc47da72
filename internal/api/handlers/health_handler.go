package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthHandler struct {
	pool           *pgxpool.Pool
	groqConfigured bool
}

func NewHealthHandler(pool *pgxpool.Pool, groqConfigured bool) *HealthHandler {
	return &HealthHandler{
		pool:           pool,
		groqConfigured: groqConfigured,
	}
}

// Check reports service liveness plus backend reachability.
// GET /api/health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbConnected := false
	if h.pool != nil {
		dbConnected = h.pool.Ping(c.Context()) == nil
	}

	return c.JSON(fiber.Map{
		"status":          "ok",
		"database":        dbConnected,
		"groq_configured": h.groqConfigured,
	})
}
