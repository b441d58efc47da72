package api

import (
	"asistente-normativo/internal/api/handlers"
	"asistente-normativo/pkg/auth"
	"asistente-normativo/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	chatHandler *handlers.ChatHandler,
	docHandler *handlers.DocumentHandler,
	evidenceHandler *handlers.EvidenceHandler,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// Public assistant routes
	apiGroup := app.Group("/api")
	apiGroup.Post("/chat", chatHandler.Chat)
	apiGroup.Get("/historial/:sessionID", chatHandler.History)
	apiGroup.Delete("/historial/:sessionID", chatHandler.ClearHistory)
	apiGroup.Get("/health", healthHandler.Check)
	apiGroup.Post("/admin/login", authHandler.Login)

	adminGuard := middleware.AdminMiddleware(jwtManager, appLogger)

	// Corpus management. Reads are open, mutations require the admin token.
	documents := app.Group("/api/v1/documents")
	documents.Get("", docHandler.List)
	documents.Get("/:id", docHandler.Get)
	documents.Post("/upload", adminGuard, docHandler.Upload)
	documents.Patch("/:id", adminGuard, docHandler.Update)
	documents.Delete("/:id", adminGuard, docHandler.Delete)
	documents.Post("/:id/reanalyze", adminGuard, docHandler.Reanalyze)

	// Session evidence
	evidencias := app.Group("/api/v1/evidencias")
	evidencias.Post("", evidenceHandler.Upload)
	evidencias.Get("/:sessionID", evidenceHandler.List)

	return app
}
