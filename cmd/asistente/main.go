package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"asistente-normativo/internal/api"
	"asistente-normativo/internal/api/handlers"
	"asistente-normativo/internal/repository"
	"asistente-normativo/internal/service"
	"asistente-normativo/pkg/auth"
	"asistente-normativo/pkg/config"
	"asistente-normativo/pkg/logger"
	"asistente-normativo/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting asistente normativo service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	// Initialize repositories
	docRepo := repository.NewDocumentRepository(db, appLogger)
	convRepo := repository.NewConversationRepository(db, appLogger)
	evidenceRepo := repository.NewEvidenceRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	// Initialize services
	llmService := service.NewLLMService(&cfg.Groq, appLogger)
	searchService := service.NewSearchService(&cfg.Search, appLogger)
	extractionService := service.NewExtractionService(appLogger)

	keywordService := service.NewKeywordService()
	sectionService := service.NewSectionService(appLogger)
	qualityService := service.NewQualityService()
	entityService := service.NewEntityService(llmService, appLogger)
	analysisService := service.NewAnalysisService(llmService, entityService, qualityService, appLogger)

	contextService, err := service.NewContextService(
		docRepo,
		convRepo,
		evidenceRepo,
		keywordService,
		sectionService,
		searchService,
		&cfg.Context,
		appLogger,
	)
	if err != nil {
		appLogger.Fatal("Failed to initialize context service", zap.Error(err))
	}
	defer contextService.Close()

	chatService := service.NewChatService(contextService, llmService, convRepo, cfg.Groq.Timeout, appLogger)
	docService := service.NewDocumentService(docRepo, extractionService, analysisService, qualityService, cfg.Upload.Dir, appLogger)
	evidenceService := service.NewEvidenceService(evidenceRepo, extractionService, appLogger)
	adminService := service.NewAdminService(&cfg.Admin, jwtManager, appLogger)

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(chatService, appLogger)
	docHandler := handlers.NewDocumentHandler(docService, appLogger)
	evidenceHandler := handlers.NewEvidenceHandler(evidenceService, appLogger)
	authHandler := handlers.NewAuthHandler(adminService, appLogger)
	healthHandler := handlers.NewHealthHandler(db, cfg.Groq.APIKey != "")

	// Setup router
	app := api.SetupRouter(chatHandler, docHandler, evidenceHandler, authHandler, healthHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
