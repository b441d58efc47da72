package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"asistente-normativo/internal/models"
	"asistente-normativo/internal/repository"
	"asistente-normativo/internal/service"
	"asistente-normativo/pkg/config"
	"asistente-normativo/pkg/logger"
	"asistente-normativo/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	docRepo := repository.NewDocumentRepository(db, appLogger)

	llmService := service.NewLLMService(&cfg.Groq, appLogger)
	extractionService := service.NewExtractionService(appLogger)
	qualityService := service.NewQualityService()
	entityService := service.NewEntityService(llmService, appLogger)
	analysisService := service.NewAnalysisService(llmService, entityService, qualityService, appLogger)
	docService := service.NewDocumentService(docRepo, extractionService, analysisService, qualityService, cfg.Upload.Dir, appLogger)

	appLogger.Info("Starting corpus seeding...")

	seedDir := filepath.Join("cmd", "seed")
	cacheFile := filepath.Join(seedDir, ".seed_cache.json")
	if err := seedCorpus(ctx, seedDir, cacheFile, docRepo, docService, appLogger); err != nil {
		appLogger.Fatal("Failed to seed document corpus", zap.Error(err))
	}

	appLogger.Info("Corpus seeding completed successfully!")
}

// ProcessedFile represents a processed corpus file in cache
type ProcessedFile struct {
	FilePath    string    `json:"file_path"`
	FileHash    string    `json:"file_hash"`
	ProcessedAt time.Time `json:"processed_at"`
}

// CacheData stores information about processed files
type CacheData struct {
	ProcessedFiles map[string]ProcessedFile `json:"processed_files"` // key: file path
}

// loadCache loads the cache of processed files
func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{
		ProcessedFiles: make(map[string]ProcessedFile),
	}

	if _, err := os.Stat(cacheFile); os.IsNotExist(err) {
		return cache, nil
	}

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}

	return cache, nil
}

// saveCache saves the cache of processed files
func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// calculateFileHash calculates MD5 hash of a file
func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// seedCorpus ingests the bundled normative documents into the repository
func seedCorpus(
	ctx context.Context,
	seedDir string,
	cacheFile string,
	docRepo *repository.DocumentRepository,
	docService *service.DocumentService,
	logger *zap.Logger,
) error {
	now := time.Now()

	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will process all files", zap.Error(err))
		cache = &CacheData{ProcessedFiles: make(map[string]ProcessedFile)}
	}

	// Normative corpus bundled with the service
	seedFiles := []struct {
		path        string
		docType     models.DocumentType
		category    string
		isNormative bool
		description string
	}{
		{"decreto_1330_2019.pdf", models.DocumentTypeNorma, "registro_calificado", true, "Decreto 1330 de 2019 sobre registro calificado de programas académicos"},
		{"lineamientos_cna_acreditacion.pdf", models.DocumentTypeGuia, "acreditacion", true, "Lineamientos del CNA para la acreditación de programas de pregrado"},
		{"acuerdo_02_2020_cesu.pdf", models.DocumentTypeNorma, "acreditacion", true, "Acuerdo 02 de 2020 del CESU sobre el modelo de acreditación en alta calidad"},
		{"resolucion_021795_2020.pdf", models.DocumentTypeResolucion, "registro_calificado", true, "Resolución 021795 de 2020 sobre parámetros de autoevaluación"},
		{"guia_factores_caracteristicas.docx", models.DocumentTypeGuia, "autoevaluacion", false, "Guía interna de factores y características de calidad"},
	}

	for _, seed := range seedFiles {
		seedPath := filepath.Join(seedDir, seed.path)

		if _, err := os.Stat(seedPath); os.IsNotExist(err) {
			logger.Warn("Seed file not found, skipping", zap.String("path", seedPath))
			continue
		}

		fileHash, err := calculateFileHash(seedPath)
		if err != nil {
			logger.Warn("Failed to calculate file hash, will process anyway", zap.String("path", seedPath), zap.Error(err))
		}

		if cached, exists := cache.ProcessedFiles[seedPath]; exists && cached.FileHash == fileHash {
			logger.Info("Seed file already processed, skipping",
				zap.String("path", seedPath),
				zap.Time("processed_at", cached.ProcessedAt),
			)
			continue
		}

		// Skip files already present in the corpus under the same name
		exists, err := docRepo.ExistsByFileName(ctx, seed.path)
		if err != nil {
			logger.Error("Failed to check for existing document", zap.String("path", seedPath), zap.Error(err))
			continue
		}
		if exists {
			logger.Info("Document already in corpus, skipping", zap.String("file", seed.path))
			continue
		}

		logger.Info("Ingesting seed file", zap.String("path", seedPath))

		file, err := os.Open(seedPath)
		if err != nil {
			logger.Error("Failed to open seed file", zap.String("path", seedPath), zap.Error(err))
			continue
		}

		doc, err := docService.Ingest(ctx, file, service.IngestRequest{
			FileName:    seed.path,
			DocType:     seed.docType,
			Category:    seed.category,
			IsNormative: seed.isNormative,
			Description: seed.description,
		})
		file.Close()
		if err != nil {
			logger.Error("Failed to ingest seed file", zap.String("path", seedPath), zap.Error(err))
			continue
		}

		logger.Info("Seeded document",
			zap.String("file", doc.FileName),
			zap.String("type", doc.DocType),
			zap.Int("quality_score", doc.QualityScore),
			zap.String("quality_band", doc.QualityBand),
		)

		cache.ProcessedFiles[seedPath] = ProcessedFile{
			FilePath:    seedPath,
			FileHash:    fileHash,
			ProcessedAt: now,
		}
	}

	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	} else {
		logger.Info("Cache saved", zap.Int("processed_files", len(cache.ProcessedFiles)))
	}

	return nil
}
