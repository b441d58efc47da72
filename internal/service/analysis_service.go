package service

import (
	"context"
	"fmt"
	"strings"

	"asistente-normativo/internal/models"

	"go.uber.org/zap"
)

// StagePlaceholder replaces the output of a failed analysis stage in the
// composite report.
const StagePlaceholder = "[Sección no disponible]"

// AnalysisInput is the document under analysis. Every stage reads the same
// input; no stage sees another stage's output.
type AnalysisInput struct {
	Text     string
	FileName string
	DocType  models.DocumentType
}

// analysisStage is one ordered step of the pipeline. Failures are captured
// by the orchestrator, never propagated.
type analysisStage struct {
	title string
	run   func(ctx context.Context, input AnalysisInput) (string, error)
}

// AnalysisService produces one composite report per document from fixed,
// independent stages: executive summary, structural analysis, normative
// content analysis, entity listing and quality evaluation.
type AnalysisService struct {
	generator TextGenerator
	entities  *EntityService
	quality   *QualityService
	logger    *zap.Logger
}

func NewAnalysisService(generator TextGenerator, entities *EntityService, quality *QualityService, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		generator: generator,
		entities:  entities,
		quality:   quality,
		logger:    logger,
	}
}

// Analyze runs every stage in order and concatenates the titled results.
// A failing stage contributes its placeholder instead of aborting; the
// composite report is always produced.
func (s *AnalysisService) Analyze(ctx context.Context, input AnalysisInput) string {
	stages := []analysisStage{
		{"RESUMEN EJECUTIVO", s.executiveSummary},
		{"ANÁLISIS ESTRUCTURAL", s.structuralAnalysis},
		{"ANÁLISIS DE CONTENIDO NORMATIVO", s.contentAnalysis},
		{"ENTIDADES NORMATIVAS", s.entityListing},
		{"EVALUACIÓN DE CALIDAD", s.qualityEvaluation},
	}

	var report strings.Builder
	report.WriteString(fmt.Sprintf("INFORME DE ANÁLISIS — %s\n", input.FileName))

	for _, stage := range stages {
		report.WriteString("\n## " + stage.title + "\n")

		result, err := stage.run(ctx, input)
		if err != nil {
			s.logger.Warn("Analysis stage failed",
				zap.String("stage", stage.title),
				zap.String("file", input.FileName),
				zap.Error(err),
			)
			result = StagePlaceholder
		}
		report.WriteString(strings.TrimSpace(result) + "\n")
	}

	return report.String()
}

func (s *AnalysisService) generativeStage(ctx context.Context, input AnalysisInput, instruction string) (string, error) {
	excerpt := input.Text
	if chunks := SplitIntoChunks(input.Text, DefaultChunkTokens); len(chunks) > 0 {
		excerpt = chunks[0]
	}

	prompt := fmt.Sprintf(`%s

Documento: %s (tipo: %s)

Texto:
%s`, instruction, input.FileName, input.DocType, excerpt)

	return s.generator.Generate(ctx, []Message{
		{Role: RoleUser, Content: prompt},
	})
}

func (s *AnalysisService) executiveSummary(ctx context.Context, input AnalysisInput) (string, error) {
	return s.generativeStage(ctx, input,
		"Redacta un resumen ejecutivo del siguiente documento en máximo 5 frases, destacando su propósito y alcance dentro del proceso de acreditación.")
}

func (s *AnalysisService) structuralAnalysis(ctx context.Context, input AnalysisInput) (string, error) {
	return s.generativeStage(ctx, input,
		"Describe la estructura del siguiente documento: títulos, capítulos, artículos o secciones que lo componen, y si la organización es adecuada para un documento de su tipo.")
}

func (s *AnalysisService) contentAnalysis(ctx context.Context, input AnalysisInput) (string, error) {
	return s.generativeStage(ctx, input,
		"Analiza el contenido normativo del siguiente documento: qué obligaciones, condiciones de calidad o requisitos establece, y con qué normas de educación superior colombiana se relaciona.")
}

func (s *AnalysisService) entityListing(ctx context.Context, input AnalysisInput) (string, error) {
	entities := s.entities.Extract(ctx, input.Text, 0)
	if entities.IsEmpty() {
		return "No se identificaron entidades normativas en el documento.", nil
	}

	var listing strings.Builder
	writeGroup := func(label string, values []string) {
		if len(values) == 0 {
			return
		}
		listing.WriteString(fmt.Sprintf("- %s: %s\n", label, strings.Join(values, "; ")))
	}

	writeGroup("Decretos", entities.Decretos)
	writeGroup("Resoluciones", entities.Resoluciones)
	writeGroup("Leyes", entities.Leyes)
	writeGroup("Factores CNA", entities.Factores)
	writeGroup("Características", entities.Caracteristicas)
	writeGroup("Artículos", entities.Articulos)
	writeGroup("Fechas relevantes", entities.Fechas)
	writeGroup("Instituciones responsables", entities.Instituciones)

	return strings.TrimRight(listing.String(), "\n"), nil
}

func (s *AnalysisService) qualityEvaluation(_ context.Context, input AnalysisInput) (string, error) {
	evaluation := s.quality.Evaluate(input.Text)

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Puntaje: %d/100 (%s)\n", evaluation.Score, evaluation.Band))
	if len(evaluation.Recommendations) > 0 {
		result.WriteString("Recomendaciones:\n")
		for _, recommendation := range evaluation.Recommendations {
			result.WriteString("- " + recommendation + "\n")
		}
	}

	return strings.TrimRight(result.String(), "\n"), nil
}
