package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	// How the entity record was obtained.
	ExtractionStructured = "structured"
	ExtractionHeuristic  = "heuristic"

	entityExcerptRunes = 8000
)

// NormativeEntities is the fixed-shape record both extraction paths fill.
// Downstream consumers never branch on Method.
type NormativeEntities struct {
	Decretos        []string `json:"decretos"`
	Resoluciones    []string `json:"resoluciones"`
	Leyes           []string `json:"leyes"`
	Factores        []string `json:"factores"`
	Caracteristicas []string `json:"caracteristicas"`
	Articulos       []string `json:"articulos"`
	Fechas          []string `json:"fechas"`
	Instituciones   []string `json:"instituciones"`
	Method          string   `json:"-"`
}

func (e NormativeEntities) IsEmpty() bool {
	return len(e.Decretos) == 0 && len(e.Resoluciones) == 0 && len(e.Leyes) == 0 &&
		len(e.Factores) == 0 && len(e.Caracteristicas) == 0 && len(e.Articulos) == 0 &&
		len(e.Fechas) == 0 && len(e.Instituciones) == 0
}

var fallbackPatterns = []struct {
	pattern *regexp.Regexp
	target  func(*NormativeEntities) *[]string
}{
	{regexp.MustCompile(`(?i)decreto\s+\d+(\s+de\s+\d{4})?`), func(e *NormativeEntities) *[]string { return &e.Decretos }},
	{regexp.MustCompile(`(?i)resoluci[oó]n\s+\d+(\s+de\s+\d{4})?`), func(e *NormativeEntities) *[]string { return &e.Resoluciones }},
	{regexp.MustCompile(`(?i)ley\s+\d+(\s+de\s+\d{4})?`), func(e *NormativeEntities) *[]string { return &e.Leyes }},
	{regexp.MustCompile(`(?i)factor\s+\d+`), func(e *NormativeEntities) *[]string { return &e.Factores }},
	{regexp.MustCompile(`(?i)caracter[ií]stica\s+\d+`), func(e *NormativeEntities) *[]string { return &e.Caracteristicas }},
	{regexp.MustCompile(`(?i)art[ií]culo\s+\d+`), func(e *NormativeEntities) *[]string { return &e.Articulos }},
}

type EntityService struct {
	generator TextGenerator
	logger    *zap.Logger
}

func NewEntityService(generator TextGenerator, logger *zap.Logger) *EntityService {
	return &EntityService{
		generator: generator,
		logger:    logger,
	}
}

// Extract pulls normative entities out of document text. The primary path
// asks the generation backend for a fixed-shape JSON record over a capped
// excerpt; any failure or malformed reply falls back to citation-pattern
// regexes over the full text. Extraction never errors upward.
func (s *EntityService) Extract(ctx context.Context, text string, excerptRunes int) NormativeEntities {
	if excerptRunes <= 0 {
		excerptRunes = entityExcerptRunes
	}

	if strings.TrimSpace(text) == "" {
		return NormativeEntities{Method: ExtractionHeuristic}
	}

	// Keep the backend request inside one generation-safe chunk before
	// applying the excerpt cap.
	excerpt := text
	if chunks := SplitIntoChunks(text, DefaultChunkTokens); len(chunks) > 0 {
		excerpt = chunks[0]
	}

	entities, err := s.extractStructured(ctx, runePrefix(excerpt, excerptRunes))
	if err != nil {
		s.logger.Warn("Structured entity extraction failed, using pattern fallback", zap.Error(err))
		return s.extractHeuristic(text)
	}

	entities.Method = ExtractionStructured
	return entities
}

func (s *EntityService) extractStructured(ctx context.Context, excerpt string) (NormativeEntities, error) {
	prompt := fmt.Sprintf(`Eres un analista de normativa de educación superior colombiana. Extrae las entidades normativas mencionadas en el siguiente texto.

Texto:
%s

Responde ÚNICAMENTE con un objeto JSON válido con esta forma exacta, sin comentarios ni marcado adicional:
{
  "decretos": ["decreto 1330 de 2019"],
  "resoluciones": [],
  "leyes": [],
  "factores": [],
  "caracteristicas": [],
  "articulos": [],
  "fechas": [],
  "instituciones": []
}

REGLAS:
- Usa listas vacías para las categorías sin menciones
- "factores" y "caracteristicas" se refieren a los factores y características de acreditación del CNA
- "fechas" son fechas relevantes de expedición o vigencia
- "instituciones" son las entidades responsables mencionadas (MEN, CNA, CONACES, la institución, etc.)`, excerpt)

	reply, err := s.generator.Generate(ctx, []Message{
		{Role: RoleUser, Content: prompt},
	})
	if err != nil {
		return NormativeEntities{}, err
	}

	// The reply may wrap the object in markdown fences or commentary.
	jsonStart := strings.Index(reply, "{")
	jsonEnd := strings.LastIndex(reply, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd < jsonStart {
		return NormativeEntities{}, fmt.Errorf("reply carries no JSON object: %s", runePrefix(reply, 200))
	}

	jsonStr := reply[jsonStart : jsonEnd+1]

	var entities NormativeEntities
	if err := json.Unmarshal([]byte(jsonStr), &entities); err != nil {
		jsonStr = strings.TrimSpace(jsonStr)
		jsonStr = strings.TrimPrefix(jsonStr, "```json")
		jsonStr = strings.TrimPrefix(jsonStr, "```")
		jsonStr = strings.TrimSuffix(jsonStr, "```")
		if err := json.Unmarshal([]byte(strings.TrimSpace(jsonStr)), &entities); err != nil {
			return NormativeEntities{}, fmt.Errorf("failed to parse JSON reply: %w", err)
		}
	}

	return entities, nil
}

func (s *EntityService) extractHeuristic(text string) NormativeEntities {
	entities := NormativeEntities{Method: ExtractionHeuristic}

	for _, fallback := range fallbackPatterns {
		seen := make(map[string]struct{})
		target := fallback.target(&entities)
		for _, match := range fallback.pattern.FindAllString(text, -1) {
			normalized := whitespace.ReplaceAllString(strings.ToLower(match), " ")
			if _, dup := seen[normalized]; dup {
				continue
			}
			seen[normalized] = struct{}{}
			*target = append(*target, normalized)
		}
	}

	return entities
}
