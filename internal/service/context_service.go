package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"asistente-normativo/internal/models"
	"asistente-normativo/pkg/config"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TruncationMarker ends any context block cut short by the character budget.
const TruncationMarker = "… [contexto truncado]"

// Store access is injected behind narrow interfaces so assembly is testable
// without a database. The pgx repositories satisfy them.
type DocumentSource interface {
	ListActive(ctx context.Context) ([]*models.Document, error)
}

type ConversationSource interface {
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.ConversationTurn, error)
}

type EvidenceSource interface {
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.EvidenceRecord, error)
}

// AssembledContext is the product of one assembly run: the budget-capped
// document context, the role-tagged history (outside the budget) and the
// source-contribution flags.
type AssembledContext struct {
	Text           string
	History        []*models.ConversationTurn
	UsedRepository bool
	UsedEvidence   bool
	UsedWeb        bool
}

// ContextService runs the retrieval side of a chat request: keyword
// extraction, concurrent source lookups and priority-ordered assembly under
// the character budget. Each run owns its working set; nothing is shared
// across concurrent runs except the scoring pool.
type ContextService struct {
	documents     DocumentSource
	conversations ConversationSource
	evidence      EvidenceSource
	keywords      *KeywordService
	sections      *SectionService
	search        *SearchService
	config        *config.ContextConfig
	scoringPool   *ants.Pool
	logger        *zap.Logger
}

func NewContextService(
	documents DocumentSource,
	conversations ConversationSource,
	evidence EvidenceSource,
	keywords *KeywordService,
	sections *SectionService,
	search *SearchService,
	cfg *config.ContextConfig,
	logger *zap.Logger,
) (*ContextService, error) {
	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	scoringPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create scoring pool: %w", err)
	}

	return &ContextService{
		documents:     documents,
		conversations: conversations,
		evidence:      evidence,
		keywords:      keywords,
		sections:      sections,
		search:        search,
		config:        cfg,
		scoringPool:   scoringPool,
		logger:        logger,
	}, nil
}

func (s *ContextService) Close() {
	s.scoringPool.Release()
}

// documentSection ties a scored span back to its owning document for
// provenance tagging.
type documentSection struct {
	doc     *models.Document
	section ScoredSection
}

// Assemble fans out the source lookups, merges the results in priority
// order and caps the context at the configured character budget. A failing
// source degrades to empty; Assemble itself never fails.
func (s *ContextService) Assemble(ctx context.Context, query, sessionID string) AssembledContext {
	keywords := s.keywords.Extract(query)

	var (
		docs      []*models.Document
		history   []*models.ConversationTurn
		evidences []*models.EvidenceRecord
		webResult SearchResult
	)

	// Fan-out/join: the lookups are independent and a single failure must
	// not cancel the others, so every branch absorbs its own error.
	var group errgroup.Group
	group.Go(func() error {
		result, err := s.fetchDocuments(ctx)
		if err != nil {
			s.logger.Warn("Corpus lookup failed, continuing without repository context", zap.Error(err))
			return nil
		}
		docs = result
		return nil
	})
	group.Go(func() error {
		result, err := s.fetchHistory(ctx, sessionID)
		if err != nil {
			s.logger.Warn("History lookup failed, continuing without history", zap.Error(err))
			return nil
		}
		history = result
		return nil
	})
	group.Go(func() error {
		result, err := s.fetchEvidence(ctx, sessionID)
		if err != nil {
			s.logger.Warn("Evidence lookup failed, continuing without evidence", zap.Error(err))
			return nil
		}
		evidences = result
		return nil
	})
	if s.search != nil && s.search.ShouldSearch(query) {
		group.Go(func() error {
			webResult = s.search.Lookup(ctx, query)
			return nil
		})
	}
	_ = group.Wait()

	targeted := s.scoreCorpus(docs, keywords)

	assembled := s.assemble(targeted, docs, evidences, webResult)
	assembled.History = history

	s.logger.Info("Context assembled",
		zap.Int("keywords", len(keywords)),
		zap.Int("documents", len(docs)),
		zap.Int("targeted_sections", len(targeted)),
		zap.Int("context_chars", len([]rune(assembled.Text))),
		zap.Bool("used_repository", assembled.UsedRepository),
		zap.Bool("used_evidence", assembled.UsedEvidence),
		zap.Bool("used_web", assembled.UsedWeb),
	)

	return assembled
}

func (s *ContextService) fetchDocuments(ctx context.Context) ([]*models.Document, error) {
	if s.documents == nil {
		return nil, ErrStoreUnavailable
	}
	return s.documents.ListActive(ctx)
}

func (s *ContextService) fetchHistory(ctx context.Context, sessionID string) ([]*models.ConversationTurn, error) {
	if s.conversations == nil || sessionID == "" {
		return nil, nil
	}
	return s.conversations.ListBySession(ctx, sessionID, s.config.HistoryTurns)
}

func (s *ContextService) fetchEvidence(ctx context.Context, sessionID string) ([]*models.EvidenceRecord, error) {
	if s.evidence == nil || sessionID == "" {
		return nil, nil
	}
	return s.evidence.ListBySession(ctx, sessionID, s.config.MaxEvidence)
}

// scoreCorpus runs the section scorer over every document concurrently and
// merges the hits ordered by relevance score, not by corpus order.
func (s *ContextService) scoreCorpus(docs []*models.Document, keywords []string) []documentSection {
	if len(docs) == 0 || len(keywords) == 0 {
		return nil
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		targeted []documentSection
	)

	for _, doc := range docs {
		doc := doc
		wg.Add(1)
		task := func() {
			defer wg.Done()
			for _, section := range s.sections.FindRelevant(doc.ExtractedText, keywords) {
				mu.Lock()
				targeted = append(targeted, documentSection{doc: doc, section: section})
				mu.Unlock()
			}
		}
		if err := s.scoringPool.Submit(task); err != nil {
			// Pool saturated or released: score inline rather than drop.
			task()
		}
	}
	wg.Wait()

	sort.SliceStable(targeted, func(i, j int) bool {
		return targeted[i].section.Score > targeted[j].section.Score
	})

	return targeted
}

func (s *ContextService) assemble(targeted []documentSection, docs []*models.Document, evidences []*models.EvidenceRecord, webResult SearchResult) AssembledContext {
	writer := newBudgetWriter(s.config.CharBudget)
	var assembled AssembledContext

	if len(targeted) > 0 {
		// The section header rides along with the first block that fits so
		// a dangling header never eats budget on its own.
		header := "=== CONTEXTO RELEVANTE PARA LA CONSULTA ===\n"
		for _, hit := range targeted {
			if writer.full {
				break
			}
			block := header + fmt.Sprintf("%s\n%s\n\n", provenanceTag(hit.doc), hit.section.Text)
			if writer.write(block) {
				assembled.UsedRepository = true
				header = ""
			}
		}
	}

	if !writer.full && len(docs) > 0 {
		header := "=== DOCUMENTOS RECIENTES DEL REPOSITORIO ===\n"
		limit := s.config.MaxDocuments
		if limit > len(docs) {
			limit = len(docs)
		}
		for _, doc := range docs[:limit] {
			if writer.full {
				break
			}
			block := header + fmt.Sprintf("%s\n%s\n", provenanceTag(doc), doc.ExtractedText)
			if doc.AnalysisReport != "" {
				block += "\n" + doc.AnalysisReport + "\n"
			}
			block += "\n"
			if writer.write(block) {
				assembled.UsedRepository = true
				header = ""
			}
		}
	}

	if !writer.full && len(evidences) > 0 {
		sectionHeader := "=== EVIDENCIAS APORTADAS EN LA SESIÓN ===\n"
		for _, record := range evidences {
			if writer.full {
				break
			}
			header := fmt.Sprintf("[Evidencia: %s", record.FileName)
			if record.EvidenceType != "" {
				header += " | Tipo: " + record.EvidenceType
			}
			if record.Factor != "" {
				header += " | Factor: " + record.Factor
			}
			if record.Characteristic != "" {
				header += " | Característica: " + record.Characteristic
			}
			header += "]"
			if writer.write(fmt.Sprintf("%s%s\n%s\n\n", sectionHeader, header, record.ExtractedText)) {
				assembled.UsedEvidence = true
				sectionHeader = ""
			}
		}
	}

	if !writer.full && webResult.Answer != "" {
		block := "=== CONSULTA NORMATIVA EN LÍNEA ===\n" + webResult.Answer + "\n"
		if len(webResult.Citations) > 0 {
			block += "Fuentes: " + strings.Join(webResult.Citations, ", ") + "\n"
		}
		if writer.write(block) {
			assembled.UsedWeb = true
		}
	}

	assembled.Text = writer.String()
	return assembled
}

func provenanceTag(doc *models.Document) string {
	return fmt.Sprintf("[Documento: %s | Categoría: %s | Normativo: %t]",
		doc.FileName, doc.Category, doc.IsNormative)
}

// budgetWriter appends blocks until the rune budget is reached, cutting the
// overflowing block with an explicit truncation marker. Nothing is dropped
// silently: content either fits, is truncated with the marker, or already
// written content is trimmed back so the marker still fits.
type budgetWriter struct {
	buf    []rune
	budget int
	full   bool
}

func newBudgetWriter(budget int) *budgetWriter {
	return &budgetWriter{budget: budget}
}

// write reports whether any part of the block made it into the context.
func (w *budgetWriter) write(block string) bool {
	if w.full {
		return false
	}

	runes := []rune(block)
	remaining := w.budget - len(w.buf)
	if len(runes) <= remaining {
		w.buf = append(w.buf, runes...)
		return true
	}

	w.full = true
	marker := []rune(TruncationMarker)
	cut := remaining - len(marker)
	if cut > 0 {
		w.buf = append(w.buf, runes[:cut]...)
		w.buf = append(w.buf, marker...)
		return true
	}

	// The budget tail is shorter than the marker: trim already written
	// content so the overflow is still marked instead of dropped silently.
	keep := w.budget - len(marker)
	if keep < 0 {
		keep = 0
		marker = marker[:w.budget]
	}
	w.buf = append(w.buf[:keep], marker...)
	return false
}

func (w *budgetWriter) String() string {
	return string(w.buf)
}
