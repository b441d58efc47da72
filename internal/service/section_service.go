package service

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	maxSections        = 8
	dedupPrefixRunes   = 100
	headingScore       = 10
	headingSpanMaxLine = 30
	longParagraphRunes = 200
)

// ScoredSection is an ephemeral text span ranked against a query. Sections
// are produced fresh per request and never persisted.
type ScoredSection struct {
	Text  string
	Score int
}

var paragraphBoundary = regexp.MustCompile(`\n\s*\n`)

// Heading lines open an anchored span when they also mention a keyword.
var headingLine = regexp.MustCompile(`(?i)^\s*(art[ií]culo|cap[ií]tulo|secci[oó]n|t[ií]tulo|factor|caracter[ií]stica)\b`)

type SectionService struct {
	logger *zap.Logger
}

func NewSectionService(logger *zap.Logger) *SectionService {
	return &SectionService{
		logger: logger,
	}
}

// FindRelevant ranks spans of body against the keyword set using the
// paragraph-window and heading-anchored strategies, merges both candidate
// lists, deduplicates by content prefix and returns at most 8 spans ordered
// most relevant first. No match yields an empty list, never an error.
func (s *SectionService) FindRelevant(body string, keywords []string) []ScoredSection {
	if strings.TrimSpace(body) == "" || len(keywords) == 0 {
		return nil
	}

	lowered := make([]string, len(keywords))
	for i, keyword := range keywords {
		lowered[i] = strings.ToLower(keyword)
	}

	var (
		wg        sync.WaitGroup
		byWindow  []ScoredSection
		byHeading []ScoredSection
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		byWindow = paragraphWindowSpans(body, lowered)
	}()
	go func() {
		defer wg.Done()
		byHeading = headingAnchoredSpans(body, lowered)
	}()
	wg.Wait()

	candidates := append(byWindow, byHeading...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	seen := make(map[string]struct{})
	var sections []ScoredSection
	for _, candidate := range candidates {
		prefix := runePrefix(candidate.Text, dedupPrefixRunes)
		if _, dup := seen[prefix]; dup {
			continue
		}
		seen[prefix] = struct{}{}
		sections = append(sections, candidate)
		if len(sections) == maxSections {
			break
		}
	}

	return sections
}

// paragraphWindowSpans scores blank-line-delimited paragraphs by keyword
// occurrences. A qualifying paragraph expands to include its immediate
// neighbors as surrounding context.
func paragraphWindowSpans(body string, keywords []string) []ScoredSection {
	paragraphs := paragraphBoundary.Split(body, -1)

	var spans []ScoredSection
	for i, paragraph := range paragraphs {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" {
			continue
		}

		lowerParagraph := strings.ToLower(paragraph)
		var total, distinct int
		for _, keyword := range keywords {
			if count := strings.Count(lowerParagraph, keyword); count > 0 {
				distinct++
				total += count
			}
		}

		qualifies := distinct >= 2 || (distinct >= 1 && utf8.RuneCountInString(trimmed) > longParagraphRunes)
		if !qualifies {
			continue
		}

		var parts []string
		if i > 0 {
			if prev := strings.TrimSpace(paragraphs[i-1]); prev != "" {
				parts = append(parts, prev)
			}
		}
		parts = append(parts, trimmed)
		if i < len(paragraphs)-1 {
			if next := strings.TrimSpace(paragraphs[i+1]); next != "" {
				parts = append(parts, next)
			}
		}

		spans = append(spans, ScoredSection{
			Text:  strings.Join(parts, "\n\n"),
			Score: total,
		})
	}

	return spans
}

// headingAnchoredSpans opens a span at each heading line that mentions a
// keyword and absorbs following lines until the next heading or the line cap.
func headingAnchoredSpans(body string, keywords []string) []ScoredSection {
	lines := strings.Split(body, "\n")

	var spans []ScoredSection
	for i := 0; i < len(lines); i++ {
		if !headingLine.MatchString(lines[i]) {
			continue
		}

		lowerLine := strings.ToLower(lines[i])
		matched := false
		for _, keyword := range keywords {
			if strings.Contains(lowerLine, keyword) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		end := i + 1
		for end < len(lines) && end-i < headingSpanMaxLine && !headingLine.MatchString(lines[end]) {
			end++
		}

		span := strings.TrimSpace(strings.Join(lines[i:end], "\n"))
		if span != "" {
			spans = append(spans, ScoredSection{
				Text:  span,
				Score: headingScore,
			})
		}

		i = end - 1
	}

	return spans
}

func runePrefix(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
