package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"asistente-normativo/pkg/config"

	"go.uber.org/zap"
)

// Authoritative sources for Colombian higher-education norms. The live
// lookup is restricted to these domains.
var authorizedDomains = []string{
	"mineducacion.gov.co",
	"cna.gov.co",
	"men.gov.co",
	"funcionpublica.gov.co",
	"suin-juriscol.gov.co",
}

var (
	normativeVocabulary = regexp.MustCompile(`(?i)\b(decreto|resoluci[oó]n|ley|acuerdo|normativ\w*|acreditaci[oó]n|registro\s+calificado|condiciones\s+de\s+calidad)\b`)
	normativeQuestion   = regexp.MustCompile(`(?i)qu[eé]\s+dice|seg[uú]n\s+(el|la|lo)|de\s+acuerdo\s+con|qu[eé]\s+establece|qu[eé]\s+exige`)
)

type SearchResult struct {
	Answer    string
	Citations []string
}

// SearchService performs the optional live normative lookup against a
// Tavily-style search API. It degrades to "no result" on any failure.
type SearchService struct {
	config     *config.SearchConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewSearchService(cfg *config.SearchConfig, logger *zap.Logger) *SearchService {
	return &SearchService{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// ShouldSearch decides whether a query warrants the live lookup: normative
// vocabulary, an explicit norm number, a "what does X say" style question or
// a factor/characteristic reference.
func (s *SearchService) ShouldSearch(query string) bool {
	if normativeVocabulary.MatchString(query) || normativeQuestion.MatchString(query) {
		return true
	}
	for _, pattern := range normativePatterns {
		if pattern.MatchString(query) {
			return true
		}
	}
	return false
}

// Lookup queries the search API restricted to the authorized domains.
// Missing credentials or any failure yields an empty result, never an error.
func (s *SearchService) Lookup(ctx context.Context, query string) SearchResult {
	if s.config.APIKey == "" {
		return SearchResult{}
	}

	requestBody := map[string]interface{}{
		"api_key":         s.config.APIKey,
		"query":           query,
		"search_depth":    "basic",
		"include_answer":  true,
		"include_domains": authorizedDomains,
		"max_results":     3,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		s.logger.Warn("Failed to marshal search request", zap.Error(err))
		return SearchResult{}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/search", bytes.NewBuffer(jsonData))
	if err != nil {
		s.logger.Warn("Failed to create search request", zap.Error(err))
		return SearchResult{}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("Live lookup failed", zap.Error(err))
		return SearchResult{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("Live lookup returned non-success status", zap.Int("status", resp.StatusCode))
		return SearchResult{}
	}

	var searchResp struct {
		Answer  string `json:"answer"`
		Results []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		s.logger.Warn("Failed to decode search response", zap.Error(err))
		return SearchResult{}
	}

	result := SearchResult{Answer: strings.TrimSpace(searchResp.Answer)}
	for _, item := range searchResp.Results {
		result.Citations = append(result.Citations, item.URL)
	}

	s.logger.Info("Live lookup completed",
		zap.Int("citations", len(result.Citations)),
		zap.Bool("has_answer", result.Answer != ""),
	)

	return result
}
