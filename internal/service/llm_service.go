package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"asistente-normativo/pkg/config"

	"go.uber.org/zap"
)

// LLMService talks to the Groq OpenAI-compatible chat-completions API.
// Documentation: https://console.groq.com/docs/api-reference
type LLMService struct {
	config     *config.GroqConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewLLMService(cfg *config.GroqConfig, logger *zap.Logger) *LLMService {
	if cfg.APIKey == "" {
		logger.Warn("GROQ_API_KEY is not set, generation requests will fail")
	}

	return &LLMService{
		config: cfg,
		// Per-request deadlines come from the caller's context; the client
		// timeout is a hard upper bound.
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

func (s *LLMService) Model() string {
	return s.config.Model
}

// Generate submits the message list and returns the single completion text.
// Endpoint: POST /chat/completions
func (s *LLMService) Generate(ctx context.Context, messages []Message) (string, error) {
	requestBody := map[string]interface{}{
		"model":       s.config.Model,
		"messages":    messages,
		"temperature": s.config.Temperature,
		"max_tokens":  s.config.MaxTokens,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", ErrGenerationBackend, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrGenerationBackend, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		s.logger.Error("Chat completion request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(bodyBytes)),
		)
		return "", fmt.Errorf("%w: status %d", ErrGenerationBackend, resp.StatusCode)
	}

	var completionResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&completionResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrGenerationBackend, err)
	}

	if len(completionResp.Choices) == 0 {
		return "", fmt.Errorf("%w: response carries no choices", ErrGenerationBackend)
	}

	text := strings.TrimSpace(completionResp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: response carries no text", ErrGenerationBackend)
	}

	s.logger.Debug("Chat completion received",
		zap.String("model", s.config.Model),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}
