package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

type GenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

func NewGenAIConfig() *GenAIConfig {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY not set")
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}
	baseURL := os.Getenv("GEMINI_API_URL")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &GenAIConfig{APIKey: apiKey, Model: model, BaseURL: baseURL}
}

const keywordPrompt = `you are an intelligent assistant for InstructoPlus platform. A user will type any query about what they want to learn. Your task is to understand the intent and return one most relevant keyword from the following list of course categories and levels:
1. Beginner
2. Intermediate
3. Advanced
4. Data Science
5. Web Development
6. App Development
7. Ethical Hacking
8. Data Analytics
9. AI/ML
10. AI Tools
11. UI/UX Design
only reply with one single keyword from the list above that best matches the query. do not explain anything. No extra text.`

type GenAIService struct {
	config *GenAIConfig
	client *http.Client
	logger *zap.Logger
}

func NewGenAIService(config *GenAIConfig, logger *zap.Logger) *GenAIService {
	return &GenAIService{
		config: config,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

type genAIRequest struct {
	Contents []genAIContent `json:"contents"`
}

type genAIContent struct {
	Parts []genAIPart `json:"parts"`
}

type genAIPart struct {
	Text string `json:"text"`
}

type genAIResponse struct {
	Candidates []struct {
		Content genAIContent `json:"content"`
	} `json:"candidates"`
}

// SuggestKeyword asks the model for the single category or level keyword that
// best matches a free-form search query.
func (s *GenAIService) SuggestKeyword(ctx context.Context, input string) (string, error) {
	payload := genAIRequest{
		Contents: []genAIContent{
			{Parts: []genAIPart{{Text: input + "\n" + keywordPrompt}}},
		},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.config.BaseURL, s.config.Model, s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorResponse map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&errorResponse)
		return "", fmt.Errorf("completion request failed, status code: %d, error: %v", resp.StatusCode, errorResponse)
	}

	var parsed genAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	keyword := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	s.logger.Debug("Generated search keyword", zap.String("keyword", keyword))
	return keyword, nil
}
