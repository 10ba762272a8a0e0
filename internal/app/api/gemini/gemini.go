package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
	"voice-transcriber/internal/app/api"
	apperrors "voice-transcriber/internal/app/errors"
)

// DefaultModel is the Gemini model used for summaries.
const DefaultModel = "gemini-2.5-flash"

// Config selects the Gemini model and, for tests or proxies, the endpoint.
type Config struct {
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Summarizer implements api.Summarizer using the Gemini API.
type Summarizer struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewSummarizer creates a new Gemini summarizer
func NewSummarizer(cfg Config) *Summarizer {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Summarizer{
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
	}
}

// Summarize sends text to Gemini in one generateContent call.
func (s *Summarizer) Summarize(ctx context.Context, text string, maxWords int, credential string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperrors.Tag(apperrors.ErrSummarization, apperrors.ErrEmptyInput)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      credential,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  s.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: s.baseURL},
	})
	if err != nil {
		return "", apperrors.Tag(apperrors.ErrSummarization, fmt.Errorf("create client: %w", err))
	}

	result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(api.SummaryPrompt(text, maxWords)), nil)
	if err != nil {
		return "", apperrors.Tag(apperrors.ErrSummarization, fmt.Errorf("generate content: %w", err))
	}

	summary := strings.TrimSpace(responseText(result))
	if summary == "" {
		return "", apperrors.Tag(apperrors.ErrSummarization, apperrors.ErrEmptyResponse)
	}
	return summary, nil
}

// Model returns the configured model identifier.
func (s *Summarizer) Model() string {
	return s.model
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String()
}
