package chat

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"voice-transcriber/internal/app/api"
	openai2 "voice-transcriber/internal/app/api/openai"
	apperrors "voice-transcriber/internal/app/errors"
)

// DefaultModel is used when no chat model is configured.
const DefaultModel = openai.GPT4oMini

// Config selects the OpenAI-compatible chat endpoint and model.
type Config struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Summarizer implements api.Summarizer over a chat completion endpoint.
type Summarizer struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewSummarizer(cfg Config) *Summarizer {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Summarizer{
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		httpClient: cfg.HTTPClient,
	}
}

// Summarize issues a single chat completion with the summary prompt.
func (s *Summarizer) Summarize(ctx context.Context, text string, maxWords int, credential string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperrors.Tag(apperrors.ErrSummarization, apperrors.ErrEmptyInput)
	}

	client := openai2.NewClient(credential, s.baseURL, s.httpClient)
	request := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: api.SummaryPrompt(text, maxWords),
			},
		},
	}
	resp, err := client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", apperrors.Tag(apperrors.ErrSummarization, fmt.Errorf("createChatCompletion failed: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.Tag(apperrors.ErrSummarization, apperrors.ErrEmptyResponse)
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", apperrors.Tag(apperrors.ErrSummarization, apperrors.ErrEmptyResponse)
	}
	return summary, nil
}

// Model returns the configured model identifier.
func (s *Summarizer) Model() string {
	return s.model
}
