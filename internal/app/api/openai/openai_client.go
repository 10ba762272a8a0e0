package openai

import (
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// NewClient builds a go-openai client for one call. Credentials are supplied per
// session, so clients are not cached. An empty baseURL keeps the OpenAI default.
func NewClient(token, baseURL string, httpClient *http.Client) *openai.Client {
	config := openai.DefaultConfig(token)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(config)
}
