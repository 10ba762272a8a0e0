package whisper

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	openai2 "voice-transcriber/internal/app/api/openai"
	apperrors "voice-transcriber/internal/app/errors"
	"voice-transcriber/internal/app/model"
	"voice-transcriber/internal/app/util/files"
)

// DefaultModel is Groq's hosted Whisper model.
const DefaultModel = "whisper-large-v3"

// Config selects the endpoint and model of a RemoteTranscriber.
type Config struct {
	BaseURL    string
	Model      string
	StagingDir string
	HTTPClient *http.Client
}

// RemoteTranscriber implements remote transcription against an
// OpenAI-compatible audio endpoint (Groq by default).
type RemoteTranscriber struct {
	baseURL    string
	model      string
	stagingDir string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(cfg Config, logger *zap.Logger) *RemoteTranscriber {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openai2.GroqBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteTranscriber{
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		stagingDir: cfg.StagingDir,
		httpClient: cfg.HTTPClient,
		logger:     logger,
	}
}

// Transcribe stages the payload on disk, uploads it in one request and always
// removes the staged copy before returning.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, audio model.AudioAsset, credential string) (string, error) {
	staged, err := files.StageAudio(rt.stagingDir, audio.Name, audio.Data)
	if err != nil {
		return "", apperrors.Tag(apperrors.ErrTranscription, err)
	}
	defer rt.cleanup(staged)

	f, err := os.Open(staged.Path)
	if err != nil {
		return "", apperrors.Tag(apperrors.ErrTranscription, err)
	}
	defer f.Close()

	client := openai2.NewClient(credential, rt.baseURL, rt.httpClient)
	req := openai.AudioRequest{
		Model:    rt.model,
		FilePath: files.BaseName(audio.Name, "audio"),
		Reader:   f,
		Format:   openai.AudioResponseFormatText,
	}
	resp, err := client.CreateTranscription(ctx, req)
	if err != nil {
		return "", apperrors.Tag(apperrors.ErrTranscription, fmt.Errorf("createTranscription failed: %w", err))
	}

	return strings.TrimSpace(resp.Text), nil
}

// Model returns the model identifier sent with each request.
func (rt *RemoteTranscriber) Model() string {
	return rt.model
}

func (rt *RemoteTranscriber) cleanup(staged *files.StagedFile) {
	if err := staged.Remove(); err != nil {
		rt.logger.Warn("failed to remove staged audio", zap.String("path", staged.Path), zap.Error(err))
	}
}
