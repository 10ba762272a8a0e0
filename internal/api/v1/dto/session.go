package dto

import (
	"strings"

	"voice-transcriber/internal/api/errors"
	"voice-transcriber/internal/app/orchestrator"
)

// Download kinds.
const (
	KindTranscription = "transcription"
	KindSummary       = "summary"
)

// SessionResponse is the state of one session as returned by every endpoint.
type SessionResponse struct {
	orchestrator.Snapshot
	AssetSizeMB float64 `json:"asset_size_mb,omitempty"`
}

func NewSessionResponse(snap orchestrator.Snapshot) SessionResponse {
	return SessionResponse{
		Snapshot:    snap,
		AssetSizeMB: float64(snap.AssetSizeBytes) / (1024 * 1024),
	}
}

// CredentialsRequest configures both service keys.
type CredentialsRequest struct {
	TranscriptionKey string `json:"transcription_key" binding:"required"`
	SummarizationKey string `json:"summarization_key" binding:"required"`
}

// Validate trims both keys and rejects keys that are only whitespace, which
// the binding tags let through.
func (r *CredentialsRequest) Validate() error {
	r.TranscriptionKey = strings.TrimSpace(r.TranscriptionKey)
	r.SummarizationKey = strings.TrimSpace(r.SummarizationKey)

	fields := make(map[string]string)
	if r.TranscriptionKey == "" {
		fields["transcriptionkey"] = "is required"
	}
	if r.SummarizationKey == "" {
		fields["summarizationkey"] = "is required"
	}
	if len(fields) > 0 {
		return errors.NewValidationError("Validation failed", fields)
	}
	return nil
}

// SettingsRequest changes the summary length.
type SettingsRequest struct {
	MaxWords int `json:"max_words" binding:"required,gte=50,lte=500"`
}

// UploadResponse reports the held asset after an upload.
type UploadResponse struct {
	Session  SessionResponse `json:"session"`
	FileName string          `json:"file_name"`
	SizeMB   float64         `json:"size_mb"`
	Advisory string          `json:"advisory,omitempty"`
}

// ActionResponse is returned by the transcribe and summarize endpoints.
type ActionResponse struct {
	Session        SessionResponse `json:"session"`
	ElapsedSeconds float64         `json:"elapsed_seconds"`
}

// Download is a file produced for the client.
type Download struct {
	FileName    string
	ContentType string
	Content     []byte
}

// DownloadRequest selects the text to download.
type DownloadRequest struct {
	Kind string `uri:"kind" binding:"required,oneof=transcription summary"`
}

