package credentials

import (
	"fmt"
	"strings"

	apperrors "voice-transcriber/internal/app/errors"
)

// Holder keeps the two service credentials of one session.
// Readiness only means a non-empty value was supplied; keys are never checked
// against the remote services here.
type Holder struct {
	transcriptionKey string
	summarizationKey string
}

// NewHolder returns a holder with neither service ready.
func NewHolder() *Holder {
	return &Holder{}
}

// Configure replaces both credentials. It fails without touching the stored
// values when either key is empty.
func (h *Holder) Configure(transcriptionKey, summarizationKey string) error {
	transcriptionKey = strings.TrimSpace(transcriptionKey)
	summarizationKey = strings.TrimSpace(summarizationKey)

	var missing []string
	if transcriptionKey == "" {
		missing = append(missing, "transcription")
	}
	if summarizationKey == "" {
		missing = append(missing, "summarization")
	}
	if len(missing) > 0 {
		return apperrors.Tag(apperrors.ErrConfig,
			apperrors.Tag(apperrors.ErrMissingAPIKey, apperrors.RequiredField(strings.Join(missing, " and ")+" key")))
	}

	h.transcriptionKey = transcriptionKey
	h.summarizationKey = summarizationKey
	return nil
}

func (h *Holder) IsTranscriptionReady() bool {
	return h.transcriptionKey != ""
}

func (h *Holder) IsSummarizationReady() bool {
	return h.summarizationKey != ""
}

// TranscriptionKey returns the stored transcription credential.
func (h *Holder) TranscriptionKey() string {
	return h.transcriptionKey
}

// SummarizationKey returns the stored summarization credential.
func (h *Holder) SummarizationKey() string {
	return h.summarizationKey
}

// String never prints the secrets.
func (h *Holder) String() string {
	return fmt.Sprintf("credentials{transcription: %s, summarization: %s}",
		presence(h.IsTranscriptionReady()), presence(h.IsSummarizationReady()))
}

func presence(ok bool) string {
	if ok {
		return "set"
	}
	return "unset"
}
