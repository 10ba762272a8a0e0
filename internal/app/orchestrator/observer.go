package orchestrator

import (
	"voice-transcriber/internal/app/session"
)

// Snapshot is the read model handed to the presentation layer.
type Snapshot struct {
	SessionID          string             `json:"session_id"`
	Version            uint64             `json:"version"`
	Phase              session.Phase      `json:"phase"`
	Transcription      string             `json:"transcription"`
	Summary            string             `json:"summary"`
	Source             string             `json:"source,omitempty"`
	Stats              session.Statistics `json:"stats"`
	AssetName          string             `json:"asset_name,omitempty"`
	AssetSizeBytes     int64              `json:"asset_size_bytes,omitempty"`
	AssetAdvisory      string             `json:"asset_advisory,omitempty"`
	TranscriptionReady bool               `json:"transcription_ready"`
	SummarizationReady bool               `json:"summarization_ready"`
	MaxWords           int                `json:"max_words"`
	LastError          string             `json:"last_error,omitempty"`
}

// Observer receives a snapshot after every state change. It runs on the
// goroutine performing the action and must not call back into the orchestrator.
type Observer interface {
	StateChanged(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) StateChanged(s Snapshot) {
	f(s)
}
