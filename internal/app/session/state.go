package session

import "voice-transcriber/internal/app/model"

// Phase is the position of a session in the transcribe/summarize pipeline.
type Phase string

const (
	PhaseEmpty        Phase = "empty"
	PhaseTranscribing Phase = "transcribing"
	PhaseTranscribed  Phase = "transcribed"
	PhaseSummarizing  Phase = "summarizing"
	PhaseSummarized   Phase = "summarized"
)

// State is the single-slot result holder of one session. Results are
// overwritten, never accumulated.
type State struct {
	Phase Phase
	Asset *model.AudioAsset
	// Source is the name of the upload the transcription came from.
	Source        string
	Transcription string
	Summary       string
	LastError     string
}

// Settled derives the resting phase from the held results.
func (s State) Settled() Phase {
	switch {
	case s.Summary != "":
		return PhaseSummarized
	case s.Transcription != "":
		return PhaseTranscribed
	default:
		return PhaseEmpty
	}
}

// Busy reports whether a remote call is in flight.
func (s State) Busy() bool {
	return s.Phase == PhaseTranscribing || s.Phase == PhaseSummarizing
}

func (s State) Stats() Statistics {
	return ComputeStatistics(s.Transcription, s.Summary)
}
