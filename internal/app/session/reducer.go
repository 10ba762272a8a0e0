package session

import "voice-transcriber/internal/app/model"

// Event is one input to Apply.
type Event interface {
	event()
}

type (
	AssetUploaded struct {
		Asset model.AudioAsset
	}
	TranscriptionStarted   struct{}
	TranscriptionSucceeded struct {
		Text string
	}
	TranscriptionFailed struct {
		Err error
	}
	SummarizationStarted   struct{}
	SummarizationSucceeded struct {
		Text string
	}
	SummarizationFailed struct {
		Err error
	}
	// Rejected records an action refused before any remote call.
	Rejected struct {
		Err error
	}
	Cleared struct{}
)

func (AssetUploaded) event()          {}
func (TranscriptionStarted) event()   {}
func (TranscriptionSucceeded) event() {}
func (TranscriptionFailed) event()    {}
func (SummarizationStarted) event()   {}
func (SummarizationSucceeded) event() {}
func (SummarizationFailed) event()    {}
func (Rejected) event()               {}
func (Cleared) event()                {}

// Apply returns the state that follows ev. It has no side effects; the
// orchestrator performs remote calls and feeds their outcome back as events.
func Apply(s State, ev Event) State {
	switch e := ev.(type) {
	case AssetUploaded:
		asset := e.Asset
		s.Asset = &asset
		s.LastError = ""
	case TranscriptionStarted:
		s.Phase = PhaseTranscribing
		s.LastError = ""
	case TranscriptionSucceeded:
		if s.Asset != nil {
			s.Source = s.Asset.Name
		}
		s.Transcription = e.Text
		s.Summary = ""
		s.Asset = nil
		s.LastError = ""
		s.Phase = s.Settled()
	case TranscriptionFailed:
		s.Asset = nil
		s.LastError = errorText(e.Err)
		s.Phase = s.Settled()
	case SummarizationStarted:
		s.Phase = PhaseSummarizing
		s.LastError = ""
	case SummarizationSucceeded:
		s.Summary = e.Text
		s.LastError = ""
		s.Phase = s.Settled()
	case SummarizationFailed:
		s.LastError = errorText(e.Err)
		s.Phase = s.Settled()
	case Rejected:
		s.LastError = errorText(e.Err)
	case Cleared:
		s.Source = ""
		s.Transcription = ""
		s.Summary = ""
		s.LastError = ""
		s.Phase = PhaseEmpty
	}
	return s
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
