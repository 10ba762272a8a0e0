package services

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"voice-transcriber/internal/api/errors"
	"voice-transcriber/internal/api/v1/dto"
	"voice-transcriber/internal/app/converter/export"
	apperrors "voice-transcriber/internal/app/errors"
	"voice-transcriber/internal/app/model"
	"voice-transcriber/internal/app/orchestrator"
	"voice-transcriber/internal/app/util/files"
)

// subscriberBuffer bounds the snapshots queued for a slow event stream.
const subscriberBuffer = 16

// SessionConfig carries the service options.
type SessionConfig struct {
	IdleTTL time.Duration
	// Preloaded keys configure every new session when both are set.
	PreloadTranscriptionKey string
	PreloadSummarizationKey string
}

// SessionServiceImpl implements SessionService over in-memory orchestrators.
type SessionServiceImpl struct {
	store  *sessionStore
	cfg    SessionConfig
	logger *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(factory *orchestrator.Factory, cfg SessionConfig, logger *zap.Logger) *SessionServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionServiceImpl{
		store:  newSessionStore(factory, cfg.IdleTTL),
		cfg:    cfg,
		logger: logger,
	}
}

func (s *SessionServiceImpl) CreateSession(ctx context.Context) (*dto.SessionResponse, error) {
	e := s.store.create()
	if s.cfg.PreloadTranscriptionKey != "" && s.cfg.PreloadSummarizationKey != "" {
		if err := e.orch.Configure(s.cfg.PreloadTranscriptionKey, s.cfg.PreloadSummarizationKey); err != nil {
			s.logger.Warn("failed to preload credentials", zap.String("session_id", e.orch.ID()), zap.Error(err))
		}
	}
	s.logger.Info("session created", zap.String("session_id", e.orch.ID()), zap.Int("live_sessions", s.store.len()))
	return sessionResponse(e.orch), nil
}

func (s *SessionServiceImpl) GetSession(ctx context.Context, id string) (*dto.SessionResponse, error) {
	orch, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return sessionResponse(orch), nil
}

func (s *SessionServiceImpl) DeleteSession(ctx context.Context, id string) error {
	if !s.store.remove(id) {
		return sessionNotFound(id)
	}
	s.logger.Info("session deleted", zap.String("session_id", id))
	return nil
}

func (s *SessionServiceImpl) ConfigureCredentials(ctx context.Context, id string, req *dto.CredentialsRequest) (*dto.SessionResponse, error) {
	orch, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := orch.Configure(req.TranscriptionKey, req.SummarizationKey); err != nil {
		return nil, ToAPIError(err)
	}
	return sessionResponse(orch), nil
}

func (s *SessionServiceImpl) UpdateSettings(ctx context.Context, id string, req *dto.SettingsRequest) (*dto.SessionResponse, error) {
	orch, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := orch.SetMaxWords(req.MaxWords); err != nil {
		return nil, ToAPIError(err)
	}
	return sessionResponse(orch), nil
}

func (s *SessionServiceImpl) UploadAudio(ctx context.Context, id string, fileName string, data []byte) (*dto.UploadResponse, error) {
	orch, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	asset := model.NewAudioAsset(files.BaseName(fileName, "audio"), data)
	advisory := orch.Upload(asset)
	return &dto.UploadResponse{
		Session:  *sessionResponse(orch),
		FileName: asset.Name,
		SizeMB:   asset.SizeMB(),
		Advisory: advisory,
	}, nil
}

func (s *SessionServiceImpl) Transcribe(ctx context.Context, id string) (*dto.ActionResponse, error) {
	return s.runAction(ctx, id, (*orchestrator.Orchestrator).Transcribe)
}

func (s *SessionServiceImpl) Summarize(ctx context.Context, id string) (*dto.ActionResponse, error) {
	return s.runAction(ctx, id, (*orchestrator.Orchestrator).Summarize)
}

func (s *SessionServiceImpl) Resummarize(ctx context.Context, id string) (*dto.ActionResponse, error) {
	return s.runAction(ctx, id, (*orchestrator.Orchestrator).Resummarize)
}

func (s *SessionServiceImpl) Clear(ctx context.Context, id string) (*dto.SessionResponse, error) {
	orch, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	orch.Clear()
	return sessionResponse(orch), nil
}

// Download returns the transcription or summary as a text attachment.
func (s *SessionServiceImpl) Download(ctx context.Context, id string, kind string) (*dto.Download, error) {
	orch, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	snap := orch.Snapshot()

	var text string
	switch kind {
	case dto.KindTranscription:
		text = snap.Transcription
	case dto.KindSummary:
		text = snap.Summary
	default:
		return nil, errors.NewValidationError("Invalid download request", map[string]string{
			"kind": "must be one of: transcription summary",
		})
	}
	if text == "" {
		return nil, errors.NewConflictError(fmt.Sprintf("no %s to download", kind))
	}

	return &dto.Download{
		FileName:    fmt.Sprintf("%s_%s.txt", kind, sourceName(snap)),
		ContentType: "text/plain; charset=utf-8",
		Content:     []byte(text),
	}, nil
}

// Export returns an xlsx report of the session results.
func (s *SessionServiceImpl) Export(ctx context.Context, id string) (*dto.Download, error) {
	orch, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	snap := orch.Snapshot()
	if snap.Transcription == "" {
		return nil, errors.NewConflictError("no transcription to export")
	}

	var buf bytes.Buffer
	err = export.ToExcel(&buf, export.Report{
		Source:        snap.Source,
		Transcription: snap.Transcription,
		Summary:       snap.Summary,
		MaxWords:      snap.MaxWords,
		Stats:         snap.Stats,
		GeneratedAt:   time.Now(),
	})
	if err != nil {
		s.logger.Error("export failed", zap.String("session_id", id), zap.Error(err))
		return nil, errors.NewInternalError("Failed to build report")
	}

	return &dto.Download{
		FileName:    fmt.Sprintf("report_%s.xlsx", sourceName(snap)),
		ContentType: export.ContentType,
		Content:     buf.Bytes(),
	}, nil
}

// Subscribe streams the session's snapshots. Snapshots that find the buffer
// full are dropped; every snapshot carries the full state, so a later one
// supersedes them.
func (s *SessionServiceImpl) Subscribe(ctx context.Context, id string) (*Subscription, error) {
	e, ok := s.store.get(id)
	if !ok {
		return nil, sessionNotFound(id)
	}

	updates := make(chan orchestrator.Snapshot, subscriberBuffer)
	cancel := e.orch.Subscribe(orchestrator.ObserverFunc(func(snap orchestrator.Snapshot) {
		select {
		case updates <- snap:
		default:
			s.logger.Debug("dropping snapshot for slow subscriber",
				zap.String("session_id", id), zap.Uint64("version", snap.Version))
		}
	}))

	return &Subscription{
		Initial: e.orch.Snapshot(),
		Updates: updates,
		Done:    e.done,
		Cancel:  cancel,
	}, nil
}

func (s *SessionServiceImpl) runAction(ctx context.Context, id string,
	action func(*orchestrator.Orchestrator, context.Context) (time.Duration, error)) (*dto.ActionResponse, error) {
	orch, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	elapsed, err := action(orch, ctx)
	if err != nil {
		return nil, ToAPIError(err)
	}
	return &dto.ActionResponse{
		Session:        *sessionResponse(orch),
		ElapsedSeconds: elapsed.Seconds(),
	}, nil
}

func (s *SessionServiceImpl) lookup(id string) (*orchestrator.Orchestrator, error) {
	e, ok := s.store.get(id)
	if !ok {
		return nil, sessionNotFound(id)
	}
	return e.orch, nil
}

func sessionNotFound(id string) *errors.APIError {
	return ToAPIError(apperrors.Wrapf(apperrors.ErrSessionNotFound, "session %s", id))
}

// ToAPIError maps session errors onto API error kinds. The message of the
// underlying error is kept verbatim.
func ToAPIError(err error) *errors.APIError {
	var apiErr *errors.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	msg := err.Error()
	switch {
	case stderrors.Is(err, apperrors.ErrSessionNotFound):
		return &errors.APIError{Kind: errors.KindNotFound, Message: msg}
	case stderrors.Is(err, apperrors.ErrConfig):
		return errors.NewValidationError(msg, nil)
	case stderrors.Is(err, apperrors.ErrNoAudio),
		stderrors.Is(err, apperrors.ErrServiceNotReady),
		stderrors.Is(err, apperrors.ErrNoTranscription),
		stderrors.Is(err, apperrors.ErrNoSummary):
		return errors.NewConflictError(msg)
	case stderrors.Is(err, apperrors.ErrTranscription),
		stderrors.Is(err, apperrors.ErrSummarization):
		return errors.NewUpstreamError(msg)
	default:
		return errors.NewInternalError(msg)
	}
}

func sessionResponse(orch *orchestrator.Orchestrator) *dto.SessionResponse {
	resp := dto.NewSessionResponse(orch.Snapshot())
	return &resp
}

func sourceName(snap orchestrator.Snapshot) string {
	if snap.Source != "" {
		return snap.Source
	}
	return "audio"
}
