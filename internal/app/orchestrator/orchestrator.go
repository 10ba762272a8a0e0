package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"voice-transcriber/internal/app/api"
	"voice-transcriber/internal/app/credentials"
	apperrors "voice-transcriber/internal/app/errors"
	"voice-transcriber/internal/app/model"
	"voice-transcriber/internal/app/session"
)

// Summary length bounds, in words.
const (
	DefaultMaxWords = 150
	MinMaxWords     = 50
	MaxMaxWords     = 500
)

// Orchestrator sequences the actions of one session against the remote
// clients. Actions are serialized; snapshots can be read while one runs.
type Orchestrator struct {
	// actionMu is held for the whole duration of an action.
	actionMu sync.Mutex

	// mu guards the fields below.
	mu       sync.RWMutex
	state    session.State
	creds    *credentials.Holder
	maxWords int
	version  uint64

	obsMu     sync.Mutex
	observers map[uint64]Observer
	nextObsID uint64

	id          string
	transcriber api.Transcriber
	summarizer  api.Summarizer
	metrics     Metrics
	logger      *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithSessionID(id string) Option {
	return func(o *Orchestrator) { o.id = id }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

func WithMetrics(metrics Metrics) Option {
	return func(o *Orchestrator) { o.metrics = metrics }
}

// WithMaxWords sets the initial summary length; out-of-range values are ignored.
func WithMaxWords(n int) Option {
	return func(o *Orchestrator) {
		if validMaxWords(n) {
			o.maxWords = n
		}
	}
}

// New creates an orchestrator with an empty session and no credentials.
func New(transcriber api.Transcriber, summarizer api.Summarizer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		state:       session.State{Phase: session.PhaseEmpty},
		creds:       credentials.NewHolder(),
		maxWords:    DefaultMaxWords,
		observers:   make(map[uint64]Observer),
		transcriber: transcriber,
		summarizer:  summarizer,
		metrics:     NopMetrics{},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With(zap.String("session_id", o.id))
	return o
}

// ID returns the session identifier given at construction.
func (o *Orchestrator) ID() string {
	return o.id
}

// Configure replaces both service credentials.
func (o *Orchestrator) Configure(transcriptionKey, summarizationKey string) error {
	o.actionMu.Lock()
	defer o.actionMu.Unlock()
	start := time.Now()

	o.mu.Lock()
	err := o.creds.Configure(transcriptionKey, summarizationKey)
	if err == nil {
		o.version++
	}
	o.mu.Unlock()

	if err != nil {
		o.finish(ActionConfigure, OutcomeRejected, start, err)
		return err
	}
	o.finish(ActionConfigure, OutcomeSuccess, start, nil)
	o.notify()
	return nil
}

// Upload holds asset for the next transcription and returns a size advisory,
// which is empty when the size is unremarkable.
func (o *Orchestrator) Upload(asset model.AudioAsset) string {
	o.actionMu.Lock()
	defer o.actionMu.Unlock()
	start := time.Now()

	o.apply(session.AssetUploaded{Asset: asset})
	advisory := asset.Advisory()
	if advisory != "" {
		o.logger.Warn("large audio upload", zap.String("asset", asset.Name), zap.Int64("size_bytes", asset.Size()))
	}
	o.finish(ActionUpload, OutcomeSuccess, start, nil)
	o.notify()
	return advisory
}

// SetMaxWords changes the summary length used by later summaries.
func (o *Orchestrator) SetMaxWords(n int) error {
	o.actionMu.Lock()
	defer o.actionMu.Unlock()
	start := time.Now()

	if !validMaxWords(n) {
		err := apperrors.Tag(apperrors.ErrConfig,
			apperrors.Tag(apperrors.ErrInvalidMaxWords, apperrors.OutOfRange("max words", MinMaxWords, MaxMaxWords)))
		o.finish(ActionSettings, OutcomeRejected, start, err)
		return err
	}

	o.mu.Lock()
	o.maxWords = n
	o.version++
	o.mu.Unlock()

	o.finish(ActionSettings, OutcomeSuccess, start, nil)
	o.notify()
	return nil
}

// Transcribe sends the held asset to the transcription service. On success the
// transcription is replaced and any summary is dropped. The asset is released
// after the attempt either way.
func (o *Orchestrator) Transcribe(ctx context.Context) (time.Duration, error) {
	o.actionMu.Lock()
	defer o.actionMu.Unlock()
	start := time.Now()

	o.mu.RLock()
	asset := o.state.Asset
	ready := o.creds.IsTranscriptionReady()
	key := o.creds.TranscriptionKey()
	o.mu.RUnlock()

	var err error
	switch {
	case asset == nil:
		err = apperrors.Tag(apperrors.ErrTranscription, apperrors.ErrNoAudio)
	case !ready:
		err = apperrors.Tag(apperrors.ErrTranscription, apperrors.ErrServiceNotReady)
	}
	if err != nil {
		o.reject(ActionTranscribe, start, err)
		return 0, err
	}

	o.apply(session.TranscriptionStarted{})
	o.notify()

	settled := false
	defer o.settleAbandoned(ActionTranscribe, start, &settled, func(err error) session.Event {
		return session.TranscriptionFailed{Err: apperrors.Tag(apperrors.ErrTranscription, err)}
	})

	o.logger.Info("transcription started", zap.String("asset", asset.Name), zap.Int64("size_bytes", asset.Size()))
	text, err := o.transcriber.Transcribe(ctx, *asset, key)
	settled = true
	elapsed := time.Since(start)
	if err != nil {
		err = apperrors.Tag(apperrors.ErrTranscription, err)
		o.apply(session.TranscriptionFailed{Err: err})
		o.finish(ActionTranscribe, OutcomeFailure, start, err)
		o.notify()
		return elapsed, err
	}

	o.apply(session.TranscriptionSucceeded{Text: text})
	o.finish(ActionTranscribe, OutcomeSuccess, start, nil)
	o.notify()
	return elapsed, nil
}

// Summarize summarizes the current transcription with the current max words.
func (o *Orchestrator) Summarize(ctx context.Context) (time.Duration, error) {
	o.actionMu.Lock()
	defer o.actionMu.Unlock()
	return o.summarize(ctx, ActionSummarize)
}

// Resummarize regenerates an existing summary, e.g. after changing max words.
func (o *Orchestrator) Resummarize(ctx context.Context) (time.Duration, error) {
	o.actionMu.Lock()
	defer o.actionMu.Unlock()
	return o.summarize(ctx, ActionResummarize)
}

func (o *Orchestrator) summarize(ctx context.Context, action string) (time.Duration, error) {
	start := time.Now()

	o.mu.RLock()
	transcription := o.state.Transcription
	summary := o.state.Summary
	ready := o.creds.IsSummarizationReady()
	key := o.creds.SummarizationKey()
	maxWords := o.maxWords
	o.mu.RUnlock()

	var err error
	switch {
	case action == ActionResummarize && summary == "":
		err = apperrors.Tag(apperrors.ErrSummarization, apperrors.ErrNoSummary)
	case transcription == "":
		err = apperrors.Tag(apperrors.ErrSummarization, apperrors.ErrNoTranscription)
	case !ready:
		err = apperrors.Tag(apperrors.ErrSummarization, apperrors.ErrServiceNotReady)
	}
	if err != nil {
		o.reject(action, start, err)
		return 0, err
	}

	o.apply(session.SummarizationStarted{})
	o.notify()

	settled := false
	defer o.settleAbandoned(action, start, &settled, func(err error) session.Event {
		return session.SummarizationFailed{Err: apperrors.Tag(apperrors.ErrSummarization, err)}
	})

	o.logger.Info("summarization started", zap.String("action", action), zap.Int("max_words", maxWords))
	text, err := o.summarizer.Summarize(ctx, transcription, maxWords, key)
	settled = true
	elapsed := time.Since(start)
	if err != nil {
		err = apperrors.Tag(apperrors.ErrSummarization, err)
		o.apply(session.SummarizationFailed{Err: err})
		o.finish(action, OutcomeFailure, start, err)
		o.notify()
		return elapsed, err
	}

	o.apply(session.SummarizationSucceeded{Text: text})
	o.finish(action, OutcomeSuccess, start, nil)
	o.notify()
	return elapsed, nil
}

// Clear drops the transcription and summary. Calling it repeatedly is harmless.
func (o *Orchestrator) Clear() {
	o.actionMu.Lock()
	defer o.actionMu.Unlock()
	start := time.Now()

	changed := o.apply(session.Cleared{})
	o.finish(ActionClear, OutcomeSuccess, start, nil)
	if changed {
		o.notify()
	}
}

// Snapshot returns the current read model.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snapshotLocked()
}

// Subscribe registers obs for state-change notifications. The returned
// function removes it.
func (o *Orchestrator) Subscribe(obs Observer) (unsubscribe func()) {
	o.obsMu.Lock()
	defer o.obsMu.Unlock()

	id := o.nextObsID
	o.nextObsID++
	o.observers[id] = obs

	var once sync.Once
	return func() {
		once.Do(func() {
			o.obsMu.Lock()
			defer o.obsMu.Unlock()
			delete(o.observers, id)
		})
	}
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	s := o.state
	snap := Snapshot{
		SessionID:          o.id,
		Version:            o.version,
		Phase:              s.Phase,
		Transcription:      s.Transcription,
		Summary:            s.Summary,
		Source:             s.Source,
		Stats:              s.Stats(),
		TranscriptionReady: o.creds.IsTranscriptionReady(),
		SummarizationReady: o.creds.IsSummarizationReady(),
		MaxWords:           o.maxWords,
		LastError:          s.LastError,
	}
	if s.Asset != nil {
		snap.AssetName = s.Asset.Name
		snap.AssetSizeBytes = s.Asset.Size()
		snap.AssetAdvisory = s.Asset.Advisory()
	}
	return snap
}

// apply reduces ev into the state and reports whether anything changed. The
// version only moves on a change.
func (o *Orchestrator) apply(ev session.Event) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	next := session.Apply(o.state, ev)
	if next == o.state {
		return false
	}
	o.state = next
	o.version++
	return true
}

func (o *Orchestrator) reject(action string, start time.Time, err error) {
	changed := o.apply(session.Rejected{Err: err})
	o.finish(action, OutcomeRejected, start, err)
	if changed {
		o.notify()
	}
}

// settleAbandoned fails a remote call that never returned, so a panicking
// client cannot leave the session busy. The panic is re-raised afterwards.
func (o *Orchestrator) settleAbandoned(action string, start time.Time, settled *bool, failed func(error) session.Event) {
	if *settled {
		return
	}
	r := recover()
	err := fmt.Errorf("%s call did not complete", action)
	if r != nil {
		err = fmt.Errorf("%s call panicked: %v", action, r)
	}
	o.apply(failed(err))
	o.finish(action, OutcomeFailure, start, err)
	o.notify()
	if r != nil {
		panic(r)
	}
}

func (o *Orchestrator) finish(action, outcome string, start time.Time, err error) {
	elapsed := time.Since(start)
	o.metrics.ObserveAction(action, outcome, elapsed)

	fields := []zap.Field{
		zap.String("action", action),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		o.logger.Warn("session action failed", append(fields, zap.Error(err))...)
		return
	}
	o.logger.Info("session action completed", fields...)
}

func (o *Orchestrator) notify() {
	snap := o.Snapshot()

	o.obsMu.Lock()
	observers := lo.Values(o.observers)
	o.obsMu.Unlock()

	for _, obs := range observers {
		obs.StateChanged(snap)
	}
}

func validMaxWords(n int) bool {
	return n >= MinMaxWords && n <= MaxMaxWords
}
