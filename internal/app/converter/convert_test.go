package converter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "voice-transcriber/internal/app/errors"
	"voice-transcriber/internal/app/model"
	"voice-transcriber/internal/app/orchestrator"
	"voice-transcriber/internal/app/session"
	"voice-transcriber/internal/app/testutil"
)

func writeAudio(t *testing.T, name string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fake audio"), 0644))
	return path
}

func newTestConverter(t *testing.T) (*Converter, *testutil.MockTranscriber, *testutil.MockSummarizer) {
	transcriber := testutil.NewMockTranscriber(t)
	summarizer := testutil.NewMockSummarizer(t)
	factory := orchestrator.NewFactory(transcriber, summarizer, nil, nil, orchestrator.FactoryConfig{DefaultMaxWords: 150})
	return NewConverter(factory, ProgressConfig{Enabled: false}, nil), transcriber, summarizer
}

func TestConverter_ConvertFile(t *testing.T) {
	conv, transcriber, summarizer := newTestConverter(t)
	defer conv.Close()
	path := writeAudio(t, "meeting.mp3")

	transcriber.On("Transcribe", mock.Anything, mock.MatchedBy(func(a model.AudioAsset) bool {
		return a.Name == "meeting.mp3" && string(a.Data) == "fake audio"
	}), "gsk").Return("one two three four", nil).Once()
	summarizer.On("Summarize", mock.Anything, "one two three four", 100, "AIza").Return("one two", nil).Once()

	result, err := conv.ConvertFile(context.Background(), path, Options{
		TranscriptionKey: "gsk",
		SummarizationKey: "AIza",
		MaxWords:         100,
	})
	require.NoError(t, err)

	assert.Equal(t, session.PhaseSummarized, result.Snapshot.Phase)
	assert.Equal(t, "meeting.mp3", result.Snapshot.Source)
	assert.Equal(t, "one two", result.Snapshot.Summary)
	assert.Equal(t, 50.0, result.Snapshot.Stats.CompressionRatio)
	assert.Empty(t, result.Advisory)
	transcriber.AssertExpectations(t)
	summarizer.AssertExpectations(t)
}

func TestConverter_SkipSummary(t *testing.T) {
	conv, transcriber, summarizer := newTestConverter(t)
	path := writeAudio(t, "memo.wav")

	transcriber.On("Transcribe", mock.Anything, mock.Anything, "gsk").Return("hello", nil).Once()

	result, err := conv.ConvertFile(context.Background(), path, Options{
		TranscriptionKey: "gsk",
		SummarizationKey: "AIza",
		SkipSummary:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, session.PhaseTranscribed, result.Snapshot.Phase)
	summarizer.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConverter_Errors(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		conv, transcriber, _ := newTestConverter(t)
		_, err := conv.ConvertFile(context.Background(), writeAudio(t, "notes.txt"), Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrUnsupportedInput))
		assert.Equal(t, 0, transcriber.CallCount())
	})

	t.Run("missing file", func(t *testing.T) {
		conv, _, _ := newTestConverter(t)
		_, err := conv.ConvertFile(context.Background(), filepath.Join(t.TempDir(), "gone.mp3"), Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})

	t.Run("missing credentials", func(t *testing.T) {
		conv, transcriber, _ := newTestConverter(t)
		_, err := conv.ConvertFile(context.Background(), writeAudio(t, "a.mp3"), Options{TranscriptionKey: "gsk"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrConfig))
		assert.Equal(t, 0, transcriber.CallCount())
	})

	t.Run("skip summary still needs both keys", func(t *testing.T) {
		conv, transcriber, _ := newTestConverter(t)
		_, err := conv.ConvertFile(context.Background(), writeAudio(t, "a.mp3"), Options{
			TranscriptionKey: "gsk", SkipSummary: true,
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrMissingAPIKey))
		assert.Contains(t, err.Error(), "summarization key is required")
		assert.Equal(t, 0, transcriber.CallCount())
	})

	t.Run("invalid max words", func(t *testing.T) {
		conv, _, _ := newTestConverter(t)
		_, err := conv.ConvertFile(context.Background(), writeAudio(t, "a.mp3"), Options{
			TranscriptionKey: "gsk", SummarizationKey: "AIza", MaxWords: 10,
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidMaxWords))
	})

	t.Run("transcription failure", func(t *testing.T) {
		conv, transcriber, summarizer := newTestConverter(t)
		transcriber.On("Transcribe", mock.Anything, mock.Anything, "gsk").Return("", errors.New("rate limited")).Once()

		_, err := conv.ConvertFile(context.Background(), testutil.CreateTestAudioFile(t, "a.wav"), Options{
			TranscriptionKey: "gsk", SummarizationKey: "AIza",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrTranscription))
		assert.Contains(t, err.Error(), "rate limited")
		summarizer.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("summary failure keeps transcription", func(t *testing.T) {
		conv, transcriber, summarizer := newTestConverter(t)
		transcriber.On("Transcribe", mock.Anything, mock.Anything, "gsk").Return("one two three", nil).Once()
		summarizer.On("Summarize", mock.Anything, "one two three", 150, "AIza").Return("", errors.New("quota exceeded")).Once()

		result, err := conv.ConvertFile(context.Background(), writeAudio(t, "a.mp3"), Options{
			TranscriptionKey: "gsk", SummarizationKey: "AIza",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrSummarization))
		require.NotNil(t, result)
		assert.Equal(t, "one two three", result.Snapshot.Transcription)
		assert.Equal(t, session.PhaseTranscribed, result.Snapshot.Phase)
	})
}

func TestProgressManager(t *testing.T) {
	var out bytes.Buffer
	pm := NewProgressManager(ProgressConfig{Enabled: true, Writer: &out})
	bar := pm.CreateBar(2, FormatProgressDescription("Processing", "a.mp3"))
	bar.Increment()
	bar.Increment()
	pm.Wait()

	// The buffer is not a terminal, so this only renders with auto refresh.
	assert.Contains(t, out.String(), "Processing (a.mp3)")
	assert.Contains(t, out.String(), "(2/2)")

	disabled := NewProgressManager(ProgressConfig{Enabled: false})
	noop := disabled.CreateBar(3, "ignored")
	noop.Increment()
	noop.Complete()
	disabled.Wait()
}

func TestFormatProgressDescription(t *testing.T) {
	assert.Equal(t, "Processing (a.mp3)", FormatProgressDescription("Processing", "a.mp3"))
	assert.Equal(t, "Processing", FormatProgressDescription("Processing", ""))
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(nil))
	assert.False(t, IsTTY(&bytes.Buffer{}))
}
