package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"voice-transcriber/internal/app/model"
)

// MockTranscriber is a testify mock of api.Transcriber that also keeps a call log.
type MockTranscriber struct {
	mock.Mock
	mu    sync.Mutex
	Calls []TranscriptionCall
}

// TranscriptionCall records the arguments of one Transcribe call.
type TranscriptionCall struct {
	AssetName  string
	Size       int64
	Credential string
}

func NewMockTranscriber(t *testing.T) *MockTranscriber {
	m := &MockTranscriber{}
	m.Test(t)
	return m
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio model.AudioAsset, credential string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, TranscriptionCall{AssetName: audio.Name, Size: audio.Size(), Credential: credential})
	m.mu.Unlock()

	args := m.Called(ctx, audio, credential)
	return args.String(0), args.Error(1)
}

// CallCount returns the number of Transcribe calls so far.
func (m *MockTranscriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockSummarizer is a testify mock of api.Summarizer.
type MockSummarizer struct {
	mock.Mock
}

func NewMockSummarizer(t *testing.T) *MockSummarizer {
	m := &MockSummarizer{}
	m.Test(t)
	return m
}

func (m *MockSummarizer) Summarize(ctx context.Context, text string, maxWords int, credential string) (string, error) {
	args := m.Called(ctx, text, maxWords, credential)
	return args.String(0), args.Error(1)
}
