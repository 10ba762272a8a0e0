package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"voice-transcriber/internal/app/model"
)

// Sample texts with known word counts.
const (
	SampleTranscription = "Welcome to the weekly standup. The release is on track and the migration finished over the weekend."
	SampleSummary       = "Release on track; migration finished."
)

// TestAudioAsset returns a small in-memory WAV asset.
func TestAudioAsset(name string) model.AudioAsset {
	return model.NewAudioAsset(name, wavBytes())
}

// CreateTestAudioFile writes a minimal valid WAV file into a temp directory
// and returns its path.
func CreateTestAudioFile(t *testing.T, filename string) string {
	t.Helper()

	fullPath := filepath.Join(t.TempDir(), filepath.Base(filename))
	if err := os.WriteFile(fullPath, wavBytes(), 0644); err != nil {
		t.Fatalf("Failed to create test audio file: %v", err)
	}
	return fullPath
}

func wavBytes() []byte {
	wavHeader := []byte{
		0x52, 0x49, 0x46, 0x46, // "RIFF"
		0x24, 0x08, 0x00, 0x00, // File size (2084 bytes)
		0x57, 0x41, 0x56, 0x45, // "WAVE"
		0x66, 0x6D, 0x74, 0x20, // "fmt "
		0x10, 0x00, 0x00, 0x00, // Chunk size
		0x01, 0x00, // Audio format (PCM)
		0x01, 0x00, // Channels (mono)
		0x80, 0x3E, 0x00, 0x00, // Sample rate (16000)
		0x00, 0x7D, 0x00, 0x00, // Byte rate
		0x02, 0x00, // Block align
		0x10, 0x00, // Bits per sample
		0x64, 0x61, 0x74, 0x61, // "data"
		0x00, 0x08, 0x00, 0x00, // Data size (2048 bytes)
	}
	return append(wavHeader, make([]byte, 2048)...)
}

// FakeServer is an httptest server standing in for a remote model API.
type FakeServer struct {
	*httptest.Server
	hits atomic.Int32
}

// Hits returns the number of requests served.
func (f *FakeServer) Hits() int {
	return int(f.hits.Load())
}

// NewFakeTranscriptionServer serves the OpenAI-compatible transcription
// endpoint. A 2xx status returns body as plain text; other statuses return
// body as an OpenAI error message.
func NewFakeTranscriptionServer(t *testing.T, status int, body string) *FakeServer {
	t.Helper()
	f := &FakeServer{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			http.NotFound(w, r)
			return
		}
		if status >= 300 {
			writeOpenAIError(w, status, body)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)
	return f
}

// NewFakeGeminiServer serves generateContent for any model, answering with
// text as the only candidate part, or with an error when status is not 2xx.
func NewFakeGeminiServer(t *testing.T, status int, text string) *FakeServer {
	t.Helper()
	f := &FakeServer{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 300 {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{"code": status, "message": text, "status": "INVALID_ARGUMENT"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]interface{}{{"text": text}},
				},
				"finishReason": "STOP",
			}},
		})
	}))
	t.Cleanup(f.Close)
	return f
}

func writeOpenAIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{"message": message, "type": "invalid_request_error"},
	})
}
