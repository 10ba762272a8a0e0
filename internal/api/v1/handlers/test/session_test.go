package test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"voice-transcriber/internal/api/errors"
	"voice-transcriber/internal/api/middleware"
	"voice-transcriber/internal/api/v1/dto"
	"voice-transcriber/internal/api/v1/routes"
	"voice-transcriber/internal/api/v1/services"
	"voice-transcriber/internal/app/orchestrator"
	"voice-transcriber/internal/app/session"
	"voice-transcriber/internal/app/testutil/servicemock"
)

const sessionID = "3f1c2b8e-0000-4000-8000-000000000001"

func setupTestRouter(t *testing.T, maxUploadMB int) (*gin.Engine, *servicemock.MockSessionService) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(zap.NewNop()))
	mockService := servicemock.NewMockSessionService(t)
	routes.RegisterRoutes(router.Group("/api/v1"), &routes.ServiceContainer{
		SessionService: mockService,
		MaxUploadMB:    maxUploadMB,
	})
	return router, mockService
}

func sessionResponse(phase session.Phase) *dto.SessionResponse {
	resp := dto.NewSessionResponse(orchestrator.Snapshot{
		SessionID: sessionID,
		Phase:     phase,
		MaxWords:  150,
	})
	return &resp
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSessionHandler_Create(t *testing.T) {
	router, svc := setupTestRouter(t, 0)
	svc.On("CreateSession", mock.Anything).Return(sessionResponse(session.PhaseEmpty), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, sessionID, rec.Header().Get("X-Session-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	body := decode(t, rec)
	assert.Equal(t, sessionID, body["session_id"])
	assert.Equal(t, "empty", body["phase"])
	assert.Equal(t, float64(150), body["max_words"])
}

func TestSessionHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*servicemock.MockSessionService)
		expectedStatus int
		validateBody   func(*testing.T, map[string]interface{})
	}{
		{
			name: "existing session",
			setupMocks: func(ms *servicemock.MockSessionService) {
				ms.On("GetSession", mock.Anything, sessionID).Return(sessionResponse(session.PhaseTranscribed), nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "transcribed", body["phase"])
			},
		},
		{
			name: "unknown session",
			setupMocks: func(ms *servicemock.MockSessionService) {
				ms.On("GetSession", mock.Anything, sessionID).Return(nil, errors.NewNotFoundError("session"))
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "not_found", body["kind"])
				assert.Equal(t, "session not found", body["message"])
				assert.NotEmpty(t, body["request_id"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := setupTestRouter(t, 0)
			tt.setupMocks(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.validateBody(t, decode(t, rec))
		})
	}
}

func TestSessionHandler_Delete(t *testing.T) {
	router, svc := setupTestRouter(t, 0)
	svc.On("DeleteSession", mock.Anything, sessionID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+sessionID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestSessionHandler_Credentials(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*servicemock.MockSessionService)
		expectedStatus int
		validateBody   func(*testing.T, map[string]interface{})
	}{
		{
			name: "both keys",
			body: `{"transcription_key":"gsk_x","summarization_key":"AIza_y"}`,
			setupMocks: func(ms *servicemock.MockSessionService) {
				ms.On("ConfigureCredentials", mock.Anything, sessionID, &dto.CredentialsRequest{
					TranscriptionKey: "gsk_x", SummarizationKey: "AIza_y",
				}).Return(sessionResponse(session.PhaseEmpty), nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, sessionID, body["session_id"])
			},
		},
		{
			name:           "missing summarization key",
			body:           `{"transcription_key":"gsk_x"}`,
			setupMocks:     func(ms *servicemock.MockSessionService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "validation", body["kind"])
				details := body["details"].(map[string]interface{})
				assert.Equal(t, "is required", details["summarizationkey"])
			},
		},
		{
			name: "keys are trimmed",
			body: `{"transcription_key":"  gsk_x\n","summarization_key":" AIza_y "}`,
			setupMocks: func(ms *servicemock.MockSessionService) {
				ms.On("ConfigureCredentials", mock.Anything, sessionID, &dto.CredentialsRequest{
					TranscriptionKey: "gsk_x", SummarizationKey: "AIza_y",
				}).Return(sessionResponse(session.PhaseEmpty), nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, sessionID, body["session_id"])
			},
		},
		{
			name:           "whitespace only key",
			body:           `{"transcription_key":"   ","summarization_key":"AIza_y"}`,
			setupMocks:     func(ms *servicemock.MockSessionService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "validation", body["kind"])
				details := body["details"].(map[string]interface{})
				assert.Equal(t, "is required", details["transcriptionkey"])
				assert.NotContains(t, details, "summarizationkey")
			},
		},
		{
			name:           "malformed json",
			body:           `{"transcription_key":`,
			setupMocks:     func(ms *servicemock.MockSessionService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				details := body["details"].(map[string]interface{})
				assert.Equal(t, "invalid JSON format", details["request"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := setupTestRouter(t, 0)
			tt.setupMocks(svc)

			req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+sessionID+"/credentials", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.validateBody(t, decode(t, rec))
		})
	}
}

func TestSessionHandler_Settings(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectCall     bool
		expectedStatus int
	}{
		{"lower bound", `{"max_words":50}`, true, http.StatusOK},
		{"upper bound", `{"max_words":500}`, true, http.StatusOK},
		{"below range", `{"max_words":49}`, false, http.StatusUnprocessableEntity},
		{"above range", `{"max_words":501}`, false, http.StatusUnprocessableEntity},
		{"missing", `{}`, false, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := setupTestRouter(t, 0)
			if tt.expectCall {
				svc.On("UpdateSettings", mock.Anything, sessionID, mock.AnythingOfType("*dto.SettingsRequest")).
					Return(sessionResponse(session.PhaseEmpty), nil)
			}

			req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+sessionID+"/settings", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if !tt.expectCall {
				svc.AssertNotCalled(t, "UpdateSettings", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestSessionHandler_Upload(t *testing.T) {
	tests := []struct {
		name           string
		field          string
		filename       string
		size           int
		setupMocks     func(*servicemock.MockSessionService)
		expectedStatus int
		validateBody   func(*testing.T, map[string]interface{})
	}{
		{
			name:     "supported file",
			field:    "file",
			filename: "standup.m4a",
			size:     1024,
			setupMocks: func(ms *servicemock.MockSessionService) {
				ms.On("UploadAudio", mock.Anything, sessionID, "standup.m4a", mock.MatchedBy(func(b []byte) bool {
					return len(b) == 1024
				})).Return(&dto.UploadResponse{
					Session:  *sessionResponse(session.PhaseEmpty),
					FileName: "standup.m4a",
					SizeMB:   0.0009765625,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "standup.m4a", body["file_name"])
				assert.Equal(t, 0.0009765625, body["size_mb"])
			},
		},
		{
			name:           "unsupported extension",
			field:          "file",
			filename:       "notes.txt",
			size:           10,
			setupMocks:     func(ms *servicemock.MockSessionService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				details := body["details"].(map[string]interface{})
				assert.Contains(t, details["file"], "mp3, wav, m4a, flac, mp4, mpeg, mpga, webm")
			},
		},
		{
			name:           "over the configured limit",
			field:          "file",
			filename:       "long.wav",
			size:           1024*1024 + 1,
			setupMocks:     func(ms *servicemock.MockSessionService) {},
			expectedStatus: http.StatusRequestEntityTooLarge,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "too_large", body["kind"])
			},
		},
		{
			name:           "no file",
			setupMocks:     func(ms *servicemock.MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "bad_request", body["kind"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := setupTestRouter(t, 1)
			tt.setupMocks(svc)

			body, contentType := multipartBody(t, tt.field, tt.filename, make([]byte, tt.size))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+sessionID+"/audio", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.validateBody(t, decode(t, rec))
		})
	}
}

func TestSessionHandler_Actions(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		method         string
		returnErr      error
		expectedStatus int
		expectedKind   string
	}{
		{"transcribe", "transcribe", "Transcribe", nil, http.StatusOK, ""},
		{"summarize", "summarize", "Summarize", nil, http.StatusOK, ""},
		{"resummarize", "resummarize", "Resummarize", nil, http.StatusOK, ""},
		{"transcribe without audio", "transcribe", "Transcribe", errors.NewConflictError("transcription error: no audio file uploaded"), http.StatusConflict, "conflict"},
		{"summarize upstream failure", "summarize", "Summarize", errors.NewUpstreamError("summarization error: quota exceeded"), http.StatusBadGateway, "upstream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := setupTestRouter(t, 0)
			if tt.returnErr != nil {
				svc.On(tt.method, mock.Anything, sessionID).Return(nil, tt.returnErr)
			} else {
				svc.On(tt.method, mock.Anything, sessionID).Return(&dto.ActionResponse{
					Session:        *sessionResponse(session.PhaseSummarized),
					ElapsedSeconds: 1.25,
				}, nil)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+sessionID+"/"+tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			body := decode(t, rec)
			if tt.returnErr != nil {
				assert.Equal(t, tt.expectedKind, body["kind"])
				assert.Equal(t, tt.returnErr.Error(), body["message"])
				return
			}
			assert.Equal(t, 1.25, body["elapsed_seconds"])
			assert.Equal(t, "summarized", body["session"].(map[string]interface{})["phase"])
		})
	}
}

func TestSessionHandler_Clear(t *testing.T) {
	router, svc := setupTestRouter(t, 0)
	svc.On("Clear", mock.Anything, sessionID).Return(sessionResponse(session.PhaseEmpty), nil).Twice()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+sessionID+"/clear", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	svc.AssertExpectations(t)
}

func TestSessionHandler_Download(t *testing.T) {
	t.Run("transcription attachment", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)
		svc.On("Download", mock.Anything, sessionID, "transcription").Return(&dto.Download{
			FileName:    "transcription_standup.m4a.txt",
			ContentType: "text/plain; charset=utf-8",
			Content:     []byte("hello world"),
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID+"/download/transcription", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="transcription_standup.m4a.txt"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "hello world", rec.Body.String())
	})

	t.Run("unknown kind", func(t *testing.T) {
		router, svc := setupTestRouter(t, 0)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID+"/download/audio", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		svc.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSessionHandler_Export(t *testing.T) {
	router, svc := setupTestRouter(t, 0)
	svc.On("Export", mock.Anything, sessionID).Return(&dto.Download{
		FileName:    "report_standup.m4a.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     []byte("PK"),
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID+"/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "report_standup.m4a.xlsx")
	assert.Equal(t, "PK", rec.Body.String())
}

func TestSessionHandler_Events(t *testing.T) {
	router, svc := setupTestRouter(t, 0)

	updates := make(chan orchestrator.Snapshot, 1)
	done := make(chan struct{})
	cancelled := make(chan struct{})
	updates <- orchestrator.Snapshot{SessionID: sessionID, Phase: session.PhaseTranscribing, Version: 2}
	svc.On("Subscribe", mock.Anything, sessionID).Return(&services.Subscription{
		Initial: orchestrator.Snapshot{SessionID: sessionID, Phase: session.PhaseEmpty, Version: 1},
		Updates: updates,
		Done:    done,
		Cancel:  func() { close(cancelled) },
	}, nil)

	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/sessions/"+sessionID+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	var events []string
	var data []string
	scanner := bufio.NewScanner(resp.Body)
	for len(data) < 2 && scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			events = append(events, strings.TrimSpace(strings.TrimPrefix(line, "event:")))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}

	require.Len(t, data, 2)
	assert.Equal(t, []string{"state", "state"}, events)
	assert.Contains(t, data[0], `"phase":"empty"`)
	assert.Contains(t, data[1], `"phase":"transcribing"`)

	close(done)
	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("subscription was not cancelled after the stream ended")
	}
}

func TestSessionHandler_EventsOutliveWriteTimeout(t *testing.T) {
	router, svc := setupTestRouter(t, 0)

	updates := make(chan orchestrator.Snapshot)
	done := make(chan struct{})
	svc.On("Subscribe", mock.Anything, sessionID).Return(&services.Subscription{
		Initial: orchestrator.Snapshot{SessionID: sessionID, Phase: session.PhaseEmpty, Version: 1},
		Updates: updates,
		Done:    done,
		Cancel:  func() {},
	}, nil)

	server := httptest.NewUnstartedServer(router)
	server.Config.WriteTimeout = 100 * time.Millisecond
	server.Start()
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/sessions/"+sessionID+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer close(done)

	go func() {
		time.Sleep(400 * time.Millisecond)
		select {
		case updates <- orchestrator.Snapshot{SessionID: sessionID, Phase: session.PhaseTranscribing, Version: 2}:
		case <-ctx.Done():
		}
	}()

	var data []string
	scanner := bufio.NewScanner(resp.Body)
	for len(data) < 2 && scanner.Scan() {
		if line := scanner.Text(); strings.HasPrefix(line, "data:") {
			data = append(data, line)
		}
	}

	require.Len(t, data, 2, "the stream must survive past the server write timeout")
	assert.Contains(t, data[1], `"phase":"transcribing"`)
}
