// Package servicemock provides a testify mock of services.SessionService.
package servicemock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"voice-transcriber/internal/api/v1/dto"
	"voice-transcriber/internal/api/v1/services"
)

// MockSessionService is a mock implementation of services.SessionService
type MockSessionService struct {
	mock.Mock
}

func NewMockSessionService(t *testing.T) *MockSessionService {
	m := &MockSessionService{}
	m.Test(t)
	return m
}

func (m *MockSessionService) CreateSession(ctx context.Context) (*dto.SessionResponse, error) {
	args := m.Called(ctx)
	return sessionResult(args)
}

func (m *MockSessionService) GetSession(ctx context.Context, id string) (*dto.SessionResponse, error) {
	args := m.Called(ctx, id)
	return sessionResult(args)
}

func (m *MockSessionService) DeleteSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionService) ConfigureCredentials(ctx context.Context, id string, req *dto.CredentialsRequest) (*dto.SessionResponse, error) {
	args := m.Called(ctx, id, req)
	return sessionResult(args)
}

func (m *MockSessionService) UpdateSettings(ctx context.Context, id string, req *dto.SettingsRequest) (*dto.SessionResponse, error) {
	args := m.Called(ctx, id, req)
	return sessionResult(args)
}

func (m *MockSessionService) UploadAudio(ctx context.Context, id string, fileName string, data []byte) (*dto.UploadResponse, error) {
	args := m.Called(ctx, id, fileName, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UploadResponse), args.Error(1)
}

func (m *MockSessionService) Transcribe(ctx context.Context, id string) (*dto.ActionResponse, error) {
	args := m.Called(ctx, id)
	return actionResult(args)
}

func (m *MockSessionService) Summarize(ctx context.Context, id string) (*dto.ActionResponse, error) {
	args := m.Called(ctx, id)
	return actionResult(args)
}

func (m *MockSessionService) Resummarize(ctx context.Context, id string) (*dto.ActionResponse, error) {
	args := m.Called(ctx, id)
	return actionResult(args)
}

func (m *MockSessionService) Clear(ctx context.Context, id string) (*dto.SessionResponse, error) {
	args := m.Called(ctx, id)
	return sessionResult(args)
}

func (m *MockSessionService) Download(ctx context.Context, id string, kind string) (*dto.Download, error) {
	args := m.Called(ctx, id, kind)
	return downloadResult(args)
}

func (m *MockSessionService) Export(ctx context.Context, id string) (*dto.Download, error) {
	args := m.Called(ctx, id)
	return downloadResult(args)
}

func (m *MockSessionService) Subscribe(ctx context.Context, id string) (*services.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Subscription), args.Error(1)
}

func sessionResult(args mock.Arguments) (*dto.SessionResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SessionResponse), args.Error(1)
}

func actionResult(args mock.Arguments) (*dto.ActionResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ActionResponse), args.Error(1)
}

func downloadResult(args mock.Arguments) (*dto.Download, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Download), args.Error(1)
}
