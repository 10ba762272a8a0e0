package services

import (
	"context"

	"voice-transcriber/internal/api/v1/dto"
	"voice-transcriber/internal/app/orchestrator"
)

// SessionService defines the operations behind the session endpoints.
// Errors returned are *errors.APIError.
type SessionService interface {
	CreateSession(ctx context.Context) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, id string) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, id string) error

	ConfigureCredentials(ctx context.Context, id string, req *dto.CredentialsRequest) (*dto.SessionResponse, error)
	UpdateSettings(ctx context.Context, id string, req *dto.SettingsRequest) (*dto.SessionResponse, error)

	UploadAudio(ctx context.Context, id string, fileName string, data []byte) (*dto.UploadResponse, error)
	Transcribe(ctx context.Context, id string) (*dto.ActionResponse, error)
	Summarize(ctx context.Context, id string) (*dto.ActionResponse, error)
	Resummarize(ctx context.Context, id string) (*dto.ActionResponse, error)
	Clear(ctx context.Context, id string) (*dto.SessionResponse, error)

	Download(ctx context.Context, id string, kind string) (*dto.Download, error)
	Export(ctx context.Context, id string) (*dto.Download, error)

	Subscribe(ctx context.Context, id string) (*Subscription, error)
}

// Subscription delivers snapshots of one session until Cancel is called or
// the session is removed, which closes Done.
type Subscription struct {
	Initial orchestrator.Snapshot
	Updates <-chan orchestrator.Snapshot
	Done    <-chan struct{}
	Cancel  func()
}
