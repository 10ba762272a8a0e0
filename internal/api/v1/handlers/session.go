package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"voice-transcriber/internal/api/errors"
	"voice-transcriber/internal/api/middleware"
	"voice-transcriber/internal/api/v1/dto"
	"voice-transcriber/internal/api/v1/services"
	"voice-transcriber/internal/app/model"
)

// SessionIDHeader carries the id of a newly created session.
const SessionIDHeader = "X-Session-ID"

// SessionHandler handles the session endpoints
type SessionHandler struct {
	service        services.SessionService
	maxUploadBytes int64
}

// NewSessionHandler creates a new session handler. maxUploadMB caps the
// accepted upload size; zero disables the cap.
func NewSessionHandler(service services.SessionService, maxUploadMB int) *SessionHandler {
	return &SessionHandler{
		service:        service,
		maxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
	}
}

// Create starts a new session
// @Summary Create a session
// @Description Creates an empty session and returns its id in the body and the X-Session-ID header
// @Tags Sessions
// @Produce json
// @Success 201 {object} dto.SessionResponse
// @Router /api/v1/sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	resp, err := h.service.CreateSession(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.Header(SessionIDHeader, resp.SessionID)
	c.JSON(http.StatusCreated, resp)
}

// Get returns the current state of a session
// @Summary Get a session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} errors.APIError
// @Router /api/v1/sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	resp, err := h.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete ends a session and closes its event streams
// @Summary Delete a session
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} errors.APIError
// @Router /api/v1/sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Credentials replaces both service keys of a session
// @Summary Configure credentials
// @Description Both keys are required; surrounding whitespace is trimmed
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.CredentialsRequest true "Service keys"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} errors.APIError
// @Failure 422 {object} errors.APIError
// @Router /api/v1/sessions/{id}/credentials [put]
func (h *SessionHandler) Credentials(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.ConfigureCredentials(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Settings changes the summary length used by later summaries
// @Summary Update settings
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SettingsRequest true "Max words, 50 to 500"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} errors.APIError
// @Failure 422 {object} errors.APIError
// @Router /api/v1/sessions/{id}/settings [put]
func (h *SessionHandler) Settings(c *gin.Context) {
	var req dto.SettingsRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.UpdateSettings(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Upload holds an audio file for the next transcription
// @Summary Upload audio
// @Description Multipart field "file"; the response carries a size advisory for large files
// @Tags Sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "Audio file"
// @Success 200 {object} dto.UploadResponse
// @Failure 404 {object} errors.APIError
// @Failure 413 {object} errors.APIError
// @Failure 422 {object} errors.APIError
// @Router /api/v1/sessions/{id}/audio [post]
func (h *SessionHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("No file uploaded"))
		return
	}

	if !model.IsSupportedFormat(header.Filename) {
		middleware.HandleError(c, errors.NewValidationError("Unsupported file type", map[string]string{
			"file": "must be one of: " + strings.Join(model.SupportedExtensions, ", "),
		}))
		return
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		middleware.HandleError(c, errors.NewTooLargeError(int(h.maxUploadBytes/(1024*1024))))
		return
	}

	file, err := header.Open()
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Failed to read uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Failed to read uploaded file"))
		return
	}

	resp, err := h.service.UploadAudio(c.Request.Context(), c.Param("id"), header.Filename, data)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transcribe sends the held audio to the transcription service
// @Summary Transcribe
// @Description Replaces the transcription and drops any summary
// @Tags Actions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ActionResponse
// @Failure 404 {object} errors.APIError
// @Failure 409 {object} errors.APIError "no audio or service not configured"
// @Failure 502 {object} errors.APIError
// @Router /api/v1/sessions/{id}/transcribe [post]
func (h *SessionHandler) Transcribe(c *gin.Context) {
	resp, err := h.service.Transcribe(c.Request.Context(), c.Param("id"))
	h.respondAction(c, resp, err)
}

// Summarize summarizes the current transcription
// @Summary Summarize
// @Tags Actions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ActionResponse
// @Failure 404 {object} errors.APIError
// @Failure 409 {object} errors.APIError "no transcription or service not configured"
// @Failure 502 {object} errors.APIError
// @Router /api/v1/sessions/{id}/summarize [post]
func (h *SessionHandler) Summarize(c *gin.Context) {
	resp, err := h.service.Summarize(c.Request.Context(), c.Param("id"))
	h.respondAction(c, resp, err)
}

// Resummarize regenerates an existing summary with the current settings
// @Summary Resummarize
// @Tags Actions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ActionResponse
// @Failure 404 {object} errors.APIError
// @Failure 409 {object} errors.APIError "no summary yet"
// @Failure 502 {object} errors.APIError
// @Router /api/v1/sessions/{id}/resummarize [post]
func (h *SessionHandler) Resummarize(c *gin.Context) {
	resp, err := h.service.Resummarize(c.Request.Context(), c.Param("id"))
	h.respondAction(c, resp, err)
}

// Clear drops the transcription and summary, keeping credentials and settings
// @Summary Clear results
// @Tags Actions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} errors.APIError
// @Router /api/v1/sessions/{id}/clear [post]
func (h *SessionHandler) Clear(c *gin.Context) {
	resp, err := h.service.Clear(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Download returns the transcription or summary as a text attachment
// @Summary Download text
// @Tags Exports
// @Produce plain
// @Param id path string true "Session ID"
// @Param kind path string true "transcription or summary"
// @Success 200 {string} string
// @Failure 404 {object} errors.APIError
// @Failure 409 {object} errors.APIError "nothing to download yet"
// @Failure 422 {object} errors.APIError "unknown kind"
// @Router /api/v1/sessions/{id}/download/{kind} [get]
func (h *SessionHandler) Download(c *gin.Context) {
	var req dto.DownloadRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("Invalid download request", map[string]string{
			"kind": "must be one of: transcription summary",
		}))
		return
	}

	download, err := h.service.Download(c.Request.Context(), c.Param("id"), req.Kind)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	sendAttachment(c, download)
}

// Export returns an xlsx report of the session results
// @Summary Export report
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 404 {object} errors.APIError
// @Failure 409 {object} errors.APIError
// @Router /api/v1/sessions/{id}/export [get]
func (h *SessionHandler) Export(c *gin.Context) {
	download, err := h.service.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	sendAttachment(c, download)
}

// Events streams session state as server-sent events. The current state is
// sent first, then one "state" event per change, and a "closed" event when the
// session ends.
// @Summary Stream session state
// @Tags Sessions
// @Produce text/event-stream
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse "one per state event"
// @Failure 404 {object} errors.APIError
// @Router /api/v1/sessions/{id}/events [get]
func (h *SessionHandler) Events(c *gin.Context) {
	sub, err := h.service.Subscribe(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	defer sub.Cancel()

	// The server write timeout bounds ordinary responses, not a stream that
	// lives as long as the page. Recorders without deadline support ignore this.
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("state", dto.NewSessionResponse(sub.Initial))
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-sub.Done:
			c.SSEvent("closed", gin.H{"session_id": sub.Initial.SessionID})
			return false
		case snap := <-sub.Updates:
			c.SSEvent("state", dto.NewSessionResponse(snap))
			return true
		}
	})
}

func (h *SessionHandler) respondAction(c *gin.Context, resp *dto.ActionResponse, err error) {
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func sendAttachment(c *gin.Context, d *dto.Download) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.FileName))
	c.Data(http.StatusOK, d.ContentType, d.Content)
}
