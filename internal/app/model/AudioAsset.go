package model

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// AdvisorySizeBytes is the upload size above which the transcription service
// is likely to reject the file. Exceeding it is reported, never enforced.
const AdvisorySizeBytes = 25 * 1024 * 1024

// SupportedExtensions lists the accepted upload formats, without the dot.
var SupportedExtensions = []string{"mp3", "wav", "m4a", "flac", "mp4", "mpeg", "mpga", "webm"}

// IsSupportedFormat reports whether name carries one of SupportedExtensions,
// ignoring case.
func IsSupportedFormat(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return lo.Contains(SupportedExtensions, ext)
}

// AudioAsset is an uploaded audio payload held until the next transcription attempt.
type AudioAsset struct {
	Name string
	Data []byte
}

func NewAudioAsset(name string, data []byte) AudioAsset {
	return AudioAsset{Name: name, Data: data}
}

func (a AudioAsset) Size() int64 {
	return int64(len(a.Data))
}

// SizeMB returns the payload size in mebibytes.
func (a AudioAsset) SizeMB() float64 {
	return float64(a.Size()) / (1024 * 1024)
}

// Advisory returns a warning for oversized payloads, or "" when the size is fine.
func (a AudioAsset) Advisory() string {
	if a.Size() <= AdvisorySizeBytes {
		return ""
	}
	return fmt.Sprintf("file is %.2f MB, larger than 25 MB; the transcription service might reject it", a.SizeMB())
}
