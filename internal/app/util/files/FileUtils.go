package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "voice-transcriber/internal/app/errors"
)

// StagePrefix marks transient copies written by StageAudio.
const StagePrefix = "vtp-stage-"

// StagedFile is a transient on-disk copy of an upload.
type StagedFile struct {
	Path string
}

// Remove deletes the staged copy. Removing an already removed file is not an error.
func (s *StagedFile) Remove() error {
	if s == nil || s.Path == "" {
		return nil
	}
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// EnsureDirectory creates dir when it does not exist yet.
func EnsureDirectory(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// StageAudio writes data to a new file under dir (os.TempDir when empty).
// On error nothing is left behind.
func StageAudio(dir, name string, data []byte) (*StagedFile, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := EnsureDirectory(dir); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(dir, StagePrefix+"*"+Ext(name, true))
	if err != nil {
		return nil, apperrors.Wrapf(err, "create staging file in %s", dir)
	}
	staged := &StagedFile{Path: f.Name()}

	if _, err := f.Write(data); err != nil {
		f.Close()
		staged.Remove()
		return nil, apperrors.Wrapf(apperrors.ErrFileWriteFailed, "stage %s: %v", name, err)
	}
	if err := f.Close(); err != nil {
		staged.Remove()
		return nil, apperrors.Wrapf(apperrors.ErrFileWriteFailed, "stage %s: %v", name, err)
	}
	return staged, nil
}

// CountStaged reports how many staged copies currently exist under dir.
func CountStaged(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, StagePrefix+"*"))
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// Ext returns the lower-cased extension of name, with or without the leading dot.
func Ext(name string, withDot bool) string {
	ext := strings.ToLower(filepath.Ext(name))
	if withDot {
		return ext
	}
	return strings.TrimPrefix(ext, ".")
}

// BaseName strips directories from an uploaded file name; "" becomes fallback.
func BaseName(name, fallback string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return fallback
	}
	return name
}
