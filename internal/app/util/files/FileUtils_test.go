package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageAudio(t *testing.T) {
	dir := t.TempDir()

	staged, err := StageAudio(dir, "meeting.MP3", []byte("ID3 fake audio"))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(staged.Path))
	assert.Equal(t, ".mp3", filepath.Ext(staged.Path))

	content, err := os.ReadFile(staged.Path)
	require.NoError(t, err)
	assert.Equal(t, "ID3 fake audio", string(content))

	count, err := CountStaged(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, staged.Remove())
	require.NoError(t, staged.Remove(), "second remove is a no-op")

	count, err = CountStaged(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStageAudio_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "staging")

	staged, err := StageAudio(dir, "clip", nil)
	require.NoError(t, err)
	defer staged.Remove()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStagedFile_RemoveNil(t *testing.T) {
	var staged *StagedFile
	assert.NoError(t, staged.Remove())
}

func TestExt(t *testing.T) {
	tests := []struct {
		name    string
		withDot bool
		want    string
	}{
		{"talk.WAV", true, ".wav"},
		{"talk.WAV", false, "wav"},
		{"archive.tar.gz", false, "gz"},
		{"noext", false, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Ext(tt.name, tt.withDot), tt.name)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"talk.mp3", "talk.mp3"},
		{"/tmp/uploads/talk.mp3", "talk.mp3"},
		{`C:\Users\me\talk.mp3`, "talk.mp3"},
		{"", "audio"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BaseName(tt.in, "audio"), tt.in)
	}
}
