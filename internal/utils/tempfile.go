package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// defaultAudioExt is used when the upload carries no file extension
const defaultAudioExt = ".webm"

// AudioTempFile holds uploaded audio on disk for the duration of a
// transcription. Names are unique so concurrent uploads never collide, and
// Remove is safe to defer on every exit path.
type AudioTempFile struct {
	Path string
}

// NewAudioTempFile writes audio bytes to a uniquely named temp file whose
// extension matches the uploaded filename (default .webm).
func NewAudioTempFile(audio []byte, filenameHint string) (*AudioTempFile, error) {
	ext := filepath.Ext(filenameHint)
	if ext == "" {
		ext = defaultAudioExt
	}

	path := filepath.Join(os.TempDir(), uuid.NewString()+ext)
	if err := os.WriteFile(path, audio, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write temp audio file: %w", err)
	}
	return &AudioTempFile{Path: path}, nil
}

// Remove deletes the temp file. Removal failures are swallowed so cleanup
// never masks the primary result or error.
func (f *AudioTempFile) Remove() {
	if f == nil || f.Path == "" {
		return
	}
	_ = os.Remove(f.Path)
	f.Path = ""
}
