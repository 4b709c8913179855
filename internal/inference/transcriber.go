package inference

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"mindlog/internal/config"
)

// Transcriber converts recorded audio to text. A recording with no detectable
// speech yields an empty string, not an error.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// WhisperClient transcribes audio via the OpenAI Whisper API
type WhisperClient struct {
	client *openai.Client
	model  string
	log    *logrus.Logger
}

// NewWhisperClient initializes a Whisper transcription client
func NewWhisperClient(cfg *config.Config, log *logrus.Logger) (*WhisperClient, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for transcription")
	}
	return &WhisperClient{
		client: openai.NewClient(cfg.OpenAIKey),
		model:  cfg.WhisperModel,
		log:    log,
	}, nil
}

// Transcribe runs speech-to-text on the audio file at path
func (w *WhisperClient) Transcribe(ctx context.Context, path string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: path,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	w.log.Debugf("Transcribed %d characters", len(text))
	return text, nil
}
