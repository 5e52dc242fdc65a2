// Package voice provides speech-to-text and text-to-speech through the
// OpenAI audio APIs. It is an optional collaborator: when no API key is
// configured the rest of the system runs without it.
package voice

import (
	"context"
	"fmt"
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// Default voice for speech synthesis.
const DefaultVoice = "alloy"

// Voices lists the supported TTS voices.
var Voices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

// Manager wraps the transcription and speech synthesis backends.
type Manager struct {
	client *openai.Client
}

func New(apiKey string) (*Manager, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found")
	}
	return &Manager{client: openai.NewClient(apiKey)}, nil
}

// Transcribe converts recorded audio to text. The audio is staged in a
// temporary file that is removed on every exit path.
func (m *Manager) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	tmp, err := os.CreateTemp("", "medquery-audio-*."+format)
	if err != nil {
		return "", fmt.Errorf("staging audio: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return "", fmt.Errorf("staging audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("staging audio: %w", err)
	}

	resp, err := m.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: tmp.Name(),
		Language: "en",
	})
	if err != nil {
		return "", fmt.Errorf("transcription error: %w", err)
	}
	return resp.Text, nil
}

// Speak converts text to spoken audio bytes.
func (m *Manager) Speak(ctx context.Context, text, voiceName string) ([]byte, error) {
	if voiceName == "" {
		voiceName = DefaultVoice
	}
	resp, err := m.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Input: text,
		Voice: openai.SpeechVoice(voiceName),
	})
	if err != nil {
		return nil, fmt.Errorf("text-to-speech error: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("text-to-speech error: %w", err)
	}
	return audio, nil
}

// SaveAudio writes synthesized audio to a file.
func (m *Manager) SaveAudio(audio []byte, path string) error {
	return os.WriteFile(path, audio, 0o644)
}
