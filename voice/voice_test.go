package voice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("New() with empty key succeeded, want error")
	}
	if _, err := New("test-key"); err != nil {
		t.Fatalf("New() with key error = %v", err)
	}
}

// testManager points the client at a stub transcription server and confines
// temp files to a fresh directory so leftovers are observable.
func testManager(t *testing.T, handler http.HandlerFunc) (*Manager, string) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"

	tmpDir := t.TempDir()
	t.Setenv("TMPDIR", tmpDir)

	return &Manager{client: openai.NewClientWithConfig(cfg)}, tmpDir
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp audio file left behind: %v", entries)
	}
}

func TestTranscribe(t *testing.T) {
	m, tmpDir := testManager(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"what is the average qol score"}`))
	})

	text, err := m.Transcribe(context.Background(), []byte("fake-audio"), "wav")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "what is the average qol score" {
		t.Errorf("Transcribe() = %q", text)
	}
	assertNoTempFiles(t, tmpDir)
}

func TestTranscribeBackendFailureCleansUp(t *testing.T) {
	m, tmpDir := testManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"backend down"}}`))
	})

	if _, err := m.Transcribe(context.Background(), []byte("fake-audio"), "wav"); err == nil {
		t.Fatal("Transcribe() succeeded against a failing backend, want error")
	}
	assertNoTempFiles(t, tmpDir)
}

func TestSpeak(t *testing.T) {
	m, _ := testManager(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/speech") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte("mp3-bytes"))
	})

	audio, err := m.Speak(context.Background(), "The average QoL score is 56.", "")
	if err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("Speak() = %q", audio)
	}
}

func TestSaveAudio(t *testing.T) {
	m, err := New("test-key")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "answer.mp3")
	if err := m.SaveAudio([]byte("audio-bytes"), path); err != nil {
		t.Fatalf("SaveAudio() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "audio-bytes" {
		t.Errorf("saved audio = %q", data)
	}
}
