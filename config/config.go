// Package config loads session configuration from the environment and an
// optional .env file, and sets up logging.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/enliten/medquery/llm"
)

// Config holds everything resolved at session start. A missing key for the
// selected generation provider is fatal; a missing OpenAI key when Gemini is
// selected only disables voice features.
type Config struct {
	Provider   string
	GeminiKeys *llm.KeyRing
	OpenAIKey  string
	DataDir    string
	LogLevel   string
	TTSVoice   string
}

// Load reads the .env file if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Provider:   getenv("LLM_PROVIDER", llm.ProviderGemini),
		GeminiKeys: llm.KeysFromEnv("GEMINI_API_KEY"),
		OpenAIKey:  os.Getenv("OPENAI_API_KEY"),
		DataDir:    getenv("DATA_DIR", "data"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		TTSVoice:   getenv("TTS_VOICE", "alloy"),
	}

	switch cfg.Provider {
	case llm.ProviderGemini:
		if cfg.GeminiKeys.Len() == 0 {
			return nil, fmt.Errorf("GEMINI_API_KEY not set for provider %q", cfg.Provider)
		}
	case llm.ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set for provider %q", cfg.Provider)
		}
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}

	return cfg, nil
}

// VoiceEnabled reports whether the speech backends can be used.
func (c *Config) VoiceEnabled() bool {
	return c.OpenAIKey != ""
}

// SetupLogging configures a logger at the requested level, defaulting to
// info on an unknown level name.
func SetupLogging(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
