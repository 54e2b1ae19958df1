package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	Server    ServerConfig
	Auth      AuthConfig
	LLM       LLMConfig
	Translate TranslateConfig
	TTS       TTSConfig
	Audio     AudioConfig
	Upload    UploadConfig
}

type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"180s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimit       int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
}

// AuthConfig protects /api/v1. With no keys and no secret the API is open.
type AuthConfig struct {
	APIKeyHeader string   `env:"API_KEY_HEADER" envDefault:"X-API-Key"`
	APIKeys      []string `env:"API_KEYS" envSeparator:","`
	JWTSecret    string   `env:"JWT_SECRET"`
}

type LLMConfig struct {
	GoogleAPIKey     string `env:"GOOGLE_API_KEY"`
	GeminiBaseURL    string `env:"GEMINI_BASE_URL"`
	OpenAIKey        string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`
	AnthropicKey     string `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL"`
	OllamaURL        string `env:"OLLAMA_URL"`
	DefaultProvider  string `env:"LLM_DEFAULT_PROVIDER" envDefault:"gemini"`
	// DefaultModel is empty unless set; the default provider then uses its first model.
	DefaultModel     string `env:"LLM_DEFAULT_MODEL"`
}

type TranslateConfig struct {
	Timeout     time.Duration `env:"TRANSLATE_TIMEOUT" envDefault:"60s"`
	ChunkSize   int           `env:"TRANSLATE_CHUNK_SIZE" envDefault:"0"` // characters; 0 sends the text as one request
	Temperature float64       `env:"TRANSLATE_TEMPERATURE" envDefault:"0"`
}

type TTSConfig struct {
	Backend       string        `env:"TTS_BACKEND" envDefault:"gtranslate"` // gtranslate, google, openai or local
	Timeout       time.Duration `env:"TTS_TIMEOUT" envDefault:"60s"`
	GTranslateURL string        `env:"TTS_GTRANSLATE_URL" envDefault:"https://translate.google.com/translate_tts"`
	// GoogleAPIKey falls back to LLM.GoogleAPIKey when empty.
	GoogleAPIKey          string  `env:"TTS_GOOGLE_API_KEY"`
	GoogleCredentialsFile string  `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	GoogleSpeakingRate    float64 `env:"TTS_GOOGLE_SPEAKING_RATE" envDefault:"1.0"`
	OpenAIKey             string  `env:"OPENAI_API_KEY"`
	OpenAIBaseURL         string  `env:"TTS_OPENAI_BASE_URL"`
	OpenAIModel           string  `env:"TTS_OPENAI_MODEL" envDefault:"tts-1"`
	OpenAIVoice           string  `env:"TTS_OPENAI_VOICE" envDefault:"alloy"`
	LocalBinPath          string  `env:"TTS_LOCAL_PIPER_BIN" envDefault:"piper"`
	LocalModel            string  `env:"TTS_LOCAL_PIPER_MODEL"`
}

type AudioConfig struct {
	// Dir holds synthesized clips. Empty means a fresh directory under os.TempDir.
	Dir           string        `env:"AUDIO_DIR"`
	TTL           time.Duration `env:"AUDIO_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"AUDIO_SWEEP_INTERVAL" envDefault:"1m"`
}

type UploadConfig struct {
	MaxBytes int64 `env:"UPLOAD_MAX_BYTES" envDefault:"33554432"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.TTS.GoogleAPIKey == "" {
		cfg.TTS.GoogleAPIKey = cfg.LLM.GoogleAPIKey
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) Validate() error {
	var missing []string

	switch c.LLM.DefaultProvider {
	case "gemini":
		if c.LLM.GoogleAPIKey == "" {
			missing = append(missing, "GOOGLE_API_KEY")
		}
	case "openai":
		if c.LLM.OpenAIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "anthropic":
		if c.LLM.AnthropicKey == "" {
			missing = append(missing, "ANTHROPIC_API_KEY")
		}
	case "ollama":
		if c.LLM.OllamaURL == "" {
			missing = append(missing, "OLLAMA_URL")
		}
	default:
		return fmt.Errorf("unknown LLM_DEFAULT_PROVIDER %q", c.LLM.DefaultProvider)
	}

	switch c.TTS.Backend {
	case "gtranslate":
	case "google":
		if c.TTS.GoogleAPIKey == "" && c.TTS.GoogleCredentialsFile == "" {
			missing = append(missing, "GOOGLE_API_KEY or GOOGLE_APPLICATION_CREDENTIALS")
		}
	case "openai":
		if c.TTS.OpenAIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "local":
		if c.TTS.LocalModel == "" {
			missing = append(missing, "TTS_LOCAL_PIPER_MODEL")
		}
	default:
		return fmt.Errorf("unknown TTS_BACKEND %q", c.TTS.Backend)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if c.Translate.ChunkSize < 0 {
		return fmt.Errorf("TRANSLATE_CHUNK_SIZE must not be negative")
	}
	return nil
}
