package tts

import (
	"context"
	"fmt"

	"github.com/nikhilbhutani/linguavox/internal/config"
)

// NewProvider builds the backend named by cfg.Backend.
func NewProvider(ctx context.Context, cfg config.TTSConfig) (TTSProvider, error) {
	switch cfg.Backend {
	case "", "gtranslate":
		return NewGTranslateTTS(cfg.GTranslateURL), nil
	case "google":
		return NewGoogleTTS(ctx, GoogleTTSConfig{
			APIKey:          cfg.GoogleAPIKey,
			CredentialsFile: cfg.GoogleCredentialsFile,
			SpeakingRate:    cfg.GoogleSpeakingRate,
		})
	case "openai":
		return NewOpenAITTS(OpenAITTSConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Voice:   cfg.OpenAIVoice,
		}), nil
	case "local":
		return NewLocalTTS(LocalTTSConfig{
			PiperBinPath: cfg.LocalBinPath,
			ModelPath:    cfg.LocalModel,
		}), nil
	default:
		return nil, fmt.Errorf("unknown tts backend %q", cfg.Backend)
	}
}
