// Package app assembles the translation pipeline from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nikhilbhutani/linguavox/internal/audio"
	"github.com/nikhilbhutani/linguavox/internal/config"
	"github.com/nikhilbhutani/linguavox/internal/document"
	"github.com/nikhilbhutani/linguavox/internal/llm"
	"github.com/nikhilbhutani/linguavox/internal/pipeline"
	"github.com/nikhilbhutani/linguavox/internal/translate"
	"github.com/nikhilbhutani/linguavox/internal/tts"
)

type App struct {
	Pipeline *pipeline.Pipeline
	Store    *audio.Store
	Gateway  llm.Gateway
	Speech   tts.TTSProvider
}

func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	gw, err := llm.NewGateway(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	speech, err := tts.NewProvider(ctx, cfg.TTS)
	if err != nil {
		return nil, err
	}

	store, err := audio.NewStore(cfg.Audio.Dir, cfg.Audio.TTL)
	if err != nil {
		closeProvider(speech)
		return nil, err
	}

	p := pipeline.New(
		document.NewTextExtractor(cfg.Upload.MaxBytes),
		translate.NewClient(gw, cfg.Translate),
		tts.NewSynthesizer(speech, store, cfg.TTS.Timeout),
	)

	return &App{
		Pipeline: p,
		Store:    store,
		Gateway:  gw,
		Speech:   speech,
	}, nil
}

// Close releases the speech client and removes stored audio.
func (a *App) Close() error {
	return errors.Join(closeProvider(a.Speech), a.Store.Close())
}

func closeProvider(p tts.TTSProvider) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
