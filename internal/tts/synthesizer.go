package tts

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/nikhilbhutani/linguavox/internal/audio"
	"github.com/nikhilbhutani/linguavox/internal/failure"
	"github.com/nikhilbhutani/linguavox/internal/language"
)

var errNoAudio = errors.New("provider returned no audio")

// Synthesizer renders text through a provider and stores the result.
type Synthesizer struct {
	provider TTSProvider
	store    *audio.Store
	timeout  time.Duration
}

func NewSynthesizer(provider TTSProvider, store *audio.Store, timeout time.Duration) *Synthesizer {
	return &Synthesizer{provider: provider, store: store, timeout: timeout}
}

// Synthesize speaks text in the language code lang. On failure the error is
// a *failure.Error of kind speech and no artifact is left on disk.
func (s *Synthesizer) Synthesize(ctx context.Context, text, lang string) (*audio.Artifact, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req := SynthesisRequest{Input: text, Language: lang, Locale: lang}
	if l, ok := language.ByCode(lang); ok {
		req.Locale = l.Locale
	}

	start := time.Now()
	res, err := s.provider.Synthesize(ctx, req)
	if err != nil {
		return nil, failure.Speech(err)
	}
	if len(res.Audio) == 0 {
		return nil, failure.Speech(errNoAudio)
	}

	artifact, err := s.store.Create(res.Ext, res.ContentType, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(res.Audio))
		return err
	})
	if err != nil {
		return nil, failure.Speech(err)
	}

	slog.Info("speech synthesized",
		"provider", s.provider.Name(),
		"language", lang,
		"artifact", artifact.ID,
		"bytes", artifact.Size,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return artifact, nil
}
