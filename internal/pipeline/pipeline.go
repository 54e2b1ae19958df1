// Package pipeline runs extraction, translation and speech synthesis in order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nikhilbhutani/linguavox/internal/audio"
	"github.com/nikhilbhutani/linguavox/internal/document"
	"github.com/nikhilbhutani/linguavox/internal/failure"
	"github.com/nikhilbhutani/linguavox/internal/language"
	"github.com/nikhilbhutani/linguavox/pkg/textextract"
)

type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) (*audio.Artifact, error)
}

// Source is the user input. File takes precedence over Text when set.
type Source struct {
	Text string
	File *document.Upload
}

type Result struct {
	SourceText     string
	TranslatedText string
	Language       language.Language
	Audio          *audio.Artifact
}

type Pipeline struct {
	extractor   document.TextExtractor
	translator  Translator
	synthesizer Synthesizer
}

func New(extractor document.TextExtractor, translator Translator, synthesizer Synthesizer) *Pipeline {
	return &Pipeline{
		extractor:   extractor,
		translator:  translator,
		synthesizer: synthesizer,
	}
}

// Extract returns the text of an upload. Errors are *failure.Error of kind
// unsupported_format, input (too large) or extraction.
func (p *Pipeline) Extract(ctx context.Context, upload document.Upload) (*textextract.ExtractedText, error) {
	result, err := p.extractor.Extract(ctx, upload)
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, document.ErrUnsupportedFormat):
		return nil, failure.UnsupportedFormat(err)
	case errors.Is(err, document.ErrTooLarge):
		return nil, &failure.Error{Kind: failure.KindInput, Err: err}
	default:
		return nil, failure.Extraction(err)
	}
}

// Run translates the source into the language with the given display name
// and speaks the result. Nothing remote is called unless the language is
// known and the source yields non-blank text. A translation failure stops
// the run before synthesis.
func (p *Pipeline) Run(ctx context.Context, src Source, languageName string) (*Result, error) {
	lang, ok := language.Lookup(languageName)
	if !ok {
		return nil, failure.Input(fmt.Sprintf("Unsupported language %q.", languageName))
	}

	text := src.Text
	if src.File != nil {
		extracted, err := p.Extract(ctx, *src.File)
		if err != nil {
			return nil, err
		}
		text = extracted.Content
	}

	if strings.TrimSpace(text) == "" {
		return nil, failure.Input(failure.EmptyTextMessage)
	}

	start := time.Now()
	translated, err := p.translator.Translate(ctx, text, lang.Code)
	if err != nil {
		return nil, failure.Translation(err)
	}

	artifact, err := p.synthesizer.Synthesize(ctx, translated, lang.Code)
	if err != nil {
		return nil, failure.Speech(err)
	}

	slog.Info("pipeline completed",
		"language", lang.Code,
		"source_chars", len(text),
		"translated_chars", len(translated),
		"audio", artifact.ID,
		"duration", time.Since(start),
	)

	return &Result{
		SourceText:     text,
		TranslatedText: translated,
		Language:       lang,
		Audio:          artifact,
	}, nil
}
