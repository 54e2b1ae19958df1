package tts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

// GoogleTTSConfig holds configuration for Google Cloud Text-to-Speech.
// APIKey wins over CredentialsFile; with neither, application default
// credentials are used.
type GoogleTTSConfig struct {
	APIKey          string
	CredentialsFile string
	SpeakingRate    float64
}

type speechClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	Close() error
}

type GoogleTTS struct {
	client       speechClient
	speakingRate float64
}

func NewGoogleTTS(ctx context.Context, cfg GoogleTTSConfig) (*GoogleTTS, error) {
	var opts []option.ClientOption
	switch {
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google tts client: %w", err)
	}
	return &GoogleTTS{client: client, speakingRate: cfg.SpeakingRate}, nil
}

func (g *GoogleTTS) Name() string { return "google" }

func (g *GoogleTTS) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	locale := req.Locale
	if locale == "" {
		locale = req.Language
	}

	audioCfg := &texttospeechpb.AudioConfig{
		AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		SpeakingRate:  g.speakingRate,
	}
	if req.Speed > 0 {
		audioCfg.SpeakingRate = req.Speed
	}

	started := time.Now()
	resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: req.Input},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: locale,
			Name:         req.Voice,
		},
		AudioConfig: audioCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("google tts: %w", err)
	}
	if len(resp.GetAudioContent()) == 0 {
		return nil, fmt.Errorf("google tts: empty audio content")
	}

	slog.Debug("google tts synthesize completed", "locale", locale, "took", time.Since(started).String())
	return mp3(resp.GetAudioContent()), nil
}

func (g *GoogleTTS) Close() error {
	return g.client.Close()
}
