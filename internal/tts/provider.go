// Package tts converts translated text into audio artifacts.
package tts

import "context"

// SynthesisRequest holds the parameters for text-to-speech generation.
type SynthesisRequest struct {
	Input    string  `json:"input"`
	Language string  `json:"language"`         // short code, e.g. "fr"
	Locale   string  `json:"locale,omitempty"` // BCP-47, e.g. "fr-FR"
	Voice    string  `json:"voice,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
}

// SynthesisResult holds the generated audio and its content type.
type SynthesisResult struct {
	Audio       []byte
	ContentType string // "audio/mpeg" or "audio/wav" (Piper)
	Ext         string // file extension including the dot
}

// TTSProvider is the interface for text-to-speech backends.
type TTSProvider interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error)
	Name() string
}

func mp3(audio []byte) *SynthesisResult {
	return &SynthesisResult{Audio: audio, ContentType: "audio/mpeg", Ext: ".mp3"}
}
