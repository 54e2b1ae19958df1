// Package translate turns text into a target language through the LLM gateway.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nikhilbhutani/linguavox/internal/config"
	"github.com/nikhilbhutani/linguavox/internal/failure"
	"github.com/nikhilbhutani/linguavox/internal/llm"
	"github.com/nikhilbhutani/linguavox/pkg/chunker"
	"github.com/nikhilbhutani/linguavox/pkg/tokenizer"
)

const promptTemplate = "Translate the following text into %s. Provide only the translated response:\n\n%s"

var errEmptyResponse = errors.New("model returned an empty response")

type Client struct {
	gw          llm.Gateway
	provider    string
	model       string
	timeout     time.Duration
	chunkSize   int
	temperature float64
}

type Option func(*Client)

// WithProvider pins the provider and model instead of the gateway defaults.
func WithProvider(provider, model string) Option {
	return func(c *Client) {
		c.provider = provider
		c.model = model
	}
}

func NewClient(gw llm.Gateway, cfg config.TranslateConfig, opts ...Option) *Client {
	c := &Client{
		gw:          gw,
		timeout:     cfg.Timeout,
		chunkSize:   cfg.ChunkSize,
		temperature: cfg.Temperature,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildPrompt renders the single-turn instruction sent to the model.
// target is a language code such as "fr".
func BuildPrompt(text, target string) string {
	return fmt.Sprintf(promptTemplate, target, text)
}

// Translate returns the trimmed translation of text into the language code
// target. Every failure is a *failure.Error of kind translation.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	chunks := chunker.Split(text, c.chunkSize)
	if len(chunks) == 0 {
		return "", failure.Translation(errors.New("no text to translate"))
	}

	slog.Info("translating",
		"target", target,
		"chunks", len(chunks),
		"estimated_tokens", tokenizer.CountTokens(text),
	)

	if len(chunks) == 1 {
		out, err := c.translateOne(ctx, chunks[0].Content, target)
		if err != nil {
			return "", failure.Translation(err)
		}
		return out, nil
	}

	translated := make([]string, len(chunks))
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk.Content) == "" {
			translated[i] = chunk.Content
			continue
		}
		out, err := c.translateOne(ctx, chunk.Content, target)
		if err != nil {
			return "", failure.Translation(fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err))
		}
		translated[i] = out
	}
	return strings.TrimSpace(chunker.Join(chunks, translated)), nil
}

func (c *Client) translateOne(ctx context.Context, text, target string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.gw.Chat(ctx, llm.ChatRequest{
		Provider:    c.provider,
		Model:       c.model,
		Messages:    []llm.Message{{Role: "user", Content: BuildPrompt(text, target)}},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}

	out := strings.TrimSpace(resp.Content)
	if out == "" {
		return "", errEmptyResponse
	}

	slog.Info("translation completed",
		"provider", resp.Provider,
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"cost_usd", resp.CostUSD,
		"latency_ms", resp.LatencyMs,
	)
	return out, nil
}
