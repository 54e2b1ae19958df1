package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/nikhilbhutani/linguavox/internal/config"
)

type gateway struct {
	providers       map[string]Provider
	defaultProvider string
	defaultModel    string
}

// NewGateway registers every provider that has credentials in cfg.
func NewGateway(ctx context.Context, cfg config.LLMConfig) (Gateway, error) {
	g := &gateway{
		providers:       make(map[string]Provider),
		defaultProvider: cfg.DefaultProvider,
		defaultModel:    cfg.DefaultModel,
	}

	if cfg.GoogleAPIKey != "" {
		p, err := NewGeminiProvider(ctx, cfg.GoogleAPIKey, cfg.GeminiBaseURL)
		if err != nil {
			return nil, fmt.Errorf("init gemini provider: %w", err)
		}
		g.providers[p.Name()] = p
	}
	if cfg.OpenAIKey != "" {
		p := NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL)
		g.providers[p.Name()] = p
	}
	if cfg.AnthropicKey != "" {
		p := NewAnthropicProvider(cfg.AnthropicKey, cfg.AnthropicBaseURL)
		g.providers[p.Name()] = p
	}
	if cfg.OllamaURL != "" {
		p := NewOllamaProvider(cfg.OllamaURL)
		g.providers[p.Name()] = p
	}

	return g, nil
}

// NewGatewayWithProviders builds a gateway over an explicit provider set.
func NewGatewayWithProviders(defaultProvider, defaultModel string, providers ...Provider) Gateway {
	g := &gateway{
		providers:       make(map[string]Provider, len(providers)),
		defaultProvider: defaultProvider,
		defaultModel:    defaultModel,
	}
	for _, p := range providers {
		g.providers[p.Name()] = p
	}
	return g
}

func (g *gateway) Provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

func (g *gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	providerName := req.Provider
	if providerName == "" {
		providerName = g.defaultProvider
	}

	p, err := g.Provider(providerName)
	if err != nil {
		return nil, err
	}

	if req.Model == "" {
		req.Model = g.modelFor(p)
	}

	resp, err := p.ChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}

	slog.Debug("llm call completed",
		"provider", resp.Provider,
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"cost_usd", resp.CostUSD,
		"latency_ms", resp.LatencyMs,
	)
	return resp, nil
}

func (g *gateway) modelFor(p Provider) string {
	if p.Name() == g.defaultProvider && g.defaultModel != "" {
		return g.defaultModel
	}
	if models := p.Models(); len(models) > 0 {
		return models[0]
	}
	return ""
}

func (g *gateway) ListModels() []ModelInfo {
	names := make([]string, 0, len(g.providers))
	for name := range g.providers {
		names = append(names, name)
	}
	sort.Strings(names)

	var models []ModelInfo
	for _, name := range names {
		p := g.providers[name]
		def := g.modelFor(p)
		seen := false
		for _, m := range p.Models() {
			seen = seen || m == def
			models = append(models, ModelInfo{Provider: name, Model: m, Default: m == def})
		}
		if !seen && def != "" {
			models = append(models, ModelInfo{Provider: name, Model: def, Default: true})
		}
	}
	return models
}
