package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/linguavox/internal/api/handlers"
	"github.com/nikhilbhutani/linguavox/internal/api/middleware"
	"github.com/nikhilbhutani/linguavox/internal/audio"
	"github.com/nikhilbhutani/linguavox/internal/auth"
	"github.com/nikhilbhutani/linguavox/internal/config"
	"github.com/nikhilbhutani/linguavox/internal/llm"
)

type Router struct {
	mux      *chi.Mux
	cfg      *config.Config
	pipeline handlers.Pipeline
	store    *audio.Store
	llmGW    llm.Gateway
}

func NewRouter(cfg *config.Config, p handlers.Pipeline, store *audio.Store, gw llm.Gateway) *Router {
	return &Router{
		mux:      chi.NewRouter(),
		cfg:      cfg,
		pipeline: p,
		store:    store,
		llmGW:    gw,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.CORSOrigins))
	r.Use(middleware.RateLimit(rt.cfg.Server.RateLimit))

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(map[string]handlers.ReadinessCheck{
		"audio_dir": rt.store.CheckWritable,
	})
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	maxBytes := rt.cfg.Upload.MaxBytes

	r.Route("/api/v1", func(r chi.Router) {
		for _, mw := range auth.Middleware(rt.cfg.Auth) {
			r.Use(mw)
		}

		r.Get("/languages", handlers.Languages)
		r.Get("/models", handlers.NewLLMHandler(rt.llmGW).Models)

		docH := handlers.NewDocumentHandler(rt.pipeline, maxBytes)
		r.Post("/extract", docH.Extract)

		translateH := handlers.NewTranslateHandler(rt.pipeline, maxBytes)
		r.Post("/translate", translateH.Translate)

		audioH := handlers.NewAudioHandler(rt.store)
		r.Route("/audio/{id}", func(r chi.Router) {
			r.Get("/", audioH.Play)
			r.Get("/download", audioH.Download)
		})
	})

	return r
}
