package api

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/uiguide/internal/config"
	"github.com/dgallion1/uiguide/internal/llm"
	"github.com/dgallion1/uiguide/internal/pipeline"
)

// maxRequestBytes bounds JSON request bodies.
const maxRequestBytes = 1 << 20

// Server is the HTTP API server for the guide gateway.
type Server struct {
	router    chi.Router
	generator *pipeline.Generator
	llm       *llm.Instrumented
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server. llmClient may be nil, in
// which case the stats endpoint reports unavailable.
func NewServer(gen *pipeline.Generator, llmClient *llm.Instrumented, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		generator: gen,
		llm:       llmClient,
		log:       log,
		cfg:       cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.WebDir))))

	r.Group(func(r chi.Router) {
		if s.cfg.GatewayAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.GatewayAPIKey, s.log))
		}

		r.Post("/figma/file", s.handleFigmaFile)
		r.Post("/figma/file/filtered", s.handleFigmaFiltered)
		r.Post("/guide/generate", s.handleGenerate)
		r.Post("/guide/export", s.handleExport)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.cfg.WebDir, "index.html"))
}
