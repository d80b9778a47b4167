package http

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"imageoptimizer/internal/config"
	"imageoptimizer/internal/store"
	"imageoptimizer/internal/upload"
)

type Server struct {
	config        *config.Config
	logger        zerolog.Logger
	uploadHandler *upload.Handler
	store         *store.Store
}

func NewServer(cfg *config.Config, logger zerolog.Logger, uploadHandler *upload.Handler, store *store.Store) *Server {
	return &Server{
		config:        cfg,
		logger:        logger,
		uploadHandler: uploadHandler,
		store:         store,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/healthz", s.HealthCheck)

	// Upload pipeline
	r.Post("/upload", s.uploadHandler.HandleUpload)

	// Processed artifact retrieval
	r.Get("/uploads/{filename}", s.HandleGetArtifact)

	r.Get("/favicon.ico", s.HandleFavicon)

	return r
}

// Middleware

func (s *Server) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("ip", r.RemoteAddr).
			Msg("request")
	})
}

// Handlers

func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HandleGetArtifact serves a previously processed image from the upload
// directory. Staged temp files still in flight share the directory, but they
// are only reachable by their exact uuid name and disappear once the request
// that owns them finishes.
func (s *Server) HandleGetArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")

	path, err := s.store.Path(name)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid file name.")
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		s.writeError(w, http.StatusNotFound, "File not found.")
		return
	}

	http.ServeFile(w, r, path)
}

func (s *Server) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(upload.ErrorResponse{Error: message})
}
