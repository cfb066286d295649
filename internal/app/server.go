package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/markdave123-py/dmpart/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/dmpart/internal/api/middlewares"
	"github.com/markdave123-py/dmpart/internal/config"
	"github.com/markdave123-py/dmpart/internal/core/schema"
	"github.com/markdave123-py/dmpart/internal/logger"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, docs handlers.DocumentService, s *schema.Schema, reg *prometheus.Registry, log logger.Logger) *Server {
	docHandler := handlers.NewDocumentHandler(docs, cfg, log)
	schemaHandler := handlers.NewSchemaHandler(s)

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           newRouter(cfg, docHandler, schemaHandler, reg, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

func newRouter(cfg *config.Config, docHandler *handlers.DocumentHandler, schemaHandler *handlers.SchemaHandler, reg *prometheus.Registry, log logger.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(appMiddleware.RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Route("/api", func(api chi.Router) {
		// Processing runs synchronously; the pipeline timeout bounds it.
		api.Post("/documents/upload", docHandler.UploadDocument)

		api.Group(func(read chi.Router) {
			read.Use(middleware.Timeout(30 * time.Second))
			read.Get("/artifacts/{id}", docHandler.GetArtifact)
			read.Get("/runs", docHandler.GetRuns)
			read.Get("/runs/{id}", docHandler.GetRun)
			read.Get("/schema", schemaHandler.GetSchema)
		})
	})
	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", logger.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
