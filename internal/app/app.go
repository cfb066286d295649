package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/markdave123-py/dmpart/internal/config"
	"github.com/markdave123-py/dmpart/internal/core"
	artifactstore "github.com/markdave123-py/dmpart/internal/core/artifact_store"
	db "github.com/markdave123-py/dmpart/internal/core/database"
	"github.com/markdave123-py/dmpart/internal/core/ingestion_engine"
	objectclient "github.com/markdave123-py/dmpart/internal/core/object-client"
	"github.com/markdave123-py/dmpart/internal/core/schema"
	"github.com/markdave123-py/dmpart/internal/logger"
	"github.com/markdave123-py/dmpart/internal/services"
)

// App holds every long-lived component of the service.
type App struct {
	Schema    *schema.Schema
	Store     *artifactstore.LocalStore
	DBClient  core.DbClient
	Ingestor  ingestion_engine.Ingestor
	Documents *services.DocumentService
	Registry  *prometheus.Registry
	Server    *Server
	log       logger.Logger
}

// NewApp wires the pipeline and its optional ledger and mirror. A configured
// but unreachable database or bucket is a startup error.
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	LogConfigWarnings(cfg, log)
	s, err := schema.Load(cfg.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	store, err := artifactstore.NewLocalStore(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	a := &App{Schema: s, Store: store, log: log}

	if cfg.DatabaseURL != "" {
		a.DBClient, err = db.NewDatabaseClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info("run ledger ready")
	}

	var mirror services.ArtifactMirror
	if cfg.BucketName != "" {
		s3, err := objectclient.NewS3Client(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		if mirror, err = objectclient.NewArtifactMirror(s3, cfg.BucketName); err != nil {
			a.Close()
			return nil, err
		}
		log.Info("artifact mirror ready", logger.String("bucket", cfg.BucketName))
	}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics(a.Registry)

	a.Ingestor = NewIngestor(cfg, s, store, log)
	a.Documents = services.NewDocumentService(a.Ingestor, store, a.DBClient, mirror, metrics, log, cfg.ProcessTimeout)
	a.Server = NewServer(cfg, a.Documents, s, a.Registry, log)

	log.Info("pipeline ready",
		logger.String("cache_dir", store.Dir()),
		logger.Bool("ocr", cfg.OCREnginePath != ""),
		logger.Bool("ledger", a.DBClient != nil),
		logger.Bool("mirror", mirror != nil),
	)
	return a, nil
}

// NewIngestor builds the pipeline from configuration; the CLI uses it too.
func NewIngestor(cfg *config.Config, s *schema.Schema, store core.ArtifactStore, log logger.Logger) *ingestion_engine.DocumentIngestor {
	return ingestion_engine.NewDocumentIngestor(s, store, log, &ingestion_engine.IngestConfig{
		MaxFileSize: cfg.MaxUploadBytes,
		OCR: ingestion_engine.OCRConfig{
			EnginePath:     cfg.OCREnginePath,
			RasterizerPath: cfg.OCRRasterizerPath,
			Languages:      cfg.OCRLanguages,
			DPI:            cfg.OCRDPI,
		},
	})
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}

// LogConfigWarnings reports env values that LoadConfig replaced with defaults.
func LogConfigWarnings(cfg *config.Config, log logger.Logger) {
	for _, w := range cfg.Warnings {
		log.Warn("config value ignored", logger.String("detail", w))
	}
}
