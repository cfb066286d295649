package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/dmpart/internal/core"
	"github.com/markdave123-py/dmpart/internal/core/ingestion_engine"
	"github.com/markdave123-py/dmpart/internal/logger"
	"github.com/markdave123-py/dmpart/internal/models"
)

// ErrLedgerDisabled is returned by run queries when no database is configured.
var ErrLedgerDisabled = errors.New("run ledger is not configured")

// ArtifactMirror receives finished artifacts; see objectclient.ArtifactMirror.
type ArtifactMirror interface {
	Put(ctx context.Context, cacheID string, data []byte) (string, error)
	Get(ctx context.Context, cacheID string) ([]byte, error)
}

// DocumentService runs the pipeline for callers and handles the optional
// side effects around it: run ledger, artifact mirror, metrics.
//
// ingestor: the extraction pipeline.
// store:    local artifact cache written by the ingestor.
// db:       run ledger; nil disables it.
// mirror:   object storage copy; nil disables it.
// timeout:  watchdog per run; zero means none.
type DocumentService struct {
	ingestor ingestion_engine.Ingestor
	store    core.ArtifactStore
	db       core.DbClient
	mirror   ArtifactMirror
	metrics  *Metrics
	log      logger.Logger
	timeout  time.Duration
}

func NewDocumentService(ing ingestion_engine.Ingestor, store core.ArtifactStore, db core.DbClient, mirror ArtifactMirror, metrics *Metrics, log logger.Logger, timeout time.Duration) *DocumentService {
	if log == nil {
		log = logger.NewNop()
	}
	return &DocumentService{ingestor: ing, store: store, db: db, mirror: mirror, metrics: metrics, log: log, timeout: timeout}
}

// Process runs the pipeline on path. originalName is the name the user knows
// the file by; it feeds the metadata and the ledger.
func (s *DocumentService) Process(ctx context.Context, path, originalName string, report ingestion_engine.ProgressFunc) ingestion_engine.Result {
	if originalName == "" {
		originalName = filepath.Base(path)
	}
	format := formatOf(originalName)
	started := time.Now()

	runID := uuid.NewString()
	ledger := s.db != nil
	if ledger {
		if err := s.db.CreateRun(ctx, &models.Run{ID: runID, FileName: originalName, Status: models.RunProcessing}); err != nil {
			s.metrics.ledgerFailed()
			s.log.Warn("run ledger insert failed", logger.String("run_id", runID), logger.Error(err))
			ledger = false
		}
	}

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	res := s.ingestor.ProcessFile(runCtx, path, originalName, report)

	outcome := "ok"
	if res.OK {
		s.afterStore(ctx, res.CacheID)
	} else {
		outcome = string(res.ErrorKind)
	}
	s.metrics.observeRun(format, outcome, time.Since(started))

	if ledger {
		status := models.RunReady
		if !res.OK {
			status = models.RunFailed
		}
		if err := s.db.FinishRun(ctx, runID, status, res.CacheID, string(res.ErrorKind), res.ErrorMessage); err != nil {
			s.metrics.ledgerFailed()
			s.log.Warn("run ledger update failed", logger.String("run_id", runID), logger.Error(err))
		}
	}
	return res
}

// Preview runs every stage except persistence. Nothing is cached, mirrored
// or recorded.
func (s *DocumentService) Preview(ctx context.Context, path, originalName string, report ingestion_engine.ProgressFunc) (*models.Artifact, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.ingestor.Extract(ctx, path, originalName, report)
}

// afterStore mirrors the committed artifact and records its shape. Nothing
// here can fail the run: the artifact is already in the cache.
func (s *DocumentService) afterStore(ctx context.Context, cacheID string) {
	art, err := s.store.Load(ctx, cacheID)
	if err != nil {
		s.log.Warn("reload stored artifact", logger.String("cache_id", cacheID), logger.Error(err))
	} else {
		s.metrics.observeArtifact(art.Metadata.OCR, placeholderSlots(art))
	}

	if s.mirror == nil {
		return
	}
	raw, err := s.store.Raw(ctx, cacheID)
	if err == nil {
		_, err = s.mirror.Put(ctx, cacheID, raw)
	}
	if err != nil {
		s.metrics.mirrorFailed()
		s.log.Warn("artifact mirror failed", logger.String("cache_id", cacheID), logger.Error(err))
	}
}

// Artifact returns the stored JSON for id, falling back to the mirror when
// the local cache no longer has it.
func (s *DocumentService) Artifact(ctx context.Context, id string) ([]byte, error) {
	raw, err := s.store.Raw(ctx, id)
	if err == nil || s.mirror == nil || !errors.Is(err, core.ErrArtifactNotFound) {
		return raw, err
	}
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		return nil, err
	}
	if raw, mirrorErr := s.mirror.Get(ctx, id); mirrorErr == nil {
		return raw, nil
	}
	return nil, err
}

// Summary loads the decoded artifact.
func (s *DocumentService) Summary(ctx context.Context, id string) (*models.Artifact, error) {
	return s.store.Load(ctx, id)
}

// Runs lists recent ledger entries.
func (s *DocumentService) Runs(ctx context.Context, limit int) ([]models.Run, error) {
	if s.db == nil {
		return nil, ErrLedgerDisabled
	}
	runs, err := s.db.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Run returns one ledger entry, or nil when unknown.
func (s *DocumentService) Run(ctx context.Context, id string) (*models.Run, error) {
	if s.db == nil {
		return nil, ErrLedgerDisabled
	}
	return s.db.GetRun(ctx, id)
}

func formatOf(name string) string {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".docx", ".pdf":
		return ext[1:]
	default:
		return "other"
	}
}

func placeholderSlots(art *models.Artifact) int {
	n := 0
	for _, key := range art.Keys {
		p := art.Slots[key].Paragraphs
		if len(p) == 1 && p[0] == ingestion_engine.Placeholder {
			n++
		}
	}
	return n
}
