package ingestion_engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/markdave123-py/dmpart/internal/core"
	artifactstore "github.com/markdave123-py/dmpart/internal/core/artifact_store"
	"github.com/markdave123-py/dmpart/internal/core/schema"
	"github.com/markdave123-py/dmpart/internal/logger"
	"github.com/markdave123-py/dmpart/internal/models"
)

var _ Ingestor = (*DocumentIngestor)(nil)

const (
	formatDocx = "docx"
	formatPDF  = "pdf"

	methodTextLayer = "text_layer"
	methodOCR       = "ocr"

	ocrUsed        = "used"
	ocrUnavailable = "unavailable"
)

// NewDocumentIngestor wires the pipeline. A nil schema means the built-in one.
func NewDocumentIngestor(s *schema.Schema, store core.ArtifactStore, log logger.Logger, cfg *IngestConfig, opts ...Option) *DocumentIngestor {
	if s == nil {
		s = schema.Default()
	}
	if log == nil {
		log = logger.NewNop()
	}
	if cfg == nil {
		cfg = &IngestConfig{}
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	i := &DocumentIngestor{
		schema:     s,
		classifier: newClassifier(s),
		tagger:     newTagger(schema.Taxonomy()),
		docx:       NewDocxAdapter(cfg.MaxFileSize),
		pdf:        NewPDFAdapter(cfg.MaxFileSize, log),
		store:      store,
		log:        log,
		cfg:        cfg,
	}
	if cfg.OCR.EnginePath != "" {
		i.ocr = NewTesseractEngine(cfg.OCR, log)
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Process runs the whole pipeline on path and stores the artifact in cacheDir.
// OCR is enabled when OCR_ENGINE_PATH names a tesseract binary.
func Process(ctx context.Context, path, cacheDir string, report ProgressFunc) Result {
	store, err := artifactstore.NewLocalStore(cacheDir)
	if err != nil {
		return failure(internalError(err))
	}
	cfg := &IngestConfig{OCR: OCRConfig{EnginePath: os.Getenv("OCR_ENGINE_PATH")}}
	return NewDocumentIngestor(schema.Default(), store, nil, cfg).Process(ctx, path, report)
}

func (i *DocumentIngestor) Process(ctx context.Context, path string, report ProgressFunc) Result {
	return i.ProcessFile(ctx, path, filepath.Base(path), report)
}

// ProcessFile is Process with the name the user uploaded the file under,
// which feeds filename_original and the filename metadata fallbacks.
func (i *DocumentIngestor) ProcessFile(ctx context.Context, path, originalName string, report ProgressFunc) Result {
	started := time.Now()
	prog := newProgress(report)

	art, err := i.extract(ctx, path, originalName, prog)
	if err == nil {
		prog.report("saving artifact", stageSaving)
		var id string
		if id, err = i.store.Save(ctx, art); err == nil {
			prog.report("done", stageDone)
			i.log.Info("artifact stored",
				logger.String("file", originalName),
				logger.String("cache_id", id),
				logger.Int("unit_count", art.Metadata.UnitCount),
				logger.Duration("took", time.Since(started)),
			)
			return Result{OK: true, CacheID: id}
		}
		err = internalError(fmt.Errorf("save artifact: %w", err))
	}

	res := failure(err)
	i.log.Info("pipeline failed",
		logger.String("file", originalName),
		logger.String("error_kind", string(res.ErrorKind)),
		logger.String("error_message", res.ErrorMessage),
	)
	return res
}

// Extract runs every stage except persistence.
func (i *DocumentIngestor) Extract(ctx context.Context, path, originalName string, report ProgressFunc) (*models.Artifact, error) {
	return i.extract(ctx, path, originalName, newProgress(report))
}

func (i *DocumentIngestor) extract(ctx context.Context, path, originalName string, prog *progress) (art *models.Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			art, err = nil, internalError(fmt.Errorf("pipeline panic: %v", r))
		}
	}()
	if originalName == "" {
		originalName = filepath.Base(path)
	}

	prog.report("validating input", stageValidating)
	format, adapter, err := i.adapterFor(path)
	if err != nil {
		return nil, err
	}

	prog.report("extracting text", stageExtracting)
	units, err := adapter.Adapt(ctx, path)
	if err != nil {
		return nil, internalError(err)
	}
	i.log.Debug("units extracted", logger.String("format", format), logger.Int("units", len(units)))

	method, ocrState := methodTextLayer, ""
	if format == formatPDF {
		prog.report("checking text layer", stageOCR)
		if units, method, ocrState, err = i.ocrFallback(ctx, path, units); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, internalError(err)
	}

	prog.report("locating DMP region", stageLocating)
	reg, found := locateRegion(units)
	if !found {
		if ocrState != ocrUnavailable {
			return nil, noRegion()
		}
		// Unreadable scan without OCR: emit placeholders rather than fail.
		i.log.Warn("no DMP region in degraded text layer", logger.String("file", originalName))
	}

	prog.report("filtering noise", stageFiltering)
	body := filterNoise(reg.units)

	prog.report("assigning content", stageAssigning)
	asg := newAssigner(i.schema, i.classifier).run(body)

	prog.report("building artifact", stageBuilding)
	md := extractMetadata(units, originalName)
	md.CreationDate = i.cfg.Now().Format("2006-01-02")
	md.SourceFormat = format
	md.ExtractionMethod = method
	md.OCR = ocrState
	md.RegionFallback = reg.fallback
	md.UnitCount = len(units)

	return buildArtifact(i.schema, i.tagger, asg, md), nil
}

func (i *DocumentIngestor) adapterFor(path string) (string, core.UnitAdapter, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".docx":
		return formatDocx, i.docx, nil
	case ".pdf":
		return formatPDF, i.pdf, nil
	default:
		return "", nil, invalidSource("unsupported format %q: expected .docx or .pdf", ext)
	}
}

// ocrFallback replaces a garbled text layer with OCR output. Missing tools
// degrade to the original units; a recognition failure is fatal.
func (i *DocumentIngestor) ocrFallback(ctx context.Context, path string, units []models.Unit) ([]models.Unit, string, string, error) {
	texts := make([]string, len(units))
	for n, u := range units {
		texts[n] = u.Text
	}
	if !isGarbled(strings.Join(texts, "\n")) {
		return units, methodTextLayer, "", nil
	}

	if i.ocr == nil {
		i.log.Warn("text layer garbled and OCR is not configured", logger.String("path", path))
		return units, methodTextLayer, ocrUnavailable, nil
	}
	i.log.Warn("text layer garbled, running OCR", logger.String("path", path))
	pages, err := i.ocr.Recognize(ctx, path)
	if errors.Is(err, core.ErrOCRUnavailable) {
		i.log.Warn("OCR unavailable", logger.String("path", path), logger.Error(err))
		return units, methodTextLayer, ocrUnavailable, nil
	}
	if err != nil {
		return nil, "", "", internalError(fmt.Errorf("ocr: %w", err))
	}
	return linesToUnits(strings.Join(pages, "\n")), methodOCR, ocrUsed, nil
}
