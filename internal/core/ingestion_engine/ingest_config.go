package ingestion_engine

import (
	"time"

	"github.com/markdave123-py/dmpart/internal/core"
	"github.com/markdave123-py/dmpart/internal/core/schema"
	"github.com/markdave123-py/dmpart/internal/logger"
)

// DefaultMaxFileSize is the input cap for both formats (16 MiB).
const DefaultMaxFileSize int64 = 16 << 20

// OCRConfig locates the external OCR tools.
//
// EnginePath:     tesseract binary; empty disables OCR.
// RasterizerPath: pdftoppm binary used to render pages.
// Languages:      tesseract language packs, e.g. "pol+eng".
// DPI:            rasterization resolution.
type OCRConfig struct {
	EnginePath     string
	RasterizerPath string
	Languages      string
	DPI            int
}

// IngestConfig tunes a DocumentIngestor.
//
// MaxFileSize: inputs above this size are rejected as INVALID_SOURCE.
// Now:         clock used for creation_date; defaults to time.Now.
type IngestConfig struct {
	MaxFileSize int64
	OCR         OCRConfig
	Now         func() time.Time
}

// DocumentIngestor runs the extraction pipeline. Everything it holds is
// read-only, so one instance can serve concurrent runs.
//
// schema:     canonical slots and lexicon.
// classifier: boundary tests precomputed from the schema.
// tagger:     key-phrase matcher for the result builder.
// docx, pdf:  format adapters.
// ocr:        optional OCR engine; nil means OCR is unavailable.
// store:      artifact cache.
type DocumentIngestor struct {
	schema     *schema.Schema
	classifier *classifier
	tagger     *tagger
	docx       core.UnitAdapter
	pdf        core.UnitAdapter
	ocr        core.OCREngine
	store      core.ArtifactStore
	log        logger.Logger
	cfg        *IngestConfig
}

// Option customizes a DocumentIngestor.
type Option func(*DocumentIngestor)

// WithAdapters replaces the format adapters; nil keeps the default.
func WithAdapters(docx, pdf core.UnitAdapter) Option {
	return func(i *DocumentIngestor) {
		if docx != nil {
			i.docx = docx
		}
		if pdf != nil {
			i.pdf = pdf
		}
	}
}

// WithOCREngine sets the engine used when a text layer is garbled.
func WithOCREngine(e core.OCREngine) Option {
	return func(i *DocumentIngestor) { i.ocr = e }
}
