package core

import (
	"context"
	"errors"

	"github.com/markdave123-py/dmpart/internal/models"
)

// ErrOCRUnavailable marks OCR failures the pipeline absorbs: the engine binary
// is not configured or missing, or pages could not be rasterized.
var ErrOCRUnavailable = errors.New("ocr unavailable")

// UnitAdapter converts one source file into its ordered unit stream.
// Structural problems with the file are reported as *ingestion_engine.Error
// with kind INVALID_SOURCE; anything else is a plain error.
type UnitAdapter interface {
	Adapt(ctx context.Context, path string) ([]models.Unit, error)
}

// OCREngine rasterizes a printable document and recognizes every page.
// It returns one text per page in page order. Errors wrapping
// ErrOCRUnavailable degrade gracefully; other errors are fatal.
type OCREngine interface {
	Recognize(ctx context.Context, path string) ([]string, error)
}
