package ingestion_engine

import (
	"context"

	"github.com/markdave123-py/dmpart/internal/models"
)

// Ingestor is what request handlers and the CLI depend on.
type Ingestor interface {
	Process(ctx context.Context, path string, report ProgressFunc) Result
	ProcessFile(ctx context.Context, path, originalName string, report ProgressFunc) Result
	Extract(ctx context.Context, path, originalName string, report ProgressFunc) (*models.Artifact, error)
}

// Result is the caller-facing outcome of one run.
type Result struct {
	OK           bool   `json:"ok"`
	CacheID      string `json:"cache_id,omitempty"`
	ErrorKind    Kind   `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func failure(err error) Result {
	return Result{ErrorKind: KindOf(err), ErrorMessage: err.Error()}
}
