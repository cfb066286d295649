package core

import (
	"context"
	"errors"

	"github.com/markdave123-py/dmpart/internal/models"
)

// ErrArtifactNotFound is returned by ArtifactStore.Load for unknown ids.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore is the content-addressed cache the pipeline writes into.
// Entries are immutable once saved.
type ArtifactStore interface {
	Save(ctx context.Context, artifact *models.Artifact) (id string, err error)
	Load(ctx context.Context, id string) (*models.Artifact, error)
	Raw(ctx context.Context, id string) ([]byte, error)
}

// DbClient records pipeline runs. It abstracts Postgres so higher layers never
// depend on a specific DB.
type DbClient interface {
	CreateRun(ctx context.Context, run *models.Run) error
	FinishRun(ctx context.Context, id, status, cacheID, errorKind, errorMessage string) error
	GetRun(ctx context.Context, id string) (*models.Run, error)
	ListRuns(ctx context.Context, limit int) ([]models.Run, error)

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
}
