package objectclient

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/markdave123-py/dmpart/internal/core"
)

const (
	artifactPrefix      = "artifacts"
	artifactContentType = "application/json; charset=utf-8"
)

// ArtifactMirror copies committed artifacts to a bucket. The local cache
// stays authoritative; the mirror only ever receives finished files.
type ArtifactMirror struct {
	client core.ObjectClient
	bucket string
}

func NewArtifactMirror(client core.ObjectClient, bucket string) (*ArtifactMirror, error) {
	if client == nil {
		return nil, errors.New("object client is nil")
	}
	if bucket == "" {
		return nil, errors.New("BUCKET_NAME not set")
	}
	return &ArtifactMirror{client: client, bucket: bucket}, nil
}

// ArtifactKey is the object key for a cache id.
func ArtifactKey(cacheID string) string {
	return path.Join(artifactPrefix, cacheID+".json")
}

// Put uploads the encoded artifact and returns the object URL.
func (m *ArtifactMirror) Put(ctx context.Context, cacheID string, data []byte) (string, error) {
	if cacheID == "" {
		return "", errors.New("empty cache id")
	}
	url, err := m.client.UploadFile(ctx, m.bucket, ArtifactKey(cacheID), data, artifactContentType)
	if err != nil {
		return "", fmt.Errorf("mirror %s: %w", cacheID, err)
	}
	return url, nil
}

// Get fetches a mirrored artifact.
func (m *ArtifactMirror) Get(ctx context.Context, cacheID string) ([]byte, error) {
	return m.client.GetFile(ctx, m.bucket, ArtifactKey(cacheID))
}
