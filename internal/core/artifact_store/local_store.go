// Package artifactstore keeps finished artifacts as cache_<id>.json files.
// Ids are random UUIDs, so concurrent writers never collide.
package artifactstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/markdave123-py/dmpart/internal/core"
	"github.com/markdave123-py/dmpart/internal/models"
)

var _ core.ArtifactStore = (*LocalStore)(nil)

type LocalStore struct {
	dir   string
	newID func() string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &LocalStore{dir: filepath.Clean(dir), newID: uuid.NewString}, nil
}

// Dir is the cache directory.
func (s *LocalStore) Dir() string { return s.dir }

// Path returns the file an id is stored in.
func (s *LocalStore) Path(id string) string {
	return filepath.Join(s.dir, "cache_"+id+".json")
}

// Save writes the artifact to a temp file and renames it into place, so a
// crash never leaves a partial entry under a valid id.
func (s *LocalStore) Save(ctx context.Context, artifact *models.Artifact) (string, error) {
	if artifact == nil {
		return "", errors.New("nil artifact")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := Encode(artifact)
	if err != nil {
		return "", err
	}

	id := s.newID()
	tmp, err := os.CreateTemp(s.dir, ".cache_*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, s.Path(id)); err != nil {
		return "", fmt.Errorf("commit artifact: %w", err)
	}
	return id, nil
}

func (s *LocalStore) Raw(ctx context.Context, id string) ([]byte, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", core.ErrArtifactNotFound, id)
	}
	data, err := os.ReadFile(s.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", core.ErrArtifactNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", id, err)
	}
	return data, nil
}

func (s *LocalStore) Load(ctx context.Context, id string) (*models.Artifact, error) {
	data, err := s.Raw(ctx, id)
	if err != nil {
		return nil, err
	}
	var art models.Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", id, err)
	}
	return &art, nil
}

// Encode renders an artifact as indented UTF-8 JSON without HTML escaping.
func Encode(artifact *models.Artifact) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(artifact); err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return buf.Bytes(), nil
}
