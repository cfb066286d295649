package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/dmpart/internal/core/ingestion_engine"
)

// DefaultBatchWorkers bounds concurrent pipeline runs in a batch.
const DefaultBatchWorkers = 4

// Processor is the single-file entry point a batch fans out to.
type Processor interface {
	Process(ctx context.Context, path, originalName string, report ingestion_engine.ProgressFunc) ingestion_engine.Result
}

// BatchItem is the outcome for one file of a batch.
type BatchItem struct {
	Path   string
	Result ingestion_engine.Result
}

// BatchService runs a directory of documents through a Processor. Every file
// is an independent run; one failure never stops the others.
type BatchService struct {
	proc    Processor
	workers int
}

func NewBatchService(proc Processor, workers int) *BatchService {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	return &BatchService{proc: proc, workers: workers}
}

// Inputs lists the .docx and .pdf files directly inside dir, sorted by name.
func Inputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".docx", ".pdf":
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// ProcessDir processes every input of dir. Results come back in input order;
// done, when set, is called as each file finishes and must be safe for
// concurrent use.
func (b *BatchService) ProcessDir(ctx context.Context, dir string, done func(BatchItem)) ([]BatchItem, error) {
	paths, err := Inputs(dir)
	if err != nil {
		return nil, err
	}
	return b.ProcessFiles(ctx, paths, done)
}

func (b *BatchService) ProcessFiles(ctx context.Context, paths []string, done func(BatchItem)) ([]BatchItem, error) {
	items := make([]BatchItem, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item := BatchItem{Path: p, Result: b.proc.Process(gctx, p, filepath.Base(p), nil)}
			items[i] = item
			if done != nil {
				done(item)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, nil
}
