package ingestion_engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/markdave123-py/dmpart/internal/core"
	"github.com/markdave123-py/dmpart/internal/logger"
)

const (
	garbleSampleBytes = 5 * 1024
	garbleMinRunes    = 100
	garbleASCIIRatio  = 0.5
	garbleMinAnchors  = 2
)

var garbleAnchorWords = []string{"data", "plan", "management", "project", "danych", "projektu"}

// isGarbled decides whether a text layer is unusable and OCR should replace it.
// Only the first 5 KiB are inspected.
func isGarbled(text string) bool {
	sample := text
	if len(sample) > garbleSampleBytes {
		sample = sample[:garbleSampleBytes]
		for len(sample) > 0 && !utf8.ValidString(sample) {
			sample = sample[:len(sample)-1]
		}
	}

	total, ascii := 0, 0
	for _, r := range sample {
		total++
		if r >= 32 && r <= 126 {
			ascii++
		}
	}
	if total > garbleMinRunes && float64(ascii)/float64(total) < garbleASCIIRatio {
		return true
	}

	lower := strings.ToLower(sample)
	found := 0
	for _, w := range garbleAnchorWords {
		if strings.Contains(lower, w) {
			found++
		}
	}
	return found < garbleMinAnchors
}

var _ core.OCREngine = (*TesseractEngine)(nil)

// TesseractEngine rasterizes pages with pdftoppm and recognizes them with the
// tesseract CLI. Images live in a per-call temp dir removed on every path.
type TesseractEngine struct {
	EnginePath     string
	RasterizerPath string
	Languages      string
	DPI            int
	TempDir        string

	log logger.Logger
}

func NewTesseractEngine(cfg OCRConfig, log logger.Logger) *TesseractEngine {
	if log == nil {
		log = logger.NewNop()
	}
	e := &TesseractEngine{
		EnginePath:     cfg.EnginePath,
		RasterizerPath: cfg.RasterizerPath,
		Languages:      cfg.Languages,
		DPI:            cfg.DPI,
		log:            log,
	}
	if e.RasterizerPath == "" {
		e.RasterizerPath = "pdftoppm"
	}
	if e.Languages == "" {
		e.Languages = "pol+eng"
	}
	if e.DPI <= 0 {
		e.DPI = 300
	}
	return e
}

// Recognize returns one recognized text per rasterized page.
func (e *TesseractEngine) Recognize(ctx context.Context, path string) ([]string, error) {
	if e.EnginePath == "" {
		return nil, fmt.Errorf("%w: OCR_ENGINE_PATH not set", core.ErrOCRUnavailable)
	}
	engine, err := exec.LookPath(e.EnginePath)
	if err != nil {
		return nil, fmt.Errorf("%w: engine %q: %v", core.ErrOCRUnavailable, e.EnginePath, err)
	}
	rasterizer, err := exec.LookPath(e.RasterizerPath)
	if err != nil {
		return nil, fmt.Errorf("%w: rasterizer %q: %v", core.ErrOCRUnavailable, e.RasterizerPath, err)
	}

	pages, err := pageCount(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrOCRUnavailable, err)
	}

	dir, err := os.MkdirTemp(e.TempDir, "dmp-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("%w: temp dir: %v", core.ErrOCRUnavailable, err)
	}
	defer os.RemoveAll(dir)

	images, err := e.rasterize(ctx, rasterizer, path, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrOCRUnavailable, err)
	}
	if len(images) != pages {
		e.log.Warn("rasterized page count differs from page tree",
			logger.Int("pages", pages),
			logger.Int("images", len(images)),
		)
	}

	out := make([]string, 0, len(images))
	for i, img := range images {
		text, err := e.recognize(ctx, engine, img)
		if err != nil {
			return nil, fmt.Errorf("ocr page %d: %w", i+1, err)
		}
		out = append(out, text)
	}
	return out, nil
}

func (e *TesseractEngine) rasterize(ctx context.Context, bin, path, dir string) ([]string, error) {
	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, bin, "-r", strconv.Itoa(e.DPI), "-png", path, prefix)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rasterize: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	images, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("rasterize: no page images produced")
	}
	sort.Slice(images, func(i, j int) bool { return pageIndex(images[i]) < pageIndex(images[j]) })
	return images, nil
}

func (e *TesseractEngine) recognize(ctx context.Context, bin, img string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, img, "stdout", "-l", e.Languages)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// pageIndex parses the numeric suffix pdftoppm appends ("page-07.png" -> 7).
func pageIndex(name string) int {
	base := strings.TrimSuffix(filepath.Base(name), ".png")
	_, num, _ := strings.Cut(base, "-")
	n, _ := strconv.Atoi(num)
	return n
}

func pageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read: %w", err)
	}
	return ctx.PageCount, nil
}
