package ingestion_engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/markdave123-py/dmpart/internal/core"
	"github.com/markdave123-py/dmpart/internal/logger"
	"github.com/markdave123-py/dmpart/internal/models"
)

var _ core.UnitAdapter = (*PDFAdapter)(nil)

// PDFAdapter reads the text layer of a printable document, one unit per line.
// Formatting is never inferred on this path.
type PDFAdapter struct {
	maxSize int64
	log     logger.Logger

	// extractors run in order until one returns text; overridable in tests.
	extractors []textExtractor
}

type textExtractor struct {
	name string
	run  func(path string) (string, error)
}

func NewPDFAdapter(maxSize int64, log logger.Logger) *PDFAdapter {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &PDFAdapter{
		maxSize: maxSize,
		log:     log,
		extractors: []textExtractor{
			{name: "pdf", run: extractPages},
			{name: "docconv", run: extractDocconv},
		},
	}
}

func (a *PDFAdapter) Adapt(ctx context.Context, path string) ([]models.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.validate(path); err != nil {
		return nil, err
	}

	var errs []string
	for _, ex := range a.extractors {
		text, err := ex.run(path)
		if err != nil {
			a.log.Warn("text layer extraction failed",
				logger.String("extractor", ex.name),
				logger.String("path", path),
				logger.Error(err),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", ex.name, err))
			continue
		}
		return linesToUnits(text), nil
	}
	return nil, fmt.Errorf("extract pdf text: %s", strings.Join(errs, "; "))
}

func (a *PDFAdapter) validate(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return invalidSource("file not found: %s", path)
	}
	if err != nil {
		return invalidSource("cannot access file: %v", err)
	}
	if info.IsDir() {
		return invalidSource("path is a directory: %s", path)
	}
	if info.Size() == 0 {
		return invalidSource("file is empty")
	}
	if info.Size() > a.maxSize {
		return invalidSource("file too large: %d bytes (limit %d)", info.Size(), a.maxSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return invalidSource("cannot open file: %v", err)
	}
	defer f.Close()
	head := make([]byte, 5)
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, []byte("%PDF-")) {
		return invalidSource("not a PDF document: missing %%PDF- header")
	}
	return nil
}

// extractPages reads every page's plain text and joins pages with newlines.
// The parser panics on some malformed streams; that is reported as an error.
func extractPages(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		s, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, s)
	}
	return strings.Join(pages, "\n"), nil
}

// extractDocconv is the fallback text layer reader (pdftotext under the hood).
func extractDocconv(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	res, err := docconv.Convert(f, "application/pdf", false)
	if err != nil {
		return "", fmt.Errorf("docconv: %w", err)
	}
	return res.Body, nil
}

// linesToUnits splits extracted text into one unit per non-empty line.
func linesToUnits(text string) []models.Unit {
	var units []models.Unit
	for _, line := range strings.Split(text, "\n") {
		if line = cleanLine(line); line == "" {
			continue
		}
		units = append(units, models.Unit{Text: line, Origin: models.OriginParagraph})
	}
	return units
}

func cleanLine(s string) string {
	return strings.TrimSpace(inlineSpace.ReplaceAllString(norm.NFC.String(strings.TrimRight(s, "\r")), " "))
}
