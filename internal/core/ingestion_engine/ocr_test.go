package ingestion_engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/dmpart/internal/core"
)

const garbledSample = "ϭ͘KƉŝƐĚĂŶǇĐŚŽƌĂnjƉŽnjǇƐŬŝǁĂŶŝĞůƵďƉŽŶŽǁŶĞǁǇŬŽƌnjǇƐƚĂŶŝĞŝƐƚŶŝĞũČĐǇĐŚĚĂŶǇĐŚ"

func TestIsGarbled(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"clean english", "DATA MANAGEMENT PLAN\n1. Data description for the project", false},
		{"clean polish", "PLAN ZARZĄDZANIA DANYMI\nOpis danych projektu", false},
		{"mojibake", strings.Repeat(garbledSample, 3), true},
		{"one anchor word only", "Unrelated prose about data only.", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isGarbled(tt.text))
		})
	}
}

func TestIsGarbled_SamplesOnlyPrefix(t *testing.T) {
	clean := "data management plan of the project " + strings.Repeat("x", garbleSampleBytes)
	assert.False(t, isGarbled(clean+strings.Repeat(garbledSample, 50)))

	// Domain words beyond the sample window do not count.
	assert.True(t, isGarbled(strings.Repeat("ą", garbleSampleBytes)+"data management plan project"))
}

func TestTesseractEngine_Unavailable(t *testing.T) {
	ctx := context.Background()

	_, err := NewTesseractEngine(OCRConfig{}, nil).Recognize(ctx, "scan.pdf")
	assert.ErrorIs(t, err, core.ErrOCRUnavailable)

	_, err = NewTesseractEngine(OCRConfig{EnginePath: "/nonexistent/tesseract"}, nil).Recognize(ctx, "scan.pdf")
	assert.ErrorIs(t, err, core.ErrOCRUnavailable)
}

func TestTesseractEngine_Defaults(t *testing.T) {
	e := NewTesseractEngine(OCRConfig{EnginePath: "tesseract"}, nil)
	assert.Equal(t, "pdftoppm", e.RasterizerPath)
	assert.Equal(t, "pol+eng", e.Languages)
	assert.Equal(t, 300, e.DPI)
}

func TestPageIndex(t *testing.T) {
	assert.Equal(t, 7, pageIndex("/tmp/x/page-07.png"))
	assert.Equal(t, 12, pageIndex("page-12.png"))
	require.Less(t, pageIndex("page-2.png"), pageIndex("page-10.png"))
}

// fakeTool writes an executable shell script standing in for pdftoppm or tesseract.
func fakeTool(t *testing.T, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

const fakeRasterizer = `for last; do :; done
for n in 10 2 1; do : > "$last-$n.png"; done
`

func newFakeEngine(t *testing.T, tesseract, rasterizer string) (*TesseractEngine, string) {
	t.Helper()
	tmp := t.TempDir()
	e := NewTesseractEngine(OCRConfig{
		EnginePath:     fakeTool(t, "tesseract", tesseract),
		RasterizerPath: fakeTool(t, "pdftoppm", rasterizer),
	}, nil)
	e.TempDir = tmp
	return e, tmp
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTesseractEngine_RecognizesPagesInOrder(t *testing.T) {
	e, tmp := newFakeEngine(t, `echo "recognized $(basename "$1" .png)"`, fakeRasterizer)
	scan := writeFile(t, "scan.pdf", buildTextPDF("scanned page"))

	pages, err := e.Recognize(context.Background(), scan)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i := range pages {
		pages[i] = strings.TrimSpace(pages[i])
	}
	assert.Equal(t, []string{"recognized page-1", "recognized page-2", "recognized page-10"}, pages)
	assertEmptyDir(t, tmp)
}

func TestTesseractEngine_PageFailureIsFatal(t *testing.T) {
	e, tmp := newFakeEngine(t, `case "$1" in
*-10.png) echo "cannot read image" >&2; exit 1 ;;
esac
echo ok
`, fakeRasterizer)
	scan := writeFile(t, "scan.pdf", buildTextPDF("scanned page"))

	_, err := e.Recognize(context.Background(), scan)
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrOCRUnavailable)
	assert.Contains(t, err.Error(), "ocr page 3")
	assert.Contains(t, err.Error(), "cannot read image")
	assertEmptyDir(t, tmp)
}

func TestTesseractEngine_RasterizerFailureIsUnavailable(t *testing.T) {
	e, tmp := newFakeEngine(t, `echo ok`, `echo "broken pdf" >&2; exit 2
`)
	scan := writeFile(t, "scan.pdf", buildTextPDF("scanned page"))

	_, err := e.Recognize(context.Background(), scan)
	assert.ErrorIs(t, err, core.ErrOCRUnavailable)
	assert.Contains(t, err.Error(), "broken pdf")
	assertEmptyDir(t, tmp)
}

func TestTesseractEngine_UnreadablePDFIsUnavailable(t *testing.T) {
	e, tmp := newFakeEngine(t, `echo ok`, fakeRasterizer)

	_, err := e.Recognize(context.Background(), writeFile(t, "scan.pdf", []byte("%PDF-1.4\nbroken")))
	assert.ErrorIs(t, err, core.ErrOCRUnavailable)
	assertEmptyDir(t, tmp)
}
