package ingestion_engine

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/dmpart/internal/core"
	artifactstore "github.com/markdave123-py/dmpart/internal/core/artifact_store"
	"github.com/markdave123-py/dmpart/internal/core/schema"
	"github.com/markdave123-py/dmpart/internal/models"
)

// createTestDocx builds a minimal docx archive around body XML.
func createTestDocx(content string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes := `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`
	f, _ := w.Create("[Content_Types].xml")
	_, _ = f.Write([]byte(contentTypes))

	rels := `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`
	f, _ = w.Create("_rels/.rels")
	_, _ = f.Write([]byte(rels))

	document := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>` + content + `</w:body>
</w:document>`
	f, _ = w.Create("word/document.xml")
	_, _ = f.Write([]byte(document))

	_ = w.Close()
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func esc(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func para(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + esc(text) + `</w:t></w:r></w:p>`
}

func boldPara(text string) string {
	return `<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>` + esc(text) + `</w:t></w:r></w:p>`
}

// row renders one table row with a single paragraph per cell.
func row(cells ...string) string {
	var b strings.Builder
	b.WriteString("<w:tr>")
	for _, c := range cells {
		b.WriteString("<w:tc>" + para(c) + "</w:tc>")
	}
	b.WriteString("</w:tr>")
	return b.String()
}

func table(rows ...string) string {
	return "<w:tbl>" + strings.Join(rows, "") + "</w:tbl>"
}

func paragraphs(texts ...string) string {
	var b strings.Builder
	for _, t := range texts {
		b.WriteString(para(t))
	}
	return b.String()
}

// stubAdapter returns fixed units, standing in for a real format adapter.
type stubAdapter struct {
	units []models.Unit
	err   error
}

func (s stubAdapter) Adapt(context.Context, string) ([]models.Unit, error) {
	return s.units, s.err
}

func textUnits(texts ...string) []models.Unit {
	units := make([]models.Unit, len(texts))
	for i, t := range texts {
		units[i] = models.Unit{Text: t, Origin: models.OriginParagraph}
	}
	return units
}

type fakeOCR struct {
	pages []string
	err   error
	calls int
}

func (f *fakeOCR) Recognize(context.Context, string) ([]string, error) {
	f.calls++
	return f.pages, f.err
}

var fixedNow = func() time.Time { return time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC) }

func newTestIngestor(t *testing.T, opts ...Option) (*DocumentIngestor, *artifactstore.LocalStore) {
	t.Helper()
	store, err := artifactstore.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return NewDocumentIngestor(schema.Default(), store, nil, &IngestConfig{Now: fixedNow}, opts...), store
}

// canonicalUnits renders the whole default schema in English with one
// BODY-s.q line after every question.
func canonicalUnits(polish, colons bool) []string {
	out := []string{"DATA MANAGEMENT PLAN"}
	suffix := ""
	if colons {
		suffix = ":"
	}
	for _, sec := range schema.Default().Sections {
		title := sec.Title
		if polish {
			title = sec.ID + ". " + sec.TitlePL
		}
		out = append(out, title+suffix)
		for _, q := range sec.Questions {
			text := q.Text
			if polish {
				text = q.TextPL
			}
			out = append(out, text+suffix, "BODY-"+q.Key)
		}
	}
	return append(out, "ADMINISTRATIVE DECLARATIONS")
}

var _ core.UnitAdapter = stubAdapter{}
