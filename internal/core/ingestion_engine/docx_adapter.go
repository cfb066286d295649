package ingestion_engine

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/markdave123-py/dmpart/internal/core"
	"github.com/markdave123-py/dmpart/internal/models"
)

const (
	wordNS           = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	docxMainPart     = "word/document.xml"
	docxContentTypes = "[Content_Types].xml"
)

var _ core.UnitAdapter = (*DocxAdapter)(nil)

// DocxAdapter turns a word-processing archive into paragraph and table-cell units.
type DocxAdapter struct {
	maxSize int64
}

func NewDocxAdapter(maxSize int64) *DocxAdapter {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &DocxAdapter{maxSize: maxSize}
}

// Adapt validates the archive and walks word/document.xml in document order.
func (a *DocxAdapter) Adapt(ctx context.Context, path string) ([]models.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	zr, err := a.open(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var main *zip.File
	for _, f := range zr.File {
		if f.Name == docxMainPart {
			main = f
			break
		}
	}
	rc, err := main.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", docxMainPart, err)
	}
	defer rc.Close()

	units, err := walkDocument(rc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", docxMainPart, err)
	}
	return units, nil
}

// open runs the structural checks and returns the opened archive.
func (a *DocxAdapter) open(path string) (*zip.ReadCloser, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, invalidSource("file not found: %s", path)
	}
	if err != nil {
		return nil, invalidSource("cannot access file: %v", err)
	}
	if info.IsDir() {
		return nil, invalidSource("path is a directory: %s", path)
	}
	if info.Size() == 0 {
		return nil, invalidSource("file is empty")
	}
	if info.Size() > a.maxSize {
		return nil, invalidSource("file too large: %d bytes (limit %d)", info.Size(), a.maxSize)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, invalidSource("not a valid docx archive: %v", err)
	}
	var hasMain, hasTypes bool
	for _, f := range zr.File {
		switch f.Name {
		case docxMainPart:
			hasMain = true
		case docxContentTypes:
			hasTypes = true
		}
	}
	switch {
	case !hasMain:
		zr.Close()
		return nil, invalidSource("invalid docx: missing %s", docxMainPart)
	case !hasTypes:
		zr.Close()
		return nil, invalidSource("invalid docx: missing %s", docxContentTypes)
	}
	return zr, nil
}

type paragraphState struct {
	text       strings.Builder
	bold       bool
	underlined bool
}

type cellState struct {
	paragraphs []string
	bold       bool
	underlined bool
}

// docxWalker keeps the token-walk state. Paragraphs may nest (text boxes) and
// tables may nest inside cells, so both are stacks.
type docxWalker struct {
	units []models.Unit

	paras []*paragraphState
	cells []*cellState

	inRun      bool
	inRunProps bool
	inText     bool
	runBold    bool
	runUnder   bool
	runHasText bool
}

func walkDocument(r io.Reader) ([]models.Unit, error) {
	dec := xml.NewDecoder(r)
	w := &docxWalker{}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == wordNS {
				w.start(t)
			}
		case xml.EndElement:
			if t.Name.Space == wordNS {
				w.end(t.Name.Local)
			}
		case xml.CharData:
			if w.inText && len(w.paras) > 0 {
				w.paras[len(w.paras)-1].text.Write(t)
				if strings.TrimSpace(string(t)) != "" {
					w.runHasText = true
				}
			}
		}
	}
	return w.units, nil
}

func (w *docxWalker) start(t xml.StartElement) {
	switch t.Name.Local {
	case "p":
		w.paras = append(w.paras, &paragraphState{})
	case "tc":
		w.cells = append(w.cells, &cellState{})
	case "tbl":
		// Outer-cell text before a nested table precedes the inner cells.
		if len(w.cells) > 0 {
			w.flushCell(w.cells[len(w.cells)-1])
		}
	case "r":
		w.inRun, w.runBold, w.runUnder, w.runHasText = true, false, false, false
	case "rPr":
		w.inRunProps = w.inRun
	case "b":
		if w.inRunProps {
			w.runBold = toggleOn(attr(t, "val"))
		}
	case "u":
		if w.inRunProps {
			v := attr(t, "val")
			w.runUnder = v != "none" && toggleOn(v)
		}
	case "t":
		w.inText = w.inRun
	case "tab", "br", "cr":
		if w.inRun && len(w.paras) > 0 {
			w.paras[len(w.paras)-1].text.WriteByte(' ')
		}
	}
}

func (w *docxWalker) end(local string) {
	switch local {
	case "t":
		w.inText = false
	case "rPr":
		w.inRunProps = false
	case "r":
		if w.runHasText && len(w.paras) > 0 {
			p := w.paras[len(w.paras)-1]
			p.bold = p.bold || w.runBold
			p.underlined = p.underlined || w.runUnder
		}
		w.inRun = false
	case "p":
		if len(w.paras) == 0 {
			return
		}
		p := w.paras[len(w.paras)-1]
		w.paras = w.paras[:len(w.paras)-1]
		text := cleanMarkup(p.text.String())
		if text == "" {
			return
		}
		if len(w.cells) > 0 {
			c := w.cells[len(w.cells)-1]
			c.paragraphs = append(c.paragraphs, text)
			c.bold = c.bold || p.bold
			c.underlined = c.underlined || p.underlined
			return
		}
		w.units = append(w.units, models.Unit{
			Text: text, Bold: p.bold, Underlined: p.underlined, Origin: models.OriginParagraph,
		})
	case "tc":
		if len(w.cells) == 0 {
			return
		}
		c := w.cells[len(w.cells)-1]
		w.cells = w.cells[:len(w.cells)-1]
		w.flushCell(c)
	}
}

// flushCell emits the paragraphs buffered so far as one table-cell unit.
func (w *docxWalker) flushCell(c *cellState) {
	text := strings.TrimSpace(strings.Join(c.paragraphs, "\n"))
	if text != "" {
		w.units = append(w.units, models.Unit{
			Text: text, Bold: c.bold, Underlined: c.underlined, Origin: models.OriginTableCell,
		})
	}
	*c = cellState{}
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// toggleOn reads an OOXML on/off value; an absent value means on.
func toggleOn(v string) bool {
	switch strings.ToLower(v) {
	case "0", "false", "off":
		return false
	}
	return true
}

var (
	underlineMarkup = regexp.MustCompile(`\[([^\]]*)\]\{\.underline\}`)
	boldStars       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnderscores = regexp.MustCompile(`__([^_]+)__`)
	markSpan        = regexp.MustCompile(`\{\.mark\}`)
	tableBorder     = regexp.MustCompile(`\+[=\-+]{2,}\+`)
	edgePipes       = regexp.MustCompile(`^\s*\|+|\|+\s*$`)
	inlineSpace     = regexp.MustCompile(`[ \t\x{00A0}]+`)
)

// cleanMarkup strips conversion artifacts and normalizes spacing and NFC form.
func cleanMarkup(s string) string {
	s = norm.NFC.String(s)
	s = underlineMarkup.ReplaceAllString(s, "$1")
	s = boldStars.ReplaceAllString(s, "$1")
	s = boldUnderscores.ReplaceAllString(s, "$1")
	s = markSpan.ReplaceAllString(s, "")
	s = tableBorder.ReplaceAllString(s, "")
	s = edgePipes.ReplaceAllString(s, "")
	s = inlineSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
