package models

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Origin tells where a unit came from in the source document.
type Origin string

const (
	OriginParagraph Origin = "paragraph"
	OriginTableCell Origin = "table-cell"
)

// Unit is one semantic line of source content.
// Bold and Underlined only live until classification; they are never persisted.
type Unit struct {
	Text       string `json:"text"`
	Bold       bool   `json:"bold,omitempty"`
	Underlined bool   `json:"underlined,omitempty"`
	Origin     Origin `json:"origin"`
}

// Emphasized reports whether the unit carries any formatting flag.
func (u Unit) Emphasized() bool {
	return u.Bold || u.Underlined
}

// TaggedParagraph is a slot paragraph annotated with key-phrase tags.
type TaggedParagraph struct {
	Text  string   `json:"text"`
	Tags  []string `json:"tags"`
	Title *string  `json:"title"`
}

// SlotRecord holds everything extracted for one s.q key.
type SlotRecord struct {
	Section          string            `json:"section"`
	Question         string            `json:"question"`
	Paragraphs       []string          `json:"paragraphs"`
	TaggedParagraphs []TaggedParagraph `json:"tagged_paragraphs"`
}

// UnconnectedItem is body content that could not be placed in any slot.
type UnconnectedItem struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// Metadata is the best-effort document description stored under _metadata.
// Empty fields are omitted; nothing here is ever guessed.
type Metadata struct {
	FilenameOriginal    string `json:"filename_original"`
	ResearcherSurname   string `json:"researcher_surname,omitempty"`
	ResearcherFirstname string `json:"researcher_firstname,omitempty"`
	ResearcherInitial   string `json:"researcher_initial,omitempty"` // set when only an initial is known
	CompetitionName     string `json:"competition_name,omitempty"`
	CompetitionEdition  string `json:"competition_edition,omitempty"`
	CreationDate        string `json:"creation_date"`
	SourceFormat        string `json:"source_format,omitempty"`
	ExtractionMethod    string `json:"extraction_method,omitempty"`
	OCR                 string `json:"ocr,omitempty"`
	RegionFallback      bool   `json:"region_fallback,omitempty"`
	UnitCount           int    `json:"unit_count"`
}

// Run is one pipeline invocation as recorded by the ledger.
type Run struct {
	ID           string    `db:"id" json:"id"`
	FileName     string    `db:"file_name" json:"file_name"`
	Status       string    `db:"status" json:"status"` // processing | ready | failed
	CacheID      string    `db:"cache_id" json:"cache_id,omitempty"`
	ErrorKind    string    `db:"error_kind" json:"error_kind,omitempty"`
	ErrorMessage string    `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const (
	RunProcessing = "processing"
	RunReady      = "ready"
	RunFailed     = "failed"
)

// SuggestedName builds the review file stem, e.g. DMP_Kowalski_J_OPUS_29_091025.
// Parts that were not extracted are left out; without a surname the original
// file name stands in.
func (m Metadata) SuggestedName() string {
	parts := []string{"DMP"}
	if m.ResearcherSurname != "" {
		parts = append(parts, m.ResearcherSurname)
		if r := []rune(m.ResearcherFirstname); len(r) > 0 {
			parts = append(parts, string(r[0]))
		} else if m.ResearcherInitial != "" {
			parts = append(parts, m.ResearcherInitial)
		}
	} else if base := strings.TrimSuffix(m.FilenameOriginal, filepath.Ext(m.FilenameOriginal)); base != "" {
		parts = append(parts, base)
	}
	if m.CompetitionName != "" {
		parts = append(parts, strings.ReplaceAll(m.CompetitionName, " ", "_"))
		if m.CompetitionEdition != "" {
			parts = append(parts, m.CompetitionEdition)
		}
	}
	if d, err := time.Parse("2006-01-02", m.CreationDate); err == nil {
		parts = append(parts, d.Format("020106"))
	}
	return unsafeNameChars.ReplaceAllString(strings.Join(parts, "_"), "_")
}

var unsafeNameChars = regexp.MustCompile(`[\\/*?:"<>| ]`)
