package ingestion_engine

import (
	"regexp"
	"strings"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/markdave123-py/dmpart/internal/core/schema"
	"github.com/markdave123-py/dmpart/internal/models"
)

// Placeholder fills every slot nothing was assigned to.
const Placeholder = "Not answered in the source document."

const maxTitleRunes = 100

var sentenceEnd = regexp.MustCompile(`[.!?]\s`)

// tagger finds key-phrase tags with a single Aho-Corasick pass per paragraph.
type tagger struct {
	matcher  *ahocorasick.Matcher
	keywords []string
	kwToTags map[string][]int
	names    []string
}

func newTagger(tags []schema.Tag) *tagger {
	t := &tagger{kwToTags: make(map[string][]int)}
	for i, tag := range tags {
		t.names = append(t.names, tag.Name)
		for _, kw := range tag.Keywords {
			kw = strings.ToLower(kw)
			if kw == "" {
				continue
			}
			if _, ok := t.kwToTags[kw]; !ok {
				t.keywords = append(t.keywords, kw)
			}
			t.kwToTags[kw] = append(t.kwToTags[kw], i)
		}
	}
	if len(t.keywords) > 0 {
		t.matcher = ahocorasick.NewStringMatcher(t.keywords)
	}
	return t
}

// tags returns matching tag names in taxonomy order; never nil.
func (t *tagger) tags(text string) []string {
	out := []string{}
	if t.matcher == nil {
		return out
	}
	hit := make([]bool, len(t.names))
	for _, idx := range t.matcher.Match([]byte(strings.ToLower(text))) {
		if idx >= len(t.keywords) {
			continue
		}
		for _, tagIdx := range t.kwToTags[t.keywords[idx]] {
			hit[tagIdx] = true
		}
	}
	for i, ok := range hit {
		if ok {
			out = append(out, t.names[i])
		}
	}
	return out
}

// firstSentence returns the text up to the first sentence terminator
// followed by whitespace, or nil when that sentence is over 100 runes.
func firstSentence(text string) *string {
	s := strings.TrimSpace(text)
	if loc := sentenceEnd.FindStringIndex(s); loc != nil {
		s = s[:loc[0]+1]
	}
	if s == "" || utf8.RuneCountInString(s) > maxTitleRunes {
		return nil
	}
	return &s
}

// buildArtifact turns the assignment into the canonical 14-slot artifact.
func buildArtifact(s *schema.Schema, tg *tagger, asg assignment, md models.Metadata) *models.Artifact {
	art := &models.Artifact{
		Keys:        s.Keys(),
		Slots:       make(map[string]models.SlotRecord, len(s.Keys())),
		Unconnected: asg.orphans,
		Metadata:    md,
	}
	if art.Unconnected == nil {
		art.Unconnected = []models.UnconnectedItem{}
	}
	for _, key := range art.Keys {
		q, sec, _ := s.Question(key)
		rec := models.SlotRecord{Section: sec.Title, Question: q.Text}
		paragraphs := asg.slots[key]
		if len(paragraphs) == 0 {
			rec.Paragraphs = []string{Placeholder}
			rec.TaggedParagraphs = []models.TaggedParagraph{{Text: Placeholder, Tags: []string{}}}
		} else {
			rec.Paragraphs = append([]string(nil), paragraphs...)
			rec.TaggedParagraphs = make([]models.TaggedParagraph, len(paragraphs))
			for i, p := range paragraphs {
				rec.TaggedParagraphs[i] = models.TaggedParagraph{Text: p, Tags: tg.tags(p), Title: firstSentence(p)}
			}
		}
		art.Slots[key] = rec
	}
	return art
}
