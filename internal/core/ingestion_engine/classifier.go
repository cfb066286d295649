package ingestion_engine

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/markdave123-py/dmpart/internal/core/schema"
	"github.com/markdave123-py/dmpart/internal/models"
)

type labelKind int

const (
	labelContent labelKind = iota
	labelSection
	labelSubsection
)

// label is the classifier verdict for one unit.
type label struct {
	kind    labelKind
	section string // section id for labelSection
	key     string // s.q key for labelSubsection
}

const (
	minAffixRunes  = 10
	minWordRunes   = 4
	minWordMatches = 2
	minWordJaccard = 0.2
)

var (
	sectionHeader    = regexp.MustCompile(`^\s*(\d)\.\s*(.*)$`)
	subsectionNumber = regexp.MustCompile(`^\s*\d\.\d+\.?\s*`)
	formatPrefix     = regexp.MustCompile(`(?i)^\s*(bold:|underline:|\*\*|__)\s*`)
	formatSuffix     = regexp.MustCompile(`\s*(\*\*|__)\s*$`)
)

type sectionForms struct {
	id     string
	en, pl string // normalized, without numeric prefix and trailing colon
}

type questionForms struct {
	key    string
	en, pl string
	words  [][]string // significant words of en and pl
}

// classifier labels units against a schema. It is read-only after
// construction and safe to share between runs.
type classifier struct {
	schema    *schema.Schema
	sections  []sectionForms
	questions map[string][]questionForms // section id -> questions in canonical order
}

func newClassifier(s *schema.Schema) *classifier {
	c := &classifier{schema: s, questions: make(map[string][]questionForms, len(s.Sections))}
	for _, sec := range s.Sections {
		title := strings.TrimSpace(strings.TrimPrefix(sec.Title, sec.ID+"."))
		c.sections = append(c.sections, sectionForms{
			id: sec.ID,
			en: schema.TrimColon(schema.Normalize(title)),
			pl: schema.TrimColon(schema.Normalize(stripNumber(sec.TitlePL))),
		})
		for _, q := range sec.Questions {
			qf := questionForms{
				key: q.Key,
				en:  schema.TrimColon(schema.Normalize(q.Text)),
				pl:  schema.TrimColon(schema.Normalize(q.TextPL)),
			}
			qf.words = append(qf.words, significantWords(qf.en))
			if qf.pl != "" {
				qf.words = append(qf.words, significantWords(qf.pl))
			}
			c.questions[sec.ID] = append(c.questions[sec.ID], qf)
		}
	}
	return c
}

// classify returns exactly one label. currentSection is "" before the first
// section header; subsection tests need a section.
func (c *classifier) classify(u models.Unit, currentSection string) label {
	text := stripFormatting(u.Text)
	if id, ok := c.sectionOf(text); ok {
		return label{kind: labelSection, section: id}
	}
	if currentSection != "" {
		if key, ok := c.subsectionOf(text, u, currentSection); ok {
			return label{kind: labelSubsection, key: key}
		}
	}
	return label{kind: labelContent}
}

func (c *classifier) sectionOf(text string) (string, bool) {
	if m := sectionHeader.FindStringSubmatch(text); m != nil {
		digit, rest := m[1], m[2]
		// "1.1 ..." is a numbered question, not a section header.
		if r, _ := utf8.DecodeRuneInString(rest); !unicode.IsDigit(r) {
			if _, ok := c.schema.Section(digit); ok {
				return digit, true
			}
			if id, ok := c.polishSection(schema.TrimColon(schema.Normalize(rest))); ok {
				return id, true
			}
		}
	}

	// Unnumbered titles count when they match a section title exactly.
	norm := schema.TrimColon(schema.Normalize(text))
	if norm == "" {
		return "", false
	}
	for _, sf := range c.sections {
		if norm == sf.en || (sf.pl != "" && norm == sf.pl) {
			return sf.id, true
		}
	}
	return "", false
}

func (c *classifier) polishSection(rest string) (string, bool) {
	if rest == "" {
		return "", false
	}
	for _, sf := range c.sections {
		if sf.pl == "" {
			continue
		}
		if strings.Contains(rest, sf.pl) || (utf8.RuneCountInString(rest) >= minAffixRunes && strings.Contains(sf.pl, rest)) {
			return sf.id, true
		}
	}
	return "", false
}

// subsectionOf applies the question rules in order; each rule is tried against
// every candidate before the next rule.
func (c *classifier) subsectionOf(text string, u models.Unit, sectionID string) (string, bool) {
	candidates := c.questions[sectionID]
	if len(candidates) == 0 {
		return "", false
	}
	norm := schema.TrimColon(schema.Normalize(subsectionNumber.ReplaceAllString(text, "")))
	if norm == "" {
		return "", false
	}

	for _, q := range candidates {
		if norm == q.en {
			return q.key, true
		}
	}
	if key, ok := c.schema.PolishQuestion(sectionID, norm); ok {
		return key, true
	}

	n := utf8.RuneCountInString(norm)
	for _, q := range candidates {
		for _, form := range q.forms() {
			if prefixMatch(norm, n, form) {
				return q.key, true
			}
		}
	}
	if n >= minAffixRunes {
		for _, q := range candidates {
			for _, form := range q.forms() {
				if utf8.RuneCountInString(form) >= minAffixRunes && (strings.Contains(form, norm) || strings.Contains(norm, form)) {
					return q.key, true
				}
			}
		}
	}

	if u.Emphasized() || strings.HasSuffix(strings.TrimSpace(text), ":") {
		return bestWordOverlap(significantWords(norm), candidates)
	}
	return "", false
}

func (q questionForms) forms() []string {
	if q.pl == "" {
		return []string{q.en}
	}
	return []string{q.en, q.pl}
}

// prefixMatch holds when one string starts with the other and the shared
// prefix is at least ten runes long.
func prefixMatch(norm string, normRunes int, form string) bool {
	formRunes := utf8.RuneCountInString(form)
	switch {
	case normRunes <= formRunes:
		return normRunes >= minAffixRunes && strings.HasPrefix(form, norm)
	default:
		return formRunes >= minAffixRunes && strings.HasPrefix(norm, form)
	}
}

func bestWordOverlap(words []string, candidates []questionForms) (string, bool) {
	if len(words) == 0 {
		return "", false
	}
	var (
		bestKey     string
		bestMatches int
		bestRatio   float64
	)
	for _, q := range candidates {
		for _, qw := range q.words {
			matches, ratio := overlap(words, qw)
			if matches == 0 || (matches < minWordMatches && ratio < minWordJaccard) {
				continue
			}
			if matches > bestMatches || (matches == bestMatches && ratio > bestRatio) {
				bestKey, bestMatches, bestRatio = q.key, matches, ratio
			}
		}
	}
	return bestKey, bestKey != ""
}

// overlap counts shared words and the Jaccard ratio of two word sets.
func overlap(a, b []string) (int, float64) {
	set := make(map[string]struct{}, len(b))
	for _, w := range b {
		set[w] = struct{}{}
	}
	matches := 0
	for _, w := range a {
		if _, ok := set[w]; ok {
			matches++
		}
	}
	union := len(a) + len(b) - matches
	if union == 0 {
		return 0, 0
	}
	return matches, float64(matches) / float64(union)
}

// significantWords returns the distinct lowercase words longer than three runes.
func significantWords(norm string) []string {
	fields := strings.FieldsFunc(norm, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	var out []string
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minWordRunes {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// stripFormatting removes conversion markers such as "BOLD:" or ** wrappers.
func stripFormatting(text string) string {
	for {
		next := formatSuffix.ReplaceAllString(formatPrefix.ReplaceAllString(text, ""), "")
		if next == text {
			return strings.TrimSpace(text)
		}
		text = next
	}
}

func stripNumber(title string) string {
	if m := sectionHeader.FindStringSubmatch(title); m != nil {
		return m[2]
	}
	return title
}
