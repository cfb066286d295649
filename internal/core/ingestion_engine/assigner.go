package ingestion_engine

import (
	"strings"
	"unicode/utf8"

	"github.com/markdave123-py/dmpart/internal/core/schema"
	"github.com/markdave123-py/dmpart/internal/models"
)

const (
	minContentRunes = 6
	orphanType      = "orphan"
)

// assignment is the assigner output: paragraphs per slot key in reading
// order plus content that no slot could take.
type assignment struct {
	slots   map[string][]string
	orphans []models.UnconnectedItem
}

// assigner walks the filtered unit stream as a state machine over the
// current (section, subsection) pair.
type assigner struct {
	schema     *schema.Schema
	classifier *classifier

	section    string
	subsection string
	pending    []string
	preSection []string
	seen       map[string]struct{}
	out        assignment
}

func newAssigner(s *schema.Schema, c *classifier) *assigner {
	return &assigner{
		schema:     s,
		classifier: c,
		seen:       make(map[string]struct{}),
		out:        assignment{slots: make(map[string][]string)},
	}
}

func (a *assigner) run(units []models.Unit) assignment {
	for _, u := range units {
		a.unit(u)
	}
	a.finish()
	return a.out
}

// unit labels u and updates the state. A multi-line table cell whose first
// line is a header is split: the header applies and the remaining lines are
// handled as a cell of their own, so questionnaire cells keep their answers.
func (a *assigner) unit(u models.Unit) {
	if u.Origin == models.OriginTableCell {
		if head, rest, ok := strings.Cut(u.Text, "\n"); ok {
			hu := u
			hu.Text = head
			if lbl := a.classifier.classify(hu, a.section); lbl.kind != labelContent {
				a.apply(lbl, hu)
				a.unit(models.Unit{Text: strings.TrimSpace(rest), Origin: u.Origin})
				return
			}
		}
	}
	a.apply(a.classifier.classify(u, a.section), u)
}

func (a *assigner) apply(lbl label, u models.Unit) {
	switch lbl.kind {
	case labelSection:
		a.flushPending()
		a.section, a.subsection = lbl.section, ""
	case labelSubsection:
		a.flushPending()
		a.subsection = lbl.key
	default:
		a.content(stripFormatting(u.Text))
	}
}

func (a *assigner) content(text string) {
	if utf8.RuneCountInString(text) < minContentRunes {
		return
	}
	if _, dup := a.seen[text]; dup {
		return
	}
	a.seen[text] = struct{}{}

	switch {
	case a.section != "" && a.subsection != "":
		a.out.slots[a.subsection] = append(a.out.slots[a.subsection], text)
	case a.section != "":
		a.pending = append(a.pending, text)
	default:
		a.preSection = append(a.preSection, text)
	}
}

// flushPending moves content seen after a section header but before any
// subsection into the first question of that section.
func (a *assigner) flushPending() {
	if len(a.pending) == 0 {
		return
	}
	target := a.subsection
	if target == "" {
		target, _ = a.schema.FirstKey(a.section)
	}
	a.place(target, a.pending, false)
	a.pending = nil
}

func (a *assigner) finish() {
	a.flushPending()
	if len(a.preSection) > 0 {
		var first string
		if keys := a.schema.Keys(); len(keys) > 0 {
			first = keys[0]
		}
		a.place(first, a.preSection, true)
		a.preSection = nil
	}
}

// place appends (or prepends) texts to a slot; an unknown slot turns them
// into orphans.
func (a *assigner) place(key string, texts []string, front bool) {
	if _, _, ok := a.schema.Question(key); !ok {
		for _, t := range texts {
			a.out.orphans = append(a.out.orphans, models.UnconnectedItem{Text: t, Type: orphanType})
		}
		return
	}
	if front {
		a.out.slots[key] = append(append([]string(nil), texts...), a.out.slots[key]...)
		return
	}
	a.out.slots[key] = append(a.out.slots[key], texts...)
}
