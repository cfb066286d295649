// Package schema holds the fixed DMP hierarchy: six sections, fourteen
// questions, their Polish counterparts and the key-phrase taxonomy. Values are
// built once per process and never mutated afterwards.
package schema

import (
	"fmt"
	"strings"
)

// Question is one subsection of the hierarchy, addressed by an "s.q" key.
type Question struct {
	Key    string `json:"key" yaml:"key"`
	Text   string `json:"text" yaml:"text"`
	TextPL string `json:"text_pl,omitempty" yaml:"text_pl,omitempty"`
}

// Section is one numbered top-level part of the plan.
type Section struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	TitlePL   string     `json:"title_pl,omitempty" yaml:"title_pl,omitempty"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Schema is the immutable lookup set shared by every pipeline run.
type Schema struct {
	Sections []Section `json:"sections" yaml:"sections"`

	keys      []string
	sections  map[string]*Section
	questions map[string]questionRef
	polish    map[string]map[string]string // section id -> normalized Polish question -> key
}

type questionRef struct {
	section  *Section
	question Question
}

// New validates sections and precomputes the lookups.
func New(sections []Section) (*Schema, error) {
	s := &Schema{
		Sections:  sections,
		sections:  make(map[string]*Section, len(sections)),
		questions: make(map[string]questionRef),
		polish:    make(map[string]map[string]string, len(sections)),
	}
	for i := range s.Sections {
		sec := &s.Sections[i]
		if sec.ID == "" || strings.TrimSpace(sec.Title) == "" {
			return nil, fmt.Errorf("section %d: id and title are required", i+1)
		}
		if !strings.HasPrefix(sec.Title, sec.ID+".") {
			return nil, fmt.Errorf("section %s: title %q must start with %q", sec.ID, sec.Title, sec.ID+".")
		}
		if _, dup := s.sections[sec.ID]; dup {
			return nil, fmt.Errorf("section %s: duplicate id", sec.ID)
		}
		if len(sec.Questions) == 0 {
			return nil, fmt.Errorf("section %s: no questions", sec.ID)
		}
		s.sections[sec.ID] = sec
		pl := make(map[string]string, 2*len(sec.Questions))
		for _, q := range sec.Questions {
			if !strings.HasPrefix(q.Key, sec.ID+".") {
				return nil, fmt.Errorf("question %q does not belong to section %s", q.Key, sec.ID)
			}
			if strings.TrimSpace(q.Text) == "" {
				return nil, fmt.Errorf("question %s: empty text", q.Key)
			}
			if _, dup := s.questions[q.Key]; dup {
				return nil, fmt.Errorf("question %s: duplicate key", q.Key)
			}
			s.questions[q.Key] = questionRef{section: sec, question: q}
			s.keys = append(s.keys, q.Key)
			if q.TextPL != "" {
				bare := TrimColon(Normalize(q.TextPL))
				pl[bare] = q.Key
				pl[bare+":"] = q.Key
			}
		}
		s.polish[sec.ID] = pl
	}
	return s, nil
}

// Keys returns all slot keys in canonical order.
func (s *Schema) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Section looks a section up by id ("1".."6").
func (s *Schema) Section(id string) (*Section, bool) {
	sec, ok := s.sections[id]
	return sec, ok
}

// Question returns the question for key together with its section.
func (s *Schema) Question(key string) (Question, *Section, bool) {
	ref, ok := s.questions[key]
	if !ok {
		return Question{}, nil, false
	}
	return ref.question, ref.section, true
}

// FirstKey is the key of the first question of a section.
func (s *Schema) FirstKey(sectionID string) (string, bool) {
	sec, ok := s.sections[sectionID]
	if !ok || len(sec.Questions) == 0 {
		return "", false
	}
	return sec.Questions[0].Key, true
}

// PolishQuestion resolves a normalized unit text against the Polish
// counterparts of one section. A trailing colon is optional.
func (s *Schema) PolishQuestion(sectionID, normalized string) (string, bool) {
	key, ok := s.polish[sectionID][normalized]
	return key, ok
}
