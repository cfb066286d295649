package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads an operator-edited schema file. A missing path or file yields the
// built-in default. The file must carry the same section ids and question keys
// as the default; Polish counterparts left blank are taken from the default.
func Load(path string) (*Schema, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a schema document; ext selects YAML (".yaml", ".yml") or JSON.
func Parse(data []byte, ext string) (*Schema, error) {
	var doc struct {
		Sections []Section `json:"sections" yaml:"sections"`
	}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode schema yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode schema json: %w", err)
		}
	}

	def := Default()
	if len(doc.Sections) != len(def.Sections) {
		return nil, fmt.Errorf("schema override has %d sections, want %d", len(doc.Sections), len(def.Sections))
	}
	for i := range doc.Sections {
		sec := &doc.Sections[i]
		base, ok := def.Section(sec.ID)
		if !ok {
			return nil, fmt.Errorf("schema override: unknown section %q", sec.ID)
		}
		if len(sec.Questions) != len(base.Questions) {
			return nil, fmt.Errorf("schema override: section %s has %d questions, want %d", sec.ID, len(sec.Questions), len(base.Questions))
		}
		if sec.TitlePL == "" {
			sec.TitlePL = base.TitlePL
		}
		for j := range sec.Questions {
			q := &sec.Questions[j]
			dq, _, ok := def.Question(q.Key)
			if !ok || q.Key != base.Questions[j].Key {
				return nil, fmt.Errorf("schema override: unexpected question %q in section %s", q.Key, sec.ID)
			}
			if q.TextPL == "" {
				q.TextPL = dq.TextPL
			}
		}
	}
	return New(doc.Sections)
}
