package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Keys(t *testing.T) {
	s := Default()
	assert.Equal(t, []string{
		"1.1", "1.2", "2.1", "2.2", "3.1", "3.2", "4.1", "4.2",
		"5.1", "5.2", "5.3", "5.4", "6.1", "6.2",
	}, s.Keys())
	assert.Len(t, s.Sections, 6)
}

func TestDefault_Lookups(t *testing.T) {
	s := Default()

	q, sec, ok := s.Question("5.4")
	require.True(t, ok)
	assert.Equal(t, "5. Data sharing and long-term preservation", sec.Title)
	assert.Contains(t, q.Text, "Digital Object Identifier")

	_, _, ok = s.Question("7.1")
	assert.False(t, ok)

	first, ok := s.FirstKey("3")
	require.True(t, ok)
	assert.Equal(t, "3.1", first)

	_, ok = s.FirstKey("9")
	assert.False(t, ok)
}

func TestPolishQuestion_ColonAndCase(t *testing.T) {
	s := Default()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Stosowane środki kontroli jakości danych", "2.2"},
		{"colon", "Stosowane środki kontroli jakości danych:", "2.2"},
		{"upper", "STOSOWANE ŚRODKI KONTROLI JAKOŚCI DANYCH", "2.2"},
		{"spaced colon", "Stosowane  środki kontroli jakości danych :", "2.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := s.PolishQuestion("2", TrimColon(Normalize(tt.in)))
			require.True(t, ok)
			assert.Equal(t, tt.want, key)
		})
	}

	_, ok := s.PolishQuestion("3", TrimColon(Normalize("Stosowane środki kontroli jakości danych")))
	assert.False(t, ok, "lookup is scoped to the section")
}

func TestNormalize(t *testing.T) {
	// "ó" as o + combining acute composes to the same form as the precomposed rune.
	assert.Equal(t, Normalize("Wzór"), Normalize("WZO\u0301R"))
	assert.Equal(t, "a b c", Normalize("  A \t B\nC "))
	assert.Equal(t, "title", TrimColon("title :"))
}

func TestNew_Validation(t *testing.T) {
	_, err := New([]Section{{ID: "1", Title: "2. Wrong number", Questions: []Question{{Key: "1.1", Text: "q"}}}})
	assert.Error(t, err)

	_, err = New([]Section{{ID: "1", Title: "1. Fine"}})
	assert.Error(t, err)

	_, err = New([]Section{{ID: "1", Title: "1. Fine", Questions: []Question{{Key: "2.1", Text: "q"}}}})
	assert.Error(t, err)
}

func TestLoad_MissingFileFallsBack(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Same(t, Default(), s)

	s, err = Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), s)
}

func TestLoad_YAMLOverride(t *testing.T) {
	var doc string
	doc += "sections:\n"
	for _, sec := range Default().Sections {
		doc += "  - id: \"" + sec.ID + "\"\n"
		title := sec.Title
		if sec.ID == "2" {
			title = "2. Documentation and quality of data"
		}
		doc += "    title: \"" + title + "\"\n"
		doc += "    questions:\n"
		for _, q := range sec.Questions {
			doc += "      - key: \"" + q.Key + "\"\n"
			doc += "        text: \"" + q.Text + "\"\n"
		}
	}
	path := filepath.Join(t.TempDir(), "dmp_structure.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	sec, ok := s.Section("2")
	require.True(t, ok)
	assert.Equal(t, "2. Documentation and quality of data", sec.Title)
	assert.Equal(t, "Dokumentacja i jakość danych", sec.TitlePL, "Polish title inherited from default")

	key, ok := s.PolishQuestion("1", TrimColon(Normalize("Pozyskiwane lub opracowywane dane (np. rodzaj, format, ilość):")))
	require.True(t, ok)
	assert.Equal(t, "1.2", key)
}

func TestParse_RejectsWrongShape(t *testing.T) {
	_, err := Parse([]byte(`{"sections":[{"id":"1","title":"1. Only","questions":[{"key":"1.1","text":"q"}]}]}`), ".json")
	assert.Error(t, err)

	_, err = Parse([]byte(`{not json`), ".json")
	assert.Error(t, err)
}

func TestTaxonomy(t *testing.T) {
	tags := Taxonomy()
	assert.Len(t, tags, 16)
	seen := map[string]bool{}
	for _, tag := range tags {
		assert.False(t, seen[tag.Name], "duplicate tag %s", tag.Name)
		seen[tag.Name] = true
		assert.NotEmpty(t, tag.Keywords)
	}
	for _, name := range []string{"methodology", "storage", "backup", "security", "resources"} {
		assert.True(t, seen[name], name)
	}
}
