package ingestion_engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/markdave123-py/dmpart/internal/core/schema"
	"github.com/markdave123-py/dmpart/internal/models"
)

func TestClassifier_Sections(t *testing.T) {
	c := newClassifier(schema.Default())
	tests := []struct {
		name string
		text string
		want label
	}{
		{"english numbered", "1. Data description and collection or re-use of existing data", label{kind: labelSection, section: "1"}},
		{"polish numbered", "5. Udostępnianie i długotrwałe przechowywanie danych:", label{kind: labelSection, section: "5"}},
		{"digit only", "3.", label{kind: labelSection, section: "3"}},
		{"bold prefix", "BOLD: 2. Documentation and data quality", label{kind: labelSection, section: "2"}},
		{"stars", "**6. Data management responsibilities and resources**", label{kind: labelSection, section: "6"}},
		{"unnumbered english", "Legal requirements, codes of conduct", label{kind: labelSection, section: "4"}},
		{"unnumbered polish colon", "WYMOGI PRAWNE, KODEKSY POSTĘPOWANIA:", label{kind: labelSection, section: "4"}},
		{"polish title after other digit", "8. Dokumentacja i jakość danych", label{kind: labelSection, section: "2"}},
		{"numbered question is not a section", "1.1 Survey design", label{kind: labelContent}},
		{"unknown digit", "9. Something else entirely", label{kind: labelContent}},
		{"prose", "The project collects survey data.", label{kind: labelContent}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.classify(models.Unit{Text: tt.text}, ""))
		})
	}
}

func TestClassifier_SectionWinsOverSubsection(t *testing.T) {
	c := newClassifier(schema.Default())
	got := c.classify(models.Unit{Text: "2. What data quality control measures will be used?"}, "2")
	assert.Equal(t, label{kind: labelSection, section: "2"}, got)
}

func TestClassifier_SubsectionRules(t *testing.T) {
	c := newClassifier(schema.Default())
	tests := []struct {
		name    string
		unit    models.Unit
		section string
		want    label
	}{
		{
			name:    "exact english, any case",
			unit:    models.Unit{Text: "WHAT DATA QUALITY CONTROL MEASURES WILL BE USED?"},
			section: "2",
			want:    label{kind: labelSubsection, key: "2.2"},
		},
		{
			name:    "polish with colon",
			unit:    models.Unit{Text: "Metody lub narzędzia programowe niezbędne do korzystania z danych:"},
			section: "5",
			want:    label{kind: labelSubsection, key: "5.3"},
		},
		{
			name:    "numbered question",
			unit:    models.Unit{Text: "3.2 How will data security and protection of sensitive data be taken care of during the research?"},
			section: "3",
			want:    label{kind: labelSubsection, key: "3.2"},
		},
		{
			name:    "truncated prefix",
			unit:    models.Unit{Text: "Sposób pozyskiwania i opracowywania nowych danych"},
			section: "1",
			want:    label{kind: labelSubsection, key: "1.1"},
		},
		{
			name:    "question with trailing hint",
			unit:    models.Unit{Text: "What methods or software tools will be needed to access and use the data? (max 1000 chars)"},
			section: "5",
			want:    label{kind: labelSubsection, key: "5.3"},
		},
		{
			name:    "substring inside a longer cell",
			unit:    models.Unit{Text: "Pytanie 6.2 Zasoby przeznaczone na zarządzanie danymi i zapewnienie, że dane będą FAIR"},
			section: "6",
			want:    label{kind: labelSubsection, key: "6.2"},
		},
		{
			name:    "bold word overlap",
			unit:    models.Unit{Text: "Persistent identifier for each data set", Bold: true},
			section: "5",
			want:    label{kind: labelSubsection, key: "5.4"},
		},
		{
			name:    "colon word overlap",
			unit:    models.Unit{Text: "Data steward responsible:"},
			section: "6",
			want:    label{kind: labelSubsection, key: "6.1"},
		},
		{
			name:    "plain text never uses word overlap",
			unit:    models.Unit{Text: "Persistent identifier for each data set"},
			section: "5",
			want:    label{kind: labelContent},
		},
		{
			name:    "question outside current section",
			unit:    models.Unit{Text: "What data quality control measures will be used?"},
			section: "3",
			want:    label{kind: labelContent},
		},
		{
			name:    "no section context",
			unit:    models.Unit{Text: "What data quality control measures will be used?"},
			section: "",
			want:    label{kind: labelContent},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.classify(tt.unit, tt.section))
		})
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := newClassifier(schema.Default())
	u := models.Unit{Text: "Data steward and backup resources:", Underlined: true}
	first := c.classify(u, "6")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, c.classify(u, "6"))
	}
}

func TestStripFormatting(t *testing.T) {
	assert.Equal(t, "text", stripFormatting("BOLD: **text**"))
	assert.Equal(t, "text", stripFormatting("__text__"))
	assert.Equal(t, "plain", stripFormatting("plain"))
}

func TestSignificantWords(t *testing.T) {
	assert.Equal(t, []string{"data", "steward", "responsible"}, significantWords("the data steward, data responsible"))
}
