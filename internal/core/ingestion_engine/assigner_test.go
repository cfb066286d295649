package ingestion_engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/markdave123-py/dmpart/internal/core/schema"
	"github.com/markdave123-py/dmpart/internal/models"
)

func assign(units []models.Unit) assignment {
	s := schema.Default()
	return newAssigner(s, newClassifier(s)).run(units)
}

func TestAssigner_DirectPlacement(t *testing.T) {
	got := assign(textUnits(
		"1. Data description and collection or re-use of existing data",
		"How will new data be collected or produced and/or how will existing data be re-used?",
		"Survey data from 500 participants.",
		"Interviews recorded on site.",
	))
	assert.Equal(t, []string{"Survey data from 500 participants.", "Interviews recorded on site."}, got.slots["1.1"])
	assert.Empty(t, got.orphans)
}

func TestAssigner_PreSectionGoesFirstInto11(t *testing.T) {
	got := assign(textUnits(
		"Introductory note.",
		"1. Data description and collection or re-use of existing data",
		"How will new data be collected or produced and/or how will existing data be re-used?",
		"Survey data from 500 participants.",
	))
	assert.Equal(t, []string{"Introductory note.", "Survey data from 500 participants."}, got.slots["1.1"])
}

func TestAssigner_PendingFlushesIntoFirstQuestion(t *testing.T) {
	got := assign(textUnits(
		"3. Storage and backup during the research process",
		"Section level remark.",
		"4. Legal requirements, codes of conduct",
		"Trailing remark without a question.",
	))
	assert.Equal(t, []string{"Section level remark."}, got.slots["3.1"])
	assert.Equal(t, []string{"Trailing remark without a question."}, got.slots["4.1"])
}

func TestAssigner_PendingBeforeFirstSubsection(t *testing.T) {
	got := assign(textUnits(
		"2. Documentation and data quality",
		"General documentation remark.",
		"What data quality control measures will be used?",
		"Double entry of all records.",
	))
	assert.Equal(t, []string{"General documentation remark."}, got.slots["2.1"])
	assert.Equal(t, []string{"Double entry of all records."}, got.slots["2.2"])
}

func TestAssigner_TailStaysWithLastSubsection(t *testing.T) {
	got := assign(textUnits(
		"5. Data sharing and long-term preservation",
		"How will the application of a unique and persistent identifier (such us a Digital Object Identifier (DOI)) to each data set be ensured?",
		"DOIs minted by the repository.",
		"Orphan footnote.",
		"6. Data management responsibilities and resources",
	))
	assert.Equal(t, []string{"DOIs minted by the repository.", "Orphan footnote."}, got.slots["5.4"])
	assert.Empty(t, got.slots["6.1"])
}

func TestAssigner_DuplicateSubsectionReopensSlot(t *testing.T) {
	got := assign(textUnits(
		"2. Documentation and data quality",
		"What data quality control measures will be used?",
		"First answer paragraph.",
		"What metadata and documentation (for example methodology or data collection and way of organising data) will accompany data?",
		"Metadata answer paragraph.",
		"What data quality control measures will be used?",
		"Second answer paragraph.",
	))
	assert.Equal(t, []string{"First answer paragraph.", "Second answer paragraph."}, got.slots["2.2"])
	assert.Equal(t, []string{"Metadata answer paragraph."}, got.slots["2.1"])
}

func TestAssigner_DropsShortAndDuplicateContent(t *testing.T) {
	got := assign(textUnits(
		"1. Data description and collection or re-use of existing data",
		"How will new data be collected or produced and/or how will existing data be re-used?",
		"Tak.",
		"12345",
		"Repeated boilerplate line.",
		"What data (for example the types, formats, and volumes) will be collected or produced?",
		"Repeated boilerplate line.",
		"CSV files, 2 GB.",
	))
	assert.Equal(t, []string{"Repeated boilerplate line."}, got.slots["1.1"])
	assert.Equal(t, []string{"CSV files, 2 GB."}, got.slots["1.2"])
}

func TestAssigner_FormattingMarkersStripped(t *testing.T) {
	got := assign([]models.Unit{
		{Text: "1. Data description and collection or re-use of existing data"},
		{Text: "How will new data be collected or produced and/or how will existing data be re-used?"},
		{Text: "**Emphasised remark about fieldwork**", Bold: true},
		{Text: "__Underlined remark about fieldwork__", Underlined: true},
	})
	assert.Equal(t, []string{"Emphasised remark about fieldwork", "Underlined remark about fieldwork"}, got.slots["1.1"])
}

func TestAssigner_UnknownTargetBecomesOrphan(t *testing.T) {
	s := schema.Default()
	a := newAssigner(s, newClassifier(s))
	a.place("9.9", []string{"Lost paragraph text."}, false)
	assert.Equal(t, []models.UnconnectedItem{{Text: "Lost paragraph text.", Type: "orphan"}}, a.out.orphans)
}

func TestAssigner_QuestionCellKeepsItsAnswer(t *testing.T) {
	units := append(textUnits("1. Data description and collection or re-use of existing data"),
		models.Unit{
			Text:   "How will new data be collected or produced and/or how will existing data be re-used?\nWe run a survey among students.",
			Origin: models.OriginTableCell,
		},
		models.Unit{
			Text:   "Additional context line.\nSecond answer line.",
			Origin: models.OriginTableCell,
		},
	)
	got := assign(units)
	assert.Equal(t, []string{
		"We run a survey among students.",
		"Additional context line.\nSecond answer line.",
	}, got.slots["1.1"])
}

func TestAssigner_CellWithSectionAndQuestionHeaders(t *testing.T) {
	got := assign([]models.Unit{{
		Text:   "3. Storage and backup during the research process\nHow will data and metadata be stored and backed up during the research process?\nNightly backups to the faculty server.",
		Origin: models.OriginTableCell,
	}})
	assert.Equal(t, []string{"Nightly backups to the faculty server."}, got.slots["3.1"])
}
