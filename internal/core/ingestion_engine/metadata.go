package ingestion_engine

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/markdave123-py/dmpart/internal/models"
)

// headerUnits bounds how much of the document start is searched for names.
const headerUnits = 60

const (
	namePart    = `(\p{Lu}[\p{Ll}]+(?:-\p{Lu}[\p{Ll}]+)?)`
	titlePrefix = `(?:(?:prof\.|dr|hab\.|inż\.|mgr)\s*)*`
	competition = `SONATA BIS|PRELUDIUM BIS|POLONEZ BIS|OPUS|PRELUDIUM|SONATA|SONATINA|MAESTRO|HARMONIA|SYMFONIA|MINIATURA|POLONEZ|SHENG|BEETHOVEN|DAINA|UWERTURA|TANGO|ETIUDA|FUGA`
)

var (
	researcherPatterns = []*regexp.Regexp{
		regexp.MustCompile(`Kierownik\s+projektu[:\s]+` + titlePrefix + namePart + `\s+` + namePart),
		regexp.MustCompile(`Principal\s+Investigator[:\s]+` + titlePrefix + namePart + `\s+` + namePart),
		regexp.MustCompile(`\bdr\s+(?:hab\.\s*)?(?:inż\.\s*)?` + namePart + `\s+` + namePart),
	}
	competitionPattern = regexp.MustCompile(`(?i)\b(` + competition + `)[\s_-]*(\d{1,4})\b`)

	// DMP_Kowalski_J_OPUS_29_....
	filenameFull = regexp.MustCompile(`(?i)^DMP_(\p{L}[\p{L}-]*)_(\p{L})_(` + strings.ReplaceAll(competition, " ", "_") + `)_(\d{1,4})`)
	// PRELUDIUM2025_plan, opus-29
	filenameCompetition = regexp.MustCompile(`(?i)(` + strings.ReplaceAll(competition, " ", "[ _]") + `)[ _-]?(\d{1,4})`)
)

// extractMetadata fills the researcher and competition fields from the
// document header, falling back to the file name. Only regex captures are
// used; anything not found is left empty.
func extractMetadata(header []models.Unit, filename string) models.Metadata {
	md := models.Metadata{FilenameOriginal: filename}
	if len(header) > headerUnits {
		header = header[:headerUnits]
	}
	texts := make([]string, len(header))
	for i, u := range header {
		texts[i] = u.Text
	}
	joined := strings.Join(texts, "\n")

	for _, re := range researcherPatterns {
		if m := re.FindStringSubmatch(joined); m != nil {
			md.ResearcherFirstname, md.ResearcherSurname = m[1], m[2]
			break
		}
	}
	if m := competitionPattern.FindStringSubmatch(joined); m != nil {
		md.CompetitionName, md.CompetitionEdition = canonicalCompetition(m[1]), m[2]
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if m := filenameFull.FindStringSubmatch(base); m != nil {
		if md.ResearcherSurname == "" {
			md.ResearcherSurname, md.ResearcherInitial = m[1], strings.ToUpper(m[2])
		}
		if md.CompetitionName == "" {
			md.CompetitionName, md.CompetitionEdition = canonicalCompetition(m[3]), m[4]
		}
	}
	if md.CompetitionName == "" {
		if m := filenameCompetition.FindStringSubmatch(base); m != nil {
			md.CompetitionName, md.CompetitionEdition = canonicalCompetition(m[1]), m[2]
		}
	}
	return md
}

func canonicalCompetition(name string) string {
	return strings.ToUpper(strings.Join(strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == ' ' }), " "))
}
