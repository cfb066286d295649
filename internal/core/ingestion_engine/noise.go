package ingestion_engine

import (
	"regexp"

	"github.com/markdave123-py/dmpart/internal/models"
)

// noisePatterns match whole units only; the same tokens inside prose survive.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(strona|page)\s+\d+(\s*(/|z|of)\s*\d+)?$`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`(?i)^id:\s*\d+$`),
	regexp.MustCompile(`(?i)^\[wydruk roboczy\]$`),
	regexp.MustCompile(`^(WZÓR|W Z Ó R)$`),
	regexp.MustCompile(`^OSF,`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}(:\d{2})?$`),
	regexp.MustCompile(`^[+|=\-_\s]+$`),
}

func isNoise(text string) bool {
	for _, re := range noisePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// filterNoise drops running heads, page numbers, stamps and separators.
func filterNoise(units []models.Unit) []models.Unit {
	out := make([]models.Unit, 0, len(units))
	for _, u := range units {
		if isNoise(u.Text) {
			continue
		}
		out = append(out, u)
	}
	return out
}
