package ingestion_engine

import (
	"regexp"
	"sort"
	"strings"

	"github.com/markdave123-py/dmpart/internal/models"
)

// Start anchors, tried longest first so the most specific form consumes the
// unit. Matching is a case-sensitive substring test.
var startAnchors = sortedByLength([]string{
	"DATA MANAGEMENT PLAN",
	"DATA MANAGEMENT PLAN [in English]",
	"PLAN ZARZĄDZANIA DANYMI",
	"MINIATURA 9 -- PLAN ZARZĄDZANIA DANYMI",
})

var endAnchors = []string{
	"ADMINISTRATIVE DECLARATIONS",
	"OŚWIADCZENIA ADMINISTRACYJNE",
}

var fallbackStart = regexp.MustCompile(`^\s*1\.\s+\S`)

// region is the located DMP span. Fallback is set when no anchor matched and
// the first numbered "1." header opened the region instead.
type region struct {
	units    []models.Unit
	fallback bool
}

// locateRegion returns the units between the first start anchor and the
// first end anchor after it. The anchor units themselves are not part of the
// region, but text following a start anchor on the same unit is kept.
func locateRegion(units []models.Unit) (region, bool) {
	for i, u := range units {
		anchor, ok := matchAnchor(u.Text, startAnchors)
		if !ok {
			continue
		}
		var body []models.Unit
		idx := strings.Index(u.Text, anchor)
		if rest := strings.TrimSpace(u.Text[idx+len(anchor):]); rest != "" && !containsAny(rest, endAnchors) {
			tail := u
			tail.Text = rest
			body = append(body, tail)
		}
		body = append(body, untilEnd(units[i+1:])...)
		return region{units: body}, true
	}

	for i, u := range units {
		if fallbackStart.MatchString(u.Text) {
			return region{units: untilEnd(units[i:]), fallback: true}, true
		}
	}
	return region{}, false
}

func untilEnd(units []models.Unit) []models.Unit {
	for i, u := range units {
		if containsAny(u.Text, endAnchors) {
			return units[:i]
		}
	}
	return units
}

func matchAnchor(text string, anchors []string) (string, bool) {
	for _, a := range anchors {
		if strings.Contains(text, a) {
			return a, true
		}
	}
	return "", false
}

func containsAny(text string, anchors []string) bool {
	_, ok := matchAnchor(text, anchors)
	return ok
}

func sortedByLength(in []string) []string {
	out := append([]string(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}
