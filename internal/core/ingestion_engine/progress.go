package ingestion_engine

// ProgressFunc receives stage messages with a completion percentage.
type ProgressFunc func(message string, percent int)

// Pipeline stages and the percentage reported when each one starts.
const (
	stageValidating = 5
	stageExtracting = 15
	stageOCR        = 30
	stageLocating   = 45
	stageFiltering  = 55
	stageAssigning  = 70
	stageBuilding   = 85
	stageSaving     = 95
	stageDone       = 100
)

// progress forwards to a ProgressFunc and never lets the percentage go back.
type progress struct {
	sink ProgressFunc
	last int
}

func newProgress(sink ProgressFunc) *progress {
	return &progress{sink: sink, last: -1}
}

func (p *progress) report(message string, percent int) {
	if p.sink == nil || percent < p.last {
		return
	}
	p.last = percent
	p.sink(message, percent)
}
