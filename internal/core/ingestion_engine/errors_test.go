package ingestion_engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindInternal, KindOf(errors.New("disk full")))
	assert.Equal(t, KindNoRegion, KindOf(fmt.Errorf("wrapped: %w", noRegion())))
	assert.Equal(t, KindInvalidSource, KindOf(invalidSource("file is empty")))
}

func TestInternalErrorKeepsExistingKind(t *testing.T) {
	src := invalidSource("file not found")
	assert.Same(t, src, internalError(fmt.Errorf("adapt: %w", src)))

	cause := errors.New("permission denied")
	err := internalError(cause)
	assert.Equal(t, KindInternal, err.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "permission denied", err.Error())
}

func TestProgressNeverGoesBack(t *testing.T) {
	var got []int
	p := newProgress(func(_ string, percent int) { got = append(got, percent) })
	p.report("a", stageValidating)
	p.report("b", stageLocating)
	p.report("c", stageExtracting)
	p.report("d", stageDone)
	assert.Equal(t, []int{stageValidating, stageLocating, stageDone}, got)

	assert.NotPanics(t, func() { newProgress(nil).report("x", 10) })
}
