package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/quality"
	"github.com/earthscope-oss/dataselect/trace"
)

func TestBuildStatsSummarizesTraces(t *testing.T) {
	bhz := trace.Identity{Network: "IU", Station: "ANMO", Location: "00", Channel: "BHZ"}
	lhz := trace.Identity{Network: "IU", Station: "ANMO", Location: "00", Channel: "LHZ"}
	g := trace.NewGroup(tol(), false)

	_, _, err := g.Insert(bhz, 100, hptime.HPT(0), hptime.HPT(hptime.Modulus), quality.D)
	require.NoError(t, err)
	_, _, err = g.Insert(lhz, 1, hptime.HPT(0), hptime.HPT(3*hptime.Modulus), quality.D)
	require.NoError(t, err)

	st := BuildStats(g.Traces())
	assert.Equal(t, 2, st.TraceCount)
	require.Len(t, st.SegmentCounts, 2)
	// Both traces carry zero attached descriptors (only the envelope was
	// inserted), so every segment count is zero.
	assert.Equal(t, []int{0, 0}, st.SegmentCounts)
	assert.InDelta(t, 2.0, st.MeanSpanSecs, 0.001)
	assert.Greater(t, st.StdDevSpanSecs, 0.0)
}

func TestBuildStatsEmptyTraceSet(t *testing.T) {
	st := BuildStats(nil)
	assert.Equal(t, 0, st.TraceCount)
	assert.Empty(t, st.SegmentCounts)
	assert.Empty(t, st.Overlaps)
}
