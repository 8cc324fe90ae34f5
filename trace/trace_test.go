package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/quality"
)

func TestNewTraceComputesSampleCount(t *testing.T) {
	start := hptime.HPT(0)
	end := hptime.HPT(99 * (hptime.Modulus / 100))
	tr := newTrace(Identity{Network: "IU", Station: "ANMO", Location: "00", Channel: "BHZ"}, 100, start, end, quality.D)
	assert.Equal(t, int64(100), tr.SampleCount)
}

func TestAbsorbExpandsSpan(t *testing.T) {
	tr := newTrace(Identity{}, 100, hptime.HPT(1000), hptime.HPT(2000), quality.D)
	tr.absorb(hptime.HPT(500), hptime.HPT(2500))
	assert.Equal(t, hptime.HPT(500), tr.StartTime)
	assert.Equal(t, hptime.HPT(2500), tr.EndTime)
}

func TestOverlaps(t *testing.T) {
	a := newTrace(Identity{}, 100, hptime.HPT(0), hptime.HPT(1000), quality.D)
	b := newTrace(Identity{}, 100, hptime.HPT(500), hptime.HPT(1500), quality.D)
	c := newTrace(Identity{}, 100, hptime.HPT(2000), hptime.HPT(3000), quality.D)

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
}
