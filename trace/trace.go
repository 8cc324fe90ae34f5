package trace

import (
	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/quality"
	"github.com/earthscope-oss/dataselect/record"
)

// Trace is an aggregate of a channel's contiguous-or-near-contiguous
// records.
type Trace struct {
	Identity   Identity
	SampleRate float64
	StartTime  hptime.HPT
	EndTime    hptime.HPT
	// SampleCount is an estimate derived from the envelope and rate (the
	// core never unpacks payloads, so it cannot know the true count).
	SampleCount int64
	// Quality is the quality of the records absorbed so far; only
	// meaningful when the group runs with bestQuality, which refuses to
	// merge records of differing quality into one trace.
	Quality quality.Quality

	Records *record.Map
}

func newTrace(id Identity, rate float64, start, end hptime.HPT, q quality.Quality) *Trace {
	t := &Trace{
		Identity:   id,
		SampleRate: rate,
		StartTime:  start,
		EndTime:    end,
		Quality:    q,
		Records:    record.NewMap(),
	}
	t.recomputeSampleCount()
	return t
}

func (t *Trace) recomputeSampleCount() {
	period := hptime.SamplePeriod(t.SampleRate)
	if period <= 0 {
		t.SampleCount = 0
		return
	}
	d := hptime.Sub(t.EndTime, t.StartTime)
	t.SampleCount = d/period + 1
}

func (t *Trace) absorb(start, end hptime.HPT) {
	t.StartTime = hptime.Min(t.StartTime, start)
	t.EndTime = hptime.Max(t.EndTime, end)
	t.recomputeSampleCount()
}

// Overlaps reports whether t and other overlap in time, the pruner's
// pairwise overlap test.
func (t *Trace) Overlaps(other *Trace) bool {
	return hptime.After(t.EndTime, other.StartTime) && hptime.Before(t.StartTime, other.EndTime)
}
