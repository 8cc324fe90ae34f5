package prune

import (
	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/record"
	"github.com/earthscope-oss/dataselect/trace"
)

// Segment is a coalesced span of a trace's coverage.
type Segment struct {
	Start, End hptime.HPT
}

// coverageSegments walks t's record-map in chain order and coalesces
// consecutive non-deleted descriptors into segments, starting a new segment
// whenever the gap between one descriptor's effective end (plus one sample
// period) and the next descriptor's effective start exceeds the tolerance.
//
// This is the same "merge touching/overlapping spans into a union of
// intervals" idea as an endpoint-union scan over sorted intervals, done
// here over a trace's own record chain instead of a sorted endpoint array,
// since the record-map is already time-ordered and need not be re-sorted.
func coverageSegments(t *trace.Trace, tol hptime.Tolerances) []Segment {
	var segs []Segment
	period := hptime.SamplePeriod(t.SampleRate)
	tolTicks := tol.Ticks(t.SampleRate)

	t.Records.IterateInOrder(func(h record.Handle, d *record.Descriptor) bool {
		if d.Deleted() {
			return true
		}
		start, end := d.EffectiveStart(), d.EffectiveEnd()
		if len(segs) == 0 {
			segs = append(segs, Segment{Start: start, End: end})
			return true
		}
		last := &segs[len(segs)-1]
		gap := hptime.Sub(start, last.End.AddTicks(period))
		if gap > tolTicks {
			segs = append(segs, Segment{Start: start, End: end})
		} else if hptime.After(end, last.End) {
			last.End = end
		}
		return true
	})
	return segs
}

// fullyCovered reports whether [start,end] lies entirely within one of segs.
func fullyCovered(segs []Segment, start, end hptime.HPT) bool {
	for _, s := range segs {
		if !hptime.Before(start, s.Start) && !hptime.After(end, s.End) {
			return true
		}
	}
	return false
}
