package diag

import (
	"github.com/biogo/store/interval"

	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/trace"
)

// traceInterval adapts a trace's envelope to the three-method element
// contract biogo/store/interval.IntTree expects (ID, Range, Overlap).
type traceInterval struct {
	id uintptr
	t  *trace.Trace
}

func (ti traceInterval) ID() uintptr { return ti.id }

func (ti traceInterval) Range() interval.IntRange {
	return interval.IntRange{Start: int(ti.t.StartTime), End: int(ti.t.EndTime)}
}

func (ti traceInterval) Overlap(b interval.IntRange) bool {
	r := ti.Range()
	return b.Start < r.End && r.Start < b.End
}

// Overlap names one residual pair of same-channel traces that still overlap
// after a pass — expected to be empty once pruning has run to completion.
type Overlap struct {
	Channel string
	A, B    [2]hptime.HPT
}

// ResidualOverlaps builds one interval tree per channel identity over live
// trace envelopes and reports every pair that still overlaps. This is a
// read-only reporting aid; it plays no part in the pruner's own decisions,
// which follow their own O(T²) walk independently.
func ResidualOverlaps(traces []*trace.Trace) []Overlap {
	byChannel := make(map[string][]*trace.Trace)
	for _, t := range traces {
		byChannel[t.Identity.String()] = append(byChannel[t.Identity.String()], t)
	}

	var out []Overlap
	for channel, ts := range byChannel {
		var tree interval.IntTree
		for i, t := range ts {
			if err := tree.Insert(traceInterval{id: uintptr(i), t: t}, true); err != nil {
				continue
			}
		}
		tree.AdjustRanges()

		type pair struct{ a, b uintptr }
		seen := make(map[pair]bool)
		for i, t := range ts {
			for _, h := range tree.Get(traceInterval{id: uintptr(i), t: t}) {
				other := h.(traceInterval)
				if other.id == uintptr(i) {
					continue
				}
				p := pair{uintptr(i), other.id}
				if p.a > p.b {
					p.a, p.b = p.b, p.a
				}
				if seen[p] {
					continue
				}
				seen[p] = true
				out = append(out, Overlap{
					Channel: channel,
					A:       [2]hptime.HPT{t.StartTime, t.EndTime},
					B:       [2]hptime.HPT{other.t.StartTime, other.t.EndTime},
				})
			}
		}
	}
	return out
}
