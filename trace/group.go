package trace

import (
	"fmt"
	"sort"

	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/quality"
)

// Whence classifies where the reader should attach a newly-read record
// within its trace's record-map.
type Whence int

const (
	// Tail means the record should be appended to the end of the chain.
	Tail Whence = iota
	// Head means the record should be prepended to the start of the chain.
	Head
	// New means the trace's chain is empty; the record is its first entry.
	New
)

// ErrInternalMisclassification is returned by Insert when a record is
// neither a tail, head, nor new-trace extension of its matched trace: an
// internal out-of-order record that cannot be classified.
type ErrInternalMisclassification struct {
	Identity Identity
	Start    hptime.HPT
	End      hptime.HPT
}

func (e *ErrInternalMisclassification) Error() string {
	return fmt.Sprintf("dataselect: record %s [%d,%d] is out of order within its trace and could not be classified as head or tail",
		e.Identity, e.Start, e.End)
}

// Group is an ordered collection of traces, keyed for lookup by identity
// and iterated in a fixed order for the pruner and writer.
type Group struct {
	tol         hptime.Tolerances
	bestQuality bool

	byKey map[key][]*Trace
	all   []*Trace
}

// NewGroup returns an empty trace group.
func NewGroup(tol hptime.Tolerances, bestQuality bool) *Group {
	return &Group{
		tol:         tol,
		bestQuality: bestQuality,
		byKey:       make(map[key][]*Trace),
	}
}

// Traces returns every trace currently in the group, in no particular order.
func (g *Group) Traces() []*Trace { return g.all }

// findCandidate locates an existing trace this record should merge into:
// same identity, sample rate within tolerance, and the record's range
// within timeTol of the trace's endpoints, either touching them or
// continuing one sample period past them (or overlapping it outright).
// With bestQuality on, a quality mismatch vetoes the merge even if
// everything else matches.
func (g *Group) findCandidate(id Identity, rate float64, start, end hptime.HPT, q quality.Quality) *Trace {
	for _, t := range g.byKey[id.key()] {
		if t.Identity != id {
			continue // hash collision across distinct identities.
		}
		if !g.tol.SameRate(t.SampleRate, rate) {
			continue
		}
		if g.bestQuality && t.Quality != q {
			continue
		}
		period := hptime.SamplePeriod(rate)
		abuts := g.tol.WithinTime(start, t.EndTime, rate) || g.tol.WithinTime(end, t.StartTime, rate) ||
			g.tol.WithinTime(start, t.EndTime.AddTicks(period), rate) || g.tol.WithinTime(end.AddTicks(period), t.StartTime, rate)
		overlaps := hptime.Before(t.StartTime, end) && hptime.After(t.EndTime, start)
		if abuts || overlaps {
			return t
		}
	}
	return nil
}

// Insert absorbs a newly-read record's span into the group and reports
// which end of its trace's record-map the reader should attach the
// descriptor to.
//
// New-trace detection must run before the head/tail equality tests: a
// freshly created trace's StartTime and EndTime both equal the inserted
// record's own span, so the equality tests would otherwise match
// trivially and mask the New case.
func (g *Group) Insert(id Identity, rate float64, start, end hptime.HPT, q quality.Quality) (*Trace, Whence, error) {
	if t := g.findCandidate(id, rate, start, end, q); t != nil {
		isNewChain := t.Records.Len() == 0
		priorStart, priorEnd := t.StartTime, t.EndTime
		t.absorb(start, end)
		if isNewChain {
			return t, New, nil
		}
		if start == end {
			// Zero-span record: attach to whichever endpoint is closer.
			distHead := hptime.Sub(start, priorStart)
			if distHead < 0 {
				distHead = -distHead
			}
			distTail := hptime.Sub(start, priorEnd)
			if distTail < 0 {
				distTail = -distTail
			}
			if distHead <= distTail {
				return t, Head, nil
			}
			return t, Tail, nil
		}
		if t.EndTime == end {
			return t, Tail, nil
		}
		if t.StartTime == start {
			return t, Head, nil
		}
		return nil, 0, &ErrInternalMisclassification{Identity: id, Start: start, End: end}
	}

	t := newTrace(id, rate, start, end, q)
	k := id.key()
	g.byKey[k] = append(g.byKey[k], t)
	g.all = append(g.all, t)
	return t, New, nil
}

// Sorted returns every trace in the group in the ordering pruner/writer
// iteration uses: channel identity ascending, sample rate ascending,
// start-time ascending, end-time descending (so a longer trace precedes a
// shorter one starting at the same instant).
func (g *Group) Sorted() []*Trace {
	out := make([]*Trace, len(g.all))
	copy(out, g.all)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Identity != b.Identity {
			return a.Identity.Less(b.Identity)
		}
		if a.SampleRate != b.SampleRate {
			return a.SampleRate < b.SampleRate
		}
		if a.StartTime != b.StartTime {
			return hptime.Before(a.StartTime, b.StartTime)
		}
		return hptime.After(a.EndTime, b.EndTime)
	})
	return out
}

// SameChannel returns every trace sharing identity id, in insertion order.
func (g *Group) SameChannel(id Identity) []*Trace {
	var out []*Trace
	for _, t := range g.byKey[id.key()] {
		if t.Identity == id {
			out = append(out, t)
		}
	}
	return out
}
