// Package prune implements overlap resolution: for every pair of
// same-channel, same-rate traces that overlap in time, choose a winner by
// quality/length and mark the loser's redundant records deleted or trim
// their endpoints at sample granularity.
package prune

import (
	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/quality"
	"github.com/earthscope-oss/dataselect/record"
	"github.com/earthscope-oss/dataselect/trace"
)

// Mode selects how aggressively the pruner eliminates redundant coverage.
type Mode int

const (
	// Off disables pruning entirely.
	Off Mode = iota
	// RecordLevel only deletes fully-redundant records.
	RecordLevel
	// SampleLevel additionally trims partially-overlapping records at
	// sample granularity.
	SampleLevel
)

// Options configures a pruning pass.
type Options struct {
	Mode        Mode
	BestQuality bool
	Tol         hptime.Tolerances
}

// Prune runs the pairwise overlap-resolution algorithm over every trace in
// g, mutating record descriptors in place (marking them deleted or setting
// trim marks). It does not touch the group's own structure.
//
// Each unordered pair of candidate traces is visited exactly once, with the
// earlier trace in the group's own sort order playing the "mst" role in the
// tie-break rule: ties are broken by giving precedence to mst, stable with
// the group's sort order. Visiting ordered pairs (mst, imst) and (imst,
// mst) independently would let the two visits disagree about which trace
// wins a tie, so only the triangular half of the matrix is walked.
func Prune(g *trace.Group, opts Options) {
	if opts.Mode == Off {
		return
	}
	traces := g.Sorted()
	for i := 0; i < len(traces); i++ {
		for j := i + 1; j < len(traces); j++ {
			mst, imst := traces[i], traces[j]
			if mst.Identity != imst.Identity || !opts.Tol.SameRate(mst.SampleRate, imst.SampleRate) {
				continue
			}
			if !mst.Overlaps(imst) {
				continue
			}
			hp, lp := choosePriority(mst, imst, opts.BestQuality)
			segs := coverageSegments(hp, opts.Tol)
			trimLoser(hp, lp, segs, opts.Mode)
		}
	}
}

// choosePriority decides the higher- and lower-priority trace of an
// overlapping pair: with bestQuality, quality breaks the tie; otherwise (or
// when quality ties), the longer span wins; a remaining tie favors mst.
func choosePriority(mst, imst *trace.Trace, bestQuality bool) (hp, lp *trace.Trace) {
	if bestQuality {
		switch quality.Compare(mst.Quality, imst.Quality) {
		case -1:
			return mst, imst
		case 1:
			return imst, mst
		}
	}
	spanMst := hptime.Sub(mst.EndTime, mst.StartTime)
	spanImst := hptime.Sub(imst.EndTime, imst.StartTime)
	if spanImst > spanMst {
		return imst, mst
	}
	return mst, imst
}

// trimLoser deletes or sample-trims every live descriptor of lp that
// overlaps hp's coverage.
func trimLoser(hp, lp *trace.Trace, segs []Segment, mode Mode) {
	period := hptime.SamplePeriod(hp.SampleRate)
	lp.Records.IterateInOrder(func(h record.Handle, d *record.Descriptor) bool {
		if d.Deleted() {
			return true
		}
		effStart, effEnd := d.EffectiveStart(), d.EffectiveEnd()

		if fullyCovered(segs, effStart, effEnd) {
			lp.Records.MarkDeleted(h)
			if d.File != nil {
				d.File.Removed++
			}
			return true
		}

		if mode != SampleLevel {
			return true
		}

		trimmed := false
		if !hptime.After(effStart, hp.StartTime) && !hptime.Before(effEnd, hp.StartTime) {
			lp.Records.SetNewEnd(h, hp.StartTime.AddTicks(-period))
			trimmed = true
		}
		if !hptime.After(effStart, hp.EndTime) && !hptime.Before(effEnd, hp.EndTime) {
			lp.Records.SetNewStart(h, hp.EndTime.AddTicks(period))
			trimmed = true
		}
		if trimmed && d.File != nil {
			d.File.Trimmed++
		}
		return true
	})
}
