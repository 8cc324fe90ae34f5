package diag

import (
	"github.com/aclements/go-moremath/stats"

	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/trace"
)

// PassStats is the JSON document served at /stats: post-pass coverage
// diagnostics plus per-trace descriptor counts (SegmentCounts holds each
// trace's record-map length, deleted descriptors included) and a
// span-length summary.
type PassStats struct {
	TraceCount     int       `json:"trace_count"`
	SegmentCounts  []int     `json:"segment_counts"`
	MeanSpanSecs   float64   `json:"mean_span_secs"`
	StdDevSpanSecs float64   `json:"stddev_span_secs"`
	Overlaps       []Overlap `json:"overlaps"`
}

// BuildStats summarizes traces for the diagnostics endpoint, using
// aclements/go-moremath/stats to reduce the span-length sample to
// mean/stddev.
func BuildStats(traces []*trace.Trace) PassStats {
	xs := make([]float64, len(traces))
	counts := make([]int, len(traces))
	for i, t := range traces {
		counts[i] = t.Records.Len()
		xs[i] = float64(hptime.Sub(t.EndTime, t.StartTime)) / float64(hptime.Modulus)
	}
	sample := stats.Sample{Xs: xs}
	return PassStats{
		TraceCount:     len(traces),
		SegmentCounts:  counts,
		MeanSpanSecs:   sample.Mean(),
		StdDevSpanSecs: sample.StdDev(),
		Overlaps:       ResidualOverlaps(traces),
	}
}
