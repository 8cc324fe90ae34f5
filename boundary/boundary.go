// Package boundary fragments a record descriptor when it straddles a
// chosen wall-clock boundary (day, hour, or minute).
package boundary

import (
	"time"

	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/record"
)

// Mode selects which wall-clock boundary records are split on.
type Mode int

const (
	// None disables splitting.
	None Mode = iota
	Day
	Hour
	Minute
)

// next returns the first boundary strictly greater than t: take the
// broken-down time of t, increment the relevant field, and zero finer
// fields.
func next(t hptime.HPT, mode Mode) hptime.HPT {
	civil := hptime.ToTime(t)
	var boundary time.Time
	switch mode {
	case Day:
		boundary = time.Date(civil.Year(), civil.Month(), civil.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	case Hour:
		boundary = time.Date(civil.Year(), civil.Month(), civil.Day(), civil.Hour(), 0, 0, 0, time.UTC).Add(time.Hour)
	case Minute:
		boundary = time.Date(civil.Year(), civil.Month(), civil.Day(), civil.Hour(), civil.Minute(), 0, 0, time.UTC).Add(time.Minute)
	default:
		return hptime.HPT(hptime.Unset)
	}
	return hptime.FromTime(boundary)
}

// Split fragments the descriptor at handle h into one or more sibling
// descriptors aligned to mode's boundary. It returns the number of new
// descriptors created; file.RecSplitCount is incremented once per new
// descriptor.
func Split(m *record.Map, h record.Handle, mode Mode, rate float64) int {
	if mode == None {
		return 0
	}
	created := 0
	period := hptime.SamplePeriod(rate)
	for {
		d := m.At(h)
		if d.Deleted() {
			return created
		}
		effStart := d.EffectiveStart()
		effEnd := d.EffectiveEnd()
		b := next(effStart, mode)
		if !hptime.Before(b, effEnd) {
			// Boundary is not before the record's end: nothing more to
			// split off.
			return created
		}
		// The final fragment [b, effEnd] would be empty only if b==effEnd,
		// which the !Before check above already excludes; a sibling always
		// carries at least one sample period of coverage here.
		newEnd := b.AddTicks(-period)
		if !hptime.Before(d.Start, newEnd) {
			// newEnd would not lie strictly after the record's start (the
			// boundary falls within one sample period of it), so no valid
			// trim mark can describe the first fragment; refuse to emit a
			// degenerate split.
			return created
		}
		m.SetNewEnd(h, newEnd)

		file := d.File
		sibling := m.InsertAfter(h, file, d.Offset, d.Length, d.Start, d.End, d.Quality)
		m.SetNewStart(sibling, b)
		if file != nil {
			file.RecSplitCount++
		}
		created++
		h = sibling
	}
}
