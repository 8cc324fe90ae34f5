// Package hptime implements the high-precision integer timestamp used
// throughout dataselect: a count of fixed fractional-second units since the
// epoch, with all arithmetic done in integers so that pruning and trimming
// decisions are reproducible bit-for-bit across runs.
package hptime

// Modulus is the number of HPT ticks per second.
const Modulus int64 = 1000000

// Unset is the sentinel value for "no time set".
const Unset int64 = -2208988800000000 // 1900-01-01T00:00:00Z, the mseedlib sentinel epoch.

// HPT is a count of Modulus-ths of a second since the Unix epoch.
type HPT int64

// IsSet reports whether t carries a real time value.
func (t HPT) IsSet() bool {
	return int64(t) != Unset
}

// Sub returns a-b in ticks.
func Sub(a, b HPT) int64 {
	return int64(a) - int64(b)
}

// SamplePeriod returns the sample period, in ticks, for a sample rate in Hz.
// A non-positive rate has no well-defined period and yields zero, matching
// the codec convention that a rate of zero means "no regular sampling".
func SamplePeriod(rate float64) int64 {
	if rate <= 0 {
		return 0
	}
	return int64(float64(Modulus) / rate)
}

// AddTicks returns t shifted by n ticks.
func (t HPT) AddTicks(n int64) HPT {
	return HPT(int64(t) + n)
}

// AddSamples returns t shifted by n sample periods at the given rate.
func (t HPT) AddSamples(n int64, rate float64) HPT {
	return t.AddTicks(n * SamplePeriod(rate))
}

// Before reports whether a occurs strictly before b.
func Before(a, b HPT) bool { return a < b }

// After reports whether a occurs strictly after b.
func After(a, b HPT) bool { return a > b }

// Min returns the earlier of a and b.
func Min(a, b HPT) HPT {
	if a < b {
		return a
	}
	return b
}

// Max returns the later of a and b.
func Max(a, b HPT) HPT {
	if a > b {
		return a
	}
	return b
}
