package hptime

// Tolerances bundles the two continuity tolerances that decide whether two
// records belong to the same continuous series: timeTol decides whether two
// records abut closely enough in time, and sampRateTol decides whether two
// sample rates are "the same" rate for aggregation purposes.
type Tolerances struct {
	// TimeTol is in seconds; -1 means "auto" (half a sample period).
	TimeTol float64
	// SampRateTol is a fraction; -1 means "codec default" (the commonly
	// used mseedlib convention: within 0.0001 of the higher rate, or 0.5%,
	// whichever is looser).
	SampRateTol float64
}

// AutoTimeTol is the sentinel for "derive from sample rate".
const AutoTimeTol = -1

// AutoSampRateTol is the sentinel for "use the codec default".
const AutoSampRateTol = -1

// Ticks returns the concrete time tolerance, in HPT ticks, for a series
// sampled at rate Hz: half a sample period when TimeTol is auto, else
// TimeTol seconds converted to ticks.
func (tol Tolerances) Ticks(rate float64) int64 {
	if tol.TimeTol == AutoTimeTol {
		return SamplePeriod(rate) / 2
	}
	return int64(tol.TimeTol * float64(Modulus))
}

// WithinTime reports whether a and b are within tol's time tolerance of each
// other for a series sampled at rate Hz.
func (tol Tolerances) WithinTime(a, b HPT, rate float64) bool {
	d := Sub(a, b)
	if d < 0 {
		d = -d
	}
	return d <= tol.Ticks(rate)
}

// SameRate reports whether rate1 and rate2 are the same sample rate within
// tol's sample-rate tolerance.
func (tol Tolerances) SameRate(rate1, rate2 float64) bool {
	if rate1 == rate2 {
		return true
	}
	if rate1 == 0 || rate2 == 0 {
		return false
	}
	hi := rate1
	lo := rate2
	if lo > hi {
		hi, lo = lo, hi
	}
	diff := hi - lo
	fracTol := tol.SampRateTol
	if fracTol == AutoSampRateTol {
		// mseedlib default: the tighter of 0.0001 * hi and 0.5% of hi is
		// NOT what the convention says; the convention is "whichever
		// applies" meaning the looser of the two bounds is accepted.
		absTol := 0.0001 * hi
		pctTol := 0.005 * hi
		limit := absTol
		if pctTol > limit {
			limit = pctTol
		}
		return diff <= limit
	}
	return diff <= fracTol*hi
}
