// Package quality implements the Mini-SEED record quality ranking: a
// single character drawn from {Q, D, R}, total ordered Q > D > R, with
// any unrecognized character treated as lowest priority.
package quality

// Quality is a single Mini-SEED quality character.
type Quality byte

// Recognized quality codes, highest priority first.
const (
	Q Quality = 'Q'
	D Quality = 'D'
	R Quality = 'R'
)

var rank = map[Quality]int{
	Q: 3,
	D: 2,
	R: 1,
}

func rankOf(q Quality) int {
	if r, ok := rank[q]; ok {
		return r
	}
	return 0
}

// Compare returns -1 if q1 outranks q2, +1 if q2 outranks q1, and 0 if they
// rank equally (including the case where both are the same unrecognized
// character).
func Compare(q1, q2 Quality) int {
	r1, r2 := rankOf(q1), rankOf(q2)
	switch {
	case r1 > r2:
		return -1
	case r1 < r2:
		return 1
	default:
		return 0
	}
}

// Outranks reports whether q1 strictly outranks q2.
func Outranks(q1, q2 Quality) bool {
	return Compare(q1, q2) < 0
}
