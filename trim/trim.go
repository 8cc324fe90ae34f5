// Package trim implements a sample-accurate record trimmer: unpacking a
// single record, dropping samples from its head/tail to honor a new start
// or end time, and repacking it into a fixed-size output buffer.
package trim

import (
	"fmt"

	"github.com/earthscope-oss/dataselect/codec"
	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/record"
	"github.com/minio/highwayhash"
)

// ErrInvalidTrim reports a trim mark that doesn't fall strictly inside the
// descriptor's own span. The caller (writer) must log and skip the write
// for this descriptor without marking it deleted.
type ErrInvalidTrim struct {
	Reason string
}

func (e *ErrInvalidTrim) Error() string { return "dataselect: invalid trim: " + e.Reason }

// ErrRepackUnderflow reports that repacking produced zero samples: the
// caller must treat the descriptor as deleted for the remainder of the
// write.
var ErrRepackUnderflow = fmt.Errorf("dataselect: trim produced zero samples")

var digestKey = [32]byte{} // all-zero key: content fingerprint, not a MAC.

// bufferAdapter collects the single output record a trim is expected to
// produce.
type bufferAdapter struct {
	out []byte
	n   int
}

func (b *bufferAdapter) EmitRecord(rec []byte) error {
	if b.n > 0 {
		return fmt.Errorf("dataselect: trim repack produced more than one output record")
	}
	if len(rec) > len(b.out) {
		return fmt.Errorf("dataselect: repacked record (%d bytes) exceeds scratch buffer (%d bytes)", len(rec), len(b.out))
	}
	copy(b.out, rec)
	b.out = b.out[:len(rec)]
	b.n++
	return nil
}

// validate checks a descriptor's trim marks fall strictly inside its span.
func validate(start, end, newStart, newEnd hptime.HPT) error {
	hasStart := newStart.IsSet()
	hasEnd := newEnd.IsSet()
	if hasStart && !(hptime.After(newStart, start) && hptime.Before(newStart, end)) {
		return &ErrInvalidTrim{Reason: fmt.Sprintf("newStart %d not strictly inside (%d,%d)", newStart, start, end)}
	}
	if hasEnd && !(hptime.After(newEnd, start) && hptime.Before(newEnd, end)) {
		return &ErrInvalidTrim{Reason: fmt.Sprintf("newEnd %d not strictly inside (%d,%d)", newEnd, start, end)}
	}
	if hasStart && hasEnd && !hptime.Before(newStart, newEnd) {
		return &ErrInvalidTrim{Reason: fmt.Sprintf("newStart %d not before newEnd %d", newStart, newEnd)}
	}
	return nil
}

// Result carries the repacked bytes and a content digest for diagnostics.
type Result struct {
	Bytes  []byte
	Digest [highwayhash.Size]byte
}

// Trim unpacks raw (the original record bytes), drops samples from the
// head and/or tail to honor newStart/newEnd, and repacks into scratch,
// which must be at least as large as the original record: repacking never
// produces a record larger than the one it replaces.
func Trim(c codec.Codec, raw []byte, start, end, newStart, newEnd hptime.HPT, scratch []byte) (Result, error) {
	if err := validate(start, end, newStart, newEnd); err != nil {
		return Result{}, err
	}

	rec, err := c.Unpack(raw)
	if err != nil {
		return Result{}, fmt.Errorf("dataselect: trim unpack: %w", err)
	}

	period := hptime.SamplePeriod(rec.Header.SampleRate)
	if newStart.IsSet() && period > 0 {
		drop := int(roundDiv(hptime.Sub(newStart, start), period))
		if drop > 0 {
			if drop > len(rec.Samples) {
				drop = len(rec.Samples)
			}
			rec.Samples = rec.Samples[drop:]
			rec.Header.StartTime = newStart
		}
	}
	if newEnd.IsSet() && period > 0 {
		drop := int(roundDiv(hptime.Sub(end, newEnd), period))
		if drop > 0 {
			if drop > len(rec.Samples) {
				drop = len(rec.Samples)
			}
			rec.Samples = rec.Samples[:len(rec.Samples)-drop]
			rec.Header.EndTime = newEnd
		}
	}

	if len(rec.Samples) == 0 {
		return Result{}, ErrRepackUnderflow
	}

	adapter := &bufferAdapter{out: scratch}
	outRecs, _, err := c.Pack(rec, adapter)
	if err != nil {
		return Result{}, fmt.Errorf("dataselect: trim repack: %w", err)
	}
	if outRecs != 1 {
		return Result{}, fmt.Errorf("dataselect: trim repack produced %d records, want 1", outRecs)
	}

	digest := highwayhash.Sum(adapter.out, digestKey[:])
	return Result{Bytes: adapter.out, Digest: digest}, nil
}

// roundDiv rounds a/b to the nearest integer.
func roundDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	if (a < 0) != (b < 0) {
		return -roundDiv(-a, b)
	}
	return (a + b/2) / b
}
