// Package writer implements the record writer: traversing a trace group in
// its defined order, reading each live descriptor's original bytes,
// delegating to trim when a descriptor carries trim marks, and fanning the
// result out to the configured sinks.
package writer

import (
	"context"
	"fmt"

	"github.com/earthscope-oss/dataselect/archive"
	"github.com/earthscope-oss/dataselect/codec"
	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/quality"
	"github.com/earthscope-oss/dataselect/record"
	"github.com/earthscope-oss/dataselect/trace"
	"github.com/earthscope-oss/dataselect/trim"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// scratchSize is the floor the write pass's scratch buffers must meet: a
// single 16 KiB region, large enough for any record this core handles.
const scratchSize = 16 * 1024

// Options configures one write pass.
type Options struct {
	// CombinedOutputPath, when non-empty, is the single combined sink
	// ("-" is stdout). Suffix ".snz" wraps it in snappy framing.
	CombinedOutputPath string
	Archives           []archive.Archive
	ReplaceInput       bool
	RemoveBackups      bool
	// RestampQuality, when non-zero, overwrites byte 6 of every emitted
	// record's header.
	RestampQuality quality.Quality
}

// FileStats is the per-file counter set the core exposes after a pass, so
// a multi-pass driver can persist it (see podstate) without re-scanning
// files it already consumed.
type FileStats struct {
	Path          string
	EarliestStart hptime.HPT
	LatestEnd     hptime.HPT
	BytesWritten  int64
	RecsWritten   int
	ReorderCount  int
	Removed       int
	Trimmed       int
	RecSplitCount int
}

// Write streams every live descriptor in g, in group order, to the
// configured sinks. It returns per-file statistics and the accumulated
// error across the pass; a per-record failure (corrupt trim, invalid trim
// times) is logged and the affected record is skipped, but an oversize
// record aborts the whole pass.
func Write(ctx context.Context, c codec.Codec, g *trace.Group, opts Options) ([]FileStats, error) {
	var combined Sink
	if opts.CombinedOutputPath != "" {
		combined = newCombinedSink(opts.CombinedOutputPath)
	}
	replaceSinks := make(map[*record.File]*replaceInputSink)

	recsWritten := make(map[*record.File]int)
	var order []*record.File
	seen := make(map[*record.File]bool)

	readBuf := make([]byte, scratchSize)
	trimBuf := make([]byte, scratchSize)

	errs := errors.Once{}
	var abortErr error

outer:
	for _, t := range g.Sorted() {
		t.Records.IterateInOrder(func(h record.Handle, d *record.Descriptor) bool {
			f := d.File
			if f != nil && !seen[f] {
				seen[f] = true
				order = append(order, f)
			}
			if d.Deleted() {
				return true
			}

			if int(d.Length) > scratchSize {
				abortErr = fmt.Errorf("dataselect: record at %s offset %d (%d bytes) exceeds %d-byte scratch buffer", f.Path, d.Offset, d.Length, scratchSize)
				return false
			}

			handle, err := f.Open()
			if err != nil {
				log.Error.Printf("dataselect: %v", err)
				errs.Set(err)
				return true
			}

			raw := readBuf[:d.Length]
			if _, err := handle.ReadAt(raw, d.Offset); err != nil {
				log.Error.Printf("dataselect: read %s at %d: %v", f.Path, d.Offset, err)
				errs.Set(err)
				return true
			}

			out := raw
			effStart, effEnd := d.Start, d.End
			if d.HasNewStart() || d.HasNewEnd() {
				res, err := trim.Trim(c, raw, d.Start, d.End, d.NewStart, d.NewEnd, trimBuf)
				if err != nil {
					if err == trim.ErrRepackUnderflow {
						log.Debug.Printf("dataselect: trim of %s offset %d produced no samples, treating as deleted", f.Path, d.Offset)
					} else {
						log.Error.Printf("dataselect: trim %s offset %d: %v", f.Path, d.Offset, err)
					}
					return true
				}
				out = res.Bytes
				effStart, effEnd = d.EffectiveStart(), d.EffectiveEnd()
				log.Debug.Printf("dataselect: trimmed %s offset %d: %d bytes, digest %x", f.Path, d.Offset, len(out), res.Digest)
			}

			if opts.RestampQuality != 0 && len(out) > 6 {
				restamped := make([]byte, len(out))
				copy(restamped, out)
				restamped[6] = byte(opts.RestampQuality)
				out = restamped
			}

			if combined != nil {
				if err := combined.AcceptRecord(ctx, out); err != nil {
					log.Error.Printf("dataselect: %v", err)
					errs.Set(err)
				}
			}
			for _, a := range opts.Archives {
				rec := archiveRecord(t, d, out, effStart)
				if err := a.StreamProcess(ctx, rec); err != nil {
					log.Error.Printf("dataselect: %v", err)
					errs.Set(err)
				}
			}
			if opts.ReplaceInput {
				rs, ok := replaceSinks[f]
				if !ok {
					rs = newReplaceInputSink(f.Path)
					replaceSinks[f] = rs
				}
				if err := rs.AcceptRecord(ctx, out); err != nil {
					log.Error.Printf("dataselect: %v", err)
					errs.Set(err)
				}
			}

			f.ObserveWrite(effStart, effEnd, t.SampleRate, int64(len(out)))
			recsWritten[f]++
			return true
		})
		if abortErr != nil {
			break outer
		}
	}

	if combined != nil {
		errs.Set(combined.Close(ctx))
	}
	for _, rs := range replaceSinks {
		errs.Set(rs.Close(ctx))
	}
	for _, a := range opts.Archives {
		errs.Set(a.Close(ctx))
	}
	for _, f := range order {
		errs.Set(f.Close())
	}

	stats := make([]FileStats, 0, len(order))
	for _, f := range order {
		stats = append(stats, FileStats{
			Path:          f.Path,
			EarliestStart: f.EarliestStart,
			LatestEnd:     f.LatestEnd,
			BytesWritten:  f.BytesWritten,
			RecsWritten:   recsWritten[f],
			ReorderCount:  f.ReorderCount,
			Removed:       f.Removed,
			Trimmed:       f.Trimmed,
			RecSplitCount: f.RecSplitCount,
		})
	}

	if abortErr != nil {
		return stats, abortErr
	}
	return stats, errs.Err()
}

func archiveRecord(t *trace.Trace, d *record.Descriptor, bytes []byte, start hptime.HPT) archive.Record {
	civil := hptime.ToTime(start)
	return archive.Record{
		Network:  t.Identity.Network,
		Station:  t.Identity.Station,
		Location: t.Identity.Location,
		Channel:  t.Identity.Channel,
		Quality:  byte(d.Quality),
		Year:     civil.Year(),
		Month:    int(civil.Month()),
		Day:      civil.Day(),
		Hour:     civil.Hour(),
		Bytes:    bytes,
	}
}
