// Package reader implements the indexer: scanning input files, filtering
// records, routing each into its trace, attaching it to the record-map,
// and applying first-pass window trimming and boundary splitting.
package reader

import (
	"fmt"
	"io"
	"regexp"

	"github.com/earthscope-oss/dataselect/boundary"
	"github.com/earthscope-oss/dataselect/codec"
	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/record"
	"github.com/earthscope-oss/dataselect/trace"
	"github.com/grailbio/base/log"
)

// Options configures a read pass.
type Options struct {
	WindowStart, WindowEnd  hptime.HPT // hptime.Unset disables the corresponding bound.
	MatchRegex, RejectRegex *regexp.Regexp
	SplitBoundary           boundary.Mode
	SampleLevelWindowTrim   bool // mirrors prunedata == sample; also gates window trimming.
	Tolerances              hptime.Tolerances
	BestQuality             bool
}

// Reader ingests files into a shared trace group.
type Reader struct {
	Codec codec.Codec
	Group *trace.Group
	Opts  Options

	RecsRead int
}

// New returns a Reader that will insert records into group.
func New(c codec.Codec, group *trace.Group, opts Options) *Reader {
	return &Reader{Codec: c, Group: group, Opts: opts}
}

func windowIsSet(t hptime.HPT) bool { return t.IsSet() }

// outsideWindow reports whether [start,end] lies entirely outside the
// configured window.
func (r *Reader) outsideWindow(start, end hptime.HPT) bool {
	if windowIsSet(r.Opts.WindowStart) && hptime.Before(end, r.Opts.WindowStart) {
		return true
	}
	if windowIsSet(r.Opts.WindowEnd) && hptime.After(start, r.Opts.WindowEnd) {
		return true
	}
	return false
}

func (r *Reader) matchesFilter(id string) bool {
	if r.Opts.MatchRegex != nil && !r.Opts.MatchRegex.MatchString(id) {
		return false
	}
	if r.Opts.RejectRegex != nil && r.Opts.RejectRegex.MatchString(id) {
		return false
	}
	return true
}

// IngestFile opens f (from f.ReadPath, via f.Open) and scans it entirely,
// attaching surviving records to r.Group. f.Path is used only for
// diagnostics.
func (r *Reader) IngestFile(f *record.File) error {
	handle, err := f.Open()
	if err != nil {
		return fmt.Errorf("dataselect: open %s: %w", f.Path, err)
	}

	const maxRecLen = 16 * 1024
	var pos int64
	for {
		hdr, offset, length, err := r.Codec.ReadNext(handle, pos, maxRecLen)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("dataselect: reading %s at %d: %w", f.Path, pos, err)
		}
		pos = offset + int64(length)

		id := fmt.Sprintf("%s_%s_%s_%s_%c", hdr.Network, hdr.Station, hdr.Location, hdr.Channel, hdr.Quality)
		if r.outsideWindow(hdr.StartTime, hdr.EndTime) {
			continue // outside window: silently dropped, no counter.
		}
		if !r.matchesFilter(id) {
			continue // FilterSkip.
		}
		r.RecsRead++

		identity := trace.Identity{Network: hdr.Network, Station: hdr.Station, Location: hdr.Location, Channel: hdr.Channel}
		t, whence, err := r.Group.Insert(identity, hdr.SampleRate, hdr.StartTime, hdr.EndTime, hdr.Quality)
		if err != nil {
			log.Error.Printf("dataselect: %v", err) // InternalMisclassification: log, skip.
			continue
		}

		var h record.Handle
		switch whence {
		case trace.Head:
			h = t.Records.PrependHead(f, offset, length, hdr.StartTime, hdr.EndTime, hdr.Quality)
			f.ReorderCount++
		default: // trace.Tail, trace.New
			h = t.Records.AppendTail(f, offset, length, hdr.StartTime, hdr.EndTime, hdr.Quality)
		}

		r.applyWindowTrim(t.Records, h, hdr.StartTime, hdr.EndTime)

		if r.Opts.SplitBoundary != boundary.None {
			boundary.Split(t.Records, h, r.Opts.SplitBoundary, hdr.SampleRate)
		}
	}
	return nil
}

// applyWindowTrim: when the record straddles a configured window bound,
// the corresponding new-start/new-end mark is set unconditionally, not
// only when already set.
func (r *Reader) applyWindowTrim(m *record.Map, h record.Handle, start, end hptime.HPT) {
	if !r.Opts.SampleLevelWindowTrim {
		return
	}
	if windowIsSet(r.Opts.WindowStart) && hptime.After(r.Opts.WindowStart, start) && hptime.Before(r.Opts.WindowStart, end) {
		m.SetNewStart(h, r.Opts.WindowStart)
	}
	if windowIsSet(r.Opts.WindowEnd) && hptime.After(r.Opts.WindowEnd, start) && hptime.Before(r.Opts.WindowEnd, end) {
		m.SetNewEnd(h, r.Opts.WindowEnd)
	}
}
