// Package record implements the record descriptor and per-trace record-map:
// a lightweight index over physical Mini-SEED records that never unpacks
// sample payloads.
//
// The record-map is an arena of descriptors addressed by integer Handle
// rather than an intrusive pointer chain: removal is "mark deleted in
// place" and insertion is an append plus relinking two handles, which
// keeps an O(1) head/tail splice without the pointer hazards of threading
// raw pointers through shared state.
package record

import "github.com/earthscope-oss/dataselect/hptime"
import "github.com/earthscope-oss/dataselect/quality"

// Handle addresses a Descriptor within a Map's arena; handles index the
// arena from zero. Nil is the explicit "no descriptor" value.
type Handle int32

// Nil is the sentinel Handle meaning "no descriptor".
const Nil Handle = -1

// Descriptor is a per-record index entry. Everything except
// NewStart/NewEnd/reclen (via MarkDeleted) is immutable once created.
type Descriptor struct {
	File   *File
	Offset int64
	Length int32 // the on-disk record length; 0 means logically deleted.

	Start, End hptime.HPT
	Quality    quality.Quality

	// NewStart/NewEnd instruct the writer to trim this record; hptime.Unset
	// means "not set".
	NewStart, NewEnd hptime.HPT

	prev, next Handle
}

// Deleted reports whether this descriptor carries no bytes.
func (d *Descriptor) Deleted() bool {
	return d.Length == 0
}

// HasNewStart reports whether NewStart has been set.
func (d *Descriptor) HasNewStart() bool {
	return hptime.HPT(d.NewStart).IsSet()
}

// HasNewEnd reports whether NewEnd has been set.
func (d *Descriptor) HasNewEnd() bool {
	return hptime.HPT(d.NewEnd).IsSet()
}

// EffectiveStart returns NewStart if set, else Start (the "effective
// start/end" of the glossary).
func (d *Descriptor) EffectiveStart() hptime.HPT {
	if d.HasNewStart() {
		return d.NewStart
	}
	return d.Start
}

// EffectiveEnd returns NewEnd if set, else End.
func (d *Descriptor) EffectiveEnd() hptime.HPT {
	if d.HasNewEnd() {
		return d.NewEnd
	}
	return d.End
}

// newDescriptor builds a Descriptor with its marks unset.
func newDescriptor(file *File, offset int64, length int32, start, end hptime.HPT, q quality.Quality) Descriptor {
	return Descriptor{
		File:     file,
		Offset:   offset,
		Length:   length,
		Start:    start,
		End:      end,
		Quality:  q,
		NewStart: hptime.HPT(hptime.Unset),
		NewEnd:   hptime.HPT(hptime.Unset),
		prev:     Nil,
		next:     Nil,
	}
}
