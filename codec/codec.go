// Package codec declares the Mini-SEED codec contract the core consumes.
// The codec itself — record parsing, sample unpack/repack, time-field
// decoding — is an external collaborator: this package only names the
// shape the core depends on, so that the reader, pruner, and trimmer never
// need to know the wire format.
package codec

import (
	"io"

	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/quality"
)

// Header is the subset of a Mini-SEED record's header the core relies on:
// start-time, end-time, sample rate, channel identity, quality, and reclen.
type Header struct {
	Network, Station, Location, Channel string
	Quality                             quality.Quality
	SampleRate                          float64
	StartTime, EndTime                  hptime.HPT
	SampleType                          byte
}

// Record is an unpacked record: its header plus decoded samples. SampleType
// follows the codec's own convention (e.g. 'i'nt32, 'f'loat32, ...); the
// core never interprets sample values, only the count.
type Record struct {
	Header  Header
	Samples []int32
}

// OutputAdapter receives the bytes of one packed output record at a time.
// It models the codec's pack callback as an explicit per-invocation object
// instead of a hidden global, so trim.Trim can supply a
// scratch-buffer-backed adapter per call.
type OutputAdapter interface {
	// EmitRecord is called once per output record the codec produces from
	// a single Pack invocation. A trim only ever produces at most one
	// record; a Pack implementation used outside a trim could in principle
	// call it more than once.
	EmitRecord(b []byte) error
}

// Codec is the external Mini-SEED collaborator contract.
type Codec interface {
	// ReadNext scans r for the next record, returning its header, its byte
	// offset within r, and its on-disk length. maxLen bounds how many
	// bytes may be consumed; io.EOF is returned when no further record is
	// available.
	ReadNext(r io.ReaderAt, pos int64, maxLen int) (hdr Header, offset int64, length int32, err error)

	// Unpack decodes a complete record's bytes into its header and
	// samples.
	Unpack(b []byte) (Record, error)

	// Pack encodes rec back into wire format, delivering the result
	// through out. It returns the number of output records and the total
	// number of samples packed.
	Pack(rec Record, out OutputAdapter) (outputRecordCount, outputSampleCount int, err error)
}
