// Package fakecodec is a deterministic, in-memory stand-in for a real
// Mini-SEED codec, used only by this repository's own tests: the real
// codec is an external collaborator with no Go implementation to ground a
// concrete one on.
//
// Its wire format is intentionally trivial: a fixed 64-byte header
// (identity, quality, start time, sample rate, sample count) followed by
// uncompressed big-endian int32 samples. It satisfies exactly the fields
// codec.Header says the core relies on and nothing more.
package fakecodec

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/earthscope-oss/dataselect/codec"
	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/quality"
)

// HeaderLen is the fixed header size in bytes.
const HeaderLen = 64

// Codec implements codec.Codec over the fixed-header wire format above.
type Codec struct{}

// New returns a ready-to-use fake codec.
func New() *Codec { return &Codec{} }

func putFixed(b []byte, s string, n int) {
	copy(b, s)
	for i := len(s); i < n; i++ {
		b[i] = ' '
	}
}

func getFixed(b []byte) string {
	i := len(b)
	for i > 0 && b[i-1] == ' ' {
		i--
	}
	return string(b[:i])
}

// Quality indicator byte offset within the header, matching real
// Mini-SEED's fixed data header layout so a restamp that pokes byte 6 of an
// emitted record lands on the same field this codec reports back out of
// ReadNext/Unpack.
const qualityOffset = 6

// Build encodes a complete record (header + samples) into wire bytes.
func Build(net, sta, loc, chan_ string, q quality.Quality, start hptime.HPT, rate float64, samples []int32) []byte {
	b := make([]byte, HeaderLen+4*len(samples))
	b[qualityOffset] = byte(q)
	putFixed(b[8:10], net, 2)
	putFixed(b[10:15], sta, 5)
	putFixed(b[15:17], loc, 2)
	putFixed(b[17:20], chan_, 3)
	binary.BigEndian.PutUint64(b[20:28], uint64(start))
	binary.BigEndian.PutUint64(b[28:36], math.Float64bits(rate))
	binary.BigEndian.PutUint32(b[36:40], uint32(len(samples)))
	for i, s := range samples {
		binary.BigEndian.PutUint32(b[HeaderLen+4*i:HeaderLen+4*i+4], uint32(s))
	}
	return b
}

// ReadNext implements codec.Codec.
func (c *Codec) ReadNext(r io.ReaderAt, pos int64, maxLen int) (codec.Header, int64, int32, error) {
	hdr := make([]byte, HeaderLen)
	n, err := r.ReadAt(hdr, pos)
	if err == io.EOF && n == 0 {
		return codec.Header{}, 0, 0, io.EOF
	}
	if err != nil && err != io.EOF {
		return codec.Header{}, 0, 0, err
	}
	if n < HeaderLen {
		return codec.Header{}, 0, 0, io.EOF
	}
	sampleCount := int(binary.BigEndian.Uint32(hdr[36:40]))
	length := HeaderLen + 4*sampleCount
	if length > maxLen {
		return codec.Header{}, 0, 0, fmt.Errorf("fakecodec: record at %d exceeds maxLen %d", pos, maxLen)
	}
	h, err := c.headerFrom(hdr, sampleCount)
	if err != nil {
		return codec.Header{}, 0, 0, err
	}
	return h, pos, int32(length), nil
}

func (c *Codec) headerFrom(hdr []byte, sampleCount int) (codec.Header, error) {
	rate := math.Float64frombits(binary.BigEndian.Uint64(hdr[28:36]))
	start := hptime.HPT(binary.BigEndian.Uint64(hdr[20:28]))
	end := start
	if sampleCount > 0 {
		end = start.AddSamples(int64(sampleCount-1), rate)
	}
	return codec.Header{
		Network:    getFixed(hdr[8:10]),
		Station:    getFixed(hdr[10:15]),
		Location:   getFixed(hdr[15:17]),
		Channel:    getFixed(hdr[17:20]),
		Quality:    quality.Quality(hdr[qualityOffset]),
		SampleRate: rate,
		StartTime:  start,
		EndTime:    end,
		SampleType: 'i',
	}, nil
}

// Unpack implements codec.Codec.
func (c *Codec) Unpack(b []byte) (codec.Record, error) {
	if len(b) < HeaderLen {
		return codec.Record{}, fmt.Errorf("fakecodec: short record (%d bytes)", len(b))
	}
	sampleCount := int(binary.BigEndian.Uint32(b[36:40]))
	if HeaderLen+4*sampleCount > len(b) {
		return codec.Record{}, fmt.Errorf("fakecodec: truncated samples")
	}
	hdr, err := c.headerFrom(b, sampleCount)
	if err != nil {
		return codec.Record{}, err
	}
	samples := make([]int32, sampleCount)
	for i := range samples {
		samples[i] = int32(binary.BigEndian.Uint32(b[HeaderLen+4*i : HeaderLen+4*i+4]))
	}
	return codec.Record{Header: hdr, Samples: samples}, nil
}

// Pack implements codec.Codec. It always produces exactly one output
// record, the invariant a trim relies on.
func (c *Codec) Pack(rec codec.Record, out codec.OutputAdapter) (int, int, error) {
	if len(rec.Samples) == 0 {
		return 0, 0, fmt.Errorf("fakecodec: refusing to pack zero samples")
	}
	b := Build(rec.Header.Network, rec.Header.Station, rec.Header.Location, rec.Header.Channel,
		rec.Header.Quality, rec.Header.StartTime, rec.Header.SampleRate, rec.Samples)
	if err := out.EmitRecord(b); err != nil {
		return 0, 0, err
	}
	return 1, len(rec.Samples), nil
}
