package writer

import (
	"context"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// Sink is the polymorphic output surface: combined-file, archive set, and
// replace-input are three variants of one capability, accepting the bytes
// of one record at a time.
type Sink interface {
	AcceptRecord(ctx context.Context, b []byte) error
	Close(ctx context.Context) error
}

// combinedSink is the single configured output file, opened on first
// write, "-" meaning stdout. When path ends
// in ".snz" the byte stream is wrapped in a snappy framed writer so a
// pass's whole output condenses to one compact archive file.
type combinedSink struct {
	path string

	f    file.File
	w    io.Writer
	snz  *snappy.Writer
	once bool
}

func newCombinedSink(path string) *combinedSink {
	return &combinedSink{path: path}
}

func (s *combinedSink) open(ctx context.Context) error {
	if s.once {
		return nil
	}
	s.once = true
	if s.path == "-" {
		s.w = os.Stdout
	} else {
		f, err := file.Create(ctx, s.path)
		if err != nil {
			return errors.Wrapf(err, "dataselect: open combined output %s", s.path)
		}
		s.f = f
		s.w = f.Writer(ctx)
	}
	if isSnappyPath(s.path) {
		s.snz = snappy.NewBufferedWriter(s.w)
		s.w = s.snz
	}
	return nil
}

func isSnappyPath(path string) bool {
	return len(path) > 4 && path[len(path)-4:] == ".snz"
}

func (s *combinedSink) AcceptRecord(ctx context.Context, b []byte) error {
	if err := s.open(ctx); err != nil {
		return err
	}
	_, err := s.w.Write(b)
	return errors.Wrapf(err, "dataselect: write combined output %s", s.path)
}

func (s *combinedSink) Close(ctx context.Context) error {
	if !s.once {
		return nil
	}
	var err error
	if s.snz != nil {
		err = s.snz.Close()
	}
	if s.f != nil {
		if cerr := s.f.Close(ctx); err == nil {
			err = cerr
		}
	}
	return errors.Wrapf(err, "dataselect: close combined output %s", s.path)
}

// replaceInputSink writes the deduplicated stream for one input file back
// over its original name, after the reader has shadowed it to "name.orig".
// One instance is created per input path on first write.
type replaceInputSink struct {
	path string

	f    file.File
	w    io.Writer
	once bool
}

func newReplaceInputSink(path string) *replaceInputSink {
	return &replaceInputSink{path: path}
}

func (s *replaceInputSink) AcceptRecord(ctx context.Context, b []byte) error {
	if !s.once {
		s.once = true
		f, err := file.Create(ctx, s.path)
		if err != nil {
			return errors.Wrapf(err, "dataselect: open replace-input sink %s", s.path)
		}
		s.f = f
		s.w = f.Writer(ctx)
	}
	_, err := s.w.Write(b)
	return errors.Wrapf(err, "dataselect: write replace-input sink %s", s.path)
}

func (s *replaceInputSink) Close(ctx context.Context) error {
	if s.f == nil {
		return nil
	}
	return errors.Wrapf(s.f.Close(ctx), "dataselect: close replace-input sink %s", s.path)
}
