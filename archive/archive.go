// Package archive implements routed archive sinks: each registered archive
// evaluates a path template per record and streams the record's bytes to
// the resulting location, local or remote.
package archive

import (
	"bytes"
	"context"
	"io"
	"sync"
	"text/template"

	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// Record is the subset of a written record's metadata an archive path
// template may reference.
type Record struct {
	Network, Station, Location, Channel string
	Quality                             byte
	Year                                int
	Month, Day, Hour                    int
	Bytes                               []byte
}

// Archive is the external collaborator contract: StreamProcess routes one
// record's bytes per the archive's own path template.
type Archive interface {
	StreamProcess(ctx context.Context, rec Record) error
	Close(ctx context.Context) error
}

type openSink struct {
	f file.File
	w io.Writer
}

// FileArchive evaluates a Go text/template against each record's metadata
// to get an output path, then streams bytes to it through
// github.com/grailbio/base/file, local or remote, keyed off the registered
// URL scheme (a bare path or "s3://..." once RegisterS3 has run).
type FileArchive struct {
	tmpl *template.Template

	mu   sync.Mutex
	open map[string]*openSink
}

// NewFileArchive parses pathTemplate (e.g. "archive/{{.Network}}/{{.Station}}/{{.Channel}}.{{.Year}}.{{printf \"%03d\" .Day}}")
// and returns an Archive that evaluates it per record.
func NewFileArchive(pathTemplate string) (*FileArchive, error) {
	t, err := template.New("archive").Parse(pathTemplate)
	if err != nil {
		return nil, errors.Wrapf(err, "dataselect: parse archive template %q", pathTemplate)
	}
	return &FileArchive{tmpl: t, open: make(map[string]*openSink)}, nil
}

func (a *FileArchive) evaluate(rec Record) (string, error) {
	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, rec); err != nil {
		return "", errors.Wrap(err, "dataselect: evaluate archive template")
	}
	return buf.String(), nil
}

// StreamProcess opens the evaluated path on first use (append-fashion: the
// file is kept open for the remainder of the pass) and writes rec.Bytes.
func (a *FileArchive) StreamProcess(ctx context.Context, rec Record) error {
	path, err := a.evaluate(rec)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.open[path]
	if !ok {
		f, err := file.Create(ctx, path)
		if err != nil {
			return errors.Wrapf(err, "dataselect: open archive sink %s", path)
		}
		s = &openSink{f: f, w: f.Writer(ctx)}
		a.open[path] = s
	}
	if _, err := s.w.Write(rec.Bytes); err != nil {
		return errors.Wrapf(err, "dataselect: write archive sink %s", path)
	}
	return nil
}

// Close closes every sink this archive opened during the pass, returning
// the first error encountered.
func (a *FileArchive) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var first error
	for path, s := range a.open {
		if err := s.f.Close(ctx); err != nil && first == nil {
			first = errors.Wrapf(err, "dataselect: close archive sink %s", path)
		}
	}
	a.open = make(map[string]*openSink)
	return first
}
