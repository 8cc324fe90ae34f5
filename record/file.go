package record

import (
	"os"
	"sync"

	"github.com/earthscope-oss/dataselect/hptime"
)

// File is a per-input-file entry referenced by every Descriptor read from
// it: every descriptor references a file entry whose lifetime outlives the
// descriptor. It also accumulates the per-file counters the writer reports
// after a pass.
type File struct {
	Path string
	// ReadPath is where the file's bytes are actually read from; it differs
	// from Path only when replaceInput shadowing has renamed the original
	// file to "Path.orig" before the read pass. Defaults to Path.
	ReadPath string

	// ReorderCount counts records the reader attached to a record-map head
	// rather than tail.
	ReorderCount int
	// Removed counts descriptors the pruner marked deleted.
	Removed int
	// Trimmed counts descriptors the pruner sample-trimmed.
	Trimmed int
	// RecSplitCount counts descriptors the boundary splitter produced.
	RecSplitCount int

	// EarliestStart and LatestEnd track the span of bytes this file has
	// contributed to a write pass; LatestEnd is extended by one sample
	// period past the final record's end.
	EarliestStart hptime.HPT
	LatestEnd     hptime.HPT
	// BytesWritten is the number of output bytes sourced from this file.
	BytesWritten int64

	once   sync.Once
	handle *os.File
	openErr error
}

// NewFile creates a File entry for path with its span counters unset.
func NewFile(path string) *File {
	return &File{
		Path:          path,
		ReadPath:      path,
		EarliestStart: hptime.HPT(hptime.Unset),
		LatestEnd:     hptime.HPT(hptime.Unset),
	}
}

// Open lazily opens the underlying OS file for reading, keeping it open for
// reuse across every descriptor that references this File. It is opened
// lazily on first access and closed deterministically at pass end.
func (f *File) Open() (*os.File, error) {
	f.once.Do(func() {
		f.handle, f.openErr = os.Open(f.ReadPath)
	})
	return f.handle, f.openErr
}

// Close closes the underlying OS file handle, if one was opened.
func (f *File) Close() error {
	if f.handle == nil {
		return nil
	}
	h := f.handle
	f.handle = nil
	f.once = sync.Once{}
	return h.Close()
}

// ObserveWrite folds a single emitted record's span and byte count into the
// file's running counters.
func (f *File) ObserveWrite(start, end hptime.HPT, rate float64, n int64) {
	if !f.EarliestStart.IsSet() || hptime.Before(start, f.EarliestStart) {
		f.EarliestStart = start
	}
	extended := end.AddSamples(1, rate)
	if !f.LatestEnd.IsSet() || hptime.After(extended, f.LatestEnd) {
		f.LatestEnd = extended
	}
	f.BytesWritten += n
}
