// Package dataselect is the pass orchestration context: it threads one
// invocation's configuration through the read, prune, and write stages
// without any package-level mutable state.
package dataselect

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/grailbio/base/log"

	"github.com/earthscope-oss/dataselect/archive"
	"github.com/earthscope-oss/dataselect/boundary"
	"github.com/earthscope-oss/dataselect/codec"
	"github.com/earthscope-oss/dataselect/diag"
	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/prune"
	"github.com/earthscope-oss/dataselect/quality"
	"github.com/earthscope-oss/dataselect/reader"
	"github.com/earthscope-oss/dataselect/record"
	"github.com/earthscope-oss/dataselect/rlimit"
	"github.com/earthscope-oss/dataselect/trace"
	"github.com/earthscope-oss/dataselect/writer"
)

// Opts is the full configuration surface of a pass.
type Opts struct {
	InputPaths []string

	WindowStart, WindowEnd  hptime.HPT
	MatchRegex, RejectRegex *regexp.Regexp

	BestQuality   bool
	PruneMode     prune.Mode
	Tolerances    hptime.Tolerances
	SplitBoundary boundary.Mode

	RestampQuality     quality.Quality
	CombinedOutputPath string
	ArchiveTemplates   []string
	ReplaceInput       bool
	RemoveBackups      bool
}

// Result is what a pass reports back to its caller: per-file counters and
// the post-pass coverage diagnostics.
type Result struct {
	Files []writer.FileStats
	Stats diag.PassStats
}

// RunPass executes one full read → prune → write pass over opts.InputPaths
// using codec c.
func RunPass(ctx context.Context, c codec.Codec, opts Opts) (Result, error) {
	if err := rlimit.Raise(rlimit.ForOpenFiles(len(opts.InputPaths))); err != nil {
		// Not a crash: a failed raise is logged and aborts this pass,
		// returning the error to the caller.
		log.Error.Printf("dataselect: raise open-file limit: %v", err)
		return Result{}, err
	}

	group := trace.NewGroup(opts.Tolerances, opts.BestQuality)

	readOpts := reader.Options{
		WindowStart:           opts.WindowStart,
		WindowEnd:             opts.WindowEnd,
		MatchRegex:            opts.MatchRegex,
		RejectRegex:           opts.RejectRegex,
		SplitBoundary:         opts.SplitBoundary,
		SampleLevelWindowTrim: opts.PruneMode == prune.SampleLevel,
		Tolerances:            opts.Tolerances,
		BestQuality:           opts.BestQuality,
	}

	var shadowed []*record.File
	for _, path := range opts.InputPaths {
		f := record.NewFile(path)
		if opts.ReplaceInput {
			orig := path + ".orig"
			if err := os.Rename(path, orig); err != nil {
				log.Error.Printf("dataselect: shadow %s: %v", path, err)
				continue // rename failures during input-shadowing abort the file.
			}
			f.ReadPath = orig
			shadowed = append(shadowed, f)
		}

		r := reader.New(c, group, readOpts)
		if err := r.IngestFile(f); err != nil {
			log.Error.Printf("dataselect: %v", err)
		}
	}

	prune.Prune(group, prune.Options{Mode: opts.PruneMode, BestQuality: opts.BestQuality, Tol: opts.Tolerances})

	var archives []archive.Archive
	for _, tmpl := range opts.ArchiveTemplates {
		if strings.HasPrefix(tmpl, "s3://") {
			archive.RegisterS3()
		}
		a, err := archive.NewFileArchive(tmpl)
		if err != nil {
			return Result{}, err
		}
		archives = append(archives, a)
	}

	files, err := writer.Write(ctx, c, group, writer.Options{
		CombinedOutputPath: opts.CombinedOutputPath,
		Archives:           archives,
		ReplaceInput:       opts.ReplaceInput,
		RemoveBackups:      opts.RemoveBackups,
		RestampQuality:     opts.RestampQuality,
	})
	if err != nil {
		return Result{Files: files}, err
	}

	if opts.ReplaceInput && opts.RemoveBackups {
		for _, f := range shadowed {
			if rmErr := os.Remove(f.ReadPath); rmErr != nil {
				// Unlink failures for backups are logged and ignored.
				log.Error.Printf("dataselect: remove backup %s: %v", f.ReadPath, rmErr)
			}
		}
	}

	return Result{Files: files, Stats: diag.BuildStats(group.Traces())}, nil
}
