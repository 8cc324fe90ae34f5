/*
  dataselect resolves overlapping and duplicate Mini-SEED records across
  one or more input files into continuous, quality-ranked traces. For
  more information, see the package documentation of
  github.com/earthscope-oss/dataselect
*/
package main

import (
	"context"
	"flag"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/joho/godotenv"

	"github.com/earthscope-oss/dataselect"
	"github.com/earthscope-oss/dataselect/boundary"
	"github.com/earthscope-oss/dataselect/codec/fakecodec"
	"github.com/earthscope-oss/dataselect/diag"
	"github.com/earthscope-oss/dataselect/hptime"
	"github.com/earthscope-oss/dataselect/podstate"
	"github.com/earthscope-oss/dataselect/prune"
	"github.com/earthscope-oss/dataselect/quality"
)

func init() {
	// .env is loaded into the process environment; a missing file is not
	// an error. No flag default below is read from the environment.
	if err := godotenv.Load(); err != nil && !strings.Contains(err.Error(), "no such file") {
		log.Error.Printf("dataselect: load .env: %v", err)
	}
}

var (
	configPath     = flag.String("config", "", "JSON configuration file, schema-validated before use; explicit flags still override it")
	windowStart    = flag.String("start", "", "RFC3339 window start; records before this are dropped or trimmed")
	windowEnd      = flag.String("end", "", "RFC3339 window end; records after this are dropped or trimmed")
	matchPattern   = flag.String("match", "", "only ingest records whose NET_STA_LOC_CHAN_QUAL matches this regex")
	rejectPattern  = flag.String("reject", "", "skip records whose NET_STA_LOC_CHAN_QUAL matches this regex")
	bestQuality    = flag.Bool("best-quality", true, "prefer higher-quality records when resolving overlaps")
	pruneMode      = flag.String("prunedata", "record", "overlap pruning granularity: off, record, or sample")
	timeTol        = flag.Float64("timetol", hptime.AutoTimeTol, "time tolerance in seconds; -1 means half a sample period")
	sampRateTol    = flag.Float64("sampratetol", hptime.AutoSampRateTol, "sample rate tolerance as a fraction; -1 means codec default")
	splitBoundary  = flag.String("split", "none", "split output records on a boundary: none, day, hour, or minute")
	restampQuality = flag.String("restamp-quality", "", "overwrite the quality code of every output record with this single character")
	outputFile     = flag.String("output", "", "combined output path ('-' for stdout); empty disables the combined sink")
	archiveTmpl    = flag.String("archive", "", "archive path template, Go text/template over a Record, e.g. '/data/{{.Network}}/{{.Year}}/{{.Station}}.{{.Channel}}'")
	replaceInput   = flag.Bool("replace-input", false, "rewrite each input file in place instead of (or in addition to) the combined/archive sinks")
	removeBackups  = flag.Bool("remove-backups", false, "remove the .orig backups replace-input leaves behind once the pass succeeds")
	diagAddr       = flag.String("diag-addr", "", "address to serve /metrics, /healthz, and /stats on; empty disables the diagnostics server")
	podStatePath   = flag.String("podstate-db", "", "SQLite database recording per-file write state across passes; empty disables it")
	notifyURL      = flag.String("notify-url", "", "NATS server URL for pass-completion notifications; empty disables notification")
	notifySubject  = flag.String("notify-subject", "dataselect.pass.complete", "NATS subject to publish pass-completion notifications on")
)

func parseTime(s string, fallback hptime.HPT) hptime.HPT {
	if s == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		log.Fatalf("dataselect: invalid time %q: %v", s, err)
	}
	return hptime.FromTime(t)
}

func parsePruneModeFlag(s string) prune.Mode {
	switch s {
	case "off":
		return prune.Off
	case "record":
		return prune.RecordLevel
	case "sample":
		return prune.SampleLevel
	default:
		log.Fatalf("dataselect: invalid -prunedata %q", s)
		return prune.Off
	}
}

func parseBoundaryFlag(s string) boundary.Mode {
	switch s {
	case "none":
		return boundary.None
	case "day":
		return boundary.Day
	case "hour":
		return boundary.Hour
	case "minute":
		return boundary.Minute
	default:
		log.Fatalf("dataselect: invalid -split %q", s)
		return boundary.None
	}
}

func mustCompile(pattern string) *regexp.Regexp {
	re, err := regexp.Compile(pattern)
	if err != nil {
		log.Fatalf("dataselect: invalid regexp %q: %v", pattern, err)
	}
	return re
}

// reapplyFlag re-applies a single explicitly-set flag onto opts, used to
// make sure the command line still wins after a config file is merged in.
func reapplyFlag(opts *dataselect.Opts, name string) {
	switch name {
	case "best-quality":
		opts.BestQuality = *bestQuality
	case "prunedata":
		opts.PruneMode = parsePruneModeFlag(*pruneMode)
	case "timetol":
		opts.Tolerances.TimeTol = *timeTol
	case "sampratetol":
		opts.Tolerances.SampRateTol = *sampRateTol
	case "restamp-quality":
		if *restampQuality != "" {
			opts.RestampQuality = quality.Quality((*restampQuality)[0])
		}
	case "split":
		opts.SplitBoundary = parseBoundaryFlag(*splitBoundary)
	case "replace-input":
		opts.ReplaceInput = *replaceInput
	case "remove-backups":
		opts.RemoveBackups = *removeBackups
	case "output":
		opts.CombinedOutputPath = *outputFile
	case "archive":
		opts.ArchiveTemplates = []string{*archiveTmpl}
	}
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		log.Fatalf("dataselect: no input files given")
	}

	opts := dataselect.Opts{
		InputPaths:    inputs,
		WindowStart:   parseTime(*windowStart, hptime.HPT(hptime.Unset)),
		WindowEnd:     parseTime(*windowEnd, hptime.HPT(hptime.Unset)),
		BestQuality:   *bestQuality,
		PruneMode:     parsePruneModeFlag(*pruneMode),
		SplitBoundary: parseBoundaryFlag(*splitBoundary),
		Tolerances: hptime.Tolerances{
			TimeTol:     *timeTol,
			SampRateTol: *sampRateTol,
		},
		CombinedOutputPath: *outputFile,
		ReplaceInput:       *replaceInput,
		RemoveBackups:      *removeBackups,
	}
	if *restampQuality != "" {
		opts.RestampQuality = quality.Quality((*restampQuality)[0])
	}
	if *archiveTmpl != "" {
		opts.ArchiveTemplates = []string{*archiveTmpl}
	}
	if *matchPattern != "" {
		opts.MatchRegex = mustCompile(*matchPattern)
	}
	if *rejectPattern != "" {
		opts.RejectRegex = mustCompile(*rejectPattern)
	}

	if *configPath != "" {
		fc, err := dataselect.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("dataselect: %v", err)
		}
		opts = fc.ApplyTo(opts)
		// Flags explicitly set on the command line still win over the
		// config file; re-apply anything the user actually typed, since
		// flag.Visit only reports flags that were set.
		flag.Visit(func(f *flag.Flag) {
			reapplyFlag(&opts, f.Name)
		})
	}

	var metrics *diag.Metrics
	var diagServer *diag.Server
	ctx := vcontext.Background()
	if *diagAddr != "" {
		metrics = diag.NewMetrics()
		diagServer = diag.NewServer(*diagAddr, metrics)
		go func() {
			if err := diagServer.ListenAndServe(ctx); err != nil {
				log.Error.Printf("dataselect: diagnostics server: %v", err)
			}
		}()
	}

	var store *podstate.Store
	if *podStatePath != "" {
		var err error
		store, err = podstate.Open(*podStatePath)
		if err != nil {
			log.Fatalf("dataselect: %v", err)
		}
		defer store.Close()
	}

	// TODO: inject a real Mini-SEED codec once one exists in this module's
	// dependency surface; fakecodec exercises the full pipeline today.
	c := fakecodec.New()

	result, err := dataselect.RunPass(ctx, c, opts)
	if err != nil {
		log.Fatalf("dataselect: %v", err)
	}

	if diagServer != nil {
		diagServer.SetStats(result.Stats)
	}
	if metrics != nil {
		for _, fs := range result.Files {
			metrics.ObserveFileStats(fs.RecsWritten+fs.Removed-fs.RecSplitCount, fs.Removed, fs.Trimmed, fs.RecSplitCount, fs.RecsWritten, fs.BytesWritten)
		}
	}

	if store != nil {
		for _, fs := range result.Files {
			rec := podstate.Record{
				Path:          fs.Path,
				EarliestStart: fs.EarliestStart,
				LatestEnd:     fs.LatestEnd,
				BytesWritten:  fs.BytesWritten,
				RecsWritten:   fs.RecsWritten,
			}
			if err := store.Put(ctx, rec); err != nil {
				log.Error.Printf("dataselect: %v", err)
			}
		}
	}

	if *notifyURL != "" {
		dataselect.Notify(*notifyURL, *notifySubject, result)
	}

	log.Debug.Printf("dataselect: wrote %d files using %d CPUs", len(result.Files), runtime.NumCPU())
}
