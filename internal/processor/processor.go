package processor

import (
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/gpxnear/internal/geo"
	"github.com/woozymasta/gpxnear/internal/gpx"
	"github.com/woozymasta/gpxnear/internal/report"
)

// Options configures one corpus run.
type Options struct {
	Reference       geo.Coordinate
	DistanceMeters  float64
	Workers         int  // number of parallel workers, 0 or less means all CPUs
	LegacyLonCosine bool // projector compatibility switch for older builds

	// Progress, when set, is called once per finished file from a single
	// goroutine.
	Progress func(done, total int)
}

type job struct {
	index int
	path  string
}

// Run analyzes every file concurrently and merges the per-file results
// into one report. Files that cannot be read are logged and skipped.
// Canceling the context stops scheduling new files; files already in
// flight finish and the report covers everything collected, returned
// together with the context error.
func Run(ctx context.Context, paths []string, opts Options) (report.Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if len(paths) > 0 && workers > len(paths) {
		workers = len(paths)
	}

	proj := geo.NewProjector(opts.Reference, opts.LegacyLonCosine)

	jobs := make(chan job)
	finished := make(chan struct{})

	// Per-file slots keep results in file-discovery order, so ties in the
	// merged report do not depend on worker scheduling.
	perFile := make([][]report.Result, len(paths))

	go func() {
		defer close(jobs)
		for i, path := range paths {
			select {
			case jobs <- job{index: i, path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				perFile[j.index] = analyzeFile(j.path, proj, opts.DistanceMeters)
				finished <- struct{}{}
			}
		}()
	}

	// Single consumer for progress keeps the workers free of shared state.
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		done := 0
		for range finished {
			done++
			if opts.Progress != nil {
				opts.Progress(done, len(paths))
			}
		}
	}()

	wg.Wait()
	close(finished)
	<-progressDone

	var all []report.Result
	for _, results := range perFile {
		all = append(all, results...)
	}

	return report.Build(all, opts.DistanceMeters), ctx.Err()
}

// analyzeFile runs the parse-and-track pipeline for one file.
func analyzeFile(path string, proj geo.Projector, threshold float64) []report.Result {
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Cannot open file, skipping")
		return nil
	}
	defer func() { _ = f.Close() }()

	parser := gpx.NewParser(path, f)
	tracker := NewTracker(proj, threshold, path)

	for {
		pt, ok := parser.Next()
		if !ok {
			break
		}
		tracker.Observe(pt)
	}

	stats := parser.Stats()
	log.Debug().
		Str("file", path).
		Int("points", stats.Points).
		Int("skipped", stats.SkippedPoints).
		Int("faults", stats.TokenFaults).
		Msg("File analyzed")

	return tracker.Finish()
}
