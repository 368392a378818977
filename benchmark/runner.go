package benchmark

import (
	"log/slog"
	"time"

	"github.com/tagvision/go-tagbench/detector"
	"github.com/tagvision/go-tagbench/images"
)

// Displayer shows the composited overlay for one image. Show blocks
// until the user dismisses the view.
type Displayer interface {
	Show(frame *images.Frame, dets []detector.Detection) error
}

// Snapshotter persists an annotated copy of one image and returns the
// path it was written to.
type Snapshotter interface {
	Save(frame *images.Frame, dets []detector.Detection) (string, error)
}

// Runner executes the benchmark loop: iterations × images detection
// cycles, strictly sequential with one detect call outstanding at a
// time. The detector may parallelize internally; the runner never
// does.
type Runner struct {
	Detector   detector.Detector
	Reporter   *Reporter
	Iterations int
	// Family is recorded in the run history. Informational only.
	Family string
	// HammingBound overrides the histogram bucket count when positive.
	HammingBound int
	// Display, Snapshot, and History are optional collaborators.
	Display  Displayer
	Snapshot Snapshotter
	History  *History
	Logger   *slog.Logger
}

// Run processes every path once per iteration, in input order.
// Unreadable images and engine failures are skipped and never abort
// the run; their images do not enter the totals. Returns ErrNoData
// when no image at all was processed.
func (r *Runner) Run(paths []string) (Summary, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	iters := r.Iterations
	if iters < 1 {
		iters = 1
	}

	started := time.Now()
	stats := &RunStatistics{}
	hist := NewHammingHistogram(r.HammingBound)

	for iter := 0; iter < iters; iter++ {
		r.Reporter.Iteration(iter, iters)

		for _, path := range paths {
			hist.Reset()
			r.Reporter.ImageStart(path)

			frame, err := images.Load(path)
			if err != nil {
				r.Reporter.DecodeFailure(path)
				logger.Warn("skipping image", "path", path, "error", err)
				continue
			}

			dets, prof, err := r.Detector.Detect(frame)
			if err != nil {
				// Engine failures are fatal for this image only.
				r.Reporter.DetectFailure(path)
				logger.Warn("detection failed", "path", path, "error", err)
				continue
			}

			for _, det := range dets {
				hist.Record(det.Hamming)
			}
			stats.AddImageResult(len(dets), prof.Total())

			r.Reporter.Detections(dets)
			r.Reporter.ImageEnd(hist, prof)

			if r.Snapshot != nil {
				if name, err := r.Snapshot.Save(frame, dets); err != nil {
					logger.Warn("snapshot failed", "path", path, "error", err)
				} else {
					logger.Debug("snapshot written", "path", name)
				}
			}
			if r.Display != nil {
				if err := r.Display.Show(frame, dets); err != nil {
					logger.Warn("display failed", "path", path, "error", err)
				}
			}
		}
	}

	sum, err := stats.Summary()
	if err != nil {
		return Summary{}, err
	}
	r.Reporter.Aggregate(sum)

	if r.History != nil {
		rec := RunRecord{
			StartedAt:  started,
			Family:     r.Family,
			Iterations: iters,
			Summary:    sum,
		}
		// History problems are diagnostics, never fatal to the run.
		if err := r.History.Append(rec); err != nil {
			logger.Warn("history append failed", "error", err)
		}
	}
	return sum, nil
}
