package benchmark

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/tagvision/go-tagbench/detector"
	"github.com/tagvision/go-tagbench/profiler"
)

// Mode selects the reporting style of a run. Modes are mutually
// exclusive per invocation.
type Mode int

const (
	// ModeVerbose prints per-detection lines, the timing breakdown,
	// and the hamming histogram for every image.
	ModeVerbose Mode = iota
	// ModeQuiet prints only the histogram and the per-image detect
	// time.
	ModeQuiet
	// ModeBenchmark prints the detected ids on one line per image and
	// a final aggregate to the diagnostic stream.
	ModeBenchmark
)

// Reporter renders per-image and per-run reports. Human-readable
// output goes to out; the benchmark aggregate goes to diag so it
// survives stdout redirection.
type Reporter struct {
	mode Mode
	out  io.Writer
	diag io.Writer
}

// NewReporter creates a reporter for the given mode and streams.
func NewReporter(mode Mode, out, diag io.Writer) *Reporter {
	return &Reporter{mode: mode, out: out, diag: diag}
}

// Mode returns the configured reporting mode.
func (r *Reporter) Mode() Mode { return r.mode }

// Iteration announces an iteration when more than one was requested.
func (r *Reporter) Iteration(iter, total int) {
	if total > 1 && r.mode != ModeBenchmark {
		fmt.Fprintf(r.out, "Iteration %d / %d\n", iter+1, total)
	}
}

// ImageStart opens the report line for one image.
func (r *Reporter) ImageStart(path string) {
	switch r.mode {
	case ModeBenchmark:
		fmt.Fprintf(r.out, "%s", filepath.Base(path))
	case ModeVerbose:
		fmt.Fprintf(r.out, "Loading %s\n", path)
	}
}

// DecodeFailure reports an image that could not be read.
func (r *Reporter) DecodeFailure(path string) {
	fmt.Fprintf(r.out, "Couldn't load %s\n", path)
}

// DetectFailure reports an image the engine rejected.
func (r *Reporter) DetectFailure(path string) {
	fmt.Fprintf(r.out, "Couldn't process %s\n", path)
}

// Detections renders the per-detection portion of the image report.
func (r *Reporter) Detections(dets []detector.Detection) {
	for i, det := range dets {
		switch r.mode {
		case ModeBenchmark:
			fmt.Fprintf(r.out, " %d", det.ID)
		case ModeVerbose:
			fmt.Fprintf(r.out, "Detection %3d: ID (%2dh%2d)-%-4d, Hamming %d, Goodness %8.3f, Margin %8.3f\n",
				i, det.Family.Dim*det.Family.Dim, det.Family.MinHamming,
				det.ID, det.Hamming, det.Goodness, det.DecisionMargin)
		}
	}
}

// ImageEnd closes the report line for one image with the histogram
// and timing information the mode calls for.
func (r *Reporter) ImageEnd(hist *HammingHistogram, prof *profiler.Profile) {
	if r.mode != ModeBenchmark {
		if r.mode == ModeVerbose {
			prof.Display(r.out)
			fmt.Fprintf(r.out, "Hamming histogram: ")
		}
		for _, n := range hist.Buckets() {
			fmt.Fprintf(r.out, "%5d", n)
		}
		if r.mode == ModeQuiet {
			fmt.Fprintf(r.out, "%12.3f", prof.Total().Seconds()*1e3)
		}
	}
	fmt.Fprintln(r.out)
}

// Aggregate writes the final benchmark summary to the diagnostic
// stream. Other modes report nothing here.
func (r *Reporter) Aggregate(sum Summary) {
	if r.mode != ModeBenchmark || sum.TotalImages == 0 {
		return
	}
	fmt.Fprintf(r.diag, "%d detections over %d images in %.3f ms (%.3f ms per frame)\n",
		sum.TotalDetections, sum.TotalImages, sum.TotalMillis(), sum.AvgMillisPerFrame())
}
