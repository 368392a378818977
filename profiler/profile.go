// Package profiler - Stage timing for detection calls.
package profiler

import (
	"fmt"
	"io"
	"time"
)

// Stage is one named step of a detection call.
type Stage struct {
	Label    string
	Duration time.Duration
}

// Profile records the ordered stage timings of a single detection
// call. A detector stamps each stage as it completes; the harness
// consumes the profile immediately after the call and drops it before
// the next image is processed.
type Profile struct {
	start  time.Time
	last   time.Time
	stages []Stage
}

// NewProfile creates a profile whose first stage starts now.
func NewProfile() *Profile {
	now := time.Now()
	return &Profile{start: now, last: now}
}

// Stamp closes the current stage under the given label and starts the
// next one.
func (p *Profile) Stamp(label string) {
	now := time.Now()
	p.stages = append(p.stages, Stage{Label: label, Duration: now.Sub(p.last)})
	p.last = now
}

// Add appends a stage with an explicitly measured duration. Used by
// detectors that time stages with their own clocks.
func (p *Profile) Add(label string, d time.Duration) {
	p.stages = append(p.stages, Stage{Label: label, Duration: d})
	p.last = time.Now()
}

// Stages returns the recorded stages in order.
func (p *Profile) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// Total returns the summed duration of all recorded stages.
func (p *Profile) Total() time.Duration {
	var total time.Duration
	for _, s := range p.stages {
		total += s.Duration
	}
	return total
}

// Display prints a per-stage timing table with cumulative totals.
func (p *Profile) Display(w io.Writer) {
	var cum time.Duration
	for i, s := range p.stages {
		cum += s.Duration
		fmt.Fprintf(w, "%2d %-24s %12.3f ms %12.3f ms\n",
			i, s.Label,
			float64(s.Duration.Microseconds())/1e3,
			float64(cum.Microseconds())/1e3)
	}
}
