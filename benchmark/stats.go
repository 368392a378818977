package benchmark

import (
	"time"

	"github.com/pkg/errors"
)

// ErrNoData is returned by Summary when no image was processed; the
// caller suppresses the aggregate line instead of reporting it.
var ErrNoData = errors.New("no images processed")

// RunStatistics accumulates cross-image, cross-iteration totals. All
// totals grow monotonically; a failed image never touches them.
type RunStatistics struct {
	detections int
	images     int
	elapsed    time.Duration
}

// AddImageResult records one successfully processed image.
func (s *RunStatistics) AddImageResult(detections int, elapsed time.Duration) {
	s.detections += detections
	s.images++
	s.elapsed += elapsed
}

// Summary is the final aggregate of a run.
type Summary struct {
	TotalDetections int
	TotalImages     int
	TotalElapsed    time.Duration
	AvgPerFrame     time.Duration
}

// TotalMillis returns the total detect time in milliseconds.
func (s Summary) TotalMillis() float64 {
	return float64(s.TotalElapsed.Microseconds()) / 1e3
}

// AvgMillisPerFrame returns the per-frame average in milliseconds.
func (s Summary) AvgMillisPerFrame() float64 {
	if s.TotalImages == 0 {
		return 0
	}
	return s.TotalMillis() / float64(s.TotalImages)
}

// Summary returns the run totals, or ErrNoData when nothing was
// processed.
func (s *RunStatistics) Summary() (Summary, error) {
	if s.images == 0 {
		return Summary{}, ErrNoData
	}
	return Summary{
		TotalDetections: s.detections,
		TotalImages:     s.images,
		TotalElapsed:    s.elapsed,
		AvgPerFrame:     s.elapsed / time.Duration(s.images),
	}, nil
}
