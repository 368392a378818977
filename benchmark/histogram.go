// Package benchmark - The benchmark loop and its accuracy/timing
// aggregation.
package benchmark

// DefaultHammingBound is the number of histogram buckets used when no
// bound is configured, matching the engine's correction range.
const DefaultHammingBound = 10

// HammingHistogram tallies the detections of one image by corrected
// bit-error count. It is reset at the start of every image cycle.
type HammingHistogram struct {
	buckets []int
}

// NewHammingHistogram creates a histogram with the given bucket
// count. Non-positive bounds fall back to DefaultHammingBound.
func NewHammingHistogram(bound int) *HammingHistogram {
	if bound <= 0 {
		bound = DefaultHammingBound
	}
	return &HammingHistogram{buckets: make([]int, bound)}
}

// Reset zeroes all buckets.
func (h *HammingHistogram) Reset() {
	for i := range h.buckets {
		h.buckets[i] = 0
	}
}

// Record tallies one detection by its hamming distance. Distances at
// or past the bound are clamped into the top bucket so the bucket sum
// stays equal to the number of recorded detections; negative
// distances are dropped.
func (h *HammingHistogram) Record(hamming int) {
	if hamming < 0 {
		return
	}
	if hamming >= len(h.buckets) {
		hamming = len(h.buckets) - 1
	}
	h.buckets[hamming]++
}

// Buckets returns a copy of the ordered bucket counts.
func (h *HammingHistogram) Buckets() []int {
	out := make([]int, len(h.buckets))
	copy(out, h.buckets)
	return out
}

// Sum returns the total number of recorded detections.
func (h *HammingHistogram) Sum() int {
	var sum int
	for _, n := range h.buckets {
		sum += n
	}
	return sum
}
