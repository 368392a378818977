// Package detector - The boundary to the external fiducial detection
// engine. The harness configures a detector once per run, issues one
// Detect call at a time, and releases the handle when the run ends.
package detector

import (
	"github.com/chewxy/math32"

	"github.com/tagvision/go-tagbench/images"
	"github.com/tagvision/go-tagbench/profiler"
)

// Point is an image-plane coordinate in pixels.
type Point struct {
	X float32
	Y float32
}

// Detection is one recognized tag instance. Detections are read-only
// to the harness and dropped at the end of each image's cycle.
type Detection struct {
	// ID is the decoded tag id within its family.
	ID int
	// Family describes the tag family the codeword was matched
	// against.
	Family Family
	// Hamming is the number of bit errors corrected when accepting
	// the codeword.
	Hamming int
	// Goodness and DecisionMargin are engine confidence measures.
	// Engines that do not compute them report zero.
	Goodness       float32
	DecisionMargin float32
	// Center and Corners give the tag outline in input-image
	// coordinates, corners in clockwise order starting top-left.
	Center  Point
	Corners [4]Point
}

// SideLength returns the pixel length of the tag's top edge. The
// overlay compositor scales the id label by it.
func (d Detection) SideLength() float32 {
	dx := d.Corners[1].X - d.Corners[0].X
	dy := d.Corners[1].Y - d.Corners[0].Y
	return math32.Hypot(dx, dy)
}

// Options are the engine knobs resolved from the run configuration.
// They are fixed for the lifetime of a detector handle.
type Options struct {
	// Border is the tag family border width in bits.
	Border int
	// Threads hints how many CPU threads the engine may use
	// internally. The harness itself never issues concurrent calls.
	Threads int
	// Decimate downsamples the input by this factor before quad
	// extraction. 1 disables.
	Decimate float64
	// BlurSigma applies a Gaussian low-pass filter before detection.
	// 0 disables.
	BlurSigma float64
	// Refinement toggles trade time for accuracy.
	RefineEdges  bool
	RefineDecode bool
	RefinePose   bool
	// Debug enables engine diagnostics.
	Debug bool
}

// Detector is the detection engine contract. Implementations must be
// deterministic for a fixed input and configuration and must not
// retain the frame after Detect returns.
type Detector interface {
	// Detect runs the engine over one frame and returns the
	// detections together with the call's timing profile.
	Detect(frame *images.Frame) ([]Detection, *profiler.Profile, error)
	// Close releases the engine handle. Safe to call more than once.
	Close() error
}
