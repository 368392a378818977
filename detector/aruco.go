package detector

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/tagvision/go-tagbench/images"
	"github.com/tagvision/go-tagbench/profiler"
)

// Corner refinement modes of the underlying engine.
const (
	cornerRefineNone   = 0
	cornerRefineSubpix = 1
)

// arucoDicts maps the tag families that have a predefined engine
// dictionary. Families outside this map cannot be configured on this
// engine.
var arucoDicts = map[string]gocv.ArucoDictionaryCode{
	"tag16h5":  gocv.ArucoDictAprilTag_16h5,
	"tag25h9":  gocv.ArucoDictAprilTag_25h9,
	"tag36h10": gocv.ArucoDictAprilTag_36h10,
	"tag36h11": gocv.ArucoDictAprilTag_36h11,
}

// ArucoDetector drives the OpenCV ArUco engine through gocv. One
// handle is configured per run and released when the run ends.
//
// The engine reports no per-marker bit-error count, goodness, or
// decision margin; accepted markers carry Hamming 0 and zero
// confidence measures. Border, RefineDecode, RefinePose, and Debug
// have no engine counterpart and are accepted but unused.
type ArucoDetector struct {
	family Family
	opts   Options
	det    gocv.ArucoDetector
	closed bool
}

// New configures a detector handle for the named family. Unknown
// families, and families without an engine dictionary, fail with
// ErrUnknownFamily before any image is processed.
func New(familyName string, opts Options) (*ArucoDetector, error) {
	fam, err := FamilyByName(familyName)
	if err != nil {
		return nil, err
	}
	code, ok := arucoDicts[fam.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no engine dictionary", ErrUnknownFamily, fam.Name)
	}

	if opts.Threads > 0 {
		gocv.SetNumThreads(opts.Threads)
	}

	params := gocv.NewArucoDetectorParameters()
	if opts.RefineEdges {
		params.SetCornerRefinementMethod(cornerRefineSubpix)
	} else {
		params.SetCornerRefinementMethod(cornerRefineNone)
	}

	dict := gocv.GetPredefinedDictionary(code)
	return &ArucoDetector{
		family: fam,
		opts:   opts,
		det:    gocv.NewArucoDetectorWithParams(dict, params),
	}, nil
}

// Family returns the configured tag family.
func (d *ArucoDetector) Family() Family { return d.family }

// Detect runs the engine over one frame. The preprocessing chain
// (decimation, blur) runs on the grayscale raster before the engine
// sees it; corner coordinates are scaled back to input space.
func (d *ArucoDetector) Detect(frame *images.Frame) ([]Detection, *profiler.Profile, error) {
	prof := profiler.NewProfile()

	gray := images.Decimate(frame.Gray, d.opts.Decimate)
	prof.Stamp("decimate")

	gray = images.Blur(gray, d.opts.BlurSigma)
	prof.Stamp("blur")

	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil, prof, fmt.Errorf("convert %s: %w", frame.Path, err)
	}
	defer mat.Close()
	prof.Stamp("convert")

	corners, ids, _ := d.det.DetectMarkers(mat)
	prof.Stamp("detect")

	scale := float32(1)
	if d.opts.Decimate > 1 {
		scale = float32(d.opts.Decimate)
	}

	dets := make([]Detection, 0, len(ids))
	for i, id := range ids {
		if i >= len(corners) || len(corners[i]) != 4 {
			continue
		}
		det := Detection{ID: id, Family: d.family}
		var cx, cy float32
		for j, p := range corners[i] {
			det.Corners[j] = Point{X: p.X * scale, Y: p.Y * scale}
			cx += det.Corners[j].X
			cy += det.Corners[j].Y
		}
		det.Center = Point{X: cx / 4, Y: cy / 4}
		dets = append(dets, det)
	}
	return dets, prof, nil
}

// Close releases the engine handle.
func (d *ArucoDetector) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.det.Close()
}
