// Package overlay - Detection visualization composited onto source
// images for interactive inspection.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"gocv.io/x/gocv"

	"github.com/tagvision/go-tagbench/detector"
	"github.com/tagvision/go-tagbench/images"
)

// Compositor renders detection boundaries and tag ids into an overlay
// raster matching the source image's dimensions. The source is never
// mutated; ownership of the returned Mat transfers to the caller.
type Compositor struct{}

// Render produces the overlay raster for one frame's detections.
func (c Compositor) Render(frame *images.Frame, dets []detector.Detection) gocv.Mat {
	canvas := gocv.NewMatWithSize(frame.Height, frame.Width, gocv.MatTypeCV8UC3)
	for _, det := range dets {
		drawDetection(&canvas, det)
	}
	return canvas
}

// Blend composites 0.5*overlay + 0.5*original. A plain linear blend,
// not alpha-aware transparency.
func Blend(original, overlay gocv.Mat) gocv.Mat {
	blended := gocv.NewMat()
	gocv.AddWeighted(overlay, 0.5, original, 0.5, 0, &blended)
	return blended
}

func drawDetection(canvas *gocv.Mat, det detector.Detection) {
	col := paletteColor(det.ID)
	for i := 0; i < 4; i++ {
		a := det.Corners[i]
		b := det.Corners[(i+1)%4]
		gocv.Line(canvas, image.Pt(int(a.X), int(a.Y)), image.Pt(int(b.X), int(b.Y)), col, 2)
	}

	label := fmt.Sprintf("%d", det.ID)
	scale := fontScale(det)
	sz := gocv.GetTextSize(label, gocv.FontHersheySimplex, scale, 2)
	org := image.Pt(int(det.Center.X)-sz.X/2, int(det.Center.Y)+sz.Y/2)
	gocv.PutText(canvas, label, org, gocv.FontHersheySimplex, scale, col, 2)
}

// fontScale sizes the id label relative to the tag's edge length so
// labels stay legible across tag sizes.
func fontScale(det detector.Detection) float64 {
	s := float64(det.SideLength()) / 22
	if s < 0.5 {
		s = 0.5
	}
	return s
}

// paletteColor assigns a stable, saturated hue per tag id.
func paletteColor(id int) color.RGBA {
	if id < 0 {
		id = -id
	}
	hue := float64((id * 47) % 360)
	r, g, b := colorful.Hsv(hue, 0.85, 1).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0}
}

// Window shows each image and its composited detections, blocking on
// a keypress between views. Implements benchmark.Displayer.
type Window struct {
	win  *gocv.Window
	comp Compositor
}

// NewWindow creates the display window.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show displays the original image, waits for a key, then the blended
// overlay, and waits again.
func (w *Window) Show(frame *images.Frame, dets []detector.Detection) error {
	orig, err := gocv.ImageToMatRGB(frame.Color)
	if err != nil {
		return fmt.Errorf("convert %s for display: %w", frame.Path, err)
	}
	defer orig.Close()

	ovl := w.comp.Render(frame, dets)
	defer ovl.Close()
	blended := Blend(orig, ovl)
	defer blended.Close()

	w.win.IMShow(orig)
	w.win.WaitKey(0)
	w.win.IMShow(blended)
	w.win.WaitKey(0)
	return nil
}

// Close releases the window.
func (w *Window) Close() error {
	return w.win.Close()
}

// Snapshot writes blend-composited copies of processed images into a
// directory. Implements benchmark.Snapshotter.
type Snapshot struct {
	dir  string
	comp Compositor
}

// NewSnapshot creates the output directory if needed.
func NewSnapshot(dir string) (*Snapshot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Snapshot{dir: dir}, nil
}

// Save writes the annotated copy of one frame and returns its path.
func (s *Snapshot) Save(frame *images.Frame, dets []detector.Detection) (string, error) {
	orig, err := gocv.ImageToMatRGB(frame.Color)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", frame.Path, err)
	}
	defer orig.Close()

	ovl := s.comp.Render(frame, dets)
	defer ovl.Close()
	blended := Blend(orig, ovl)
	defer blended.Close()

	name := filepath.Join(s.dir, "annotated_"+filepath.Base(frame.Path))
	if ok := gocv.IMWrite(name, blended); !ok {
		return "", fmt.Errorf("write %s failed", name)
	}
	return name, nil
}
