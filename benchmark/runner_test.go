package benchmark

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagvision/go-tagbench/detector"
	"github.com/tagvision/go-tagbench/images"
	"github.com/tagvision/go-tagbench/profiler"
)

// mockDetector yields a fixed detection set per call.
type mockDetector struct {
	dets        []detector.Detection
	perCall     time.Duration
	detectCalls int
	closeCalls  int
	err         error
}

func (m *mockDetector) Detect(frame *images.Frame) ([]detector.Detection, *profiler.Profile, error) {
	m.detectCalls++
	prof := profiler.NewProfile()
	prof.Add("detect", m.perCall)
	if m.err != nil {
		return nil, prof, m.err
	}
	return m.dets, prof, nil
}

func (m *mockDetector) Close() error {
	m.closeCalls++
	return nil
}

func writeGrayPNG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 8, 8))))
	return path
}

func singleDetection(hamming int) []detector.Detection {
	return []detector.Detection{{
		ID:      4,
		Family:  detector.Family{Name: "tag36h11", Dim: 6, MinHamming: 11},
		Hamming: hamming,
	}}
}

func TestRunnerIterationsTimesImages(t *testing.T) {
	dir := t.TempDir()
	a := writeGrayPNG(t, dir, "a.png")
	b := writeGrayPNG(t, dir, "b.png")

	det := &mockDetector{dets: singleDetection(0), perCall: time.Millisecond}
	var out, diag bytes.Buffer
	r := &Runner{
		Detector:   det,
		Reporter:   NewReporter(ModeBenchmark, &out, &diag),
		Iterations: 2,
	}

	sum, err := r.Run([]string{a, b})
	require.NoError(t, err)

	assert.Equal(t, 4, det.detectCalls)
	assert.Equal(t, 4, sum.TotalImages)
	assert.Equal(t, 4, sum.TotalDetections)
	assert.Equal(t, 4*time.Millisecond, sum.TotalElapsed)
	assert.Contains(t, diag.String(), "4 detections over 4 images")

	// The loop never releases the handle; its owner does.
	assert.Equal(t, 0, det.closeCalls)
}

func TestRunnerSkipsUnreadableImage(t *testing.T) {
	dir := t.TempDir()
	good := writeGrayPNG(t, dir, "good.png")
	missing := filepath.Join(dir, "missing.png")

	det := &mockDetector{dets: singleDetection(0), perCall: time.Millisecond}
	var out, diag bytes.Buffer
	r := &Runner{
		Detector:   det,
		Reporter:   NewReporter(ModeVerbose, &out, &diag),
		Iterations: 1,
	}

	sum, err := r.Run([]string{good, missing})
	require.NoError(t, err)

	// The missing image never reached the detector or the totals.
	assert.Equal(t, 1, det.detectCalls)
	assert.Equal(t, 1, sum.TotalImages)
	assert.Equal(t, 1, sum.TotalDetections)
	assert.Contains(t, out.String(), "Couldn't load "+missing)
}

func TestRunnerDetectorFailureSkipsImageOnly(t *testing.T) {
	dir := t.TempDir()
	a := writeGrayPNG(t, dir, "a.png")

	det := &mockDetector{err: errors.New("engine rejected input")}
	var out bytes.Buffer
	r := &Runner{
		Detector: det,
		Reporter: NewReporter(ModeVerbose, &out, &bytes.Buffer{}),
	}

	_, err := r.Run([]string{a})
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Contains(t, out.String(), "Couldn't process "+a)
}

func TestRunnerNoDataWhenAllImagesUnreadable(t *testing.T) {
	det := &mockDetector{}
	r := &Runner{
		Detector: det,
		Reporter: NewReporter(ModeBenchmark, &bytes.Buffer{}, &bytes.Buffer{}),
	}

	_, err := r.Run([]string{"/nonexistent/x.png", "/nonexistent/y.png"})
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Equal(t, 0, det.detectCalls)
}

func TestRunnerVerboseDetectionLines(t *testing.T) {
	dir := t.TempDir()
	a := writeGrayPNG(t, dir, "a.png")

	dets := append(singleDetection(0), singleDetection(1)...)
	det := &mockDetector{dets: dets, perCall: time.Millisecond}
	var out bytes.Buffer
	r := &Runner{
		Detector: det,
		Reporter: NewReporter(ModeVerbose, &out, &bytes.Buffer{}),
	}

	_, err := r.Run([]string{a})
	require.NoError(t, err)

	assert.Equal(t, len(dets), bytes.Count(out.Bytes(), []byte("Detection ")))
	assert.Contains(t, out.String(), "Loading "+a)
}

func TestRunnerHistoryFailureDoesNotFailRun(t *testing.T) {
	dir := t.TempDir()
	a := writeGrayPNG(t, dir, "a.png")

	hist, err := OpenHistory(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	// A closed store makes every append fail.
	require.NoError(t, hist.Close())

	r := &Runner{
		Detector: &mockDetector{dets: singleDetection(0), perCall: time.Millisecond},
		Reporter: NewReporter(ModeQuiet, &bytes.Buffer{}, &bytes.Buffer{}),
		History:  hist,
	}

	sum, err := r.Run([]string{a})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.TotalImages)
	assert.Equal(t, 1, sum.TotalDetections)
}

func TestRunnerAppendsHistory(t *testing.T) {
	dir := t.TempDir()
	a := writeGrayPNG(t, dir, "a.png")

	hist, err := OpenHistory(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	defer hist.Close()

	r := &Runner{
		Detector:   &mockDetector{dets: singleDetection(0), perCall: time.Millisecond},
		Reporter:   NewReporter(ModeQuiet, &bytes.Buffer{}, &bytes.Buffer{}),
		Iterations: 3,
		Family:     "tag36h11",
		History:    hist,
	}

	_, err = r.Run([]string{a})
	require.NoError(t, err)

	recs, err := hist.Recent(10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "tag36h11", recs[0].Family)
	assert.Equal(t, 3, recs[0].Iterations)
	assert.Equal(t, 3, recs[0].Summary.TotalImages)
}
