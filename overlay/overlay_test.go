package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tagvision/go-tagbench/detector"
)

func TestPaletteColorStable(t *testing.T) {
	a := paletteColor(17)
	b := paletteColor(17)
	assert.Equal(t, a, b)
}

func TestPaletteColorDistinguishesNeighbors(t *testing.T) {
	assert.NotEqual(t, paletteColor(1), paletteColor(2))
}

func TestPaletteColorNegativeID(t *testing.T) {
	assert.Equal(t, paletteColor(5), paletteColor(-5))
}

func TestFontScaleTracksTagSize(t *testing.T) {
	small := detector.Detection{Corners: [4]detector.Point{{0, 0}, {11, 0}, {11, 11}, {0, 11}}}
	large := detector.Detection{Corners: [4]detector.Point{{0, 0}, {220, 0}, {220, 220}, {0, 220}}}

	// Tiny tags are clamped to a readable minimum.
	assert.Equal(t, 0.5, fontScale(small))
	assert.InDelta(t, 10.0, fontScale(large), 1e-6)
}
