package benchmark

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsAccumulate(t *testing.T) {
	s := &RunStatistics{}
	s.AddImageResult(3, 10*time.Millisecond)
	s.AddImageResult(1, 20*time.Millisecond)

	sum, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 4, sum.TotalDetections)
	assert.Equal(t, 2, sum.TotalImages)
	assert.Equal(t, 30*time.Millisecond, sum.TotalElapsed)
	assert.Equal(t, 15*time.Millisecond, sum.AvgPerFrame)
}

func TestStatisticsMonotonic(t *testing.T) {
	s := &RunStatistics{}
	var lastDetections, lastImages int
	var lastElapsed time.Duration

	for i := 0; i < 50; i++ {
		s.AddImageResult(i%3, time.Duration(i)*time.Microsecond)
		sum, err := s.Summary()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, sum.TotalDetections, lastDetections)
		assert.Greater(t, sum.TotalImages, lastImages)
		assert.GreaterOrEqual(t, sum.TotalElapsed, lastElapsed)
		lastDetections, lastImages, lastElapsed = sum.TotalDetections, sum.TotalImages, sum.TotalElapsed
	}
}

func TestStatisticsNoData(t *testing.T) {
	s := &RunStatistics{}
	_, err := s.Summary()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestSummaryAverageMillis(t *testing.T) {
	sum := Summary{
		TotalImages:  4,
		TotalElapsed: 100 * time.Millisecond,
	}
	assert.InDelta(t, 100.0, sum.TotalMillis(), 1e-6)
	assert.InDelta(t, sum.TotalMillis()/4, sum.AvgMillisPerFrame(), 1e-6)
}

func TestSummaryAverageZeroImages(t *testing.T) {
	assert.Equal(t, 0.0, Summary{}.AvgMillisPerFrame())
}
