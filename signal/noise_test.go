package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateNoiseBasicWindow(t *testing.T) {
	fs := 10.0
	sig := make([]float64, 200)
	for i := range sig {
		sig[i] = 1.0
	}
	stats := EstimateNoise(sig, 10.0, fs, 5.0)
	require.NotNil(t, stats)
	assert.Equal(t, 50, stats.NSamples)
	assert.InDelta(t, 5.0, stats.DurationS, 1e-9)
	assert.InDelta(t, 1.0, stats.RMS, 1e-9)
	assert.InDelta(t, 1.0, stats.Median, 1e-9)
}

func TestEstimateNoiseShrinksWhenPArrivalNearStart(t *testing.T) {
	fs := 10.0
	sig := make([]float64, 50)
	stats := EstimateNoise(sig, 2.0, fs, 60.0)
	require.NotNil(t, stats)
	assert.Equal(t, 20, stats.NSamples)
}

func TestEstimateNoiseEmptyWindowReturnsNil(t *testing.T) {
	fs := 10.0
	sig := make([]float64, 50)
	stats := EstimateNoise(sig, 0, fs, 60.0)
	assert.Nil(t, stats)
}
