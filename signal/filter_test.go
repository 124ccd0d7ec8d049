package signal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBandpassPreservesLengthAndFiniteness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(16, 512).Draw(t, "n")
		fs := rapid.Float64Range(1, 200).Draw(t, "fs")
		data := make([]float64, n)
		for i := range data {
			data[i] = rapid.Float64Range(-1000, 1000).Draw(t, "sample")
		}

		out, status := Bandpass(data, fs, 0.02, math.Min(fs*0.3, 5), 4)
		require.Equal(t, n, len(out))
		if status.Success {
			for _, v := range out {
				require.True(t, finite(v))
			}
		}
	})
}

func TestBandpassNyquistClamp(t *testing.T) {
	n := 200
	data := make([]float64, n)
	for i := range data {
		if i == 0 {
			data[i] = 1
		}
	}
	out, status := Bandpass(data, 1.0, 0.1, 0.6, 4)
	require.Equal(t, n, len(out))
	assert.True(t, status.Success)
	assert.Equal(t, "bandpass", status.FilterType)
	assert.InDelta(t, 0.45, status.HighFreqHz, 1e-9)
}

func TestBandpassInvalidBandReturnsUnchanged(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	out, status := Bandpass(data, 10, 8, 1, 4)
	assert.False(t, status.Success)
	assert.Equal(t, "invalid_band", status.Reason)
	assert.Equal(t, data, out)
}

func TestBandpassRejectsMostlyNonFiniteData(t *testing.T) {
	data := make([]float64, 10)
	for i := range data {
		data[i] = math.NaN()
	}
	data[0] = 1
	_, status := Bandpass(data, 10, 1, 3, 4)
	assert.False(t, status.Success)
	assert.Equal(t, "too_many_nonfinite", status.Reason)
}

func TestBandpassHighpassOnly(t *testing.T) {
	n := 256
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 0.01 * float64(i))
	}
	out, status := Bandpass(data, 10, 0, 2.0, 4)
	require.True(t, status.Success)
	require.Equal(t, "highpass", status.FilterType)
	require.Equal(t, n, len(out))
}
