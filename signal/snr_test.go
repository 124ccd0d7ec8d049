package signal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSNRSeriesZeroSignalFloorsAtMinus60(t *testing.T) {
	fs := 10.0
	sig := make([]float64, 100)
	db, centers := SNRSeries(sig, 1.0, 2.0, fs)
	require.NotEmpty(t, db)
	require.Equal(t, len(db), len(centers))
	for _, v := range db {
		assert.InDelta(t, -60.0, v, 1e-9)
	}
}

func TestSNRSeriesAboveNoiseIsPositive(t *testing.T) {
	fs := 100.0
	sig := make([]float64, 1000)
	for i := range sig {
		sig[i] = 10 * math.Sin(2*math.Pi*1.0*float64(i)/fs)
	}
	db, _ := SNRSeries(sig, 0.1, 2.0, fs)
	require.NotEmpty(t, db)
	for _, v := range db {
		assert.Greater(t, v, 0.0)
	}
}

func TestSNRSeriesNeverBelowFloor(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(20, 400).Draw(t, "n")
		fs := rapid.Float64Range(1, 100).Draw(t, "fs")
		noiseRMS := rapid.Float64Range(0, 10).Draw(t, "noiseRMS")
		sig := make([]float64, n)
		for i := range sig {
			sig[i] = rapid.Float64Range(-50, 50).Draw(t, "v")
		}
		db, centers := SNRSeries(sig, noiseRMS, 1.0, fs)
		require.Equal(t, len(db), len(centers))
		for _, v := range db {
			require.GreaterOrEqual(t, v, -60.0)
		}
	})
}
