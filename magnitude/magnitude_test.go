package magnitude

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestComputeRejectsShortDistance(t *testing.T) {
	ms, exp := Compute([]float64{0.001}, []float64{0.001}, []float64{0.002}, 150, 20, Options{})
	assert.Nil(t, ms)
	assert.True(t, exp.Error)
	assert.Equal(t, "distance_too_short", exp.ErrorReason)
}

func TestComputeRejectsZeroAmplitude(t *testing.T) {
	zeros := make([]float64, 100)
	ms, exp := Compute(zeros, zeros, zeros, 3000, 20, Options{ApplyFilter: false})
	assert.Nil(t, ms)
	assert.True(t, exp.Error)
	assert.Equal(t, "no_amplitude", exp.ErrorReason)
}

func TestComputeKnownCaseMatchesHandCalculation(t *testing.T) {
	n := 200
	vertical := make([]float64, n)
	north := make([]float64, n)
	east := make([]float64, n)
	vertical[50] = 0.01 // 0.01 mm = 10 um

	ms, exp := Compute(north, east, vertical, 5000, 20, Options{ApplyFilter: false, PeriodS: 20})
	require.NotNil(t, ms)

	distanceDeg := 5000.0 / 111.195
	expectedRaw := math.Log10(10.0/20.0) + 1.66*math.Log10(distanceDeg) + 3.3
	expectedMs := math.Round(expectedRaw*10) / 10

	assert.InDelta(t, expectedMs, *ms, 1e-9)
	assert.Equal(t, "vertical", exp.Amplitudes.UsedComponent)
	assert.InDelta(t, 10.0, exp.Amplitudes.VerticalUm, 1e-6)
	assert.False(t, exp.DepthCorrection.Applied)
	assert.False(t, exp.DistanceCorrection.Applied)
}

func TestComputeAppliesDepthCorrectionAboveFiftyKm(t *testing.T) {
	n := 200
	vertical := make([]float64, n)
	vertical[50] = 0.01
	north := make([]float64, n)
	east := make([]float64, n)
	depth := 100.0

	ms, exp := Compute(north, east, vertical, 5000, 20, Options{ApplyFilter: false, DepthKm: &depth})
	require.NotNil(t, ms)
	require.True(t, exp.DepthCorrection.Applied)
	assert.InDelta(t, -0.0035*(100-50), exp.DepthCorrection.Correction, 1e-12)
}

func TestComputeAppliesShortDistanceCorrection(t *testing.T) {
	n := 200
	vertical := make([]float64, n)
	vertical[50] = 0.01
	north := make([]float64, n)
	east := make([]float64, n)

	ms, exp := Compute(north, east, vertical, 1000, 20, Options{ApplyFilter: false})
	require.NotNil(t, ms)
	require.True(t, exp.DistanceCorrection.Applied)
	assert.InDelta(t, 0.3*(2000.0-1000.0)/2000.0, exp.DistanceCorrection.Correction, 1e-12)
	require.Len(t, exp.Validation.Issues, 1)
	assert.Equal(t, "distance", exp.Validation.Issues[0].Type)
}

func TestComputeFlagsDeepAndFarIssuesWithoutFailing(t *testing.T) {
	n := 200
	vertical := make([]float64, n)
	vertical[50] = 0.01
	north := make([]float64, n)
	east := make([]float64, n)
	depth := 80.0

	ms, exp := Compute(north, east, vertical, 17000, 20, Options{ApplyFilter: false, DepthKm: &depth})
	require.NotNil(t, ms)
	assert.False(t, exp.Validation.IsStandardCompliant)
	assert.True(t, exp.Validation.RequiresCorrection)
	var types []string
	for _, iss := range exp.Validation.Issues {
		types = append(types, iss.Type)
	}
	assert.Contains(t, types, "distance")
	assert.Contains(t, types, "depth")
}

func TestComputeNeverPanicsAndRoundsToOneDecimal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(10, 100).Draw(t, "n")
		distanceKm := rapid.Float64Range(200, 20000).Draw(t, "distanceKm")
		fs := rapid.Float64Range(1, 100).Draw(t, "fs")
		vertical := make([]float64, n)
		for i := range vertical {
			vertical[i] = rapid.Float64Range(-1, 1).Draw(t, "v")
		}
		north := make([]float64, n)
		east := make([]float64, n)

		ms, exp := Compute(north, east, vertical, distanceKm, fs, Options{ApplyFilter: false})
		if ms != nil {
			scaled := *ms * 10
			require.InDelta(t, math.Round(scaled), scaled, 1e-6)
			require.False(t, exp.Error)
		}
	})
}
