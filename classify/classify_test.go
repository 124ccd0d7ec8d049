package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/geoseis/goseis/seis"
)

func waveformOf(north, east, vertical []float64) *seis.Waveform {
	return &seis.Waveform{
		Units:          seis.UnitsMillimetres,
		SamplingRateHz: 10,
		DisplacementMm: map[seis.Component][]float64{
			seis.ComponentNorth:    north,
			seis.ComponentEast:     east,
			seis.ComponentVertical: vertical,
		},
	}
}

func TestClassifyDetectsLoveDominance(t *testing.T) {
	n := 100
	north := make([]float64, n)
	east := make([]float64, n)
	vertical := make([]float64, n)
	for i := range north {
		north[i] = 10
		east[i] = 10
		vertical[i] = 0.1
	}
	w := waveformOf(north, east, vertical)
	out := Classify(w, nil)
	assert.Equal(t, seis.WaveLove, out.DominantType)
	assert.Greater(t, out.Confidence, 0.0)
	assert.LessOrEqual(t, out.Confidence, 1.0)
}

func TestClassifyDetectsRayleighDominance(t *testing.T) {
	n := 100
	north := make([]float64, n)
	east := make([]float64, n)
	vertical := make([]float64, n)
	for i := range vertical {
		vertical[i] = 10
		north[i] = 0.1
		east[i] = 0.1
	}
	w := waveformOf(north, east, vertical)
	out := Classify(w, nil)
	assert.Equal(t, seis.WaveRayleigh, out.DominantType)
}

func TestClassifyDetectsMixed(t *testing.T) {
	n := 100
	north := make([]float64, n)
	east := make([]float64, n)
	vertical := make([]float64, n)
	for i := range north {
		north[i] = 5
		east[i] = 5
		vertical[i] = 5
	}
	w := waveformOf(north, east, vertical)
	out := Classify(w, nil)
	assert.Equal(t, seis.WaveMixed, out.DominantType)
}

func TestClassifyZeroSignalDoesNotPanic(t *testing.T) {
	n := 50
	w := waveformOf(make([]float64, n), make([]float64, n), make([]float64, n))
	out := Classify(w, nil)
	assert.Equal(t, 0.0, out.HorizontalRatio)
	assert.Equal(t, 0.0, out.VerticalRatio)
}

func TestClassifyRespectsTimeWindow(t *testing.T) {
	n := 100
	north := make([]float64, n)
	east := make([]float64, n)
	vertical := make([]float64, n)
	for i := 50; i < n; i++ {
		vertical[i] = 20
	}
	w := waveformOf(north, east, vertical)

	full := Classify(w, nil)
	windowed := Classify(w, &TimeWindow{StartS: 0, EndS: 4.9})
	require.NotEqual(t, full.ComponentEnergy[seis.ComponentVertical], windowed.ComponentEnergy[seis.ComponentVertical])
	assert.Equal(t, 0.0, windowed.ComponentEnergy[seis.ComponentVertical])
}

func TestClassifyConfidenceAlwaysInUnitRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 200).Draw(t, "n")
		north := make([]float64, n)
		east := make([]float64, n)
		vertical := make([]float64, n)
		for i := 0; i < n; i++ {
			north[i] = rapid.Float64Range(-100, 100).Draw(t, "n_v")
			east[i] = rapid.Float64Range(-100, 100).Draw(t, "e_v")
			vertical[i] = rapid.Float64Range(-100, 100).Draw(t, "v_v")
		}
		w := waveformOf(north, east, vertical)
		out := Classify(w, nil)
		require.GreaterOrEqual(t, out.Confidence, 0.0)
		require.LessOrEqual(t, out.Confidence, 1.0)
	})
}
