package arrival

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSurfaceWaveFactorsEnforcesLoveRayleighRatio(t *testing.T) {
	f := SurfaceWaveFactors(10, 3000, 6.2, 1.78)
	assert.InDelta(t, 1.12*f.RayleighVelocityKmS, f.LoveVelocityKmS, 1e-9)
}

func TestSurfaceWaveFactorsStructureAbsentIsUnknown(t *testing.T) {
	f := SurfaceWaveFactors(10, 3000, 6.2, 0)
	assert.Equal(t, "unknown", f.StructureNote)
	assert.InDelta(t, 1.00, f.StructureFactor, 1e-9)
}

func TestSurfaceWaveFactorsStructureBuckets(t *testing.T) {
	cases := []struct {
		vpVs   float64
		note   string
		factor float64
	}{
		{1.90, "sedimentary", 0.93},
		{1.77, "normal crust", 0.97},
		{1.72, "average", 1.00},
		{1.50, "crystalline", 1.05},
	}
	for _, c := range cases {
		f := SurfaceWaveFactors(10, 1000, 6.0, c.vpVs)
		assert.Equal(t, c.note, f.StructureNote)
		assert.InDelta(t, c.factor, f.StructureFactor, 1e-9)
	}
}

func TestSurfaceWaveFactorsAlwaysWithinClampBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		depth := rapid.Float64Range(0, 700).Draw(t, "depth")
		dist := rapid.Float64Range(1, 20000).Draw(t, "dist")
		mag := rapid.Float64Range(0, 9.5).Draw(t, "mag")
		vpvs := rapid.Float64Range(0, 2.2).Draw(t, "vpvs")

		f := SurfaceWaveFactors(depth, dist, mag, vpvs)
		if f.RayleighVelocityKmS < 3.0-1e-9 || f.RayleighVelocityKmS > 4.5+1e-9 {
			t.Fatalf("rayleigh velocity out of bounds: %v", f.RayleighVelocityKmS)
		}
		if f.LoveVelocityKmS < 3.8-1e-9 || f.LoveVelocityKmS > 5.2+1e-9 {
			t.Fatalf("love velocity out of bounds: %v", f.LoveVelocityKmS)
		}
	})
}

func TestDepthFactorMonotonicNonIncreasing(t *testing.T) {
	depths := []float64{10, 30, 60, 140, 290, 400}
	prev := depthFactor(depths[0])
	for _, d := range depths[1:] {
		cur := depthFactor(d)
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
}
