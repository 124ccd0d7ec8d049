package arrival

import "github.com/geoseis/goseis/seis"

// Base velocities for the empirical surface-wave model, spec.md §4.2.
const (
	loveV0     = 4.5
	rayleighV0 = 3.5
)

// SurfaceWaveFactors computes the empirical Love/Rayleigh velocity model
// v = v0 * f_depth(d) * f_dist(Δ_km) * f_mag(M) * f_struct(Vp/Vs), then
// enforces v_Love = 1.12 * v_Rayleigh and clamps both to their published
// ranges. vpVs == 0 means "not observable"; f_struct falls back to 1.0.
func SurfaceWaveFactors(depthKm, distanceKm, magnitude, vpVs float64) seis.VelocityFactors {
	fDepth := depthFactor(depthKm)
	fDist := distanceFactor(distanceKm)
	fMag := magnitudeFactor(magnitude)
	fStruct, note := structureFactor(vpVs)

	product := fDepth * fDist * fMag * fStruct
	vRayleigh := rayleighV0 * product
	vLove := loveV0 * product

	vLove = 1.12 * vRayleigh

	vRayleigh = clamp(vRayleigh, 3.0, 4.5)
	vLove = clamp(vLove, 3.8, 5.2)

	return seis.VelocityFactors{
		DepthFactor:         fDepth,
		DistanceFactor:      fDist,
		MagnitudeFactor:     fMag,
		StructureFactor:     fStruct,
		StructureNote:       note,
		LoveVelocityKmS:     vLove,
		RayleighVelocityKmS: vRayleigh,
	}
}

func depthFactor(d float64) float64 {
	switch {
	case d < 20:
		return 1.00
	case d < 35:
		return 0.98
	case d < 70:
		return 0.92
	case d < 150:
		return 0.80
	case d < 300:
		return 0.65
	default:
		return 0.50
	}
}

func distanceFactor(deltaKm float64) float64 {
	switch {
	case deltaKm < 500:
		return 0.92
	case deltaKm < 1000:
		return 0.95
	case deltaKm < 2000:
		return 0.98
	case deltaKm < 4000:
		return 1.00
	case deltaKm < 6000:
		return 1.02
	case deltaKm < 10000:
		return 1.04
	default:
		return 1.06
	}
}

func magnitudeFactor(m float64) float64 {
	switch {
	case m < 5.0:
		return 0.95
	case m < 5.5:
		return 0.97
	case m < 6.0:
		return 0.99
	case m < 6.5:
		return 1.00
	case m < 7.0:
		return 1.02
	case m < 7.5:
		return 1.04
	case m < 8.0:
		return 1.06
	default:
		return 1.08
	}
}

// structureFactor maps an estimated Vp/Vs ratio to the crustal-structure
// factor and its display label. vpVs <= 0 means "absent": unknown crust.
func structureFactor(vpVs float64) (factor float64, note string) {
	switch {
	case vpVs <= 0:
		return 1.00, "unknown"
	case vpVs > 1.80:
		return 0.93, "sedimentary"
	case vpVs > 1.75:
		return 0.97, "normal crust"
	case vpVs > 1.70:
		return 1.00, "average"
	default:
		return 1.05, "crystalline"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
