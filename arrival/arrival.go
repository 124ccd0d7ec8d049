// Package arrival computes travel times of P, S, Love, and Rayleigh phases
// from an event to a station: P/S come from an external travel-time Oracle,
// Love/Rayleigh from an empirical factor model, following the ambient
// pattern of thin-adapter-plus-local-computation used across the pipeline.
package arrival

import (
	"context"

	"github.com/geoseis/goseis/geomath"
	"github.com/geoseis/goseis/seis"
)

// Oracle is the travel-time service boundary: P and S times for a given
// source depth and angular distance under a standard 1-D earth model.
// Implementations are expected to be cached process-wide; callers hold one
// instance per process.
type Oracle interface {
	TravelTimes(ctx context.Context, depthKm, distanceDeg float64) (pS, sS *float64, err error)
}

// Model is the concrete ArrivalModel: an Oracle for body waves plus the
// local empirical surface-wave velocity model.
type Model struct {
	Oracle Oracle
}

// NewModel builds a Model over the given travel-time Oracle.
func NewModel(oracle Oracle) *Model {
	return &Model{Oracle: oracle}
}

// Arrivals computes {p_s, s_s, love_s, rayleigh_s, factors} for the given
// event/station pair. p_s/s_s are nil if the oracle fails or is absent;
// Love/Rayleigh are always computed since they depend only on local inputs.
func (m *Model) Arrivals(ctx context.Context, ev seis.Event, st seis.Station) seis.Arrivals {
	var pS, sS *float64
	if m.Oracle != nil {
		// st.DistanceDeg is the display-only conversion (KmPerDegreeDisplay);
		// arrival-time distance terms must use the IASPEI constant instead,
		// per spec.md §9 Open Question 3.
		distanceDeg := geomath.DegreesIASPEI(st.DistanceKm)
		p, s, err := m.Oracle.TravelTimes(ctx, ev.DepthKm, distanceDeg)
		if err == nil {
			pS, sS = p, s
		}
	}

	factors := SurfaceWaveFactors(ev.DepthKm, st.DistanceKm, ev.Magnitude, vpVsRatio(pS, sS))
	loveS := st.DistanceKm / factors.LoveVelocityKmS
	rayleighS := st.DistanceKm / factors.RayleighVelocityKmS

	return seis.Arrivals{
		PS:        pS,
		SS:        sS,
		LoveS:     &loveS,
		RayleighS: &rayleighS,
		Factors:   factors,
	}
}

// vpVsRatio estimates Vp/Vs ≈ t_S / t_P when both body-wave arrivals are
// known, per spec.md §4.2; otherwise returns 0, which SurfaceWaveFactors
// treats as "absent" (f_struct = 1.0, unknown crust).
func vpVsRatio(pS, sS *float64) float64 {
	if pS == nil || sS == nil || *pS <= 0 {
		return 0
	}
	return *sS / *pS
}
