// Package taup is an analytic travel-time oracle implementing
// arrival.Oracle. It has no access to a real iasp91 ray-tracing service,
// so it starts from the same constant-apparent-velocity fallback
// calculate_wave_arrivals uses when its TauP model is unavailable, and
// adds a depth term the flat distance_deg-only fallback formula lacks: a
// deeper source travels a shorter path through the slow near-surface
// layers, so it reaches a given teleseismic distance sooner than a
// shallow one does, not later.
package taup

import (
	"context"

	"github.com/geoseis/goseis/geomath"
)

const (
	// Apparent P/S velocities (km/s), matching calculate_wave_arrivals's
	// documented TauP-unavailable fallback constants.
	fallbackPVelocityKmS = 8.0
	fallbackSVelocityKmS = 4.5

	// Depth correction rates (s/km), a shallow approximation of how much
	// sooner a deeper source's teleseismic P/S arrival is relative to the
	// flat-distance fallback; S is more sensitive to depth than P.
	pDepthCoeffSPerKm = 0.06
	sDepthCoeffSPerKm = 0.10

	// minTravelTimeFraction floors the depth correction so a very deep,
	// nearby event can never predict a non-positive travel time.
	minTravelTimeFraction = 0.5
)

// Model is a stateless analytic oracle: one shared immutable instance per
// spec.md §5's "TauP model: a single shared immutable instance".
type Model struct{}

// NewModel builds the analytic oracle.
func NewModel() *Model {
	return &Model{}
}

// TravelTimes implements arrival.Oracle. distanceDeg is converted to km
// via the IASPEI km-per-degree constant (consistent with every other
// distance-to-degree conversion this module uses for arrival-time work),
// then divided by the constant apparent velocity and reduced by a
// depth-proportional correction.
func (m *Model) TravelTimes(ctx context.Context, depthKm, distanceDeg float64) (pS, sS *float64, err error) {
	distanceKm := distanceDeg * geomath.KmPerDegreeIASPEI

	p := flatTime(distanceKm, fallbackPVelocityKmS, depthKm, pDepthCoeffSPerKm)
	s := flatTime(distanceKm, fallbackSVelocityKmS, depthKm, sDepthCoeffSPerKm)
	return &p, &s, nil
}

func flatTime(distanceKm, velocityKmS, depthKm, depthCoeffSPerKm float64) float64 {
	base := distanceKm / velocityKmS
	corrected := base - depthKm*depthCoeffSPerKm
	floor := base * minTravelTimeFraction
	if corrected < floor {
		return floor
	}
	return corrected
}
