// Package geomath collects the angle, great-circle, and calendar helpers
// shared by arrival and station. Angle arithmetic goes through
// soniakeys/unit (radians-based, as meeus expects); epoch conversions go
// through soniakeys/meeus/v3/julian.
package geomath

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/unit"
)

// EarthRadiusKm is the mean radius used for great-circle distance, matching
// data_manager.py's haversine constant.
const EarthRadiusKm = 6371.0

// KmPerDegreeIASPEI is the IASPEI-standard conversion used for Ms distance
// terms (spec.md §9 Open Question 3).
const KmPerDegreeIASPEI = 111.195

// KmPerDegreeDisplay is the conversion used for display-only
// distance-to-degree figures on Station records.
const KmPerDegreeDisplay = 111.32

// GreatCircle holds the distance and the forward azimuth from the first
// point to the second.
type GreatCircle struct {
	DistanceKm float64
	AzimuthDeg float64
}

// Haversine computes great-circle distance (km) and initial bearing (deg,
// 0-360 from north) from (lat1,lon1) to (lat2,lon2), all in decimal
// degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) GreatCircle {
	phi1 := unit.AngleFromDeg(lat1).Rad()
	phi2 := unit.AngleFromDeg(lat2).Rad()
	dPhi := unit.AngleFromDeg(lat2 - lat1).Rad()
	dLambda := unit.AngleFromDeg(lon2 - lon1).Rad()

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	distance := EarthRadiusKm * c

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	bearing := unit.Angle(math.Atan2(y, x)).Deg()
	if bearing < 0 {
		bearing += 360
	}

	return GreatCircle{DistanceKm: distance, AzimuthDeg: bearing}
}

// DegreesIASPEI converts a km distance to degrees using the IASPEI
// constant, for Ms and arrival-time calculations.
func DegreesIASPEI(km float64) float64 {
	return km / KmPerDegreeIASPEI
}

// DegreesDisplay converts a km distance to degrees using the display-only
// constant, for Station.DistanceDeg.
func DegreesDisplay(km float64) float64 {
	return km / KmPerDegreeDisplay
}

// JulianDay returns the (fractional) Julian Day for a UTC instant.
func JulianDay(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// FromJulianDay is the inverse of JulianDay.
func FromJulianDay(jd float64) time.Time {
	return julian.JDToTime(jd)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
