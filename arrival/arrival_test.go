package arrival

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoseis/goseis/geomath"
	"github.com/geoseis/goseis/seis"
)

type fakeOracle struct {
	pS, sS     *float64
	err        error
	gotDepthKm float64
	gotDistDeg float64
}

func (f *fakeOracle) TravelTimes(ctx context.Context, depthKm, distanceDeg float64) (*float64, *float64, error) {
	f.gotDepthKm = depthKm
	f.gotDistDeg = distanceDeg
	return f.pS, f.sS, f.err
}

func f64(v float64) *float64 { return &v }

func TestArrivalsUsesOracleForBodyWaves(t *testing.T) {
	oracle := &fakeOracle{pS: f64(120.5), sS: f64(220.1)}
	model := NewModel(oracle)

	ev := seis.Event{DepthKm: 35, Magnitude: 6.0}
	st := seis.Station{DistanceKm: 3000, DistanceDeg: 27.0}

	out := model.Arrivals(context.Background(), ev, st)
	require.NotNil(t, out.PS)
	require.NotNil(t, out.SS)
	assert.InDelta(t, 120.5, *out.PS, 1e-9)
	assert.InDelta(t, 220.1, *out.SS, 1e-9)
	require.NotNil(t, out.LoveS)
	require.NotNil(t, out.RayleighS)
	assert.Greater(t, *out.LoveS, 0.0)
	assert.Greater(t, *out.RayleighS, 0.0)
}

func TestArrivalsPassesIASPEIDistanceToOracle(t *testing.T) {
	oracle := &fakeOracle{pS: f64(1.0), sS: f64(2.0)}
	model := NewModel(oracle)

	ev := seis.Event{DepthKm: 35, Magnitude: 6.0}
	// DistanceDeg here uses the display-only constant (27.0); the oracle
	// must instead see the IASPEI conversion of DistanceKm, not this field.
	st := seis.Station{DistanceKm: 3000, DistanceDeg: 27.0}

	model.Arrivals(context.Background(), ev, st)

	assert.InDelta(t, geomath.DegreesIASPEI(st.DistanceKm), oracle.gotDistDeg, 1e-9)
	assert.NotEqual(t, st.DistanceDeg, oracle.gotDistDeg)
	assert.InDelta(t, ev.DepthKm, oracle.gotDepthKm, 1e-9)
}

func TestArrivalsOracleFailureLeavesBodyWavesNil(t *testing.T) {
	oracle := &fakeOracle{err: errors.New("oracle unavailable")}
	model := NewModel(oracle)

	ev := seis.Event{DepthKm: 10, Magnitude: 5.5}
	st := seis.Station{DistanceKm: 1500, DistanceDeg: 13.5}

	out := model.Arrivals(context.Background(), ev, st)
	assert.Nil(t, out.PS)
	assert.Nil(t, out.SS)
	require.NotNil(t, out.RayleighS)
	assert.Equal(t, "unknown", out.Factors.StructureNote)
}

func TestArrivalsNilOracleStillComputesSurfaceWaves(t *testing.T) {
	model := NewModel(nil)
	ev := seis.Event{DepthKm: 50, Magnitude: 6.5}
	st := seis.Station{DistanceKm: 5000, DistanceDeg: 45.0}

	out := model.Arrivals(context.Background(), ev, st)
	assert.Nil(t, out.PS)
	assert.Nil(t, out.SS)
	require.NotNil(t, out.LoveS)
	require.NotNil(t, out.RayleighS)
	assert.InDelta(t, st.DistanceKm/out.Factors.LoveVelocityKmS, *out.LoveS, 1e-9)
	assert.InDelta(t, st.DistanceKm/out.Factors.RayleighVelocityKmS, *out.RayleighS, 1e-9)
}

func TestVpVsRatioComputedFromBodyWaves(t *testing.T) {
	p := f64(100.0)
	s := f64(180.0)
	assert.InDelta(t, 1.8, vpVsRatio(p, s), 1e-9)
	assert.Equal(t, 0.0, vpVsRatio(nil, s))
	assert.Equal(t, 0.0, vpVsRatio(p, nil))
}
