package acquire

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoseis/goseis/seis"
)

type fakeWaveformSource struct {
	traces map[string][]Trace // keyed by channel pattern
	err    error
}

func (f fakeWaveformSource) GetWaveforms(ctx context.Context, network, station, location, channel string, start, end time.Time, attachResponse bool) ([]Trace, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.traces[channel], nil
}

type fakeResponseSource struct {
	sensitivity float64
	err         error
}

func (f fakeResponseSource) GetResponse(ctx context.Context, network, station, location, channel string, at time.Time) (*ResponseInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ResponseInfo{SensitivityCountsPerMeter: f.sensitivity, InputUnits: "M"}, nil
}

func testEvent() seis.Event {
	return seis.Event{ID: "evt1", OriginTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func testStation() seis.Station {
	return seis.Station{NetworkCode: "IU", StationCode: "ANMO", DistanceKm: 3000}
}

func threeComponentTraces(startOffset time.Duration, n int, fs float64) []Trace {
	base := testEvent().OriginTime.Add(-preWindow + startOffset)
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i % 100)
	}
	mk := func(chanCode string) Trace {
		return Trace{Network: "IU", Station: "ANMO", Location: "00", Channel: chanCode, StartTime: base, SamplingRateHz: fs, Counts: append([]float64(nil), data...)}
	}
	return []Trace{mk("BHZ"), mk("BHN"), mk("BHE")}
}

func TestAcquireSucceedsOnFirstChannelPattern(t *testing.T) {
	source := fakeWaveformSource{traces: map[string][]Trace{
		"BH?": threeComponentTraces(0, 1000, 20),
	}}
	acq := NewAcquirer(source, nil)

	wf, err := acq.Acquire(context.Background(), testEvent(), testStation())
	require.NoError(t, err)
	require.NotNil(t, wf)
	assert.Len(t, wf.AvailableComps, 3)
	assert.Equal(t, seis.UnitsCounts, wf.Units)
	assert.Empty(t, acq.FailedStations())
}

func TestAcquireFallsBackToBroadPattern(t *testing.T) {
	source := fakeWaveformSource{traces: map[string][]Trace{
		"*": threeComponentTraces(0, 1000, 20),
	}}
	acq := NewAcquirer(source, nil)

	wf, err := acq.Acquire(context.Background(), testEvent(), testStation())
	require.NoError(t, err)
	require.NotNil(t, wf)
	assert.Len(t, wf.AvailableComps, 3)
}

func TestAcquireMarksFailedStationWhenNoDataFound(t *testing.T) {
	source := fakeWaveformSource{traces: map[string][]Trace{}}
	acq := NewAcquirer(source, nil)

	wf, err := acq.Acquire(context.Background(), testEvent(), testStation())
	require.NoError(t, err)
	assert.Nil(t, wf)
	assert.Contains(t, acq.FailedStations(), "IU.ANMO")
}

func TestAcquireRemovesResponseWhenAvailable(t *testing.T) {
	source := fakeWaveformSource{traces: map[string][]Trace{
		"BH?": threeComponentTraces(0, 2000, 20),
	}}
	acq := NewAcquirer(source, fakeResponseSource{sensitivity: 1e9})

	wf, err := acq.Acquire(context.Background(), testEvent(), testStation())
	require.NoError(t, err)
	require.NotNil(t, wf)
	assert.Equal(t, seis.UnitsMillimetres, wf.Units)
	for _, c := range wf.AvailableComps {
		assert.Len(t, wf.DisplacementMm[c], len(wf.RawCounts[c]))
	}
}

func TestMergeComponentZeroFillsGap(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := Trace{StartTime: base, SamplingRateHz: 10, Counts: []float64{1, 2, 3}}
	second := Trace{StartTime: base.Add(1 * time.Second), SamplingRateHz: 10, Counts: []float64{9, 9}}

	start, fs, data := mergeComponent([]Trace{second, first})
	assert.Equal(t, base, start)
	assert.Equal(t, 10.0, fs)
	require.Len(t, data, 12)
	assert.Equal(t, []float64{1, 2, 3}, data[:3])
	assert.Equal(t, 0.0, data[3])
	assert.Equal(t, []float64{9, 9}, data[10:])
}

func TestDedupeByQualifiedIDDropsExactRepeats(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := Trace{Network: "IU", Station: "ANMO", Location: "00", Channel: "BHZ", StartTime: base, Counts: []float64{1}}
	out := dedupeByQualifiedID([]Trace{tr, tr})
	assert.Len(t, out, 1)
}

// timingTestTraces builds a three-component trace set whose Z component is
// quiet for the first quietSamples samples and loud afterward, producing a
// single deterministic STA/LTA trigger at quietSamples/fs seconds into the
// trace. N/E components carry flat data; only Z is exercised by timing
// validation.
func timingTestTraces(quietSamples, totalSamples int, fs float64) []Trace {
	base := testEvent().OriginTime.Add(-preWindow)
	z := make([]float64, totalSamples)
	for i := range z {
		if i < quietSamples {
			z[i] = 1
		} else {
			z[i] = 50
		}
	}
	flat := make([]float64, totalSamples)
	mk := func(chanCode string, data []float64) Trace {
		return Trace{Network: "IU", Station: "ANMO", Location: "00", Channel: chanCode, StartTime: base, SamplingRateHz: fs, Counts: data}
	}
	return []Trace{mk("BHZ", z), mk("BHN", flat), mk("BHE", flat)}
}

func TestAcquireAlwaysRecordsTimingDetectionWithoutMutatingTimeAxis(t *testing.T) {
	const fs = 20.0
	const quietSamples = 300 // >= ltaN(200) so the LTA window before the jump is pure quiet
	traces := timingTestTraces(quietSamples, 2000, fs)
	source := fakeWaveformSource{traces: map[string][]Trace{"BH?": traces}}
	acq := NewAcquirer(source, nil)

	st := testStation()
	theoretical := 0.0 // far from the detected arrival: |diff| > 10s, does not qualify
	st.PArrivalS = &theoretical

	wf, err := acq.Acquire(context.Background(), testEvent(), st)
	require.NoError(t, err)
	require.NotNil(t, wf)
	// the uncorrected axis: first sample preWindow before the origin
	expected := make([]float64, len(wf.TimeS))
	for i := range expected {
		expected[i] = -preWindow.Seconds() + float64(i)/fs
	}

	require.NotNil(t, wf.Timing)
	assert.True(t, wf.Timing.Performed)
	assert.Greater(t, wf.Timing.TriggerRatio, timingMinRatio)
	assert.False(t, wf.Timing.Corrected)
	assert.False(t, wf.TimingCorrected)
	assert.Equal(t, expected, wf.TimeS)
}

func TestCorrectTimingAppliesQualifyingDetection(t *testing.T) {
	const fs = 20.0
	const quietSamples = 300
	traces := timingTestTraces(quietSamples, 2000, fs)
	source := fakeWaveformSource{traces: map[string][]Trace{"BH?": traces}}
	acq := NewAcquirer(source, nil)

	st := testStation()
	theoretical := -180.0 + float64(quietSamples)/fs - 5.0 // 5 s before the detected arrival: qualifies and shifts the axis
	st.PArrivalS = &theoretical

	wf, err := acq.Acquire(context.Background(), testEvent(), st)
	require.NoError(t, err)
	require.NotNil(t, wf)

	require.NotNil(t, wf.Timing)
	assert.True(t, wf.Timing.Performed)
	assert.False(t, wf.Timing.Corrected, "Acquire must not apply the correction itself")
	assert.False(t, wf.TimingCorrected)
	before := append([]float64(nil), wf.TimeS...)

	applied := acq.CorrectTiming(wf)
	assert.True(t, applied)
	assert.True(t, wf.Timing.Corrected)
	assert.True(t, wf.TimingCorrected)
	assert.NotEqual(t, before, wf.TimeS)
	assert.InDelta(t, wf.Timing.OffsetAppliedS, wf.Timing.DifferenceS, 1e-9)

	// idempotent: calling again reports already-applied without re-shifting
	again := acq.CorrectTiming(wf)
	assert.True(t, again)
	afterFirst := append([]float64(nil), wf.TimeS...)
	acq.CorrectTiming(wf)
	assert.Equal(t, afterFirst, wf.TimeS)
}

func TestCorrectTimingNoOpWithoutDetection(t *testing.T) {
	acq := NewAcquirer(fakeWaveformSource{}, nil)
	assert.False(t, acq.CorrectTiming(nil))
	assert.False(t, acq.CorrectTiming(&seis.Waveform{}))
}

func TestCosineTaperShapeWithinBand(t *testing.T) {
	assert.Equal(t, 0.0, cosineTaper(0.001, 0.005, 0.01, 1.0, 2.0))
	assert.Equal(t, 1.0, cosineTaper(0.5, 0.005, 0.01, 1.0, 2.0))
	assert.Equal(t, 0.0, cosineTaper(5.0, 0.005, 0.01, 1.0, 2.0))
	assert.Greater(t, cosineTaper(0.007, 0.005, 0.01, 1.0, 2.0), 0.0)
	assert.Less(t, cosineTaper(0.007, 0.005, 0.01, 1.0, 2.0), 1.0)
}
