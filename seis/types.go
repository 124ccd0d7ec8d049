// Package seis defines the shared data model for the teleseismic analysis
// pipeline: catalog events, candidate stations, acquired waveforms, and the
// structured results produced by downstream analysis (filtering, Ms,
// classification).
package seis

import "time"

// Event is a catalog-level earthquake. Immutable once constructed.
type Event struct {
	ID            string
	OriginTime    time.Time
	Lat           float64
	Lon           float64
	DepthKm       float64
	Magnitude     float64
	MagnitudeType string
	RegionText    string
}

// Component identifies one of the three orthogonal seismometer channels.
type Component string

const (
	ComponentNorth    Component = "N"
	ComponentEast     Component = "E"
	ComponentVertical Component = "Z"
)

// Units identifies whether a Waveform's component arrays hold raw digitiser
// counts or calibrated displacement.
type Units string

const (
	UnitsCounts      Units = "counts"
	UnitsMillimetres Units = "mm"
)

// Station is a candidate recording station, ranked and annotated with
// arrival times lazily once an Event is known.
type Station struct {
	NetworkCode       string
	StationCode       string
	Lat               float64
	Lon               float64
	ElevationM        float64
	DistanceKm        float64
	DistanceDeg       float64
	AzimuthDeg        float64
	ChannelsAvailable []string
	SampleRateHz      float64
	NetworkPriority   int
	ChannelPriority   int
	OperationalStart  time.Time
	OperationalEnd    time.Time

	// Arrivals, attached lazily by ArrivalModel. Nil means "not computed".
	PArrivalS        *float64
	SArrivalS        *float64
	LoveArrivalS     *float64
	RayleighArrivalS *float64
}

// ID returns the "net.sta" identifier used to key the failed-stations set
// and the waveform cache.
func (s Station) ID() string {
	return s.NetworkCode + "." + s.StationCode
}

// HasChannel reports whether a channel pattern (e.g. "BH?") is present in
// ChannelsAvailable using FDSN-style single-character wildcards on the band
// and instrument code, fixed orientation wildcard.
func (s Station) HasChannel(pattern string) bool {
	for _, ch := range s.ChannelsAvailable {
		if channelMatches(pattern, ch) {
			return true
		}
	}
	return false
}

func channelMatches(pattern, channel string) bool {
	if len(pattern) != len(channel) {
		return false
	}
	for i := range pattern {
		if pattern[i] == '?' || pattern[i] == '*' {
			continue
		}
		if pattern[i] != channel[i] {
			return false
		}
	}
	return true
}

// TimingValidation records the outcome of the optional STA/LTA cross-check
// against the theoretical P arrival.
type TimingValidation struct {
	Performed      bool
	DetectedPS     float64
	TheoreticalPS  float64
	DifferenceS    float64
	TriggerRatio   float64
	Corrected      bool
	OffsetAppliedS float64
}

// Waveform is the canonical three-component record produced by
// WaveformAcquirer and shared read-only thereafter.
type Waveform struct {
	EventID         string
	StationID       string
	EarthquakeTime  time.Time
	SamplingRateHz  float64
	TimingOffsetS   float64
	AvailableComps  []Component
	Units           Units
	TimeS           []float64 // shared time axis, t=0 == EarthquakeTime
	RawCounts       map[Component][]float64
	DisplacementMm  map[Component][]float64
	ComponentRateHz map[Component]float64

	TimingCorrected bool
	Timing          *TimingValidation

	// Warnings are non-fatal physical-sanity issues (§4.6 step 7, §7).
	Warnings []string
}

// Series returns the raw-counts or displacement series for a component,
// selecting by current Units, and whether it is present.
func (w *Waveform) Series(c Component) ([]float64, bool) {
	if w.Units == UnitsMillimetres {
		v, ok := w.DisplacementMm[c]
		return v, ok
	}
	v, ok := w.RawCounts[c]
	return v, ok
}

// FilterStatus is the in-band status record every SignalKernel operation
// that can fail returns alongside its (possibly unchanged) output.
type FilterStatus struct {
	Success    bool
	Reason     string
	Message    string
	Suggestion string
	Adjusted   bool
	FilterType string
	LowFreqHz  float64
	HighFreqHz float64
}

// NoiseStats summarises the pre-event noise window used for SNR.
type NoiseStats struct {
	RMS        float64
	Std        float64
	Max        float64
	Median     float64
	MAD        float64
	NSamples   int
	DurationS  float64
}

// ProcessedWaveform is the output of conditioning (filter/despike/SNR); it
// is always a new value, never a mutation of the input Waveform.
type ProcessedWaveform struct {
	Original       map[Component][]float64
	Filtered       map[Component][]float64
	FilterInfo     FilterStatus
	SpikeCounts    map[Component]int
	NoiseStats     map[Component]*NoiseStats
	SNRSeriesDB    map[Component][]float64
	SNRCentersS    map[Component][]float64
	FilterStatus   map[Component]FilterStatus
}

// MsAmplitudes holds the per-component and combined peak amplitudes (in
// micrometres) used by the Ms calculation.
type MsAmplitudes struct {
	NorthUm      float64
	EastUm       float64
	VerticalUm   float64
	HorizontalUm float64
	UsedUm       float64
	UsedComponent string // "vertical" or "horizontal"
}

// MsParameters records the inputs the Ms formula consumed.
type MsParameters struct {
	PeriodS        float64
	PeriodIsStandard bool
	DistanceKm     float64
	DistanceDeg    float64
	SamplingRateHz float64
}

// MsFilterInfo records whether/how the standard surface-wave band was
// applied.
type MsFilterInfo struct {
	Applied    bool
	LowFreqHz  float64
	HighFreqHz float64
	NyquistHz  float64
	CenterFreqHz float64
}

// MsCalculationTerms exposes every intermediate term of the IASPEI formula,
// for pedagogical display and for tests.
type MsCalculationTerms struct {
	AmplitudeOverPeriod float64
	LogAmpOverPeriod    float64
	LogDistance         float64
	DistanceTerm        float64
	Constant            float64
	RawResult           float64
}

// MsDepthCorrection is the depth term applied when depth_km > 50.
type MsDepthCorrection struct {
	Applied    bool
	DepthKm    float64
	Correction float64
}

// MsDistanceCorrection is the short-distance term applied when
// distance_km < 2000.
type MsDistanceCorrection struct {
	Applied    bool
	DistanceKm float64
	Correction float64
	Factor     float64
}

// ValidationIssue is a non-fatal warning attached to a result.
type ValidationIssue struct {
	Type    string
	Message string
	Detail  string
}

// MsValidation bundles the non-fatal issues found while computing Ms.
type MsValidation struct {
	Issues               []ValidationIssue
	RequiresCorrection   bool
	IsStandardCompliant  bool
}

// MsExplanation is the structured, exhaustively-populated record returned
// alongside (or instead of) a magnitude value.
type MsExplanation struct {
	Magnitude  *float64
	Error      bool
	ErrorReason string
	ErrorMessage string

	Amplitudes MsAmplitudes
	Parameters MsParameters
	Filter     MsFilterInfo
	Calculation MsCalculationTerms
	DepthCorrection    MsDepthCorrection
	DistanceCorrection MsDistanceCorrection
	Validation MsValidation
}

// WaveType is the dominant surface-wave family identified by WaveClassifier.
type WaveType string

const (
	WaveLove     WaveType = "Love"
	WaveRayleigh WaveType = "Rayleigh"
	WaveMixed    WaveType = "Mixed"
)

// WaveClassification is the structured output of WaveClassifier.
type WaveClassification struct {
	DominantType       WaveType
	Confidence         float64
	LoveRayleighRatio  float64
	HorizontalRatio    float64
	VerticalRatio      float64
	ComponentEnergy    map[Component]float64
	RMSAmplitudes      map[Component]float64
	InterpretationText string
}

// Arrivals is the output of ArrivalModel.Arrivals.
type Arrivals struct {
	PS        *float64
	SS        *float64
	LoveS     *float64
	RayleighS *float64
	Factors   VelocityFactors
}

// VelocityFactors records the empirical factor-model terms that produced
// the surface-wave velocities, for display/debugging.
type VelocityFactors struct {
	DepthFactor    float64
	DistanceFactor float64
	MagnitudeFactor float64
	StructureFactor float64
	StructureNote   string
	LoveVelocityKmS     float64
	RayleighVelocityKmS float64
}

// InventorySnapshot is the raw network -> station -> channel tree returned
// by an inventory query, cached independently of the ranked Station list
// that StationSelector derives from it.
type InventorySnapshot struct {
	QueriedAt time.Time
	Networks  []InventoryNetwork
}

// InventoryNetwork is one network's worth of stations in a snapshot.
type InventoryNetwork struct {
	Code     string
	Stations []InventoryStation
}

// InventoryStation is one station's worth of channels in a snapshot.
type InventoryStation struct {
	Code       string
	Lat        float64
	Lon        float64
	ElevationM float64
	Channels   []string
	SampleRateHz float64
	Start      time.Time
	End        time.Time
}

// StationFallbackStats tracks fail-forward activity for a session.
type StationFallbackStats struct {
	Attempted    int
	Failed       int
	Substituted  int
	FailedStationIDs []string
}
