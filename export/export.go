// Package export implements spec.md §6's export operation: a three-sheet
// .xlsx workbook (Metadata, Time_Series_Data, Ms_Calculation) built with
// excelize, following the header-row-then-data-rows writer shape the
// teacher uses for its own generated workbooks.
package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/geoseis/goseis/seis"
)

const (
	sheetMetadata   = "Metadata"
	sheetTimeSeries = "Time_Series_Data"
	sheetMs         = "Ms_Calculation"

	// DefaultMaxSamples is spec.md §6's default down-sampling cap for the
	// Time_Series_Data sheet.
	DefaultMaxSamples = 7200
)

// Column selects one series the caller wants written to Time_Series_Data,
// spec.md §6's "columns selectable from {raw N/E/Z, disp N/E/Z, each
// enabled filter × each component}".
type Column struct {
	Label string
	Data  []float64
}

// Options bundles export's optional arguments.
type Options struct {
	MaxSamples int
	Columns    []Column
	Ms         *float64
	Explanation *seis.MsExplanation
}

// Workbook renders event/station/waveform (plus optional Ms result) into
// the three-sheet workbook and returns its serialised bytes.
func Workbook(ev seis.Event, st seis.Station, wf *seis.Waveform, opts Options) ([]byte, error) {
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = DefaultMaxSamples
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeMetadata(f, ev, st, wf); err != nil {
		return nil, fmt.Errorf("export: metadata sheet: %w", err)
	}
	if err := writeTimeSeries(f, wf, opts); err != nil {
		return nil, fmt.Errorf("export: time series sheet: %w", err)
	}
	if err := writeMsCalculation(f, opts); err != nil {
		return nil, fmt.Errorf("export: ms calculation sheet: %w", err)
	}

	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: serialising workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newSheet(f *excelize.File, name string) error {
	idx, err := f.NewSheet(name)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	return nil
}

func writeRow(f *excelize.File, sheet string, rowIdx int, values ...any) error {
	for c, v := range values {
		cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func writeMetadata(f *excelize.File, ev seis.Event, st seis.Station, wf *seis.Waveform) error {
	if err := newSheet(f, sheetMetadata); err != nil {
		return err
	}

	rows := [][2]any{
		{"Event ID", ev.ID},
		{"Origin Time (UTC)", ev.OriginTime.Format("2006-01-02T15:04:05Z")},
		{"Event Latitude", ev.Lat},
		{"Event Longitude", ev.Lon},
		{"Depth (km)", ev.DepthKm},
		{"Catalog Magnitude", ev.Magnitude},
		{"Magnitude Type", ev.MagnitudeType},
		{"Region", ev.RegionText},
		{"Network", st.NetworkCode},
		{"Station", st.StationCode},
		{"Station Latitude", st.Lat},
		{"Station Longitude", st.Lon},
		{"Distance (km)", st.DistanceKm},
		{"Distance (deg)", st.DistanceDeg},
		{"Azimuth (deg)", st.AzimuthDeg},
	}
	if wf != nil {
		rows = append(rows,
			[2]any{"Sampling Rate (Hz)", wf.SamplingRateHz},
			[2]any{"Units", string(wf.Units)},
			[2]any{"Timing Corrected", wf.TimingCorrected},
		)
		for _, w := range wf.Warnings {
			rows = append(rows, [2]any{"Warning", w})
		}
	}

	for i, r := range rows {
		if err := writeRow(f, sheetMetadata, i+1, r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeTimeSeries(f *excelize.File, wf *seis.Waveform, opts Options) error {
	if err := newSheet(f, sheetTimeSeries); err != nil {
		return err
	}
	if wf == nil || len(opts.Columns) == 0 {
		return nil
	}

	n := len(wf.TimeS)
	stride := downsampleStride(n, opts.MaxSamples)

	header := append([]any{"time_s"}, labelsOf(opts.Columns)...)
	if err := writeRow(f, sheetTimeSeries, 1, header...); err != nil {
		return err
	}

	rowIdx := 2
	for i := 0; i < n; i += stride {
		values := make([]any, 0, len(opts.Columns)+1)
		values = append(values, wf.TimeS[i])
		for _, col := range opts.Columns {
			if i < len(col.Data) {
				values = append(values, col.Data[i])
			} else {
				values = append(values, nil)
			}
		}
		if err := writeRow(f, sheetTimeSeries, rowIdx, values...); err != nil {
			return err
		}
		rowIdx++
	}
	return nil
}

func labelsOf(cols []Column) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = c.Label
	}
	return out
}

// downsampleStride returns the sample step so that at most maxSamples
// points are written, spec.md §6's "down-sampled to <= max_samples".
func downsampleStride(n, maxSamples int) int {
	if maxSamples <= 0 || n <= maxSamples {
		return 1
	}
	return int(math.Ceil(float64(n) / float64(maxSamples)))
}

func writeMsCalculation(f *excelize.File, opts Options) error {
	if err := newSheet(f, sheetMs); err != nil {
		return err
	}
	if opts.Explanation == nil {
		return nil
	}
	e := opts.Explanation

	rows := [][2]any{
		{"Error", e.Error},
		{"Error Reason", e.ErrorReason},
		{"Magnitude", magnitudeOrNil(opts.Ms)},
		{"Used Component", e.Amplitudes.UsedComponent},
		{"Used Amplitude (um)", e.Amplitudes.UsedUm},
		{"North Amplitude (um)", e.Amplitudes.NorthUm},
		{"East Amplitude (um)", e.Amplitudes.EastUm},
		{"Vertical Amplitude (um)", e.Amplitudes.VerticalUm},
		{"Horizontal Amplitude (um)", e.Amplitudes.HorizontalUm},
		{"Period (s)", e.Parameters.PeriodS},
		{"Distance (km)", e.Parameters.DistanceKm},
		{"Distance (deg)", e.Parameters.DistanceDeg},
		{"Filter Applied", e.Filter.Applied},
		{"Filter Low (Hz)", e.Filter.LowFreqHz},
		{"Filter High (Hz)", e.Filter.HighFreqHz},
		{"log10(Amp/Period)", e.Calculation.LogAmpOverPeriod},
		{"log10(Distance deg)", e.Calculation.LogDistance},
		{"Distance Term", e.Calculation.DistanceTerm},
		{"Constant", e.Calculation.Constant},
		{"Raw Result", e.Calculation.RawResult},
		{"Depth Correction Applied", e.DepthCorrection.Applied},
		{"Depth Correction", e.DepthCorrection.Correction},
		{"Distance Correction Applied", e.DistanceCorrection.Applied},
		{"Distance Correction", e.DistanceCorrection.Correction},
		{"Standard Compliant", e.Validation.IsStandardCompliant},
	}
	for i, r := range rows {
		if err := writeRow(f, sheetMs, i+1, r[0], r[1]); err != nil {
			return err
		}
	}

	rowIdx := len(rows) + 2
	for _, issue := range e.Validation.Issues {
		if err := writeRow(f, sheetMs, rowIdx, issue.Type, issue.Message, issue.Detail); err != nil {
			return err
		}
		rowIdx++
	}
	return nil
}

func magnitudeOrNil(ms *float64) any {
	if ms == nil {
		return nil
	}
	return *ms
}
