package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/geoseis/goseis/classify"
	"github.com/geoseis/goseis/export"
	"github.com/geoseis/goseis/fdsn"
	"github.com/geoseis/goseis/orchestrator"
	"github.com/geoseis/goseis/seis"
	"github.com/geoseis/goseis/signal"
)

func orchestratorMsParams(cCtx *cli.Context) orchestrator.MsParams {
	return orchestrator.MsParams{
		PeriodS:      cCtx.Float64("period"),
		WindowStartS: cCtx.Float64("window-start"),
		DurationS:    cCtx.Float64("duration"),
		ApplyFilter:  cCtx.Bool("apply-filter"),
	}
}

func parseRegion(cCtx *cli.Context) *fdsn.BoundingBox {
	if !cCtx.IsSet("min-lat") {
		return nil
	}
	return &fdsn.BoundingBox{
		MinLat: cCtx.Float64("min-lat"),
		MaxLat: cCtx.Float64("max-lat"),
		MinLon: cCtx.Float64("min-lon"),
		MaxLon: cCtx.Float64("max-lon"),
	}
}

func searchEarthquakesAction(cCtx *cli.Context) error {
	p, err := buildPipeline(cCtx)
	if err != nil {
		return err
	}

	start, err := time.Parse(time.RFC3339, cCtx.String("start"))
	if err != nil {
		return fmt.Errorf("goseis: --start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, cCtx.String("end"))
	if err != nil {
		return fmt.Errorf("goseis: --end: %w", err)
	}

	events, err := p.orch.SearchEarthquakes(cCtx.Context, fdsn.EventQuery{
		StartTime:    start,
		EndTime:      end,
		MinMagnitude: cCtx.Float64("min-mag"),
		MaxMagnitude: cCtx.Float64("max-mag"),
		Region:       parseRegion(cCtx),
		Limit:        cCtx.Int("limit"),
	})
	if err != nil {
		return err
	}

	p.log.Info(fmt.Sprintf("found %d events", len(events)))
	return writeJSON(cCtx.String("out"), events)
}

func searchStationsAction(cCtx *cli.Context) error {
	p, err := buildPipeline(cCtx)
	if err != nil {
		return err
	}

	events, err := readEvents(cCtx.String("events"))
	if err != nil {
		return err
	}
	ev, err := eventAt(events, cCtx.Int("event-index"))
	if err != nil {
		return err
	}

	stations, err := p.orch.SearchStations(cCtx.Context, ev, cCtx.Float64("min-km"), cCtx.Float64("max-km"), cCtx.Int("target"))
	if err != nil {
		return err
	}

	p.log.Info(fmt.Sprintf("found %d candidate stations for event %s", len(stations), ev.ID))
	return writeJSON(cCtx.String("out"), stations)
}

func loadEventStation(cCtx *cli.Context) (seis.Event, seis.Station, error) {
	events, err := readEvents(cCtx.String("events"))
	if err != nil {
		return seis.Event{}, seis.Station{}, err
	}
	ev, err := eventAt(events, cCtx.Int("event-index"))
	if err != nil {
		return seis.Event{}, seis.Station{}, err
	}

	stations, err := readStations(cCtx.String("stations"))
	if err != nil {
		return seis.Event{}, seis.Station{}, err
	}
	st, err := stationAt(stations, cCtx.Int("station-index"))
	if err != nil {
		return seis.Event{}, seis.Station{}, err
	}
	return ev, st, nil
}

func downloadAction(cCtx *cli.Context) error {
	p, err := buildPipeline(cCtx)
	if err != nil {
		return err
	}

	ev, st, err := loadEventStation(cCtx)
	if err != nil {
		return err
	}

	wf, err := p.orch.DownloadWaveform(cCtx.Context, ev, st)
	p.metrics.ObserveDownload(err == nil && wf != nil)
	if err != nil {
		return err
	}
	if wf == nil {
		p.metrics.ObserveFallback(len(p.orch.Acquirer.FailedStations()))
		return fmt.Errorf("goseis: station %s yielded no usable waveform", st.ID())
	}

	if cCtx.Bool("correct-timing") {
		if p.orch.CorrectTiming(wf) {
			p.log.Info(fmt.Sprintf("applied timing correction for %s", st.ID()))
		}
	}

	p.log.Info(fmt.Sprintf("downloaded waveform for %s, %d components", st.ID(), len(wf.AvailableComps)))
	return writeJSON(cCtx.String("out"), wf)
}

func parseFilter(cCtx *cli.Context) signal.Filter {
	switch {
	case cCtx.String("filter-preset") != "":
		return signal.Filter{Kind: signal.FilterNamed, Preset: cCtx.String("filter-preset")}
	case cCtx.IsSet("filter-low") || cCtx.IsSet("filter-high"):
		return signal.Filter{Kind: signal.FilterCustom, LowHz: cCtx.Float64("filter-low"), HighHz: cCtx.Float64("filter-high")}
	default:
		return signal.Filter{Kind: signal.FilterNone}
	}
}

func processAction(cCtx *cli.Context) error {
	p, err := buildPipeline(cCtx)
	if err != nil {
		return err
	}

	wf, err := readWaveform(cCtx.String("waveform"))
	if err != nil {
		return err
	}

	processed := p.orch.Process(wf, parseFilter(cCtx), cCtx.Bool("remove-spikes"), cCtx.Bool("compute-snr"))
	return writeJSON(cCtx.String("out"), processed)
}

func msAction(cCtx *cli.Context) error {
	p, err := buildPipeline(cCtx)
	if err != nil {
		return err
	}

	ev, st, err := loadEventStation(cCtx)
	if err != nil {
		return err
	}
	wf, err := readWaveform(cCtx.String("waveform"))
	if err != nil {
		return err
	}

	value, explanation := p.orch.Ms(wf, st, ev, orchestratorMsParams(cCtx))
	if value != nil {
		p.log.Info(fmt.Sprintf("Ms = %.2f", *value))
	} else {
		p.log.Warn("Ms could not be computed: " + explanation.ErrorReason)
	}

	return writeJSON(cCtx.String("out"), struct {
		Value       *float64           `json:"value"`
		Explanation seis.MsExplanation `json:"explanation"`
	}{value, explanation})
}

func classifyAction(cCtx *cli.Context) error {
	p, err := buildPipeline(cCtx)
	if err != nil {
		return err
	}

	wf, err := readWaveform(cCtx.String("waveform"))
	if err != nil {
		return err
	}

	var window *classify.TimeWindow
	if cCtx.IsSet("window-start") {
		window = &classify.TimeWindow{StartS: cCtx.Float64("window-start"), EndS: cCtx.Float64("window-end")}
	}

	result := p.orch.Classify(wf, window)
	p.log.Info(fmt.Sprintf("classified as %s", result.DominantType))
	return writeJSON(cCtx.String("out"), result)
}

func exportAction(cCtx *cli.Context) error {
	p, err := buildPipeline(cCtx)
	if err != nil {
		return err
	}

	ev, st, err := loadEventStation(cCtx)
	if err != nil {
		return err
	}
	wf, err := readWaveform(cCtx.String("waveform"))
	if err != nil {
		return err
	}

	opts := export.Options{MaxSamples: export.DefaultMaxSamples}
	if cCtx.IsSet("max-samples") {
		opts.MaxSamples = cCtx.Int("max-samples")
	}
	for _, c := range wf.AvailableComps {
		if series, ok := wf.Series(c); ok {
			opts.Columns = append(opts.Columns, export.Column{Label: string(c), Data: series})
		}
	}

	if cCtx.IsSet("ms-file") {
		var bundle struct {
			Value       *float64           `json:"value"`
			Explanation seis.MsExplanation `json:"explanation"`
		}
		if err := readJSON(cCtx.String("ms-file"), &bundle); err != nil {
			return err
		}
		opts.Ms = bundle.Value
		opts.Explanation = &bundle.Explanation
	}

	workbook, err := export.Workbook(ev, st, wf, opts)
	if err != nil {
		return err
	}

	p.log.Info(fmt.Sprintf("wrote %d-byte workbook", len(workbook)))
	return writeBytes(cCtx.String("out"), workbook)
}
