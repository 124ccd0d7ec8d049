// Command goseis is the teleseismic analysis pipeline's CLI: one
// subcommand per spec.md §6 operation, each a complete invocation that
// loads its inputs from the JSON artifacts earlier stages wrote (export
// writes an .xlsx workbook) and hands off to the PipelineOrchestrator,
// following the teacher's
// urfave/cli/v2 command-per-operation structure and its
// signal.NotifyContext graceful-shutdown pattern.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

func eventStationFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "events", Usage: "path to a search-earthquakes JSON artifact", Required: true},
		&cli.IntFlag{Name: "event-index", Usage: "index of the event within --events", Value: 0},
		&cli.StringFlag{Name: "stations", Usage: "path to a search-stations JSON artifact", Required: true},
		&cli.IntFlag{Name: "station-index", Usage: "index of the station within --stations", Value: 0},
	}
	return append(flags, extra...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.App{
		Name:  "goseis",
		Usage: "teleseismic analysis pipeline: search, acquire, condition, and measure earthquake surface waves",
		Commands: []*cli.Command{
			{
				Name:  "search-earthquakes",
				Usage: "query the event catalog and write matching events to a JSON artifact",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "start", Required: true, Usage: "RFC3339 start time"},
					&cli.StringFlag{Name: "end", Required: true, Usage: "RFC3339 end time"},
					&cli.Float64Flag{Name: "min-mag", Value: 5.0},
					&cli.Float64Flag{Name: "max-mag", Value: 10.0},
					&cli.Float64Flag{Name: "min-lat"},
					&cli.Float64Flag{Name: "max-lat"},
					&cli.Float64Flag{Name: "min-lon"},
					&cli.Float64Flag{Name: "max-lon"},
					&cli.IntFlag{Name: "limit", Value: 20},
					&cli.StringFlag{Name: "out", Value: "events.json"},
				},
				Action: searchEarthquakesAction,
			},
			{
				Name:  "search-stations",
				Usage: "rank candidate recording stations for an event",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "events", Required: true},
					&cli.IntFlag{Name: "event-index", Value: 0},
					&cli.Float64Flag{Name: "min-km", Value: 2000},
					&cli.Float64Flag{Name: "max-km", Value: 12000},
					&cli.IntFlag{Name: "target", Value: 5},
					&cli.StringFlag{Name: "out", Value: "stations.json"},
				},
				Action: searchStationsAction,
			},
			{
				Name:  "download",
				Usage: "acquire and condition a station's three-component waveform for an event",
				Flags: eventStationFlags(
					&cli.StringFlag{Name: "out", Value: "waveform.json"},
					&cli.BoolFlag{Name: "correct-timing", Usage: "apply the detected STA/LTA timing offset to the waveform's time axis, if it qualifies"},
				),
				Action: downloadAction,
			},
			{
				Name:  "process",
				Usage: "apply a bandpass filter, spike removal, and SNR estimation to a waveform",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "waveform", Required: true},
					&cli.StringFlag{Name: "filter-preset", Usage: "one of broadband, p_waves, s_waves, surface, long_period"},
					&cli.Float64Flag{Name: "filter-low"},
					&cli.Float64Flag{Name: "filter-high"},
					&cli.BoolFlag{Name: "remove-spikes"},
					&cli.BoolFlag{Name: "compute-snr"},
					&cli.StringFlag{Name: "out", Value: "processed.json"},
				},
				Action: processAction,
			},
			{
				Name:  "ms",
				Usage: "compute surface-wave magnitude over a time window",
				Flags: eventStationFlags(
					&cli.StringFlag{Name: "waveform", Required: true},
					&cli.Float64Flag{Name: "period", Value: 20.0},
					&cli.Float64Flag{Name: "window-start", Value: 20.0},
					&cli.Float64Flag{Name: "duration", Value: 600.0},
					&cli.BoolFlag{Name: "apply-filter", Value: true},
					&cli.StringFlag{Name: "out", Value: "ms.json"},
				),
				Action: msAction,
			},
			{
				Name:  "classify",
				Usage: "classify the dominant surface-wave type over an optional time window",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "waveform", Required: true},
					&cli.Float64Flag{Name: "window-start"},
					&cli.Float64Flag{Name: "window-end"},
					&cli.StringFlag{Name: "out", Value: "classification.json"},
				},
				Action: classifyAction,
			},
			{
				Name:  "export",
				Usage: "write a three-sheet .xlsx workbook for an event/station/waveform",
				Flags: eventStationFlags(
					&cli.StringFlag{Name: "waveform", Required: true},
					&cli.StringFlag{Name: "ms-file", Usage: "optional ms.json artifact to embed"},
					&cli.IntFlag{Name: "max-samples"},
					&cli.StringFlag{Name: "out", Value: "export.xlsx"},
				),
				Action: exportAction,
			},
			{
				Name:  "serve-metrics",
				Usage: "expose this process's Prometheus metrics registry over HTTP until interrupted",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: ":9090"},
				},
				Action: serveMetricsAction,
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// serveMetricsAction exposes /metrics over HTTP, grounded on the teacher's
// graceful-shutdown-via-signal.NotifyContext pattern applied to a server
// loop instead of a one-shot pond pool drain.
func serveMetricsAction(cCtx *cli.Context) error {
	p, err := buildPipeline(cCtx)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cCtx.String("addr"), Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	p.log.Info("serving metrics on " + cCtx.String("addr"))

	select {
	case <-cCtx.Context.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
