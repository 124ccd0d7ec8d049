package main

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/geoseis/goseis/acquire"
	"github.com/geoseis/goseis/arrival"
	"github.com/geoseis/goseis/config"
	"github.com/geoseis/goseis/fdsn/iris"
	"github.com/geoseis/goseis/fdsn/taup"
	"github.com/geoseis/goseis/logging"
	"github.com/geoseis/goseis/metrics"
	"github.com/geoseis/goseis/orchestrator"
	"github.com/geoseis/goseis/station"
)

// pipeline bundles every long-lived component a command needs, built once
// per invocation from cfg and shared global state (the metrics registry,
// which must not be constructed twice against the default registerer).
type pipeline struct {
	cfg     *config.Config
	log     *logging.Logger
	metrics *metrics.Registry
	events  *iris.Client
	orch    *orchestrator.Orchestrator
}

// buildPipeline wires config → logger → metrics → FDSN/IRIS adapter →
// travel-time oracle → station selector → waveform acquirer →
// orchestrator, the same dependency order the teacher's convert_gsf_list
// wires a pond pool beneath a single CLI command.
func buildPipeline(cCtx *cli.Context) (*pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logging.New(logging.Config{
		Level:  logging.Level(cfg.LogLevel),
		Format: logging.FormatText,
		Output: os.Stderr,
	})

	reg := metrics.New(prometheus.DefaultRegisterer)

	client := iris.NewClient()
	client.EventURL = cfg.EventServiceURL
	client.StationURL = cfg.StationServiceURL
	client.TimeseriesURL = cfg.TimeseriesServiceURL
	client.HTTPClient.Timeout = cfg.HTTPTimeout

	oracle := taup.NewModel()
	arrivals := arrival.NewModel(oracle)
	selector := station.NewSelector(client, arrivals, cfg.WorkerPoolSize)
	acquirer := acquire.NewAcquirer(client, client)

	orch := orchestrator.New(client, selector, acquirer)
	orch.Logger = log.WithField("component", "orchestrator")

	return &pipeline{cfg: cfg, log: log, metrics: reg, events: client, orch: orch}, nil
}
