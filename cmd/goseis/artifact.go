package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/geoseis/goseis/seis"
)

// Each CLI command is a single pipeline stage; stages hand off to each
// other through small JSON artifact files rather than a long-lived
// server process, mirroring a staged batch CLI rather than the original
// desktop application's single in-memory session.

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("goseis: encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("goseis: writing %s: %w", path, err)
	}
	return nil
}

func writeBytes(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("goseis: writing %s: %w", path, err)
	}
	return nil
}

func readEvents(path string) ([]seis.Event, error) {
	var events []seis.Event
	if err := readJSON(path, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func readStations(path string) ([]seis.Station, error) {
	var stations []seis.Station
	if err := readJSON(path, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

func readWaveform(path string) (*seis.Waveform, error) {
	var wf seis.Waveform
	if err := readJSON(path, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("goseis: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("goseis: decoding %s: %w", path, err)
	}
	return nil
}

// eventAt and stationAt return element i, erroring with the valid range
// when i is out of bounds rather than panicking on a bad --*-index flag.
func eventAt(events []seis.Event, i int) (seis.Event, error) {
	if i < 0 || i >= len(events) {
		return seis.Event{}, fmt.Errorf("goseis: event index %d out of range [0,%d)", i, len(events))
	}
	return events[i], nil
}

func stationAt(stations []seis.Station, i int) (seis.Station, error) {
	if i < 0 || i >= len(stations) {
		return seis.Station{}, fmt.Errorf("goseis: station index %d out of range [0,%d)", i, len(stations))
	}
	return stations[i], nil
}
