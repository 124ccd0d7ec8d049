// Package iris is a concrete FDSN web-service adapter: event catalog
// search (fdsn.Client), station inventory (station.InventorySource), and
// raw waveform/response retrieval (acquire.WaveformSource,
// acquire.ResponseSource), all against the text/ASCII output formats the
// IRIS and USGS FDSN endpoints serve alongside their XML/miniSEED ones.
// Text output is used throughout in preference to StationXML/QuakeML or
// miniSEED so the adapter needs nothing beyond encoding/csv-style line
// parsing and the standard http client.
package iris

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"time"
)

const (
	defaultEventURL      = "https://earthquake.usgs.gov/fdsnws/event/1/query"
	defaultStationURL    = "https://service.iris.edu/fdsnws/station/1/query"
	defaultTimeseriesURL = "https://service.iris.edu/irisws/timeseries/1/query"
)

// Client is a thin wrapper over three FDSN/IRIS text-output endpoints. The
// zero value is not usable; build one with NewClient.
type Client struct {
	HTTPClient    *http.Client
	EventURL      string
	StationURL    string
	TimeseriesURL string
}

// NewClient builds a Client pointed at the public USGS/IRIS endpoints with
// a 30s request timeout, grounded on the teacher pack's plain
// &http.Client{} construction rather than a connection-pooled transport
// this module has no need for.
func NewClient() *Client {
	return &Client{
		HTTPClient:    &http.Client{Timeout: 30 * time.Second},
		EventURL:      defaultEventURL,
		StationURL:    defaultStationURL,
		TimeseriesURL: defaultTimeseriesURL,
	}
}

// get performs req and returns the response body. A 204 No Content yields
// a nil body and a nil error; any other non-200 status is an error, the way
// the pack's other FDSN-style clients treat it.
func (c *Client) get(req *http.Request) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("iris: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("iris: reading response body: %w", err)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("iris: non-200 response (%d) from %s", resp.StatusCode, req.URL.String())
	}
	return body, nil
}
