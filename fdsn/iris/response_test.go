package iris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponseTextExtractsScale(t *testing.T) {
	body := "#Network|Station|Location|Channel|Latitude|Longitude|Elevation|Depth|Azimuth|Dip|SensorDescription|Scale|ScaleFreq|ScaleUnits|SampleRate|StartTime|EndTime\n" +
		"IU|ANMO|00|BHZ|34.9462|-106.4567|1850.0|100.0|0.0|-90.0|Streckeisen STS-1|2.4e9|0.02|M/S|20.0|2002-01-01T00:00:00.0000|2599-12-31T23:59:59.0000\n"

	resp, err := parseResponseText(body)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.InDelta(t, 2.4e9, resp.SensitivityCountsPerMeter, 1.0)
	assert.Equal(t, "M/S", resp.InputUnits)
}

func TestParseResponseTextErrorsWhenNoScaleFound(t *testing.T) {
	_, err := parseResponseText("#header only\n")
	assert.Error(t, err)
}
