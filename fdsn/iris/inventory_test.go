package iris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStationText = `#Network|Station|Location|Channel|Latitude|Longitude|Elevation|Depth|Azimuth|Dip|SensorDescription|Scale|ScaleFreq|ScaleUnits|SampleRate|StartTime|EndTime
IU|ANMO|00|BHZ|34.9462|-106.4567|1850.0|100.0|0.0|-90.0|Streckeisen STS-1|2.4e9|0.02|M/S|20.0|2002-01-01T00:00:00.0000|2599-12-31T23:59:59.0000
IU|ANMO|00|BHN|34.9462|-106.4567|1850.0|100.0|0.0|0.0|Streckeisen STS-1|2.4e9|0.02|M/S|20.0|2002-01-01T00:00:00.0000|2599-12-31T23:59:59.0000
IU|ANMO|00|BHE|34.9462|-106.4567|1850.0|100.0|90.0|0.0|Streckeisen STS-1|2.4e9|0.02|M/S|20.0|2002-01-01T00:00:00.0000|2599-12-31T23:59:59.0000
II|AAK|00|BHZ|42.6375|74.4942|1633.1|30.0|0.0|-90.0|Streckeisen STS-1|2.4e9|0.02|M/S|20.0|1992-01-01T00:00:00.0000|2599-12-31T23:59:59.0000
`

func TestParseStationTextGroupsChannelsByStation(t *testing.T) {
	snap := parseStationText(sampleStationText)
	require.Len(t, snap.Networks, 2)

	for _, net := range snap.Networks {
		if net.Code == "IU" {
			require.Len(t, net.Stations, 1)
			assert.ElementsMatch(t, []string{"BHZ", "BHN", "BHE"}, net.Stations[0].Channels)
			assert.InDelta(t, 34.9462, net.Stations[0].Lat, 1e-6)
			assert.Equal(t, 20.0, net.Stations[0].SampleRateHz)
		}
		if net.Code == "II" {
			require.Len(t, net.Stations, 1)
			assert.Equal(t, "AAK", net.Stations[0].Code)
		}
	}
}

func TestParseStationTextEmptyBodyYieldsNoNetworks(t *testing.T) {
	snap := parseStationText("#header only\n")
	assert.Empty(t, snap.Networks)
}
