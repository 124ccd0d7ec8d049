package station

import "github.com/geoseis/goseis/seis"

// PreferredNetworks is the fixed network list queried by the inventory
// service, spec.md §4.5 step 1.
var PreferredNetworks = []string{"IU", "II", "G", "GE", "GT", "IC"}

var networkPriorities = map[string]int{
	"IU": 1,
	"II": 1,
	"G":  2,
	"GE": 2,
	"GT": 3,
	"IC": 4,
	"CU": 5,
	"US": 6,
	"TA": 7,
	"N4": 8,
}

const defaultPriority = 99

// NetworkPriority looks up a network's priority from the spec.md §4.5
// table, defaulting to 99 for anything not listed.
func NetworkPriority(network string) int {
	if p, ok := networkPriorities[network]; ok {
		return p
	}
	return defaultPriority
}

var channelBandPriorities = []struct {
	pattern  string
	priority int
}{
	{"BH?", 1},
	{"HH?", 2},
	{"SH?", 3},
	{"LH?", 4},
}

// ChannelPriority returns the priority of the best channel band present
// in channels, per spec.md §4.5 step 3.
func ChannelPriority(channels []string) int {
	best := defaultPriority
	for _, entry := range channelBandPriorities {
		for _, ch := range channels {
			if channelMatches(entry.pattern, ch) && entry.priority < best {
				best = entry.priority
			}
		}
	}
	return best
}

func channelMatches(pattern, channel string) bool {
	if len(pattern) != len(channel) {
		return false
	}
	for i := range pattern {
		if pattern[i] == '?' {
			continue
		}
		if pattern[i] != channel[i] {
			return false
		}
	}
	return true
}

// distanceBin implements spec.md §4.5 step 5's distance_bin term: premium
// networks (priority <= 2) sort purely by distance (bin 0 for all of
// them); everything else is binned in 500 km increments to preserve
// geographic spread instead of clustering on raw distance.
func distanceBin(networkPriority int, distanceKm float64) int {
	if networkPriority <= 2 {
		return 0
	}
	return int(distanceKm / 500)
}

// SortKey is the tuple that Select sorts candidate stations by:
// (network_priority, distance_bin, channel_priority, distance_km).
type SortKey struct {
	NetworkPriority int
	DistanceBin     int
	ChannelPriority int
	DistanceKm      float64
}

func sortKeyOf(s seis.Station) SortKey {
	return SortKey{
		NetworkPriority: s.NetworkPriority,
		DistanceBin:     distanceBin(s.NetworkPriority, s.DistanceKm),
		ChannelPriority: s.ChannelPriority,
		DistanceKm:      s.DistanceKm,
	}
}

// Less orders two sort keys per the tuple above.
func (k SortKey) Less(other SortKey) bool {
	if k.NetworkPriority != other.NetworkPriority {
		return k.NetworkPriority < other.NetworkPriority
	}
	if k.DistanceBin != other.DistanceBin {
		return k.DistanceBin < other.DistanceBin
	}
	if k.ChannelPriority != other.ChannelPriority {
		return k.ChannelPriority < other.ChannelPriority
	}
	return k.DistanceKm < other.DistanceKm
}
