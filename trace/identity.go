// Package trace groups same-channel records into continuous series under
// configurable continuity tolerances, and sorts traces into the
// deterministic order the pruner and writer iterate.
package trace

import (
	"fmt"

	farm "github.com/dgryski/go-farm"
)

// Identity is the (network, station, location, channel) tuple that groups a
// channel's records. Quality is deliberately not part of it.
type Identity struct {
	Network, Station, Location, Channel string
}

// String renders the identity as NET_STA_LOC_CHAN, the form the
// matchRegex/rejectRegex filters operate on (minus the quality suffix,
// which the reader appends separately before filtering).
func (id Identity) String() string {
	return fmt.Sprintf("%s_%s_%s_%s", id.Network, id.Station, id.Location, id.Channel)
}

// key hashes the identity into a compact comparable value used as the
// trace-group index key. Equality is still verified against the stored
// tuple on lookup (farm.Hash64 collisions are handled, not assumed away).
type key uint64

func (id Identity) key() key {
	// farm.Hash64 gives fast composite-key hashing; a NUL byte separates
	// fields so that e.g. ("AB","C",...) cannot collide with ("A","BC",...)
	// at the string level (the hash can still collide, which is why Group
	// verifies the full tuple on lookup).
	buf := make([]byte, 0, len(id.Network)+len(id.Station)+len(id.Location)+len(id.Channel)+4)
	buf = append(buf, id.Network...)
	buf = append(buf, 0)
	buf = append(buf, id.Station...)
	buf = append(buf, 0)
	buf = append(buf, id.Location...)
	buf = append(buf, 0)
	buf = append(buf, id.Channel...)
	return key(farm.Hash64(buf))
}

// Less orders identities ascending by (network, station, location, channel),
// the first term of the trace-group sort.
func (id Identity) Less(other Identity) bool {
	if id.Network != other.Network {
		return id.Network < other.Network
	}
	if id.Station != other.Station {
		return id.Station < other.Station
	}
	if id.Location != other.Location {
		return id.Location < other.Location
	}
	return id.Channel < other.Channel
}
