// Package hotspot computes which devices are connected to each activity
// hotspot for the currently displayed hour.
package hotspot

import (
	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/spatial"
)

// FallbackRadiusMeters is the haversine radius used when a position carries
// no usable tower id. Upstream carrier data sometimes omits or mis-links the
// tower field; the geometric fallback keeps counts consistent anyway.
const FallbackRadiusMeters = 150.0

// Connectivity maps hotspot key -> set of connected device ids.
type Connectivity struct {
	devices  map[string]map[string]bool
	hotspots map[string]models.Hotspot
}

// Resolve computes device connectivity for every hotspot. A position joins a
// hotspot either by exact tower-id match (preferred) or, failing that, by
// being within FallbackRadiusMeters of the hotspot's tower. Set semantics
// dedupe by device id, so the result is independent of position order.
func Resolve(positions []models.DevicePosition, hotspots []models.Hotspot, towers map[string]models.CellTower) Connectivity {
	conn := Connectivity{
		devices:  make(map[string]map[string]bool, len(hotspots)),
		hotspots: make(map[string]models.Hotspot, len(hotspots)),
	}

	// Same tower id can back hotspots in more than one city slice.
	byTower := make(map[string][]models.Hotspot)
	for _, h := range hotspots {
		conn.hotspots[h.Key()] = h
		conn.devices[h.Key()] = make(map[string]bool)
		byTower[h.TowerID] = append(byTower[h.TowerID], h)
	}

	for _, p := range positions {
		if p.TowerID != nil {
			if matched, ok := byTower[*p.TowerID]; ok {
				for _, h := range matched {
					conn.devices[h.Key()][p.DeviceID] = true
				}
				continue
			}
		}
		// No tower id, or the id matched no hotspot: geometric fallback
		// against every hotspot's tower coordinates.
		for _, h := range hotspots {
			lat, lng := h.Lat, h.Lng
			if t, ok := towers[h.TowerID]; ok {
				lat, lng = t.Lat, t.Lng
			}
			if spatial.HaversineDistance(p.Lat, p.Lng, lat, lng) <= FallbackRadiusMeters {
				conn.devices[h.Key()][p.DeviceID] = true
			}
		}
	}

	return conn
}

// Count returns how many distinct devices are connected to the hotspot with
// the given key. Before positions have loaded there is no resolver entry, so
// it falls back to the hotspot's own pre-aggregated device count.
func (c Connectivity) Count(key string) int {
	if set, ok := c.devices[key]; ok {
		return len(set)
	}
	if h, ok := c.hotspots[key]; ok {
		return h.DeviceCount
	}
	return 0
}

// CountOf is Count for callers that hold the hotspot itself: a hotspot the
// resolver has never seen reports its pre-aggregated count. This covers the
// zero-value Connectivity before any resolve has run.
func (c Connectivity) CountOf(h models.Hotspot) int {
	if set, ok := c.devices[h.Key()]; ok {
		return len(set)
	}
	return h.DeviceCount
}

// Counts returns the full key -> connected-device-count map.
func (c Connectivity) Counts() map[string]int {
	out := make(map[string]int, len(c.devices))
	for key, set := range c.devices {
		out[key] = len(set)
	}
	return out
}
