// Package trail reconstructs per-entity movement trails for the heatmap
// dashboard, merging explicitly-fetched device tails with positions
// reconstructed from the hour cache.
package trail

import (
	"sort"

	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/timeline"
)

// PositionReader is the read-only view of the position cache the builder
// needs. Reads must be side-effect-free.
type PositionReader interface {
	Get(hour int) ([]models.DevicePosition, bool)
}

// Sources are the named trail inputs, in priority order: manual tails are
// authoritative (explicitly requested, fully loaded); cache-derived trails
// are a best-effort reconstruction for entities tracked via deep link but
// never explicitly tailed.
type Sources struct {
	// Tails maps device id -> manually fetched tail.
	Tails map[string]models.DeviceTail

	// Cache supplies per-hour positions for reconstruction.
	Cache PositionReader
}

// Build returns one clipped trail per focused entity. An empty focus set
// means "all manually tailed devices". Entities with no points anywhere are
// omitted rather than returned with an empty trail.
func Build(focus map[string]bool, window timeline.Window, src Sources) map[string]models.DeviceTail {
	out := make(map[string]models.DeviceTail)

	// Manual tails first; they win over anything cache-derived.
	for _, tail := range sortedTails(src.Tails) {
		entityID := tailEntityID(tail)
		if len(focus) > 0 && !focus[entityID] {
			continue
		}
		clipped := Clip(tail, window)
		if len(clipped.Trail) == 0 {
			continue
		}
		out[entityID] = clipped
	}

	// Reconstruct the rest from the cache.
	for _, focusedID := range sortedKeys(focus) {
		ref := models.ParseEntityRef(focusedID)
		entityID := ref.EntityID()
		if _, covered := out[entityID]; covered {
			continue
		}
		if derived, ok := fromCache(ref, window, src.Cache); ok {
			out[entityID] = derived
		}
	}

	return out
}

// Clip returns a copy of the tail whose trail contains only points with
// window.Start <= hour <= window.End, in non-decreasing hour order.
func Clip(tail models.DeviceTail, window timeline.Window) models.DeviceTail {
	points := make([]models.TrailPoint, 0, len(tail.Trail))
	for _, p := range tail.Trail {
		if window.Contains(p.Hour) {
			points = append(points, p)
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Hour < points[j].Hour })
	tail.Trail = points
	tail.TotalPoints = len(points)
	return tail
}

// CurrentIndex resolves the trail index to display at currentHour: the first
// point with hour >= currentHour; past the last point, the last index. A
// trail whose first point is already ahead of currentHour holds at index 0.
// The asymmetry is deliberate: trails hold position before their first
// recorded sighting and freeze at the end after their last.
func CurrentIndex(points []models.TrailPoint, currentHour int) int {
	if len(points) == 0 {
		return 0
	}
	for i, p := range points {
		if p.Hour >= currentHour {
			return i
		}
	}
	return len(points) - 1
}

// fromCache scans every cached hour in the window for positions belonging to
// the focused entity, matching by owner id or device id. Entity metadata is
// captured from the first matching point only.
func fromCache(ref models.EntityRef, window timeline.Window, cache PositionReader) (models.DeviceTail, bool) {
	if cache == nil {
		return models.DeviceTail{}, false
	}

	var tail models.DeviceTail
	found := false
	for hour := window.Start; hour <= window.End; hour++ {
		positions, ok := cache.Get(hour)
		if !ok {
			continue
		}
		for _, p := range positions {
			if !matches(ref, p) {
				continue
			}
			if !found {
				found = true
				tail = models.DeviceTail{
					DeviceID:     p.DeviceID,
					EntityID:     ref.EntityID(),
					EntityName:   p.OwnerName,
					Alias:        p.OwnerAlias,
					IsSuspect:    p.IsSuspect,
					BaseLocation: p.City,
				}
			}
			tail.Trail = append(tail.Trail, models.TrailPoint{
				Hour: hour,
				Lat:  p.Lat,
				Lng:  p.Lng,
				City: p.City,
			})
			break // one position per (device, hour)
		}
	}
	if !found {
		return models.DeviceTail{}, false
	}
	tail.TotalPoints = len(tail.Trail)
	return tail, true
}

func matches(ref models.EntityRef, p models.DevicePosition) bool {
	if p.OwnerID != nil && *p.OwnerID == ref.EntityID() {
		return true
	}
	return p.DeviceID == ref.ID
}

func tailEntityID(tail models.DeviceTail) string {
	if tail.EntityID != "" {
		return tail.EntityID
	}
	return models.ParseEntityRef(tail.DeviceID).EntityID()
}

func sortedTails(tails map[string]models.DeviceTail) []models.DeviceTail {
	ids := make([]string, 0, len(tails))
	for id := range tails {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]models.DeviceTail, 0, len(ids))
	for _, id := range ids {
		out = append(out, tails[id])
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
