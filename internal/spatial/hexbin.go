package spatial

import (
	"math"
	"sort"

	h3 "github.com/uber/h3-go/v4"

	"github.com/caselink/analytics-backend-go/internal/models"
)

const (
	// HexResolution is the H3 resolution used everywhere in the system.
	// Upstream cell ids (incident cells, co-presence rows) are res-9.
	HexResolution = 9

	// MaxHexCells caps the number of bins returned for rendering.
	MaxHexCells = 1000
)

// LatLng is one vertex of a hex cell boundary polygon.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HexBin is one ranked heatmap cell.
type HexBin struct {
	Cell     string   `json:"cell"`
	Count    int      `json:"count"`
	Boundary []LatLng `json:"boundary"`
}

// HexActivity is the aggregated heatmap payload. Intensity for a bin is
// Count/MaxCount clamped to [0,1]; the ratio is part of the contract because
// it decides which cells remain visually distinguishable.
type HexActivity struct {
	Bins     []HexBin `json:"bins"`
	MaxCount int      `json:"maxCount"`
}

// Intensity returns the normalized intensity for a bin count.
func (a HexActivity) Intensity(count int) float64 {
	if a.MaxCount <= 0 {
		return 0
	}
	r := float64(count) / float64(a.MaxCount)
	return math.Min(math.Max(r, 0), 1)
}

// AggregateHexActivity bins positions into H3 cells at HexResolution, ranks
// bins by count descending, truncates to MaxHexCells, and attaches boundary
// polygons. Malformed coordinates are skipped per point, never fatal.
func AggregateHexActivity(positions []models.DevicePosition) HexActivity {
	counts := make(map[h3.Cell]int)
	for _, p := range positions {
		if !finiteCoord(p.Lat, p.Lng) {
			continue
		}
		cell := h3.LatLngToCell(h3.LatLng{Lat: p.Lat, Lng: p.Lng}, HexResolution)
		if !cell.IsValid() {
			continue
		}
		counts[cell]++
	}

	bins := make([]HexBin, 0, len(counts))
	maxCount := 0
	for cell, n := range counts {
		bins = append(bins, HexBin{Cell: cell.String(), Count: n})
		if n > maxCount {
			maxCount = n
		}
	}

	// Count descending, cell id as the deterministic tie-break.
	sort.Slice(bins, func(i, j int) bool {
		if bins[i].Count != bins[j].Count {
			return bins[i].Count > bins[j].Count
		}
		return bins[i].Cell < bins[j].Cell
	})
	if len(bins) > MaxHexCells {
		bins = bins[:MaxHexCells]
	}

	for i := range bins {
		cell := h3.Cell(h3.IndexFromString(bins[i].Cell))
		boundary := cell.Boundary()
		verts := make([]LatLng, 0, len(boundary))
		for _, v := range boundary {
			verts = append(verts, LatLng{Lat: v.Lat, Lng: v.Lng})
		}
		bins[i].Boundary = verts
	}

	return HexActivity{Bins: bins, MaxCount: maxCount}
}

// CellForCoord returns the res-9 cell id for a coordinate, or "" when the
// coordinate cannot be indexed.
func CellForCoord(lat, lng float64) string {
	if !finiteCoord(lat, lng) {
		return ""
	}
	cell := h3.LatLngToCell(h3.LatLng{Lat: lat, Lng: lng}, HexResolution)
	if !cell.IsValid() {
		return ""
	}
	return cell.String()
}

func finiteCoord(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
