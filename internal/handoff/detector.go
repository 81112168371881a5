// Package handoff detects burner phone switches: an entity that stops
// reporting while a new device appears shortly afterward nearby, sharing the
// old entity's social partners.
package handoff

import (
	"sort"

	"github.com/caselink/analytics-backend-go/internal/spatial"
)

// Component weights. Spatial proximity dominates, temporal adjacency second,
// shared social partners third.
const (
	SpatialWeight  = 0.5
	TemporalWeight = 0.3
	PartnerWeight  = 0.2
)

// spatialFullScoreMeters is the distance at which the spatial component is
// still 1.0; it decays linearly to 0 at 10x that distance.
const spatialFullScoreMeters = 500.0

// Sighting is an entity's last (or first) known observation.
type Sighting struct {
	EntityID string
	Hour     int
	Lat      float64
	Lng      float64
	H3Cell   string
}

// Candidate is one scored old->new pairing.
type Candidate struct {
	OldEntityID    string   `json:"oldEntityId"`
	NewEntityID    string   `json:"newEntityId"`
	H3Cell         string   `json:"h3Cell"`
	OldLastHour    int      `json:"oldLastHour"`
	NewFirstHour   int      `json:"newFirstHour"`
	HourGap        int      `json:"hourGap"`
	SharedPartners []string `json:"sharedPartners"`
	SpatialScore   float64  `json:"spatialScore"`
	TemporalScore  float64  `json:"temporalScore"`
	PartnerScore   float64  `json:"partnerScore"`
	HandoffScore   float64  `json:"handoffScore"`
	Rank           int      `json:"rank"`
}

// Detect pairs every disappeared entity against every newly appeared one and
// scores the pairing. partners maps entity id -> its social partner set.
func Detect(disappeared, appeared []Sighting, partners map[string][]string) []Candidate {
	var out []Candidate
	for _, old := range disappeared {
		for _, fresh := range appeared {
			if fresh.EntityID == old.EntityID {
				continue
			}
			if fresh.Hour <= old.Hour {
				continue // a predecessor cannot appear before the switch
			}
			c := score(old, fresh, partners)
			if c.HandoffScore > 0 {
				out = append(out, c)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].HandoffScore != out[j].HandoffScore {
			return out[i].HandoffScore > out[j].HandoffScore
		}
		if out[i].OldEntityID != out[j].OldEntityID {
			return out[i].OldEntityID < out[j].OldEntityID
		}
		return out[i].NewEntityID < out[j].NewEntityID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func score(old, fresh Sighting, partners map[string][]string) Candidate {
	distance := spatial.HaversineDistance(old.Lat, old.Lng, fresh.Lat, fresh.Lng)
	spatialScore := 1.0
	if old.H3Cell == "" || old.H3Cell != fresh.H3Cell {
		spatialScore = linearDecay(distance, spatialFullScoreMeters, spatialFullScoreMeters*10)
	}

	gap := fresh.Hour - old.Hour
	temporalScore := 0.0
	switch {
	case gap <= 1:
		temporalScore = 1.0
	case gap <= 3:
		temporalScore = 0.6
	case gap <= 6:
		temporalScore = 0.3
	}

	shared := intersect(partners[old.EntityID], partners[fresh.EntityID])
	partnerScore := 0.0
	if n := len(partners[old.EntityID]); n > 0 {
		partnerScore = float64(len(shared)) / float64(n)
	}

	return Candidate{
		OldEntityID:    old.EntityID,
		NewEntityID:    fresh.EntityID,
		H3Cell:         old.H3Cell,
		OldLastHour:    old.Hour,
		NewFirstHour:   fresh.Hour,
		HourGap:        gap,
		SharedPartners: shared,
		SpatialScore:   spatialScore,
		TemporalScore:  temporalScore,
		PartnerScore:   partnerScore,
		HandoffScore:   SpatialWeight*spatialScore + TemporalWeight*temporalScore + PartnerWeight*partnerScore,
	}
}

func linearDecay(value, full, zero float64) float64 {
	if value <= full {
		return 1
	}
	if value >= zero {
		return 0
	}
	return 1 - (value-full)/(zero-full)
}

func intersect(a, b []string) []string {
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	var out []string
	for _, v := range b {
		if set[v] {
			out = append(out, v)
			set[v] = false
		}
	}
	sort.Strings(out)
	return out
}
