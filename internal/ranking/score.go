// Package ranking scores person entities by how strongly the movement and
// social evidence implicates them across cases.
package ranking

import (
	"sort"

	"github.com/caselink/analytics-backend-go/internal/stats"
)

// Score weights. Recurrence (showing up at incident cells repeatedly) drives
// the score, cross-jurisdiction presence second, social network ties third.
const (
	RecurrenceWeight        = 0.40
	CrossJurisdictionWeight = 0.35
	NetworkWeight           = 0.25
)

// Evidence is the per-entity raw signal feeding the score.
type Evidence struct {
	EntityID      string
	IncidentHits  int // appearances inside incident cell/hour windows
	UniqueCases   int
	StatesCount   int
	NetworkWeight float64 // summed social edge weights
	LinkedCases   []string
	LinkedCities  []string
}

// Ranked is one scored entity.
type Ranked struct {
	EntityID                string   `json:"entityId"`
	Rank                    int      `json:"rank"`
	TotalScore              float64  `json:"totalScore"`
	RecurrenceScore         float64  `json:"recurrenceScore"`
	CrossJurisdictionScore  float64  `json:"crossJurisdictionScore"`
	NetworkScore            float64  `json:"networkScore"`
	UniqueCases             int      `json:"uniqueCases"`
	StatesCount             int      `json:"statesCount"`
	LinkedCases             []string `json:"linkedCases"`
	LinkedCities            []string `json:"linkedCities"`
}

// Rank scores every entity, normalizing each component against the cohort
// maximum, and returns entities ordered best-first with 1-based ranks.
// Ties break on entity id so repeated runs agree.
func Rank(evidence []Evidence) []Ranked {
	var maxHits, maxCases, maxNetwork float64
	for _, e := range evidence {
		maxHits = stats.Max([]float64{maxHits, float64(e.IncidentHits)})
		maxCases = stats.Max([]float64{maxCases, float64(e.UniqueCases * e.StatesCount)})
		maxNetwork = stats.Max([]float64{maxNetwork, e.NetworkWeight})
	}

	out := make([]Ranked, 0, len(evidence))
	for _, e := range evidence {
		recurrence := stats.Normalize(float64(e.IncidentHits), maxHits)
		crossJurisdiction := stats.Normalize(float64(e.UniqueCases*e.StatesCount), maxCases)
		network := stats.Normalize(e.NetworkWeight, maxNetwork)
		out = append(out, Ranked{
			EntityID:               e.EntityID,
			TotalScore:             RecurrenceWeight*recurrence + CrossJurisdictionWeight*crossJurisdiction + NetworkWeight*network,
			RecurrenceScore:        recurrence,
			CrossJurisdictionScore: crossJurisdiction,
			NetworkScore:           network,
			UniqueCases:            e.UniqueCases,
			StatesCount:            e.StatesCount,
			LinkedCases:            e.LinkedCases,
			LinkedCities:           e.LinkedCities,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].EntityID < out[j].EntityID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
