package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankOrdersByTotalScore(t *testing.T) {
	ranked := Rank([]Evidence{
		{EntityID: "E_quiet", IncidentHits: 1, UniqueCases: 1, StatesCount: 1, NetworkWeight: 0.5},
		{EntityID: "E_busy", IncidentHits: 10, UniqueCases: 3, StatesCount: 2, NetworkWeight: 4},
		{EntityID: "E_mid", IncidentHits: 5, UniqueCases: 2, StatesCount: 1, NetworkWeight: 2},
	})

	require.Len(t, ranked, 3)
	assert.Equal(t, "E_busy", ranked[0].EntityID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "E_mid", ranked[1].EntityID)
	assert.Equal(t, "E_quiet", ranked[2].EntityID)
}

func TestRankTopEntityComponentScores(t *testing.T) {
	ranked := Rank([]Evidence{
		{EntityID: "E_1", IncidentHits: 10, UniqueCases: 3, StatesCount: 2, NetworkWeight: 4},
		{EntityID: "E_2", IncidentHits: 5, UniqueCases: 1, StatesCount: 1, NetworkWeight: 1},
	})

	top := ranked[0]
	assert.Equal(t, 1.0, top.RecurrenceScore, "cohort max normalizes to 1")
	assert.Equal(t, 1.0, top.CrossJurisdictionScore)
	assert.Equal(t, 1.0, top.NetworkScore)
	assert.InDelta(t, RecurrenceWeight+CrossJurisdictionWeight+NetworkWeight, top.TotalScore, 1e-9)

	second := ranked[1]
	assert.InDelta(t, 0.5, second.RecurrenceScore, 1e-9)
	assert.InDelta(t, float64(1)/6, second.CrossJurisdictionScore, 1e-9)
}

func TestRankTieBreaksOnEntityID(t *testing.T) {
	ranked := Rank([]Evidence{
		{EntityID: "E_b", IncidentHits: 2},
		{EntityID: "E_a", IncidentHits: 2},
	})
	assert.Equal(t, "E_a", ranked[0].EntityID)
	assert.Equal(t, "E_b", ranked[1].EntityID)
}

func TestRankEmptyCohort(t *testing.T) {
	assert.Empty(t, Rank(nil))
}
