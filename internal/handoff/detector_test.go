package handoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sighting(id string, hour int, lat, lng float64, cell string) Sighting {
	return Sighting{EntityID: id, Hour: hour, Lat: lat, Lng: lng, H3Cell: cell}
}

func TestDetectScoresNearbyImmediateSwitch(t *testing.T) {
	old := sighting("E_0412", 39, 38.9097, -77.0654, "cell_a")
	fresh := sighting("D_7734", 40, 38.9097, -77.0654, "cell_a")
	partners := map[string][]string{
		"E_0412": {"E_1098", "E_9901"},
		"D_7734": {"E_1098"},
	}

	out := Detect([]Sighting{old}, []Sighting{fresh}, partners)
	require.Len(t, out, 1)

	c := out[0]
	assert.Equal(t, 1.0, c.SpatialScore, "same cell scores full")
	assert.Equal(t, 1.0, c.TemporalScore, "gap of one hour scores full")
	assert.Equal(t, 0.5, c.PartnerScore, "one of two partners shared")
	assert.InDelta(t, 0.5+0.3+0.1, c.HandoffScore, 1e-9)
	assert.Equal(t, []string{"E_1098"}, c.SharedPartners)
	assert.Equal(t, 1, c.Rank)
}

func TestDetectTemporalTiers(t *testing.T) {
	tests := []struct {
		gap  int
		want float64
	}{
		{1, 1.0}, {2, 0.6}, {3, 0.6}, {4, 0.3}, {6, 0.3}, {7, 0.0},
	}
	for _, tt := range tests {
		old := sighting("E_old", 10, 38.9, -77.0, "c")
		fresh := sighting("E_new", 10+tt.gap, 38.9, -77.0, "c")
		out := Detect([]Sighting{old}, []Sighting{fresh}, nil)
		require.Len(t, out, 1, "gap=%d", tt.gap)
		assert.Equal(t, tt.want, out[0].TemporalScore, "gap=%d", tt.gap)
	}
}

func TestDetectRejectsAppearanceBeforeDisappearance(t *testing.T) {
	old := sighting("E_old", 40, 38.9, -77.0, "c")
	fresh := sighting("E_new", 39, 38.9, -77.0, "c")
	assert.Empty(t, Detect([]Sighting{old}, []Sighting{fresh}, nil))
}

func TestDetectSkipsSelfPairs(t *testing.T) {
	old := sighting("E_1", 10, 38.9, -77.0, "c")
	fresh := sighting("E_1", 20, 38.9, -77.0, "c")
	assert.Empty(t, Detect([]Sighting{old}, []Sighting{fresh}, nil))
}

func TestDetectSpatialDecay(t *testing.T) {
	old := sighting("E_old", 10, 38.9097, -77.0654, "cell_a")

	// ~2750 m away, different cell: halfway through the decay band
	farFresh := sighting("E_new", 11, 38.9097+2750.0/111195.0, -77.0654, "cell_b")
	out := Detect([]Sighting{old}, []Sighting{farFresh}, nil)
	require.Len(t, out, 1)
	assert.InDelta(t, 0.5, out[0].SpatialScore, 0.02)

	// beyond 5000 m the spatial component is zero but temporal still scores
	gone := sighting("E_far", 11, 38.9097+6000.0/111195.0, -77.0654, "cell_c")
	out = Detect([]Sighting{old}, []Sighting{gone}, nil)
	require.Len(t, out, 1)
	assert.Zero(t, out[0].SpatialScore)
	assert.Equal(t, 1.0, out[0].TemporalScore)
}

func TestDetectRanksBestFirst(t *testing.T) {
	old := sighting("E_old", 10, 38.9, -77.0, "c")
	near := sighting("E_near", 11, 38.9, -77.0, "c")
	late := sighting("E_late", 18, 38.9, -77.0, "c")

	out := Detect([]Sighting{old}, []Sighting{near, late}, nil)
	require.Len(t, out, 2)
	assert.Equal(t, "E_near", out[0].NewEntityID)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, 2, out[1].Rank)
}
