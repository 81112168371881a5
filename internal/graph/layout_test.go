package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselink/analytics-backend-go/internal/models"
)

func suspect(id string, rank int) models.RawGraphNode {
	return models.RawGraphNode{ID: id, Name: "Suspect " + id, Type: models.NodeTypePerson, IsSuspect: true, Rank: rank}
}

func associate(id string) models.RawGraphNode {
	return models.RawGraphNode{ID: id, Name: "Associate " + id, Type: models.NodeTypePerson}
}

func device(id, ownerID string) models.RawGraphNode {
	return models.RawGraphNode{ID: id, Name: "Device " + id, Type: models.NodeTypeDevice, OwnerID: ownerID}
}

func nodeByID(t *testing.T, data models.GraphData, id string) models.GraphNode {
	t.Helper()
	for _, n := range data.Nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %s not placed", id)
	return models.GraphNode{}
}

func TestLayoutDeterministic(t *testing.T) {
	in := Input{
		Suspects:   []models.RawGraphNode{suspect("E_1", 1), suspect("E_2", 2), suspect("E_3", 3)},
		Associates: []models.RawGraphNode{associate("E_10")},
		Devices:    []models.RawGraphNode{device("D_1", "E_1")},
	}

	first := Layout(in, DefaultConfig())
	second := Layout(in, DefaultConfig())
	assert.Equal(t, first, second, "same input, same config, same output")
}

func TestLayoutRankOrdersSizeNotSliceOrder(t *testing.T) {
	// deliberately out of rank order in the slice
	in := Input{Suspects: []models.RawGraphNode{suspect("E_2", 2), suspect("E_1", 1)}}
	data := Layout(in, Config{})

	assert.Equal(t, 12.0, nodeByID(t, data, "E_1").Size, "rank 1 gets the largest size")
	assert.Equal(t, 12.0, nodeByID(t, data, "E_2").Size, "same size step for the first ten")
	assert.Equal(t, 1, nodeByID(t, data, "E_1").Rank)
}

func TestSuspectSizeFloor(t *testing.T) {
	assert.Equal(t, 12.0, suspectSize(0))
	assert.Equal(t, 12.0, suspectSize(9))
	assert.Equal(t, 11.0, suspectSize(10))
	assert.Equal(t, 6.0, suspectSize(60))
	assert.Equal(t, 6.0, suspectSize(500), "floored at 6")
}

func TestLayoutSuspectsOnFirstRing(t *testing.T) {
	in := Input{Suspects: []models.RawGraphNode{suspect("E_1", 1), suspect("E_2", 2)}}
	data := Layout(in, Config{})

	for _, id := range []string{"E_1", "E_2"} {
		n := nodeByID(t, data, id)
		assert.InDelta(t, baseRadius, math.Hypot(n.FX, n.FY), 1e-9)
	}
}

func TestLayoutDevicesFanNearOwner(t *testing.T) {
	in := Input{
		Suspects: []models.RawGraphNode{suspect("E_1", 1)},
		Devices:  []models.RawGraphNode{device("D_1", "E_1"), device("D_2", "E_1")},
	}
	data := Layout(in, Config{})

	owner := nodeByID(t, data, "E_1")
	for _, id := range []string{"D_1", "D_2"} {
		d := nodeByID(t, data, id)
		assert.InDelta(t, deviceFanRadius, math.Hypot(d.FX-owner.FX, d.FY-owner.FY), 1e-9)
	}
}

func TestLayoutOrphanDevicesOnOuterRing(t *testing.T) {
	in := Input{
		Suspects: []models.RawGraphNode{suspect("E_1", 1)},
		Devices:  []models.RawGraphNode{device("D_9", "E_404")},
	}
	data := Layout(in, Config{})

	d := nodeByID(t, data, "D_9")
	assert.Greater(t, math.Hypot(d.FX, d.FY), baseRadius, "orphan sits beyond the suspect rings")
}

func TestSynthesizedCoLocationCompleteGraph(t *testing.T) {
	in := Input{Suspects: []models.RawGraphNode{suspect("E_1", 1), suspect("E_2", 2), suspect("E_3", 3)}}
	data := Layout(in, DefaultConfig())

	require.Len(t, data.Links, 3, "3 suspects, no supplied links: exactly 3 pairwise edges")
	for _, l := range data.Links {
		assert.Equal(t, models.EdgeCoLocation, l.EdgeCategory)
		assert.GreaterOrEqual(t, l.Count, 3)
		assert.LessOrEqual(t, l.Count, 10)
	}
}

func TestSynthesisSuppressedBySuppliedCoLocation(t *testing.T) {
	in := Input{
		Suspects: []models.RawGraphNode{suspect("E_1", 1), suspect("E_2", 2), suspect("E_3", 3)},
		Links: []models.RawGraphLink{
			{Source: "E_1", Target: "E_2", Type: "co_located", EdgeCategory: models.EdgeCoLocation, Count: 4},
		},
	}
	data := Layout(in, DefaultConfig())
	assert.Len(t, data.Links, 1, "real co-location data disables the placeholder")
}

func TestSynthesisDisabledByConfig(t *testing.T) {
	in := Input{Suspects: []models.RawGraphNode{suspect("E_1", 1), suspect("E_2", 2)}}
	data := Layout(in, Config{})
	assert.Empty(t, data.Links)
}

func TestFallbackPairOnZeroSuspects(t *testing.T) {
	data := Layout(Input{}, DefaultConfig())

	require.Len(t, data.Nodes, 2)
	assert.Equal(t, "E_0000", data.Nodes[0].ID)
	assert.Equal(t, "E_0001", data.Nodes[1].ID)
	assert.Len(t, data.Links, 1, "the pair gets one synthesized edge")

	disabled := Layout(Input{}, Config{})
	assert.Empty(t, disabled.Nodes)
}

func TestCoLocationLinkRequiresPersonEndpoints(t *testing.T) {
	in := Input{
		Suspects: []models.RawGraphNode{suspect("E_1", 1)},
		Devices:  []models.RawGraphNode{device("D_1", "E_1")},
		Links: []models.RawGraphLink{
			{Source: "E_1", Target: "D_1", EdgeCategory: models.EdgeCoLocation},
			{Source: "E_1", Target: "D_1", EdgeCategory: models.EdgeDevice},
			{Source: "E_1", Target: "E_404", EdgeCategory: models.EdgeSocial},
		},
	}
	data := Layout(in, Config{})

	require.Len(t, data.Links, 1, "person-device colocation and dangling endpoints dropped")
	assert.Equal(t, models.EdgeDevice, data.Links[0].EdgeCategory)
}
