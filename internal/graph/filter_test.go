package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselink/analytics-backend-go/internal/models"
)

func filterFixture() models.GraphData {
	return models.GraphData{
		Nodes: []models.GraphNode{
			{ID: "S_1", Type: models.NodeTypePerson, IsSuspect: true, LinkedCities: []string{"Washington DC"}},
			{ID: "S_2", Type: models.NodeTypePerson, IsSuspect: true, LinkedCities: []string{"Nashville"}},
			{ID: "A_1", Type: models.NodeTypePerson, LinkedCities: []string{"Washington DC"}},
			{ID: "D_1", Type: models.NodeTypeDevice, OwnerID: "S_1"},
		},
		Links: []models.GraphLink{
			{Source: "S_1", Target: "S_2", EdgeCategory: models.EdgeCoLocation},
			{Source: "S_1", Target: "A_1", EdgeCategory: models.EdgeSocial},
			{Source: "S_1", Target: "D_1", EdgeCategory: models.EdgeDevice},
		},
	}
}

func ids(nodes []models.GraphNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestDefaultVisibilityShowsEverything(t *testing.T) {
	data := filterFixture()
	got := Apply(data, DefaultVisibility())
	assert.Len(t, got.Nodes, len(data.Nodes))
	assert.Len(t, got.Links, len(data.Links))
}

func TestZeroValueFilterHidesEverything(t *testing.T) {
	got := Apply(filterFixture(), VisibilityFilter{})
	assert.Empty(t, got.Nodes)
	assert.Empty(t, got.Links)
}

func TestCityPassSparesDevicesAndFocused(t *testing.T) {
	f := DefaultVisibility()
	f.City = "Washington DC"
	got := Apply(filterFixture(), f)
	assert.ElementsMatch(t, []string{"S_1", "A_1", "D_1"}, ids(got.Nodes))

	// focused entities override the city restriction
	f.Focus = map[string]bool{"S_2": true}
	got = Apply(filterFixture(), f)
	assert.ElementsMatch(t, []string{"S_2", "D_1"}, ids(got.Nodes))
}

func TestFocusAndCityCompose(t *testing.T) {
	f := DefaultVisibility()
	f.City = "Washington DC"
	f.Focus = map[string]bool{"S_1": true, "S_2": true}
	got := Apply(filterFixture(), f)

	// S_2 passes city via focus override, A_1 fails focus
	assert.ElementsMatch(t, []string{"S_1", "S_2", "D_1"}, ids(got.Nodes))
}

func TestTypeToggles(t *testing.T) {
	f := DefaultVisibility()
	f.ShowDevices = false
	got := Apply(filterFixture(), f)
	assert.ElementsMatch(t, []string{"S_1", "S_2", "A_1"}, ids(got.Nodes))

	f = DefaultVisibility()
	f.ShowSuspects = false
	got = Apply(filterFixture(), f)
	assert.ElementsMatch(t, []string{"A_1", "D_1"}, ids(got.Nodes))

	f = DefaultVisibility()
	f.ShowAssociates = false
	got = Apply(filterFixture(), f)
	assert.ElementsMatch(t, []string{"S_1", "S_2", "D_1"}, ids(got.Nodes))
}

func TestLinkSurvival(t *testing.T) {
	f := DefaultVisibility()
	f.ShowDevices = false
	got := Apply(filterFixture(), f)
	require.Len(t, got.Links, 2, "device edge dies with its endpoint")

	f = DefaultVisibility()
	f.EdgeCategories = map[string]bool{models.EdgeSocial: true}
	got = Apply(filterFixture(), f)
	require.Len(t, got.Links, 1)
	assert.Equal(t, models.EdgeSocial, got.Links[0].EdgeCategory)
}
