package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caselink/analytics-backend-go/internal/cache"
	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/timeline"
)

func strPtr(s string) *string { return &s }

func TestTrailsMergeAndCurrentIndex(t *testing.T) {
	posCache := cache.NewPositionCache()
	posCache.Set(10, []models.DevicePosition{
		{DeviceID: "D_9", OwnerID: strPtr("E_9"), Lat: 1, Lng: 2, City: "DC"},
	})
	posCache.Set(20, []models.DevicePosition{
		{DeviceID: "D_9", OwnerID: strPtr("E_9"), Lat: 3, Lng: 4, City: "DC"},
	})

	svc := NewHeatmapService(nil, nil, posCache, cache.NewHotspotCache(), nil)
	svc.tails["D_1"] = models.DeviceTail{
		DeviceID: "D_1",
		EntityID: "E_1",
		Trail:    []models.TrailPoint{{Hour: 5}, {Hour: 15}, {Hour: 25}},
	}

	views := svc.Trails([]string{"E_1", "E_9"}, timeline.Full(), 18)
	require.Len(t, views, 2)

	// sorted by entity id: E_1 from the manual tail, E_9 cache-derived
	assert.Equal(t, "E_1", views[0].EntityID)
	assert.Equal(t, 2, views[0].CurrentIndex, "first point with hour >= 18")
	assert.Equal(t, "E_9", views[1].EntityID)
	assert.Equal(t, 1, views[1].CurrentIndex)
	assert.Equal(t, 2, views[1].TotalPoints)
}

func TestTrailsClipsToWindow(t *testing.T) {
	svc := NewHeatmapService(nil, nil, cache.NewPositionCache(), cache.NewHotspotCache(), nil)
	svc.tails["D_1"] = models.DeviceTail{
		DeviceID: "D_1",
		EntityID: "E_1",
		Trail:    []models.TrailPoint{{Hour: 5}, {Hour: 15}, {Hour: 65}},
	}

	views := svc.Trails(nil, timeline.Window{Start: 10, End: 20}, 10)
	require.Len(t, views, 1)
	require.Len(t, views[0].Trail, 1)
	assert.Equal(t, 15, views[0].Trail[0].Hour)
}

func TestHoursLoadedTracksCache(t *testing.T) {
	posCache := cache.NewPositionCache()
	svc := NewHeatmapService(nil, nil, posCache, cache.NewHotspotCache(), nil)

	assert.Zero(t, svc.HoursLoaded())
	posCache.Set(3, nil)
	assert.Equal(t, 1, svc.HoursLoaded())
}
