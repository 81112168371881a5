package cache

import (
	"strconv"
	"sync"

	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/timeline"
)

// HotspotKey composes hour and time window into a cache key. Keying on the
// window too means changing it can never serve stale hotspot data computed
// for the same hour under a different window.
func HotspotKey(hour int, w timeline.Window) string {
	return strconv.Itoa(hour) + "|" + strconv.Itoa(w.Start) + "|" + strconv.Itoa(w.End)
}

// HotspotCache maps (hour, window) -> hotspot list.
type HotspotCache struct {
	mu      sync.RWMutex
	entries map[string][]models.Hotspot
}

// NewHotspotCache returns an empty cache.
func NewHotspotCache() *HotspotCache {
	return &HotspotCache{entries: make(map[string][]models.Hotspot)}
}

// Get returns the hotspots cached for an (hour, window) pair.
func (c *HotspotCache) Get(hour int, w timeline.Window) ([]models.Hotspot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	hotspots, ok := c.entries[HotspotKey(hour, w)]
	return hotspots, ok
}

// Set stores the hotspots for an (hour, window) pair.
func (c *HotspotCache) Set(hour int, w timeline.Window, hotspots []models.Hotspot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[HotspotKey(hour, w)] = hotspots
}
