// Package cache holds the in-memory hour-keyed stores behind the heatmap
// dashboard. Caches are plain injected objects so engines stay deterministic
// under test; nothing here reaches the network or database on a hit.
package cache

import (
	"sync"

	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/timeline"
)

// PositionCache maps simulation hour -> device positions at that hour.
// Entries are never invalidated; a Set for an hour replaces that hour
// wholesale. Reads are synchronous and side-effect-free.
type PositionCache struct {
	mu    sync.RWMutex
	hours map[int][]models.DevicePosition
}

// NewPositionCache returns an empty cache.
func NewPositionCache() *PositionCache {
	return &PositionCache{hours: make(map[int][]models.DevicePosition)}
}

// Get returns the positions for an hour and whether the hour is populated.
func (c *PositionCache) Get(hour int) ([]models.DevicePosition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	positions, ok := c.hours[hour]
	return positions, ok
}

// Set replaces the position list for an hour.
func (c *PositionCache) Set(hour int, positions []models.DevicePosition) {
	if hour < 0 || hour > timeline.MaxHour {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hours[hour] = positions
}

// SetBulk fills the cache from a bulk payload in one pass.
func (c *PositionCache) SetBulk(byHour models.PositionsByHour) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for hour, positions := range byHour {
		if hour < 0 || hour > timeline.MaxHour {
			continue
		}
		c.hours[hour] = positions
	}
}

// Len reports how many hours are populated.
func (c *PositionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.hours)
}
