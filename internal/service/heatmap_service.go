// Package service composes repositories, caches, and the analytic engines
// into the operations the HTTP layer exposes.
package service

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/caselink/analytics-backend-go/internal/cache"
	"github.com/caselink/analytics-backend-go/internal/hotspot"
	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/repository"
	"github.com/caselink/analytics-backend-go/internal/spatial"
	"github.com/caselink/analytics-backend-go/internal/timeline"
	"github.com/caselink/analytics-backend-go/internal/trail"
)

// HotspotView is a hotspot plus its resolved connected-device count.
type HotspotView struct {
	models.Hotspot
	ConnectedCount int `json:"connectedCount"`
}

// TrailView is a built trail plus the index to display at the current hour.
type TrailView struct {
	models.DeviceTail
	CurrentIndex int `json:"currentIndex"`
}

// HeatmapService serves the spatio-temporal views: per-hour positions,
// hotspots with device connectivity, hex activity, and movement trails.
type HeatmapService struct {
	positions *repository.PositionRepository
	towers    *repository.TowerRepository
	posCache  *cache.PositionCache
	hotCache  *cache.HotspotCache
	loader    *cache.Loader
	logger    *zap.Logger

	tailMu sync.RWMutex
	tails  map[string]models.DeviceTail
}

// NewHeatmapService wires the service to its repositories and caches.
func NewHeatmapService(
	positions *repository.PositionRepository,
	towers *repository.TowerRepository,
	posCache *cache.PositionCache,
	hotCache *cache.HotspotCache,
	logger *zap.Logger,
) *HeatmapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HeatmapService{
		positions: positions,
		towers:    towers,
		posCache:  posCache,
		hotCache:  hotCache,
		loader:    cache.NewLoader(posCache, positions, logger),
		logger:    logger,
		tails:     make(map[string]models.DeviceTail),
	}
}

// Positions returns all device positions for one hour, cache-first.
func (s *HeatmapService) Positions(ctx context.Context, hour int) ([]models.DevicePosition, error) {
	return s.loader.Hour(ctx, timeline.NormalizeHour(hour))
}

// PositionsBulk returns positions for every hour and warms the cache with
// the payload on the way out.
func (s *HeatmapService) PositionsBulk(ctx context.Context, limit int) (models.PositionsByHour, error) {
	byHour, err := s.positions.PositionsBulk(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.posCache.SetBulk(byHour)
	return byHour, nil
}

// Warm fills the position cache for every hour, preferring the bulk payload
// and degrading to the expanding-ring progressive load around centerHour.
func (s *HeatmapService) Warm(ctx context.Context, centerHour, bulkLimit int) error {
	return s.loader.FillAll(ctx, centerHour, bulkLimit)
}

// HoursLoaded reports how many hour slots the position cache holds.
func (s *HeatmapService) HoursLoaded() int {
	return s.posCache.Len()
}

// Hotspots returns the hour's hotspots under the given window, each with the
// resolver's connected-device count. Hotspot lists are cached per
// (hour, window) pair; connectivity is recomputed against current positions.
func (s *HeatmapService) Hotspots(ctx context.Context, hour int, window timeline.Window) ([]HotspotView, error) {
	hour = timeline.NormalizeHour(hour)

	hotspots, ok := s.hotCache.Get(hour, window)
	if !ok {
		var err error
		hotspots, err = s.positions.Hotspots(ctx, hour, window)
		if err != nil {
			return nil, err
		}
		s.hotCache.Set(hour, window, hotspots)
	}

	var conn hotspot.Connectivity
	if positions, ok := s.posCache.Get(hour); ok {
		towers, err := s.towers.All(ctx)
		if err != nil {
			return nil, err
		}
		conn = hotspot.Resolve(positions, hotspots, towers)
	}

	views := make([]HotspotView, 0, len(hotspots))
	for _, h := range hotspots {
		views = append(views, HotspotView{Hotspot: h, ConnectedCount: conn.CountOf(h)})
	}
	return views, nil
}

// Heatmap bins the hour's positions into ranked hex cells.
func (s *HeatmapService) Heatmap(ctx context.Context, hour int) (spatial.HexActivity, error) {
	positions, err := s.loader.Hour(ctx, timeline.NormalizeHour(hour))
	if err != nil {
		return spatial.HexActivity{}, err
	}
	return spatial.AggregateHexActivity(positions), nil
}

// Tail fetches one device's full movement record and caches it by device id.
// A refetch replaces the cached value wholesale.
func (s *HeatmapService) Tail(ctx context.Context, deviceID string) (models.DeviceTail, error) {
	tail, err := s.positions.Tail(ctx, deviceID)
	if err != nil {
		return models.DeviceTail{}, err
	}
	s.tailMu.Lock()
	s.tails[deviceID] = tail
	s.tailMu.Unlock()
	return tail, nil
}

// Trails builds one clipped trail per focused entity, merging cached manual
// tails with cache-derived reconstructions, and resolves each trail's
// display index for currentHour.
func (s *HeatmapService) Trails(focusIDs []string, window timeline.Window, currentHour int) []TrailView {
	focus := make(map[string]bool, len(focusIDs))
	for _, id := range focusIDs {
		if id != "" {
			focus[id] = true
		}
	}

	s.tailMu.RLock()
	manual := make(map[string]models.DeviceTail, len(s.tails))
	for id, t := range s.tails {
		manual[id] = t
	}
	s.tailMu.RUnlock()

	built := trail.Build(focus, window, trail.Sources{Tails: manual, Cache: s.posCache})

	views := make([]TrailView, 0, len(built))
	for _, t := range built {
		views = append(views, TrailView{
			DeviceTail:   t,
			CurrentIndex: trail.CurrentIndex(t.Trail, currentHour),
		})
	}
	// map iteration order is random; present entities stably
	sort.Slice(views, func(i, j int) bool { return views[i].EntityID < views[j].EntityID })
	return views
}
