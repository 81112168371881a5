package cache

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/timeline"
)

// progressiveBatchSize is how many per-hour loads run per batch during the
// progressive fallback.
const progressiveBatchSize = 6

// PositionSource supplies positions from the backing store. The cache layer
// only calls it on a miss.
type PositionSource interface {
	// Positions returns all device positions for one simulation hour.
	Positions(ctx context.Context, hour int) ([]models.DevicePosition, error)

	// PositionsBulk returns positions for every hour in one payload, up to
	// limit positions per hour (0 means no limit).
	PositionsBulk(ctx context.Context, limit int) (models.PositionsByHour, error)
}

// Loader populates a PositionCache from a PositionSource.
type Loader struct {
	cache  *PositionCache
	source PositionSource
	logger *zap.Logger
}

// NewLoader wires a loader to its cache and source.
func NewLoader(cache *PositionCache, source PositionSource, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{cache: cache, source: source, logger: logger}
}

// Hour returns the positions for one hour, hitting the source only on a
// cache miss. A hit never touches the source.
func (l *Loader) Hour(ctx context.Context, hour int) ([]models.DevicePosition, error) {
	if positions, ok := l.cache.Get(hour); ok {
		return positions, nil
	}
	positions, err := l.source.Positions(ctx, hour)
	if err != nil {
		return nil, err
	}
	l.cache.Set(hour, positions)
	return positions, nil
}

// FillAll loads every hour, preferring the bulk payload and falling back to
// the expanding-ring progressive load when the bulk path fails. The fallback
// is structural, not a retry of the bulk call.
func (l *Loader) FillAll(ctx context.Context, centerHour, bulkLimit int) error {
	byHour, err := l.source.PositionsBulk(ctx, bulkLimit)
	if err == nil {
		l.cache.SetBulk(byHour)
		l.logger.Info("bulk position load complete", zap.Int("hours", len(byHour)))
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	l.logger.Warn("bulk position load failed, falling back to progressive load", zap.Error(err))
	return l.fillProgressive(ctx, centerHour)
}

// fillProgressive loads hours in an expanding ring around centerHour
// (center, then ±1, ±2, ... ±36) in batches of progressiveBatchSize.
// Individual hour failures are swallowed: the hour simply stays absent and
// consumers see an empty position list for it.
func (l *Loader) fillProgressive(ctx context.Context, centerHour int) error {
	order := ExpandingRing(centerHour)
	for start := 0; start < len(order); start += progressiveBatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + progressiveBatchSize
		if end > len(order) {
			end = len(order)
		}
		for _, hour := range order[start:end] {
			if _, ok := l.cache.Get(hour); ok {
				continue
			}
			positions, err := l.source.Positions(ctx, hour)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				l.logger.Debug("hour load failed, skipping", zap.Int("hour", hour), zap.Error(err))
				continue
			}
			l.cache.Set(hour, positions)
		}
	}
	return nil
}

// ExpandingRing returns all 72 hours ordered by distance from centerHour:
// the center first, then +1, -1, +2, -2, and so on. Hours outside [0,71]
// are dropped rather than wrapped.
func ExpandingRing(centerHour int) []int {
	if centerHour < 0 || centerHour > timeline.MaxHour {
		centerHour = timeline.NormalizeHour(centerHour)
	}
	order := make([]int, 0, timeline.HourCount)
	order = append(order, centerHour)
	for offset := 1; offset < timeline.HourCount; offset++ {
		if h := centerHour + offset; h <= timeline.MaxHour {
			order = append(order, h)
		}
		if h := centerHour - offset; h >= 0 {
			order = append(order, h)
		}
		if len(order) >= timeline.HourCount {
			break
		}
	}
	return order
}
