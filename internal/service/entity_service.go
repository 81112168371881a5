package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/repository"
	"github.com/caselink/analytics-backend-go/internal/timeline"
)

// retryDelay is the fixed pause before the single retry of the essential
// entity load.
const retryDelay = 500 * time.Millisecond

// Progress is the snapshot served to pollers while background loading runs.
type Progress struct {
	Stage       string `json:"stage"` // "idle", "loading", "ready", "failed"
	Persons     int    `json:"persons"`
	Devices     int    `json:"devices"`
	HoursLoaded int    `json:"hoursLoaded"`
	HoursTotal  int    `json:"hoursTotal"`
	LastError   string `json:"lastError,omitempty"`
}

// EntityService loads person and device entities and resolves device link
// status onto the loaded persons.
type EntityService struct {
	repo    *repository.EntityRepository
	heatmap *HeatmapService
	logger  *zap.Logger

	mu       sync.RWMutex
	progress Progress
}

// NewEntityService wires the service. heatmap may be nil in tests; progress
// then reports zero loaded hours.
func NewEntityService(repo *repository.EntityRepository, heatmap *HeatmapService, logger *zap.Logger) *EntityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityService{
		repo:    repo,
		heatmap: heatmap,
		logger:  logger,
		progress: Progress{
			Stage:      "idle",
			HoursTotal: timeline.HourCount,
		},
	}
}

// Load returns all entities with link status resolved. The essential load is
// retried exactly once after a fixed delay; a second failure is final.
func (s *EntityService) Load(ctx context.Context) (models.EntitiesWithLinkStatus, error) {
	s.setStage("loading", nil)

	out, err := s.loadOnce(ctx)
	if err != nil {
		if ctx.Err() != nil {
			s.setStage("idle", nil)
			return models.EntitiesWithLinkStatus{}, ctx.Err()
		}
		s.logger.Warn("entity load failed, retrying once", zap.Error(err))
		select {
		case <-ctx.Done():
			s.setStage("idle", nil)
			return models.EntitiesWithLinkStatus{}, ctx.Err()
		case <-time.After(retryDelay):
		}
		out, err = s.loadOnce(ctx)
	}
	if err != nil {
		s.setStage("failed", err)
		return models.EntitiesWithLinkStatus{}, err
	}

	s.mu.Lock()
	s.progress.Stage = "ready"
	s.progress.Persons = len(out.Persons)
	s.progress.Devices = len(out.Devices)
	s.progress.LastError = ""
	s.mu.Unlock()
	return out, nil
}

// loadOnce performs one full load: persons, devices, then the link-status
// pass that fills each person's LinkedDevices in place without touching the
// other fields.
func (s *EntityService) loadOnce(ctx context.Context) (models.EntitiesWithLinkStatus, error) {
	persons, err := s.repo.Persons(ctx)
	if err != nil {
		return models.EntitiesWithLinkStatus{}, err
	}
	devices, err := s.repo.Devices(ctx)
	if err != nil {
		return models.EntitiesWithLinkStatus{}, err
	}
	byOwner, err := s.repo.DevicesByOwner(ctx)
	if err != nil {
		return models.EntitiesWithLinkStatus{}, err
	}

	linked := 0
	for i := range persons {
		persons[i].LinkedDevices = byOwner[persons[i].ID]
		linked += len(persons[i].LinkedDevices)
	}

	stats := models.EntityStats{
		PersonCount: len(persons),
		DeviceCount: len(devices),
		LinkedCount: linked,
	}
	for _, p := range persons {
		if p.IsSuspect {
			stats.SuspectCount++
		}
	}

	return models.EntitiesWithLinkStatus{Persons: persons, Devices: devices, Stats: stats}, nil
}

// Suspects returns only suspect persons, for the CSV export.
func (s *EntityService) Suspects(ctx context.Context) ([]models.Suspect, error) {
	loaded, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	suspects := make([]models.Suspect, 0, len(loaded.Persons))
	for _, p := range loaded.Persons {
		if p.IsSuspect {
			suspects = append(suspects, p)
		}
	}
	return suspects, nil
}

// SetTitle stores a custom display title for a person or device.
func (s *EntityService) SetTitle(ctx context.Context, kind, entityID, title string) error {
	return s.repo.SetTitle(ctx, kind, entityID, title)
}

// DeleteTitle removes a custom title.
func (s *EntityService) DeleteTitle(ctx context.Context, kind, entityID string) error {
	return s.repo.DeleteTitle(ctx, kind, entityID)
}

// Progress returns the current load snapshot, including how many position
// hours the background loader has filled so far.
func (s *EntityService) Progress() Progress {
	s.mu.RLock()
	p := s.progress
	s.mu.RUnlock()
	if s.heatmap != nil {
		p.HoursLoaded = s.heatmap.HoursLoaded()
	}
	return p
}

func (s *EntityService) setStage(stage string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.Stage = stage
	if err != nil {
		s.progress.LastError = err.Error()
	}
}
