package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/caselink/analytics-backend-go/internal/handoff"
	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/repository"
	"github.com/caselink/analytics-backend-go/internal/spatial"
	"github.com/caselink/analytics-backend-go/internal/timeline"
)

// quietTailHours is how long a device must stay silent before the end of the
// simulation to count as disappeared.
const quietTailHours = 6

// AnalyticsService exposes the cross-cutting analytics built on top of the
// movement and social data.
type AnalyticsService struct {
	positions *repository.PositionRepository
	social    *repository.SocialRepository
	logger    *zap.Logger
}

// NewAnalyticsService wires the service.
func NewAnalyticsService(positions *repository.PositionRepository, social *repository.SocialRepository, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{positions: positions, social: social, logger: logger}
}

// Handoffs detects burner-switch candidates over the full simulation:
// entities that stop reporting well before the end paired against devices
// that first appear after the start, scored by the handoff detector.
func (s *AnalyticsService) Handoffs(ctx context.Context) ([]handoff.Candidate, error) {
	byHour, err := s.positions.PositionsBulk(ctx, 0)
	if err != nil {
		return nil, err
	}

	first := make(map[string]handoff.Sighting)
	last := make(map[string]handoff.Sighting)
	for hour := 0; hour < timeline.HourCount; hour++ {
		for _, p := range byHour[hour] {
			id := entityLevelID(p)
			sighting := handoff.Sighting{
				EntityID: id,
				Hour:     hour,
				Lat:      p.Lat,
				Lng:      p.Lng,
				H3Cell:   spatial.CellForCoord(p.Lat, p.Lng),
			}
			if _, seen := first[id]; !seen {
				first[id] = sighting
			}
			last[id] = sighting
		}
	}

	var disappeared, appeared []handoff.Sighting
	for id, sighting := range last {
		if sighting.Hour < timeline.MaxHour-quietTailHours {
			disappeared = append(disappeared, sighting)
		}
		if f := first[id]; f.Hour > 0 {
			appeared = append(appeared, f)
		}
	}

	partners, err := s.partnerSets(ctx)
	if err != nil {
		return nil, err
	}

	return handoff.Detect(disappeared, appeared, partners), nil
}

// partnerSets maps every entity to its social partners.
func (s *AnalyticsService) partnerSets(ctx context.Context) (map[string][]string, error) {
	edges, err := s.social.Edges(ctx)
	if err != nil {
		return nil, err
	}
	partners := make(map[string][]string)
	for _, e := range edges {
		partners[e.EntityID1] = append(partners[e.EntityID1], e.EntityID2)
		partners[e.EntityID2] = append(partners[e.EntityID2], e.EntityID1)
	}
	return partners, nil
}

// SocialLog and CoLocationLog pass through to the repository; they exist so
// handlers depend on services only.
func (s *AnalyticsService) SocialLog(ctx context.Context, req models.SocialLogRequest) ([]models.SocialLogEntry, error) {
	return s.social.SocialLog(ctx, req)
}

func (s *AnalyticsService) CoLocationLog(ctx context.Context, req models.CoLocationLogRequest) ([]models.CoPresenceEntry, error) {
	return s.social.CoLocationLog(ctx, req)
}

func entityLevelID(p models.DevicePosition) string {
	if p.OwnerID != nil && *p.OwnerID != "" {
		return *p.OwnerID
	}
	return p.DeviceID
}
