package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/caselink/analytics-backend-go/internal/graph"
	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/repository"
)

// GraphRequest selects and filters the network view.
type GraphRequest struct {
	// EntityIDs are focus seeds, possibly in legacy "device_"-prefixed form.
	EntityIDs []string

	// FocusLinked expands the focus set to everyone reachable from the seeds
	// over person-to-person edges.
	FocusLinked bool

	// City restricts person nodes to those linked to the city.
	City string

	ShowSuspects   bool
	ShowAssociates bool
	ShowDevices    bool

	// EdgeCategories limits visible edge kinds; empty means all.
	EdgeCategories []string
}

// DefaultGraphRequest shows everything.
func DefaultGraphRequest() GraphRequest {
	return GraphRequest{ShowSuspects: true, ShowAssociates: true, ShowDevices: true}
}

// GraphService assembles the raw node/link set from the data layer, lays it
// out, and applies reachability-driven visibility filtering.
type GraphService struct {
	entities *repository.EntityRepository
	social   *repository.SocialRepository
	cfg      graph.Config
	logger   *zap.Logger
}

// NewGraphService wires the service. cfg controls the demo-placeholder
// behaviors of the layout engine.
func NewGraphService(entities *repository.EntityRepository, social *repository.SocialRepository, cfg graph.Config, logger *zap.Logger) *GraphService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphService{entities: entities, social: social, cfg: cfg, logger: logger}
}

// Build loads entities and edges, runs the deterministic layout, and filters
// the result per the request.
func (s *GraphService) Build(ctx context.Context, req GraphRequest) (models.GraphData, error) {
	in, err := s.assemble(ctx)
	if err != nil {
		return models.GraphData{}, err
	}

	data := graph.Layout(in, s.cfg)

	vis := graph.DefaultVisibility()
	vis.City = req.City
	vis.ShowSuspects = req.ShowSuspects
	vis.ShowAssociates = req.ShowAssociates
	vis.ShowDevices = req.ShowDevices
	if len(req.EdgeCategories) > 0 {
		vis.EdgeCategories = make(map[string]bool, len(req.EdgeCategories))
		for _, cat := range req.EdgeCategories {
			vis.EdgeCategories[cat] = true
		}
	}

	if len(req.EntityIDs) > 0 {
		seeds := make([]string, 0, len(req.EntityIDs))
		for _, raw := range req.EntityIDs {
			seeds = append(seeds, models.ParseEntityRef(raw).EntityID())
		}
		if req.FocusLinked {
			vis.Focus = graph.Reachable(seeds, data)
		} else {
			vis.Focus = make(map[string]bool, len(seeds))
			for _, id := range seeds {
				vis.Focus[id] = true
			}
		}
	}

	return graph.Apply(data, vis), nil
}

// assemble builds the pre-layout input: suspects and associates from the
// persons table, devices attached to their owners, and edges from device
// ownership, social ties, and co-presence observations.
func (s *GraphService) assemble(ctx context.Context) (graph.Input, error) {
	persons, err := s.entities.Persons(ctx)
	if err != nil {
		return graph.Input{}, err
	}
	byOwner, err := s.entities.DevicesByOwner(ctx)
	if err != nil {
		return graph.Input{}, err
	}
	socialEdges, err := s.social.Edges(ctx)
	if err != nil {
		return graph.Input{}, err
	}
	coPresence, err := s.social.CoPresenceEdges(ctx)
	if err != nil {
		return graph.Input{}, err
	}

	var in graph.Input
	for _, p := range persons {
		node := models.RawGraphNode{
			ID:           p.ID,
			Name:         p.Name,
			Alias:        p.Alias,
			Type:         models.NodeTypePerson,
			IsSuspect:    p.IsSuspect,
			LinkedCities: p.LinkedCities,
			Rank:         p.Rank,
		}
		if len(p.LinkedCities) > 0 {
			node.City = p.LinkedCities[0]
		}
		if p.IsSuspect {
			in.Suspects = append(in.Suspects, node)
		} else {
			in.Associates = append(in.Associates, node)
		}

		for _, d := range byOwner[p.ID] {
			in.Devices = append(in.Devices, models.RawGraphNode{
				ID:       d.DeviceID,
				Name:     d.DeviceName,
				Type:     models.NodeTypeDevice,
				OwnerID:  p.ID,
				IsBurner: d.IsBurner,
			})
			in.Links = append(in.Links, models.RawGraphLink{
				Source:       p.ID,
				Target:       d.DeviceID,
				Type:         "registered_to",
				EdgeCategory: models.EdgeDevice,
			})
		}
	}

	for _, e := range socialEdges {
		in.Links = append(in.Links, models.RawGraphLink{
			Source:       e.EntityID1,
			Target:       e.EntityID2,
			Type:         e.RelationshipType,
			EdgeCategory: models.EdgeSocial,
		})
	}
	for _, e := range coPresence {
		in.Links = append(in.Links, models.RawGraphLink{
			Source:       e.EntityID1,
			Target:       e.EntityID2,
			Type:         "co_located",
			EdgeCategory: models.EdgeCoLocation,
			Count:        e.CoOccurrenceCount,
		})
	}

	return in, nil
}
