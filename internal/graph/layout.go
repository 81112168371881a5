// Package graph builds the render-ready network for the graph explorer:
// deterministic ring layout, person-to-person reachability, and composable
// visibility filtering. Nothing here simulates physics; every coordinate is
// assigned exactly once.
package graph

import (
	"math"
	"math/rand"
	"sort"

	"github.com/caselink/analytics-backend-go/internal/models"
)

// Ring geometry. Suspects sit in inner rings, associates beyond them,
// unowned devices in the outermost ring.
const (
	suspectsPerRing   = 12
	associatesPerRing = 14
	baseRadius        = 80.0
	ringStep          = 60.0
	associateGap      = 40.0
	associateOffset   = math.Pi / associatesPerRing
	deviceFanRadius   = 28.0
	deviceFanStep     = math.Pi / 5
)

// Node palette.
const (
	colorSuspect   = "#d32f2f"
	colorAssociate = "#1976d2"
	colorDevice    = "#388e3c"
	colorBurner    = "#f57c00"
)

// Edge styling by category.
const (
	colorCoLocation = "#ff7043"
	colorSocial     = "#5c6bc0"
	colorDeviceEdge = "#9e9e9e"
)

// Config controls the demo-placeholder behaviors of the layout engine.
type Config struct {
	// SynthesizeCoLocation enables the placeholder complete pairwise
	// co-location graph among suspects when the data layer supplies no
	// co-location links at all.
	SynthesizeCoLocation bool

	// FallbackPair enables the hardcoded two-node graph shown when the data
	// layer supplies zero suspects.
	FallbackPair bool

	// Rand drives synthesized edge weights. Leave nil for a fixed-seed
	// deterministic source.
	Rand *rand.Rand
}

// DefaultConfig matches the original dashboard behavior.
func DefaultConfig() Config {
	return Config{SynthesizeCoLocation: true, FallbackPair: true}
}

// Input is the raw node/link set from the data layer, already split by role.
// Suspect sizing follows the explicit Rank field, not slice order.
type Input struct {
	Suspects   []models.RawGraphNode
	Associates []models.RawGraphNode
	Devices    []models.RawGraphNode
	Links      []models.RawGraphLink
}

// Layout assigns fixed coordinates to every node and derives the link set.
// The result is fully deterministic for a given Input and Config.
func Layout(in Input, cfg Config) models.GraphData {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	suspects := append([]models.RawGraphNode(nil), in.Suspects...)
	sort.SliceStable(suspects, func(i, j int) bool { return suspects[i].Rank < suspects[j].Rank })

	if len(suspects) == 0 && cfg.FallbackPair {
		suspects = fallbackPair()
	}

	var nodes []models.GraphNode
	placed := make(map[string]*models.GraphNode)
	place := func(n models.GraphNode) {
		nodes = append(nodes, n)
		placed[n.ID] = &nodes[len(nodes)-1]
	}

	// Suspects: concentric rings of 12, evenly spaced, earlier ranks larger.
	suspectRings := ringCount(len(suspects), suspectsPerRing)
	for i, s := range suspects {
		ring := i / suspectsPerRing
		slot := i % suspectsPerRing
		slots := ringSlots(len(suspects), ring, suspectsPerRing)
		radius := baseRadius + float64(ring)*ringStep
		angle := 2 * math.Pi * float64(slot) / float64(slots)
		place(models.GraphNode{
			ID:           s.ID,
			Name:         s.Name,
			Alias:        s.Alias,
			Type:         models.NodeTypePerson,
			IsSuspect:    true,
			City:         s.City,
			LinkedCities: s.LinkedCities,
			Color:        colorSuspect,
			Size:         suspectSize(i),
			FX:           radius * math.Cos(angle),
			FY:           radius * math.Sin(angle),
			Rank:         s.Rank,
		})
	}

	// Associates: further-out rings of 14, angularly offset from the suspect
	// rings to reduce visual overlap.
	associateBase := baseRadius + float64(suspectRings)*ringStep + associateGap
	associateRings := ringCount(len(in.Associates), associatesPerRing)
	for i, a := range in.Associates {
		ring := i / associatesPerRing
		slot := i % associatesPerRing
		slots := ringSlots(len(in.Associates), ring, associatesPerRing)
		radius := associateBase + float64(ring)*ringStep
		angle := associateOffset + 2*math.Pi*float64(slot)/float64(slots)
		place(models.GraphNode{
			ID:           a.ID,
			Name:         a.Name,
			Alias:        a.Alias,
			Type:         models.NodeTypePerson,
			City:         a.City,
			LinkedCities: a.LinkedCities,
			Color:        colorAssociate,
			Size:         5,
			FX:           radius * math.Cos(angle),
			FY:           radius * math.Sin(angle),
			Relationship: a.Relationship,
		})
	}

	// Devices: fanned around their owner when it resolved to a placed node,
	// otherwise an outer ring beyond the associates.
	outerRadius := associateBase + float64(associateRings)*ringStep + associateGap
	fanned := make(map[string]int)
	var orphans []models.RawGraphNode
	for _, d := range in.Devices {
		owner, ok := placed[d.OwnerID]
		if !ok {
			orphans = append(orphans, d)
			continue
		}
		k := fanned[d.OwnerID]
		fanned[d.OwnerID] = k + 1
		angle := deviceFanStep * float64(k)
		place(deviceNode(d,
			owner.FX+deviceFanRadius*math.Cos(angle),
			owner.FY+deviceFanRadius*math.Sin(angle)))
	}
	for i, d := range orphans {
		angle := 2 * math.Pi * float64(i) / float64(len(orphans))
		place(deviceNode(d, outerRadius*math.Cos(angle), outerRadius*math.Sin(angle)))
	}

	links := buildLinks(in.Links, placed)
	if cfg.SynthesizeCoLocation && !hasCoLocation(links) && len(suspects) >= 2 {
		links = append(links, synthesizeCoLocation(suspects, rng)...)
	}

	return models.GraphData{Nodes: nodes, Links: links}
}

// suspectSize shrinks stepwise every 10 suspects so higher-ranked suspects
// render larger, floored at 6.
func suspectSize(rankIndex int) float64 {
	size := 12 - rankIndex/10
	if size < 6 {
		size = 6
	}
	return float64(size)
}

// buildLinks keeps only links whose endpoints both exist; a co-location link
// additionally requires both endpoints to be person nodes.
func buildLinks(raw []models.RawGraphLink, placed map[string]*models.GraphNode) []models.GraphLink {
	links := make([]models.GraphLink, 0, len(raw))
	for _, l := range raw {
		src, okSrc := placed[l.Source]
		dst, okDst := placed[l.Target]
		if !okSrc || !okDst {
			continue
		}
		if l.EdgeCategory == models.EdgeCoLocation &&
			(src.Type != models.NodeTypePerson || dst.Type != models.NodeTypePerson) {
			continue
		}
		links = append(links, styleLink(models.GraphLink{
			Source:       l.Source,
			Target:       l.Target,
			Type:         l.Type,
			EdgeCategory: l.EdgeCategory,
			Count:        l.Count,
		}))
	}
	return links
}

// synthesizeCoLocation builds the complete pairwise co-location graph among
// suspects with weights uniform in [3,10]. Placeholder demo behavior, active
// only when the data layer supplied no co-location links (see Config).
func synthesizeCoLocation(suspects []models.RawGraphNode, rng *rand.Rand) []models.GraphLink {
	var links []models.GraphLink
	for i := 0; i < len(suspects); i++ {
		for j := i + 1; j < len(suspects); j++ {
			links = append(links, styleLink(models.GraphLink{
				Source:       suspects[i].ID,
				Target:       suspects[j].ID,
				Type:         "co_located",
				EdgeCategory: models.EdgeCoLocation,
				Count:        3 + rng.Intn(8),
			}))
		}
	}
	return links
}

func styleLink(l models.GraphLink) models.GraphLink {
	switch l.EdgeCategory {
	case models.EdgeCoLocation:
		l.Color = colorCoLocation
		l.Width = 1 + math.Min(float64(l.Count)/3, 3)
	case models.EdgeSocial:
		l.Color = colorSocial
		l.Width = 1.5
		l.Curvature = 0.2
	default:
		l.Color = colorDeviceEdge
		l.Width = 1
	}
	return l
}

func deviceNode(d models.RawGraphNode, fx, fy float64) models.GraphNode {
	color := colorDevice
	if d.IsBurner {
		color = colorBurner
	}
	return models.GraphNode{
		ID:       d.ID,
		Name:     d.Name,
		Type:     models.NodeTypeDevice,
		Color:    color,
		Size:     4,
		FX:       fx,
		FY:       fy,
		OwnerID:  d.OwnerID,
		IsBurner: d.IsBurner,
	}
}

// fallbackPair is the documented quirk shown when zero suspects load.
func fallbackPair() []models.RawGraphNode {
	return []models.RawGraphNode{
		{ID: "E_0000", Name: "Unknown Subject 1", Alias: "UNSUB-1", Type: models.NodeTypePerson, IsSuspect: true, Rank: 1},
		{ID: "E_0001", Name: "Unknown Subject 2", Alias: "UNSUB-2", Type: models.NodeTypePerson, IsSuspect: true, Rank: 2},
	}
}

func hasCoLocation(links []models.GraphLink) bool {
	for _, l := range links {
		if l.EdgeCategory == models.EdgeCoLocation {
			return true
		}
	}
	return false
}

// ringCount is how many rings are needed for n nodes at perRing each.
func ringCount(n, perRing int) int {
	if n == 0 {
		return 0
	}
	return (n + perRing - 1) / perRing
}

// ringSlots is the number of occupied slots in one ring, so a partial last
// ring still spaces its members evenly.
func ringSlots(n, ring, perRing int) int {
	remaining := n - ring*perRing
	if remaining >= perRing {
		return perRing
	}
	return remaining
}
