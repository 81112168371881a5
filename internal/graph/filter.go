package graph

import "github.com/caselink/analytics-backend-go/internal/models"

// VisibilityFilter is the UI toggle state applied to a laid-out graph.
// The zero value hides everything; use DefaultVisibility for the all-on
// default.
type VisibilityFilter struct {
	// City keeps only person nodes whose LinkedCities contain it (focused
	// entities override). Empty disables the city pass. Non-person nodes
	// pass through untouched.
	City string

	// Focus, when non-empty, keeps only person nodes in the set. Applied
	// after the city pass, so both active means an effective AND.
	Focus map[string]bool

	// Node-type toggles.
	ShowSuspects   bool
	ShowAssociates bool
	ShowDevices    bool

	// EdgeCategories is the set of visible edge categories.
	EdgeCategories map[string]bool
}

// DefaultVisibility shows every node and edge type.
func DefaultVisibility() VisibilityFilter {
	return VisibilityFilter{
		ShowSuspects:   true,
		ShowAssociates: true,
		ShowDevices:    true,
		EdgeCategories: map[string]bool{
			models.EdgeCoLocation: true,
			models.EdgeSocial:     true,
			models.EdgeDevice:     true,
		},
	}
}

// Apply filters nodes and links in order: city, focus, node-type toggles,
// then link survival (both endpoints kept and category toggled on). Links
// carry bare string ids by construction, so a renderer can never hold a
// stale node object across frames.
func Apply(data models.GraphData, f VisibilityFilter) models.GraphData {
	kept := make([]models.GraphNode, 0, len(data.Nodes))
	keptIDs := make(map[string]bool, len(data.Nodes))

	for _, n := range data.Nodes {
		if n.Type == models.NodeTypePerson {
			if f.City != "" && !f.Focus[n.ID] && !linkedTo(n, f.City) {
				continue
			}
			if len(f.Focus) > 0 && !f.Focus[n.ID] {
				continue
			}
		}
		switch {
		case n.Type == models.NodeTypeDevice:
			if !f.ShowDevices {
				continue
			}
		case n.IsSuspect:
			if !f.ShowSuspects {
				continue
			}
		default:
			if !f.ShowAssociates {
				continue
			}
		}
		kept = append(kept, n)
		keptIDs[n.ID] = true
	}

	links := make([]models.GraphLink, 0, len(data.Links))
	for _, l := range data.Links {
		if !keptIDs[l.Source] || !keptIDs[l.Target] {
			continue
		}
		if !f.EdgeCategories[l.EdgeCategory] {
			continue
		}
		links = append(links, l)
	}

	return models.GraphData{Nodes: kept, Links: links}
}

func linkedTo(n models.GraphNode, city string) bool {
	if n.City == city {
		return true
	}
	for _, c := range n.LinkedCities {
		if c == city {
			return true
		}
	}
	return false
}
