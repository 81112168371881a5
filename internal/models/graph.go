package models

// Node types rendered by the network explorer.
const (
	NodeTypePerson = "person"
	NodeTypeDevice = "device"
)

// Edge categories. Visibility of each category is independently togglable.
const (
	EdgeCoLocation = "colocation"
	EdgeSocial     = "social"
	EdgeDevice     = "device"
)

// GraphNode is a renderable network node. FX/FY are assigned exactly once by
// the layout engine and never recomputed; X/Y are left to the renderer.
type GraphNode struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Alias        string   `json:"alias,omitempty"`
	Type         string   `json:"type"`
	IsSuspect    bool     `json:"isSuspect,omitempty"`
	City         string   `json:"city,omitempty"`
	LinkedCities []string `json:"linkedCities,omitempty"`
	Color        string   `json:"color"`
	Size         float64  `json:"size"`
	FX           float64  `json:"fx"`
	FY           float64  `json:"fy"`
	OwnerID      string   `json:"ownerId,omitempty"`
	Relationship string   `json:"relationship,omitempty"`
	IsBurner     bool     `json:"isBurner,omitempty"`
	// Rank orders suspects for sizing. Explicit so that upstream reordering
	// of the input list cannot silently change visual semantics.
	Rank int `json:"rank,omitempty"`
}

// GraphLink is a renderable edge. Source and Target are always bare node ids;
// the filter engine re-normalizes them so stale node object references never
// leak into a re-rendered frame.
type GraphLink struct {
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	Type         string  `json:"type"`
	EdgeCategory string  `json:"edgeCategory"`
	Count        int     `json:"count,omitempty"`
	Color        string  `json:"color"`
	Width        float64 `json:"width"`
	Curvature    float64 `json:"curvature,omitempty"`
}

// GraphData is the laid-out node/link set for the network explorer.
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// RawGraphNode is a node as delivered by the data layer, before layout.
type RawGraphNode struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Alias        string   `json:"alias,omitempty"`
	Type         string   `json:"type"`
	IsSuspect    bool     `json:"isSuspect"`
	City         string   `json:"city,omitempty"`
	LinkedCities []string `json:"linkedCities,omitempty"`
	OwnerID      string   `json:"ownerId,omitempty"`
	Relationship string   `json:"relationship,omitempty"`
	IsBurner     bool     `json:"isBurner,omitempty"`
	Rank         int      `json:"rank"`
}

// RawGraphLink is an edge as delivered by the data layer.
type RawGraphLink struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	Type         string `json:"type"`
	EdgeCategory string `json:"edgeCategory"`
	Count        int    `json:"count,omitempty"`
}
