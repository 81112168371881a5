package models

// TrailPoint is one step of an entity's movement record.
type TrailPoint struct {
	Hour int     `json:"hour" db:"hour"`
	Lat  float64 `json:"lat" db:"lat"`
	Lng  float64 `json:"lng" db:"lng"`
	City string  `json:"city,omitempty" db:"city"`
}

// DeviceTail is one entity's full movement record over the simulation window.
// Tails are fetched on demand and cached by device id; a refetch replaces the
// cached value atomically, never patches it.
type DeviceTail struct {
	DeviceID     string       `json:"deviceId"`
	EntityID     string       `json:"entityId"`
	EntityName   string       `json:"entityName"`
	Alias        string       `json:"alias"`
	IsSuspect    bool         `json:"isSuspect"`
	ThreatLevel  string       `json:"threatLevel"`
	Trail        []TrailPoint `json:"trail"`
	TotalPoints  int          `json:"totalPoints"`
	BaseLocation string       `json:"baseLocation"`
}
