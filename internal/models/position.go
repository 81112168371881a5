package models

// DevicePosition represents one device observation for a single simulation hour.
// The position cache holds exactly one instance per (device, hour) pair and
// replaces an hour's slice wholesale when newer data arrives.
type DevicePosition struct {
	DeviceID   string  `json:"deviceId" db:"device_id"`
	DeviceName string  `json:"deviceName" db:"device_name"`
	Lat        float64 `json:"lat" db:"lat"`
	Lng        float64 `json:"lng" db:"lng"`
	TowerID    *string `json:"towerId" db:"tower_id"`    // nil when carrier linkage is missing
	TowerName  *string `json:"towerName" db:"tower_name"`
	OwnerID    *string `json:"ownerId" db:"owner_id"`
	OwnerName  string  `json:"ownerName" db:"owner_name"`
	OwnerAlias string  `json:"ownerAlias" db:"owner_alias"`
	IsSuspect  bool    `json:"isSuspect" db:"is_suspect"`
	IsBurner   bool    `json:"isBurner,omitempty" db:"is_burner"`
	DeviceType string  `json:"deviceType,omitempty" db:"device_type"`
	City       string  `json:"city,omitempty" db:"city"`
}

// CellTower is a fixed carrier tower location.
type CellTower struct {
	ID   string  `json:"id" db:"id"`
	Name string  `json:"name" db:"name"`
	Lat  float64 `json:"lat" db:"lat"`
	Lng  float64 `json:"lng" db:"lng"`
	City string  `json:"city" db:"city"`
}

// Hotspot is a per-hour aggregate of device activity around a tower.
type Hotspot struct {
	TowerID      string  `json:"towerId" db:"tower_id"`
	TowerName    string  `json:"towerName" db:"tower_name"`
	Lat          float64 `json:"lat" db:"lat"`
	Lng          float64 `json:"lng" db:"lng"`
	City         string  `json:"city" db:"city"`
	DeviceCount  int     `json:"deviceCount" db:"device_count"`
	SuspectCount int     `json:"suspectCount" db:"suspect_count"`
}

// Key identifies a hotspot across re-sorts and filters of its containing
// list. Same tower ids can appear in more than one city slice, so the key is
// the (towerId, city) composite rather than a list index.
func (h Hotspot) Key() string {
	return h.TowerID + "|" + h.City
}

// PositionsByHour is the bulk position payload, keyed by simulation hour.
type PositionsByHour map[int][]DevicePosition
