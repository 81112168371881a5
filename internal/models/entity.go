package models

import "strings"

// EntityKind discriminates person entities from the devices they carry.
type EntityKind string

const (
	KindPerson EntityKind = "person"
	KindDevice EntityKind = "device"
)

// devicePrefix is the legacy string convention used by deep links and older
// payloads to tag a device id ("device_E_0412"). New code carries an EntityRef
// instead; the prefix is only parsed and emitted at the ingestion boundary.
const devicePrefix = "device_"

// EntityRef is a tagged reference to either a person or a device. It replaces
// ad-hoc prefix stripping: parse once at the boundary, pass the ref around.
type EntityRef struct {
	Kind    EntityKind `json:"kind"`
	ID      string     `json:"id"`
	OwnerID string     `json:"ownerId,omitempty"` // device refs only
}

// ParseEntityRef converts a raw id, with or without the legacy device prefix,
// into a typed reference.
func ParseEntityRef(raw string) EntityRef {
	if rest, ok := strings.CutPrefix(raw, devicePrefix); ok {
		return EntityRef{Kind: KindDevice, ID: rest}
	}
	return EntityRef{Kind: KindPerson, ID: raw}
}

// EntityID returns the person-level id for this ref: the owner for devices
// when known, otherwise the bare id.
func (r EntityRef) EntityID() string {
	if r.Kind == KindDevice && r.OwnerID != "" {
		return r.OwnerID
	}
	return r.ID
}

// Legacy renders the ref back in the prefixed wire form consumed by deep links.
func (r EntityRef) Legacy() string {
	if r.Kind == KindDevice {
		return devicePrefix + r.ID
	}
	return r.ID
}

// LinkedDevice is one device attributed to a person.
type LinkedDevice struct {
	DeviceID   string `json:"deviceId" db:"device_id"`
	DeviceName string `json:"deviceName" db:"device_name"`
	DeviceType string `json:"deviceType" db:"device_type"`
	IsBurner   bool   `json:"isBurner" db:"is_burner"`
	LinkStatus string `json:"linkStatus,omitempty" db:"link_status"`
}

// Suspect is a ranked person entity. LinkedDevices is filled in later by a
// separate link-status resolution pass; that update must not clobber the
// other fields, so it mutates the slice in place on the loaded record.
type Suspect struct {
	ID              string         `json:"id" db:"id"`
	Name            string         `json:"name" db:"name"`
	OriginalName    string         `json:"originalName,omitempty" db:"original_name"`
	CustomTitle     string         `json:"customTitle,omitempty" db:"custom_title"`
	HasCustomTitle  bool           `json:"hasCustomTitle" db:"has_custom_title"`
	Alias           string         `json:"alias" db:"alias"`
	ThreatLevel     string         `json:"threatLevel" db:"threat_level"`
	CriminalHistory string         `json:"criminalHistory" db:"criminal_history"`
	LinkedDevices   []LinkedDevice `json:"linkedDevices"`
	LinkedCities    []string       `json:"linkedCities"`
	TotalScore      float64        `json:"totalScore" db:"total_score"`
	Rank            int            `json:"rank" db:"rank"`
	IsSuspect       bool           `json:"isSuspect" db:"is_suspect"`
}

// EntityStats summarizes a full entity load.
type EntityStats struct {
	PersonCount  int `json:"personCount"`
	DeviceCount  int `json:"deviceCount"`
	SuspectCount int `json:"suspectCount"`
	LinkedCount  int `json:"linkedCount"`
}

// EntitiesWithLinkStatus is the combined payload for the entity explorer.
type EntitiesWithLinkStatus struct {
	Persons []Suspect      `json:"persons"`
	Devices []LinkedDevice `json:"devices"`
	Stats   EntityStats    `json:"stats"`
}
