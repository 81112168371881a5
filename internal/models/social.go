package models

// SocialEdge is a known relationship between two person entities.
type SocialEdge struct {
	EntityID1        string  `json:"entityId1" db:"entity_id_1"`
	EntityID2        string  `json:"entityId2" db:"entity_id_2"`
	RelationshipType string  `json:"relationshipType" db:"relationship_type"`
	Weight           float64 `json:"weight" db:"weight"`
	Confidence       float64 `json:"confidence" db:"confidence"`
	Source           string  `json:"source" db:"source"`
}

// SocialLogEntry is one row of the social contact log shown in the dashboard.
type SocialLogEntry struct {
	EntityID1        string  `json:"entityId1"`
	EntityName1      string  `json:"entityName1"`
	EntityID2        string  `json:"entityId2"`
	EntityName2      string  `json:"entityName2"`
	RelationshipType string  `json:"relationshipType"`
	Weight           float64 `json:"weight"`
	Source           string  `json:"source"`
}

// CoPresenceEntry is one co-location observation between two entities.
type CoPresenceEntry struct {
	EntityID1         string `json:"entityId1" db:"entity_id_1"`
	EntityID2         string `json:"entityId2" db:"entity_id_2"`
	H3Cell            string `json:"h3Cell" db:"h3_cell"`
	City              string `json:"city" db:"city"`
	CoOccurrenceCount int    `json:"coOccurrenceCount" db:"co_occurrence_count"`
	FirstSeenHour     int    `json:"firstSeenHour" db:"first_seen_hour"`
	LastSeenHour      int    `json:"lastSeenHour" db:"last_seen_hour"`
}

// CoLocationLogRequest selects co-presence entries for a set of entities.
// Mode "any" matches entries touching any listed entity; "all" requires both
// endpoints to be in the set.
type CoLocationLogRequest struct {
	EntityIDs     []string `json:"entityIds"`
	Mode          string   `json:"mode"`
	Limit         int      `json:"limit"`
	BucketMinutes int      `json:"bucketMinutes"`
}

// SocialLogRequest selects social log entries for a set of entities.
type SocialLogRequest struct {
	EntityIDs []string `json:"entityIds"`
	Limit     int      `json:"limit"`
}
