package models

// Case is an investigative case record.
type Case struct {
	ID            string  `json:"caseId" db:"id"`
	CaseType      string  `json:"caseType" db:"case_type"`
	City          string  `json:"city" db:"city"`
	State         string  `json:"state" db:"state"`
	Address       string  `json:"address" db:"address"`
	IncidentHour  int     `json:"incidentHour" db:"incident_hour"`
	Lat           float64 `json:"lat" db:"lat"`
	Lng           float64 `json:"lng" db:"lng"`
	H3Cell        string  `json:"h3Cell" db:"h3_cell"`
	MethodOfEntry string  `json:"methodOfEntry" db:"method_of_entry"`
	TargetItems   string  `json:"targetItems" db:"target_items"`
	EstimatedLoss float64 `json:"estimatedLoss" db:"estimated_loss"`
	Narrative     string  `json:"narrative" db:"narrative"`
	Status        string  `json:"status" db:"status"`
}
