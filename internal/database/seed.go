package database

import (
	"database/sql"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/ranking"
	"github.com/caselink/analytics-backend-go/internal/spatial"
	"github.com/caselink/analytics-backend-go/internal/timeline"
)

// Demo scenario constants: a traveling burglary crew hits Nashville on day 1
// and Washington on day 2, then the primary suspect switches to a burner
// phone one hour after the DC incident.
const (
	seedRandom = 42

	suspectAlphaID = "E_0412"
	suspectBravoID = "E_1098"
	burnerDeviceID = "E_7734"
	fenceID        = "E_9901"
	decoyID        = "E_5555"

	nashvilleIncidentHour = 15 // day 1, 3 pm
	dcIncidentHour        = 38 // day 2, 2 pm
	burnerSwitchHour      = 39

	dcIncidentDeviceCount = 50
)

type seedTower struct {
	id, name, city string
	lat, lng       float64
}

var seedTowers = []seedTower{
	{"T_DC_01", "Georgetown NW", "Washington, DC", 38.9076, -77.0723},
	{"T_DC_02", "Connecticut Ave", "Washington, DC", 38.9339, -77.0465},
	{"T_TN_01", "Belle Meade", "Nashville", 36.1027, -86.8569},
	{"T_TN_02", "Downtown Broadway", "Nashville", 36.1627, -86.7816},
	{"T_MD_01", "Inner Harbor", "Baltimore", 39.2904, -76.6122},
	{"T_VA_01", "Clarendon", "Arlington", 38.8816, -77.0910},
}

type seedPerson struct {
	id, name, alias, threat, history, homeCity string
	isSuspect                                  bool
	cities                                     []string
}

var seedPersons = []seedPerson{
	{suspectAlphaID, "Marcus Webb", "Alpha", "high",
		"Burglary (2019), possession of stolen property (2021), larceny (2022)",
		"Washington, DC", true, []string{"Washington, DC", "Nashville", "Arlington"}},
	{suspectBravoID, "Darnell Price", "Bravo", "high",
		"Breaking and entering (2020), co-arrested with E_0412 (2021)",
		"Washington, DC", true, []string{"Washington, DC", "Nashville"}},
	{fenceID, "Victor Osei", "The Broker", "medium",
		"Receiving stolen goods (2018), money laundering investigation closed (2023)",
		"Baltimore", false, []string{"Baltimore", "Washington, DC"}},
	{decoyID, "Tony Marsh", "", "low", "No prior record", "Washington, DC", false,
		[]string{"Washington, DC"}},
	{"E_2001", "Renee Caldwell", "", "low", "", "Washington, DC", false, []string{"Washington, DC"}},
	{"E_2002", "Omar Reyes", "", "low", "", "Washington, DC", false, []string{"Washington, DC"}},
	{"E_2003", "Janet Holloway", "", "low", "", "Nashville", false, []string{"Nashville"}},
	{"E_2004", "Curtis Boone", "", "low", "", "Nashville", false, []string{"Nashville"}},
	{"E_2005", "Priya Raman", "", "low", "", "Arlington", false, []string{"Arlington"}},
	{"E_2006", "Walt Jennings", "", "low", "", "Baltimore", false, []string{"Baltimore"}},
}

// Seed populates an empty database with the deterministic demo scenario.
// Idempotent: it refuses to run when any tower row already exists.
func Seed(db *sql.DB, logger *zap.Logger) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM towers").Scan(&count); err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if count > 0 {
		logger.Info("database already seeded, skipping")
		return nil
	}

	rng := rand.New(rand.NewSource(seedRandom))

	return Transaction(db, func(tx *sql.Tx) error {
		if err := seedTowersTable(tx); err != nil {
			return err
		}
		if err := seedEntities(tx); err != nil {
			return err
		}
		if err := seedPositions(tx, rng); err != nil {
			return err
		}
		if err := seedCases(tx); err != nil {
			return err
		}
		if err := seedEdges(tx); err != nil {
			return err
		}
		if err := seedRankings(tx); err != nil {
			return err
		}
		logger.Info("demo scenario seeded")
		return nil
	})
}

func seedTowersTable(tx *sql.Tx) error {
	for _, t := range seedTowers {
		if _, err := tx.Exec(
			"INSERT INTO towers (id, name, lat, lng, city) VALUES (?, ?, ?, ?, ?)",
			t.id, t.name, t.lat, t.lng, t.city); err != nil {
			return fmt.Errorf("failed to seed tower %s: %w", t.id, err)
		}
	}
	return nil
}

func seedEntities(tx *sql.Tx) error {
	for _, p := range seedPersons {
		if _, err := tx.Exec(`
			INSERT INTO persons (id, name, alias, threat_level, criminal_history, is_suspect, home_city)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.id, p.name, p.alias, p.threat, p.history, p.isSuspect, p.homeCity); err != nil {
			return fmt.Errorf("failed to seed person %s: %w", p.id, err)
		}
		for _, city := range p.cities {
			if _, err := tx.Exec(
				"INSERT INTO person_cities (person_id, city) VALUES (?, ?)", p.id, city); err != nil {
				return fmt.Errorf("failed to seed cities for %s: %w", p.id, err)
			}
		}
		// Primary phone shares the carrier entity id.
		if _, err := tx.Exec(`
			INSERT INTO devices (id, owner_id, name, device_type, is_burner, link_status)
			VALUES (?, ?, ?, 'phone', 0, 'confirmed')`,
			p.id, p.id, fmt.Sprintf("Phone (%s)", p.id)); err != nil {
			return fmt.Errorf("failed to seed device for %s: %w", p.id, err)
		}
	}

	// The burner appears after the switch; its ownership is what the
	// handoff detector is meant to recover, so the link starts unresolved.
	if _, err := tx.Exec(`
		INSERT INTO devices (id, owner_id, name, device_type, is_burner, link_status)
		VALUES (?, ?, ?, 'phone', 1, 'suspected')`,
		burnerDeviceID, suspectAlphaID, fmt.Sprintf("Burner (%s)", burnerDeviceID)); err != nil {
		return fmt.Errorf("failed to seed burner device: %w", err)
	}
	return nil
}

func towerByID(id string) seedTower {
	for _, t := range seedTowers {
		if t.id == id {
			return t
		}
	}
	return seedTowers[0]
}

func homeTower(city string) seedTower {
	for _, t := range seedTowers {
		if t.city == city {
			return t
		}
	}
	return seedTowers[0]
}

// insertPosition writes one (device, hour) row jittered around a tower.
// About one point in ten loses its tower linkage to exercise the geometric
// fallback in the connectivity resolver. An empty ownerID stores NULL: the
// carrier does not know who carries the device.
func insertPosition(tx *sql.Tx, rng *rand.Rand, deviceID, ownerID string, hour int, t seedTower, p seedPerson, isBurner bool) error {
	lat, lng := spatial.DestinationPoint(t.lat, t.lng, rng.Float64()*360, rng.Float64()*120)
	towerID := sql.NullString{String: t.id, Valid: true}
	towerName := sql.NullString{String: t.name, Valid: true}
	if rng.Intn(10) == 0 {
		towerID, towerName = sql.NullString{}, sql.NullString{}
	}
	owner := sql.NullString{String: ownerID, Valid: ownerID != ""}
	_, err := tx.Exec(`
		INSERT INTO positions (device_id, hour, device_name, lat, lng, tower_id, tower_name,
			owner_id, owner_name, owner_alias, is_suspect, is_burner, device_type, city)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'phone', ?)`,
		deviceID, hour, fmt.Sprintf("Phone (%s)", deviceID), lat, lng, towerID, towerName,
		owner, p.name, p.alias, p.isSuspect, isBurner, t.city)
	if err != nil {
		return fmt.Errorf("failed to seed position %s@%d: %w", deviceID, hour, err)
	}
	return nil
}

func seedPositions(tx *sql.Tx, rng *rand.Rand) error {
	for _, p := range seedPersons {
		home := homeTower(p.homeCity)
		for hour := 0; hour < timeline.HourCount; hour++ {
			t := home
			switch {
			case p.isSuspect && hour >= nashvilleIncidentHour-1 && hour <= nashvilleIncidentHour+1:
				t = towerByID("T_TN_01")
			case p.isSuspect && hour >= dcIncidentHour-1 && hour <= dcIncidentHour:
				t = towerByID("T_DC_01")
			case p.id == fenceID && hour >= 50 && hour <= 52:
				t = towerByID("T_MD_01")
			case p.id == suspectAlphaID && hour >= 50 && hour <= 52:
				// Alpha visits the fence in Baltimore after the switch, but
				// on the burner, handled below.
				continue
			}

			// The burner switch: Alpha's original phone goes dark.
			if p.id == suspectAlphaID && hour >= burnerSwitchHour {
				continue
			}
			if err := insertPosition(tx, rng, p.id, p.id, hour, t, p, false); err != nil {
				return err
			}
		}
	}

	// Burner device picks up where Alpha's phone stopped. Its carrier rows
	// are unattributed; recovering the link is the handoff detector's job.
	alpha := seedPersons[0]
	anonymous := seedPerson{id: burnerDeviceID, name: "Unattributed", homeCity: alpha.homeCity}
	for hour := burnerSwitchHour; hour < timeline.HourCount; hour++ {
		t := homeTower(alpha.homeCity)
		if hour >= 50 && hour <= 52 {
			t = towerByID("T_MD_01")
		}
		if err := insertPosition(tx, rng, burnerDeviceID, "", hour, t, anonymous, true); err != nil {
			return err
		}
	}

	// Crowd in the DC incident cell: enough anonymous devices to reach the
	// scenario's device count for that hour.
	georgetown := towerByID("T_DC_01")
	for i := 0; i < dcIncidentDeviceCount-len(seedPersons); i++ {
		anonID := fmt.Sprintf("E_%04d", 3000+i)
		anon := seedPerson{id: anonID, name: "Unattributed", homeCity: georgetown.city}
		if err := insertPosition(tx, rng, anonID, anonID, dcIncidentHour, georgetown, anon, false); err != nil {
			return err
		}
	}
	return nil
}

func seedCases(tx *sql.Tx) error {
	georgetown := towerByID("T_DC_01")
	belleMeade := towerByID("T_TN_01")
	clarendon := towerByID("T_VA_01")

	cases := []models.Case{
		{
			ID: "CASE_DC_001", CaseType: "residential_burglary", City: "Washington, DC", State: "DC",
			Address: "1423 Wisconsin Ave NW", IncidentHour: dcIncidentHour,
			Lat: georgetown.lat, Lng: georgetown.lng,
			H3Cell:        spatial.CellForCoord(georgetown.lat, georgetown.lng),
			MethodOfEntry: "rear window smash", TargetItems: "jewelry,electronics,cash",
			EstimatedLoss: 23500,
			Narrative: "Residential burglary in Georgetown. Rear window smash, single impact point. " +
				"Jewelry and small electronics taken. Two male subjects seen fleeing eastbound; " +
				"dark sedan on adjacent camera.",
			Status: "open",
		},
		{
			ID: "CASE_TN_007", CaseType: "residential_burglary", City: "Nashville", State: "TN",
			Address: "4501 Harding Pike", IncidentHour: nashvilleIncidentHour,
			Lat: belleMeade.lat, Lng: belleMeade.lng,
			H3Cell:        spatial.CellForCoord(belleMeade.lat, belleMeade.lng),
			MethodOfEntry: "rear window smash", TargetItems: "jewelry,watches,electronics,cash",
			EstimatedLoss: 24800,
			Narrative: "Belle Meade burglary. Rear window smash consistent with professional tool. " +
				"Organized search pattern; two individuals departing in dark sedan. " +
				"Similar M.O. flagged for regional series cross-reference.",
			Status: "open",
		},
		{
			ID: "CASE_VA_003", CaseType: "residential_burglary", City: "Arlington", State: "VA",
			Address: "Clarendon Blvd", IncidentHour: 51,
			Lat: clarendon.lat, Lng: clarendon.lng,
			H3Cell:        spatial.CellForCoord(clarendon.lat, clarendon.lng),
			MethodOfEntry: "rear sliding door forced", TargetItems: "jewelry,electronics",
			EstimatedLoss: 12000,
			Narrative: "Clarendon burglary. Rear sliding door forced; jewelry and electronics taken. " +
				"Two-person crew suspected from entry/exit timing. Vehicle: dark sedan.",
			Status: "open",
		},
	}

	for _, c := range cases {
		if _, err := tx.Exec(`
			INSERT INTO cases (id, case_type, city, state, address, incident_hour, lat, lng,
				h3_cell, method_of_entry, target_items, estimated_loss, narrative, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.CaseType, c.City, c.State, c.Address, c.IncidentHour, c.Lat, c.Lng,
			c.H3Cell, c.MethodOfEntry, c.TargetItems, c.EstimatedLoss, c.Narrative, c.Status); err != nil {
			return fmt.Errorf("failed to seed case %s: %w", c.ID, err)
		}
	}
	return nil
}

func seedEdges(tx *sql.Tx) error {
	socialEdges := []models.SocialEdge{
		{EntityID1: suspectAlphaID, EntityID2: suspectBravoID, RelationshipType: "known_associate", Weight: 0.9, Confidence: 0.95, Source: "arrest_records"},
		{EntityID1: suspectAlphaID, EntityID2: fenceID, RelationshipType: "fence_connection", Weight: 0.7, Confidence: 0.8, Source: "informant"},
		{EntityID1: suspectBravoID, EntityID2: fenceID, RelationshipType: "fence_connection", Weight: 0.5, Confidence: 0.6, Source: "informant"},
		{EntityID1: burnerDeviceID, EntityID2: suspectBravoID, RelationshipType: "known_associate", Weight: 0.85, Confidence: 0.7, Source: "carrier_data"},
	}
	for _, e := range socialEdges {
		if _, err := tx.Exec(`
			INSERT INTO social_edges (entity_id_1, entity_id_2, relationship_type, weight, confidence, source)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.EntityID1, e.EntityID2, e.RelationshipType, e.Weight, e.Confidence, e.Source); err != nil {
			return fmt.Errorf("failed to seed social edge: %w", err)
		}
	}

	georgetown := towerByID("T_DC_01")
	belleMeade := towerByID("T_TN_01")
	harbor := towerByID("T_MD_01")
	coPresence := []models.CoPresenceEntry{
		{EntityID1: suspectAlphaID, EntityID2: suspectBravoID,
			H3Cell: spatial.CellForCoord(georgetown.lat, georgetown.lng), City: georgetown.city,
			CoOccurrenceCount: 3, FirstSeenHour: dcIncidentHour - 1, LastSeenHour: dcIncidentHour},
		{EntityID1: suspectAlphaID, EntityID2: suspectBravoID,
			H3Cell: spatial.CellForCoord(belleMeade.lat, belleMeade.lng), City: belleMeade.city,
			CoOccurrenceCount: 2, FirstSeenHour: nashvilleIncidentHour - 1, LastSeenHour: nashvilleIncidentHour + 1},
		{EntityID1: suspectAlphaID, EntityID2: fenceID,
			H3Cell: spatial.CellForCoord(harbor.lat, harbor.lng), City: harbor.city,
			CoOccurrenceCount: 2, FirstSeenHour: 50, LastSeenHour: 52},
	}
	for _, e := range coPresence {
		if _, err := tx.Exec(`
			INSERT INTO co_presence (entity_id_1, entity_id_2, h3_cell, city, co_occurrence_count, first_seen_hour, last_seen_hour)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.EntityID1, e.EntityID2, e.H3Cell, e.City, e.CoOccurrenceCount, e.FirstSeenHour, e.LastSeenHour); err != nil {
			return fmt.Errorf("failed to seed co-presence edge: %w", err)
		}
	}
	return nil
}

// seedRankings stores suspect scores computed from the seeded evidence so
// the entity list renders ranked on first load.
func seedRankings(tx *sql.Tx) error {
	evidence := []ranking.Evidence{
		{EntityID: suspectAlphaID, IncidentHits: 5, UniqueCases: 3, StatesCount: 3, NetworkWeight: 1.6,
			LinkedCases: []string{"CASE_DC_001", "CASE_TN_007", "CASE_VA_003"},
			LinkedCities: []string{"Washington, DC", "Nashville", "Arlington"}},
		{EntityID: suspectBravoID, IncidentHits: 4, UniqueCases: 2, StatesCount: 2, NetworkWeight: 1.4,
			LinkedCases: []string{"CASE_DC_001", "CASE_TN_007"},
			LinkedCities: []string{"Washington, DC", "Nashville"}},
		{EntityID: fenceID, IncidentHits: 1, UniqueCases: 1, StatesCount: 1, NetworkWeight: 1.2,
			LinkedCases: []string{"CASE_DC_001"}, LinkedCities: []string{"Baltimore"}},
		{EntityID: decoyID, IncidentHits: 1, UniqueCases: 1, StatesCount: 1, NetworkWeight: 0,
			LinkedCases: []string{"CASE_DC_001"}, LinkedCities: []string{"Washington, DC"}},
	}
	for _, r := range ranking.Rank(evidence) {
		if _, err := tx.Exec("UPDATE persons SET total_score = ?, rank = ? WHERE id = ?",
			r.TotalScore, r.Rank, r.EntityID); err != nil {
			return fmt.Errorf("failed to store ranking for %s: %w", r.EntityID, err)
		}
	}
	return nil
}
