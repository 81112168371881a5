package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/caselink/analytics-backend-go/internal/database"
	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/timeline"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// one connection, or each pool conn would see its own empty memory db
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrationManager(db, zap.NewNop()).RunMigrations())
	return db
}

func exec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	_, err := db.Exec(query, args...)
	require.NoError(t, err)
}

func fixtureDB(t *testing.T) *sql.DB {
	t.Helper()
	db := newTestDB(t)

	exec(t, db, "INSERT INTO towers (id, name, lat, lng, city) VALUES ('T_1', 'Georgetown NW', 38.9076, -77.0723, 'Washington, DC')")
	exec(t, db, "INSERT INTO towers (id, name, lat, lng, city) VALUES ('T_2', 'Belle Meade', 36.1027, -86.8569, 'Nashville')")

	insertPos := `INSERT INTO positions (device_id, hour, device_name, lat, lng, tower_id, tower_name,
		owner_id, owner_name, owner_alias, is_suspect, is_burner, device_type, city)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 'phone', 'Washington, DC')`
	exec(t, db, insertPos, "D_1", 10, "Phone (D_1)", 38.907, -77.072, "T_1", "Georgetown NW", "E_1", "Marcus Webb", "Alpha", true)
	exec(t, db, insertPos, "D_1", 11, "Phone (D_1)", 38.908, -77.071, "T_1", "Georgetown NW", "E_1", "Marcus Webb", "Alpha", true)
	exec(t, db, insertPos, "D_2", 10, "Phone (D_2)", 38.909, -77.070, nil, nil, nil, "", "", false)
	exec(t, db, insertPos, "D_3", 10, "Phone (D_3)", 38.906, -77.073, "T_1", "Georgetown NW", "E_2", "Tony Marsh", "", false)

	exec(t, db, `INSERT INTO persons (id, name, alias, threat_level, criminal_history, total_score, rank, is_suspect)
		VALUES ('E_1', 'Marcus Webb', 'Alpha', 'high', 'burglary', 0.9, 1, 1)`)
	exec(t, db, `INSERT INTO persons (id, name, alias, threat_level, criminal_history, total_score, rank, is_suspect)
		VALUES ('E_2', 'Tony Marsh', '', 'low', '', 0.1, 2, 0)`)
	exec(t, db, "INSERT INTO person_cities (person_id, city) VALUES ('E_1', 'Washington, DC'), ('E_1', 'Nashville')")

	exec(t, db, `INSERT INTO devices (id, owner_id, name, device_type, is_burner, link_status)
		VALUES ('D_1', 'E_1', 'Phone (D_1)', 'phone', 0, 'confirmed')`)
	exec(t, db, `INSERT INTO devices (id, owner_id, name, device_type, is_burner, link_status)
		VALUES ('D_9', NULL, 'Burner (D_9)', 'phone', 1, 'unresolved')`)

	exec(t, db, `INSERT INTO cases (id, case_type, city, state, incident_hour, lat, lng, address)
		VALUES ('CASE_A', 'residential_burglary', 'Washington, DC', 'DC', 38, 38.9, -77.0, '')`)
	exec(t, db, `INSERT INTO cases (id, case_type, city, state, incident_hour, lat, lng, address)
		VALUES ('CASE_B', 'residential_burglary', 'Nashville', 'TN', 15, 36.1, -86.8, '')`)

	exec(t, db, `INSERT INTO social_edges (entity_id_1, entity_id_2, relationship_type, weight, confidence, source)
		VALUES ('E_1', 'E_2', 'known_associate', 0.9, 0.95, 'arrest_records')`)
	exec(t, db, `INSERT INTO co_presence (entity_id_1, entity_id_2, h3_cell, city, co_occurrence_count, first_seen_hour, last_seen_hour)
		VALUES ('E_1', 'E_2', 'cell_a', 'Washington, DC', 3, 37, 38)`)
	exec(t, db, `INSERT INTO co_presence (entity_id_1, entity_id_2, h3_cell, city, co_occurrence_count, first_seen_hour, last_seen_hour)
		VALUES ('E_1', 'E_404', 'cell_b', 'Nashville', 1, 14, 15)`)

	return db
}

func TestPositionsByHour(t *testing.T) {
	repo := NewPositionRepository(fixtureDB(t))

	positions, err := repo.Positions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, positions, 3)
	assert.Equal(t, "D_1", positions[0].DeviceID, "ordered by device id")

	require.NotNil(t, positions[0].TowerID)
	assert.Equal(t, "T_1", *positions[0].TowerID)
	assert.Nil(t, positions[1].TowerID, "missing carrier linkage surfaces as nil")
	assert.Nil(t, positions[1].OwnerID)
	assert.True(t, positions[0].IsSuspect)
}

func TestPositionsBulkLimit(t *testing.T) {
	repo := NewPositionRepository(fixtureDB(t))

	byHour, err := repo.PositionsBulk(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, byHour[10], 1, "per-hour cap applied")
	assert.Len(t, byHour[11], 1)

	full, err := repo.PositionsBulk(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, full[10], 3, "zero means unlimited")
}

func TestTail(t *testing.T) {
	repo := NewPositionRepository(fixtureDB(t))

	tail, err := repo.Tail(context.Background(), "D_1")
	require.NoError(t, err)
	assert.Equal(t, "E_1", tail.EntityID)
	assert.Equal(t, "Marcus Webb", tail.EntityName)
	require.Len(t, tail.Trail, 2)
	assert.Equal(t, 10, tail.Trail[0].Hour)
	assert.Equal(t, 2, tail.TotalPoints)

	_, err = repo.Tail(context.Background(), "D_404")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestHotspotsWindowRestriction(t *testing.T) {
	repo := NewPositionRepository(fixtureDB(t))

	hotspots, err := repo.Hotspots(context.Background(), 10, timeline.Window{Start: 10, End: 11})
	require.NoError(t, err)
	require.Len(t, hotspots, 1)
	assert.Equal(t, "T_1", hotspots[0].TowerID)
	assert.Equal(t, 2, hotspots[0].DeviceCount, "D_1 and D_3; D_2 has no tower")
	assert.Equal(t, 1, hotspots[0].SuspectCount)

	// narrowing the window to hour 11 drops D_3, which was only seen at 10
	narrowed, err := repo.Hotspots(context.Background(), 10, timeline.Window{Start: 11, End: 11})
	require.NoError(t, err)
	require.Len(t, narrowed, 1)
	assert.Equal(t, 1, narrowed[0].DeviceCount)
}

func TestPersonsAppliesCustomTitles(t *testing.T) {
	db := fixtureDB(t)
	repo := NewEntityRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SetTitle(ctx, "person", "E_1", "Subject A"))

	persons, err := repo.Persons(ctx)
	require.NoError(t, err)
	require.Len(t, persons, 2)

	alpha := persons[0]
	assert.Equal(t, "Subject A", alpha.Name)
	assert.Equal(t, "Marcus Webb", alpha.OriginalName)
	assert.True(t, alpha.HasCustomTitle)
	assert.Equal(t, []string{"Nashville", "Washington, DC"}, alpha.LinkedCities)
	assert.Equal(t, 1, alpha.Rank)

	assert.False(t, persons[1].HasCustomTitle)

	require.NoError(t, repo.DeleteTitle(ctx, "person", "E_1"))
	persons, err = repo.Persons(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Marcus Webb", persons[0].Name, "delete restores the original name")
}

func TestSetTitleValidatesKind(t *testing.T) {
	repo := NewEntityRepository(fixtureDB(t))
	assert.Error(t, repo.SetTitle(context.Background(), "tower", "T_1", "nope"))
	assert.NoError(t, repo.SetTitle(context.Background(), "DEVICE", "D_1", "Alpha primary"))
}

func TestSetTitleUpserts(t *testing.T) {
	repo := NewEntityRepository(fixtureDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SetTitle(ctx, "person", "E_1", "First"))
	require.NoError(t, repo.SetTitle(ctx, "person", "E_1", "Second"))

	persons, err := repo.Persons(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Second", persons[0].Name)
}

func TestDevicesByOwner(t *testing.T) {
	repo := NewEntityRepository(fixtureDB(t))

	byOwner, err := repo.DevicesByOwner(context.Background())
	require.NoError(t, err)
	require.Len(t, byOwner["E_1"], 1)
	assert.Equal(t, "D_1", byOwner["E_1"][0].DeviceID)
	assert.NotContains(t, byOwner, "", "unowned devices excluded")

	devices, err := repo.Devices(context.Background())
	require.NoError(t, err)
	assert.Len(t, devices, 2, "full device list includes the unowned burner")
}

func TestCases(t *testing.T) {
	repo := NewCaseRepository(fixtureDB(t))

	cases, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "CASE_A", cases[0].ID, "most recent incident first")

	c, err := repo.ByID(context.Background(), "CASE_B")
	require.NoError(t, err)
	assert.Equal(t, "Nashville", c.City)

	_, err = repo.ByID(context.Background(), "CASE_404")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSocialLogResolvesNames(t *testing.T) {
	repo := NewSocialRepository(fixtureDB(t))

	entries, err := repo.SocialLog(context.Background(), models.SocialLogRequest{EntityIDs: []string{"E_1"}})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Marcus Webb", entries[0].EntityName1)
	assert.Equal(t, "Tony Marsh", entries[0].EntityName2)
	assert.Equal(t, "known_associate", entries[0].RelationshipType)

	empty, err := repo.SocialLog(context.Background(), models.SocialLogRequest{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCoLocationLogModes(t *testing.T) {
	repo := NewSocialRepository(fixtureDB(t))
	ctx := context.Background()

	anyMode, err := repo.CoLocationLog(ctx, models.CoLocationLogRequest{EntityIDs: []string{"E_1"}, Mode: "any"})
	require.NoError(t, err)
	assert.Len(t, anyMode, 2, "any mode matches either endpoint")

	all, err := repo.CoLocationLog(ctx, models.CoLocationLogRequest{EntityIDs: []string{"E_1", "E_2"}, Mode: "all"})
	require.NoError(t, err)
	require.Len(t, all, 1, "all mode requires both endpoints in the set")
	assert.Equal(t, 3, all[0].CoOccurrenceCount)
}
