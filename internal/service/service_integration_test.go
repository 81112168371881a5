package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/caselink/analytics-backend-go/internal/database"
	"github.com/caselink/analytics-backend-go/internal/graph"
	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/repository"
)

func seededDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrationManager(db, zap.NewNop()).RunMigrations())
	require.NoError(t, database.Seed(db, zap.NewNop()))
	return db
}

func TestEntityServiceLoadResolvesLinkStatus(t *testing.T) {
	db := seededDB(t)
	svc := NewEntityService(repository.NewEntityRepository(db), nil, nil)

	loaded, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, loaded.Persons)
	assert.Equal(t, len(loaded.Persons), loaded.Stats.PersonCount)
	assert.Positive(t, loaded.Stats.SuspectCount)
	assert.Positive(t, loaded.Stats.LinkedCount)

	var alpha *models.Suspect
	for i := range loaded.Persons {
		if loaded.Persons[i].ID == "E_0412" {
			alpha = &loaded.Persons[i]
		}
	}
	require.NotNil(t, alpha)
	assert.True(t, alpha.IsSuspect)
	assert.Equal(t, 1, alpha.Rank)
	assert.Len(t, alpha.LinkedDevices, 2, "primary phone plus the burner")
	assert.NotEmpty(t, alpha.LinkedCities)

	progress := svc.Progress()
	assert.Equal(t, "ready", progress.Stage)
	assert.Equal(t, len(loaded.Persons), progress.Persons)
}

func TestEntityServiceSuspectsSubset(t *testing.T) {
	db := seededDB(t)
	svc := NewEntityService(repository.NewEntityRepository(db), nil, nil)

	suspects, err := svc.Suspects(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, suspects)
	for _, s := range suspects {
		assert.True(t, s.IsSuspect)
	}
}

func TestGraphServiceBuildsFilteredNetwork(t *testing.T) {
	db := seededDB(t)
	svc := NewGraphService(
		repository.NewEntityRepository(db),
		repository.NewSocialRepository(db),
		graph.DefaultConfig(), nil)

	data, err := svc.Build(context.Background(), DefaultGraphRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, data.Nodes)
	assert.NotEmpty(t, data.Links)

	// the seeded co-presence rows suppress the placeholder synthesis
	coLocation := 0
	for _, l := range data.Links {
		if l.EdgeCategory == models.EdgeCoLocation {
			coLocation++
		}
	}
	assert.Equal(t, 3, coLocation, "exactly the seeded co-presence edges")

	// focus with reachability keeps the connected component only
	focused, err := svc.Build(context.Background(), GraphRequest{
		EntityIDs:      []string{"E_0412"},
		FocusLinked:    true,
		ShowSuspects:   true,
		ShowAssociates: true,
		ShowDevices:    true,
	})
	require.NoError(t, err)
	ids := make(map[string]bool)
	for _, n := range focused.Nodes {
		ids[n.ID] = true
	}
	assert.True(t, ids["E_0412"])
	assert.True(t, ids["E_1098"], "reachable via social edge")
	assert.False(t, ids["E_5555"], "decoy has no person-to-person path")
}

func TestGraphServiceDeviceToggle(t *testing.T) {
	db := seededDB(t)
	svc := NewGraphService(
		repository.NewEntityRepository(db),
		repository.NewSocialRepository(db),
		graph.DefaultConfig(), nil)

	req := DefaultGraphRequest()
	req.ShowDevices = false
	data, err := svc.Build(context.Background(), req)
	require.NoError(t, err)
	for _, n := range data.Nodes {
		assert.NotEqual(t, models.NodeTypeDevice, n.Type)
	}
}

func TestAnalyticsServiceDetectsBurnerSwitch(t *testing.T) {
	db := seededDB(t)
	svc := NewAnalyticsService(
		repository.NewPositionRepository(db),
		repository.NewSocialRepository(db), nil)

	candidates, err := svc.Handoffs(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	top := candidates[0]
	assert.Equal(t, "E_0412", top.OldEntityID, "the seeded switch ranks first")
	assert.Equal(t, "E_7734", top.NewEntityID)
	assert.Equal(t, 1, top.HourGap)
	assert.Contains(t, top.SharedPartners, "E_1098")
}
