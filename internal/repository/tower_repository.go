package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/caselink/analytics-backend-go/internal/models"
)

// TowerRepository handles database operations for cell towers
type TowerRepository struct {
	db *sql.DB
}

// NewTowerRepository creates a new tower repository
func NewTowerRepository(db *sql.DB) *TowerRepository {
	return &TowerRepository{db: db}
}

// All returns every tower keyed by id.
func (r *TowerRepository) All(ctx context.Context) (map[string]models.CellTower, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, lat, lng, city FROM towers")
	if err != nil {
		return nil, fmt.Errorf("failed to query towers: %w", err)
	}
	defer rows.Close()

	towers := make(map[string]models.CellTower)
	for rows.Next() {
		var t models.CellTower
		if err := rows.Scan(&t.ID, &t.Name, &t.Lat, &t.Lng, &t.City); err != nil {
			return nil, fmt.Errorf("failed to scan tower: %w", err)
		}
		towers[t.ID] = t
	}
	return towers, rows.Err()
}
