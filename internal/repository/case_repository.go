package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/caselink/analytics-backend-go/internal/models"
)

// CaseRepository handles database operations for investigative cases
type CaseRepository struct {
	db *sql.DB
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

const caseColumns = `id, case_type, city, state, address, incident_hour, lat, lng,
	h3_cell, method_of_entry, target_items, estimated_loss, narrative, status`

// All returns every case, most recent incident first.
func (r *CaseRepository) All(ctx context.Context) ([]models.Case, error) {
	query := fmt.Sprintf("SELECT %s FROM cases ORDER BY incident_hour DESC", caseColumns)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	defer rows.Close()

	var cases []models.Case
	for rows.Next() {
		c, err := scanCase(rows.Scan)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// ByID returns one case.
func (r *CaseRepository) ByID(ctx context.Context, id string) (models.Case, error) {
	query := fmt.Sprintf("SELECT %s FROM cases WHERE id = ?", caseColumns)
	c, err := scanCase(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return models.Case{}, err
	}
	if err != nil {
		return models.Case{}, fmt.Errorf("failed to query case %s: %w", id, err)
	}
	return c, nil
}

func scanCase(scan scanFunc) (models.Case, error) {
	var c models.Case
	err := scan(&c.ID, &c.CaseType, &c.City, &c.State, &c.Address, &c.IncidentHour,
		&c.Lat, &c.Lng, &c.H3Cell, &c.MethodOfEntry, &c.TargetItems,
		&c.EstimatedLoss, &c.Narrative, &c.Status)
	if err == sql.ErrNoRows {
		return c, err
	}
	if err != nil {
		return c, fmt.Errorf("failed to scan case: %w", err)
	}
	return c, nil
}
