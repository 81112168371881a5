package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/caselink/analytics-backend-go/internal/models"
)

// EntityRepository handles database operations for persons and devices
type EntityRepository struct {
	db *sql.DB
}

// NewEntityRepository creates a new entity repository
func NewEntityRepository(db *sql.DB) *EntityRepository {
	return &EntityRepository{db: db}
}

// Persons returns all person entities with custom titles applied, linked
// cities attached, and devices left empty for a later link-status pass.
func (r *EntityRepository) Persons(ctx context.Context) ([]models.Suspect, error) {
	query := `
		SELECT p.id, p.name, p.alias, p.threat_level, p.criminal_history,
			p.total_score, p.rank, p.is_suspect, ct.title
		FROM persons p
		LEFT JOIN custom_titles ct ON ct.kind = 'person' AND ct.entity_id = p.id
		ORDER BY p.rank, p.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query persons: %w", err)
	}
	defer rows.Close()

	var persons []models.Suspect
	for rows.Next() {
		var s models.Suspect
		var title sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.Alias, &s.ThreatLevel, &s.CriminalHistory,
			&s.TotalScore, &s.Rank, &s.IsSuspect, &title); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		if title.Valid {
			s.OriginalName = s.Name
			s.CustomTitle = title.String
			s.HasCustomTitle = true
			s.Name = title.String
		}
		persons = append(persons, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range persons {
		cities, err := r.linkedCities(ctx, persons[i].ID)
		if err != nil {
			return nil, err
		}
		persons[i].LinkedCities = cities
	}
	return persons, nil
}

// Devices returns all devices.
func (r *EntityRepository) Devices(ctx context.Context) ([]models.LinkedDevice, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, device_type, is_burner, link_status FROM devices ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	var devices []models.LinkedDevice
	for rows.Next() {
		var d models.LinkedDevice
		if err := rows.Scan(&d.DeviceID, &d.DeviceName, &d.DeviceType, &d.IsBurner, &d.LinkStatus); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

// DevicesByOwner returns device lists keyed by owner id. Used by the
// link-status pass that fills Suspect.LinkedDevices in place.
func (r *EntityRepository) DevicesByOwner(ctx context.Context) (map[string][]models.LinkedDevice, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT owner_id, id, name, device_type, is_burner, link_status FROM devices WHERE owner_id IS NOT NULL ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query devices by owner: %w", err)
	}
	defer rows.Close()

	byOwner := make(map[string][]models.LinkedDevice)
	for rows.Next() {
		var owner string
		var d models.LinkedDevice
		if err := rows.Scan(&owner, &d.DeviceID, &d.DeviceName, &d.DeviceType, &d.IsBurner, &d.LinkStatus); err != nil {
			return nil, fmt.Errorf("failed to scan owned device: %w", err)
		}
		byOwner[owner] = append(byOwner[owner], d)
	}
	return byOwner, rows.Err()
}

// SetTitle stores a custom display title for a person or device.
func (r *EntityRepository) SetTitle(ctx context.Context, kind, entityID, title string) error {
	kind = strings.ToLower(kind)
	if kind != string(models.KindPerson) && kind != string(models.KindDevice) {
		return fmt.Errorf("invalid entity kind %q", kind)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO custom_titles (kind, entity_id, title) VALUES (?, ?, ?)
		ON CONFLICT(kind, entity_id) DO UPDATE SET title = excluded.title`,
		kind, entityID, title)
	if err != nil {
		return fmt.Errorf("failed to set title for %s/%s: %w", kind, entityID, err)
	}
	return nil
}

// DeleteTitle removes a custom title, restoring the original name.
func (r *EntityRepository) DeleteTitle(ctx context.Context, kind, entityID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM custom_titles WHERE kind = ? AND entity_id = ?",
		strings.ToLower(kind), entityID)
	if err != nil {
		return fmt.Errorf("failed to delete title for %s/%s: %w", kind, entityID, err)
	}
	return nil
}

func (r *EntityRepository) linkedCities(ctx context.Context, personID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT city FROM person_cities WHERE person_id = ? ORDER BY city", personID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cities for %s: %w", personID, err)
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}
