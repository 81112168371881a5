package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/timeline"
)

// PositionRepository handles database operations for device positions
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

const positionColumns = `device_id, device_name, lat, lng, tower_id, tower_name,
	owner_id, owner_name, owner_alias, is_suspect, is_burner, device_type, city`

// Positions returns all device positions for one simulation hour.
func (r *PositionRepository) Positions(ctx context.Context, hour int) ([]models.DevicePosition, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM positions WHERE hour = ? ORDER BY device_id", positionColumns)
	rows, err := r.db.QueryContext(ctx, query, hour)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions for hour %d: %w", hour, err)
	}
	defer rows.Close()

	return scanPositions(rows)
}

// PositionsBulk returns positions for every hour keyed by hour. limit caps
// positions per hour (0 means unlimited).
func (r *PositionRepository) PositionsBulk(ctx context.Context, limit int) (models.PositionsByHour, error) {
	query := fmt.Sprintf(
		"SELECT hour, %s FROM positions ORDER BY hour, device_id", positionColumns)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bulk positions: %w", err)
	}
	defer rows.Close()

	byHour := make(models.PositionsByHour)
	for rows.Next() {
		var hour int
		p, err := scanPositionWith(rows.Scan, &hour)
		if err != nil {
			return nil, err
		}
		if limit > 0 && len(byHour[hour]) >= limit {
			continue
		}
		byHour[hour] = append(byHour[hour], p)
	}
	return byHour, rows.Err()
}

// Tail reconstructs one device's full movement record, ordered by hour.
func (r *PositionRepository) Tail(ctx context.Context, deviceID string) (models.DeviceTail, error) {
	query := fmt.Sprintf(
		"SELECT hour, %s FROM positions WHERE device_id = ? ORDER BY hour", positionColumns)
	rows, err := r.db.QueryContext(ctx, query, deviceID)
	if err != nil {
		return models.DeviceTail{}, fmt.Errorf("failed to query tail for %s: %w", deviceID, err)
	}
	defer rows.Close()

	var tail models.DeviceTail
	found := false
	for rows.Next() {
		var hour int
		p, err := scanPositionWith(rows.Scan, &hour)
		if err != nil {
			return models.DeviceTail{}, err
		}
		if !found {
			found = true
			entityID := p.DeviceID
			if p.OwnerID != nil {
				entityID = *p.OwnerID
			}
			tail = models.DeviceTail{
				DeviceID:     p.DeviceID,
				EntityID:     entityID,
				EntityName:   p.OwnerName,
				Alias:        p.OwnerAlias,
				IsSuspect:    p.IsSuspect,
				BaseLocation: p.City,
			}
		}
		tail.Trail = append(tail.Trail, models.TrailPoint{Hour: hour, Lat: p.Lat, Lng: p.Lng, City: p.City})
	}
	if err := rows.Err(); err != nil {
		return models.DeviceTail{}, err
	}
	if !found {
		return models.DeviceTail{}, sql.ErrNoRows
	}
	tail.TotalPoints = len(tail.Trail)
	return tail, nil
}

// Hotspots aggregates per-tower device activity for one hour, restricted to
// devices also seen at the tower anywhere inside the window.
func (r *PositionRepository) Hotspots(ctx context.Context, hour int, window timeline.Window) ([]models.Hotspot, error) {
	query := `
		SELECT t.id, t.name, t.lat, t.lng, t.city,
			COUNT(DISTINCT p.device_id) AS device_count,
			COUNT(DISTINCT CASE WHEN p.is_suspect THEN p.device_id END) AS suspect_count
		FROM positions p
		JOIN towers t ON t.id = p.tower_id
		WHERE p.hour = ?
		  AND p.device_id IN (
			SELECT device_id FROM positions
			WHERE tower_id = t.id AND hour BETWEEN ? AND ?
		  )
		GROUP BY t.id, t.city
		ORDER BY device_count DESC`

	rows, err := r.db.QueryContext(ctx, query, hour, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query hotspots for hour %d: %w", hour, err)
	}
	defer rows.Close()

	var hotspots []models.Hotspot
	for rows.Next() {
		var h models.Hotspot
		if err := rows.Scan(&h.TowerID, &h.TowerName, &h.Lat, &h.Lng, &h.City,
			&h.DeviceCount, &h.SuspectCount); err != nil {
			return nil, fmt.Errorf("failed to scan hotspot: %w", err)
		}
		hotspots = append(hotspots, h)
	}
	return hotspots, rows.Err()
}

type scanFunc func(dest ...any) error

func scanPositionWith(scan scanFunc, extra ...any) (models.DevicePosition, error) {
	var p models.DevicePosition
	var towerID, towerName, ownerID sql.NullString

	dest := append(extra,
		&p.DeviceID, &p.DeviceName, &p.Lat, &p.Lng, &towerID, &towerName,
		&ownerID, &p.OwnerName, &p.OwnerAlias, &p.IsSuspect, &p.IsBurner,
		&p.DeviceType, &p.City)
	if err := scan(dest...); err != nil {
		return p, fmt.Errorf("failed to scan position: %w", err)
	}

	if towerID.Valid {
		p.TowerID = &towerID.String
	}
	if towerName.Valid {
		p.TowerName = &towerName.String
	}
	if ownerID.Valid {
		p.OwnerID = &ownerID.String
	}
	return p, nil
}

func scanPositions(rows *sql.Rows) ([]models.DevicePosition, error) {
	var positions []models.DevicePosition
	for rows.Next() {
		p, err := scanPositionWith(rows.Scan)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}
