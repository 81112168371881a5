package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/caselink/analytics-backend-go/internal/models"
)

// SocialRepository handles database operations for social and co-presence edges
type SocialRepository struct {
	db *sql.DB
}

// NewSocialRepository creates a new social repository
func NewSocialRepository(db *sql.DB) *SocialRepository {
	return &SocialRepository{db: db}
}

// SocialLog returns social edges touching any of the requested entities,
// with person names resolved for display.
func (r *SocialRepository) SocialLog(ctx context.Context, req models.SocialLogRequest) ([]models.SocialLogEntry, error) {
	if len(req.EntityIDs) == 0 {
		return nil, nil
	}
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(req.EntityIDs)), ",")
	query := fmt.Sprintf(`
		SELECT e.entity_id_1, COALESCE(p1.name, e.entity_id_1),
			e.entity_id_2, COALESCE(p2.name, e.entity_id_2),
			e.relationship_type, e.weight, e.source
		FROM social_edges e
		LEFT JOIN persons p1 ON p1.id = e.entity_id_1
		LEFT JOIN persons p2 ON p2.id = e.entity_id_2
		WHERE e.entity_id_1 IN (%s) OR e.entity_id_2 IN (%s)
		ORDER BY e.weight DESC
		LIMIT ?`, placeholders, placeholders)

	args := make([]any, 0, 2*len(req.EntityIDs)+1)
	for i := 0; i < 2; i++ {
		for _, id := range req.EntityIDs {
			args = append(args, id)
		}
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query social log: %w", err)
	}
	defer rows.Close()

	var entries []models.SocialLogEntry
	for rows.Next() {
		var e models.SocialLogEntry
		if err := rows.Scan(&e.EntityID1, &e.EntityName1, &e.EntityID2, &e.EntityName2,
			&e.RelationshipType, &e.Weight, &e.Source); err != nil {
			return nil, fmt.Errorf("failed to scan social log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CoLocationLog returns co-presence entries for the requested entities.
// Mode "all" requires both endpoints in the set; anything else matches
// entries touching any listed entity.
func (r *SocialRepository) CoLocationLog(ctx context.Context, req models.CoLocationLogRequest) ([]models.CoPresenceEntry, error) {
	if len(req.EntityIDs) == 0 {
		return nil, nil
	}
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(req.EntityIDs)), ",")
	operator := "OR"
	if req.Mode == "all" {
		operator = "AND"
	}
	query := fmt.Sprintf(`
		SELECT entity_id_1, entity_id_2, h3_cell, city, co_occurrence_count,
			first_seen_hour, last_seen_hour
		FROM co_presence
		WHERE entity_id_1 IN (%s) %s entity_id_2 IN (%s)
		ORDER BY co_occurrence_count DESC
		LIMIT ?`, placeholders, operator, placeholders)

	args := make([]any, 0, 2*len(req.EntityIDs)+1)
	for i := 0; i < 2; i++ {
		for _, id := range req.EntityIDs {
			args = append(args, id)
		}
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query co-location log: %w", err)
	}
	defer rows.Close()

	var entries []models.CoPresenceEntry
	for rows.Next() {
		var e models.CoPresenceEntry
		if err := rows.Scan(&e.EntityID1, &e.EntityID2, &e.H3Cell, &e.City,
			&e.CoOccurrenceCount, &e.FirstSeenHour, &e.LastSeenHour); err != nil {
			return nil, fmt.Errorf("failed to scan co-presence entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Edges returns all social edges, used by graph building and ranking.
func (r *SocialRepository) Edges(ctx context.Context) ([]models.SocialEdge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT entity_id_1, entity_id_2, relationship_type, weight, confidence, source
		FROM social_edges`)
	if err != nil {
		return nil, fmt.Errorf("failed to query social edges: %w", err)
	}
	defer rows.Close()

	var edges []models.SocialEdge
	for rows.Next() {
		var e models.SocialEdge
		if err := rows.Scan(&e.EntityID1, &e.EntityID2, &e.RelationshipType,
			&e.Weight, &e.Confidence, &e.Source); err != nil {
			return nil, fmt.Errorf("failed to scan social edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// CoPresenceEdges returns all co-presence rows, used by graph building.
func (r *SocialRepository) CoPresenceEdges(ctx context.Context) ([]models.CoPresenceEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT entity_id_1, entity_id_2, h3_cell, city, co_occurrence_count,
			first_seen_hour, last_seen_hour
		FROM co_presence`)
	if err != nil {
		return nil, fmt.Errorf("failed to query co-presence edges: %w", err)
	}
	defer rows.Close()

	var edges []models.CoPresenceEntry
	for rows.Next() {
		var e models.CoPresenceEntry
		if err := rows.Scan(&e.EntityID1, &e.EntityID2, &e.H3Cell, &e.City,
			&e.CoOccurrenceCount, &e.FirstSeenHour, &e.LastSeenHour); err != nil {
			return nil, fmt.Errorf("failed to scan co-presence edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
