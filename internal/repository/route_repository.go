package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/routescore-backend-go/internal/models"
)

// RouteRepository handles database operations for scored routes
type RouteRepository struct {
	db *sql.DB
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create stores a route; a missing ID is generated
func (r *RouteRepository) Create(ctx context.Context, route *models.Route) error {
	if route.ID == "" {
		route.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	route.CreatedAt, route.UpdatedAt = now, now

	metricsJSON, err := json.Marshal(route.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode route metrics: %w", err)
	}

	query := `
		INSERT INTO routes (
			id, name, file_name, format, profile, difficulty,
			distance_km, tega, metrics_json, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var distanceKm, tega float64
	if route.Metrics != nil {
		distanceKm, tega = route.Metrics.DistanceKm, route.Metrics.TEGa
	}

	_, err = r.db.ExecContext(ctx, query,
		route.ID,
		route.Name,
		route.FileName,
		route.Format,
		route.Profile,
		route.Difficulty,
		distanceKm,
		tega,
		string(metricsJSON),
		route.CreatedAt,
		route.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}

	return nil
}

// GetByID retrieves a route with its full metric bundle; nil when it does not exist
func (r *RouteRepository) GetByID(ctx context.Context, id string) (*models.Route, error) {
	query := `
		SELECT id, name, file_name, format, profile, difficulty, metrics_json, created_at, updated_at
		FROM routes
		WHERE id = ?
	`

	var route models.Route
	var metricsJSON string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&route.ID,
		&route.Name,
		&route.FileName,
		&route.Format,
		&route.Profile,
		&route.Difficulty,
		&metricsJSON,
		&route.CreatedAt,
		&route.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	route.Metrics = &models.RouteMetrics{}
	if err := json.Unmarshal([]byte(metricsJSON), route.Metrics); err != nil {
		return nil, fmt.Errorf("failed to decode metrics of route %s: %w", id, err)
	}

	return &route, nil
}

// List retrieves route summaries with filtering and pagination, newest first
func (r *RouteRepository) List(ctx context.Context, filter models.RouteFilter) ([]models.RouteSummary, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.MinDifficulty > 0 {
		conditions = append(conditions, "difficulty >= ?")
		args = append(args, filter.MinDifficulty)
	}
	if filter.MaxDifficulty > 0 {
		conditions = append(conditions, "difficulty <= ?")
		args = append(args, filter.MaxDifficulty)
	}
	if filter.Format != "" {
		conditions = append(conditions, "format = ?")
		args = append(args, filter.Format)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM routes"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count routes: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := `SELECT id, name, format, profile, difficulty, distance_km, tega, created_at FROM routes` +
		where + " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	routes := []models.RouteSummary{}
	for rows.Next() {
		var s models.RouteSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Format, &s.Profile, &s.Difficulty, &s.DistanceKm, &s.TEGa, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan route: %w", err)
		}
		routes = append(routes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate routes: %w", err)
	}

	return routes, total, nil
}

// UpdateDifficulty stores a recomputed score; the metric bundle itself is never rewritten
func (r *RouteRepository) UpdateDifficulty(ctx context.Context, id, profile string, difficulty float64) (bool, error) {
	query := `UPDATE routes SET profile = ?, difficulty = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, profile, difficulty, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("failed to update route difficulty: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a route; it reports whether a row was deleted
func (r *RouteRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM routes WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete route: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}
