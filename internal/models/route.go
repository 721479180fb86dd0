package models

import "time"

// Route is a scored route recording as stored by the service
type Route struct {
	ID         string        `json:"id" db:"id"`
	Name       string        `json:"name" db:"name"`
	FileName   string        `json:"fileName" db:"file_name"`
	Format     string        `json:"format" db:"format"`
	Profile    string        `json:"profile" db:"profile"`
	Difficulty float64       `json:"difficulty" db:"difficulty"`
	Metrics    *RouteMetrics `json:"metrics" db:"metrics_json"`
	CreatedAt  time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time     `json:"updatedAt" db:"updated_at"`
}

// RouteSummary is the list view of a route, without the track profile
type RouteSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Format     string    `json:"format"`
	Profile    string    `json:"profile"`
	Difficulty float64   `json:"difficulty"`
	DistanceKm float64   `json:"distanceKm"`
	TEGa       float64   `json:"TEGa"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RouteFilter represents filter parameters for listing routes
type RouteFilter struct {
	MinDifficulty float64 `form:"minDifficulty"`
	MaxDifficulty float64 `form:"maxDifficulty"`
	Format        string  `form:"format"`
	Page          int     `form:"page"`
	PageSize      int     `form:"pageSize"`
}

// RoutesResponse represents a paginated response of routes
type RoutesResponse struct {
	Data       []RouteSummary `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}
