package models

// RouteNameUnknown is used when a file carries no usable name
const RouteNameUnknown = "N/A"

// RouteMetrics is the scalar bundle extracted from one route recording.
// A bundle with DistanceKm == 0 means no metrics could be extracted.
type RouteMetrics struct {
	RouteName  string  `json:"route_name"`
	Format     string  `json:"format"`
	Smoothed   bool    `json:"smoothed"`
	DistanceKm float64 `json:"distance_km"`

	TEGa    float64 `json:"TEGa"`     // Total elevation gain over smoothed elevations (meters)
	TEGaRaw float64 `json:"TEGa_raw"` // Total elevation gain over raw elevations, diagnostic only
	PDD     float64 `json:"PDD"`      // Proportion of distance descending, 0-1
	MCg     float64 `json:"MCg"`      // Max climb gradient over ~100 m windows (%)
	ACg     float64 `json:"ACg"`      // Average gradient of significant climbs (%)
	ADg     float64 `json:"ADg"`      // Average gradient of significant descents (%)

	RawPointsCount int            `json:"raw_points_count"`
	TrackPoints    []ProfilePoint `json:"track_points"`
	StartLat       *float64       `json:"start_lat"`
	StartLon       *float64       `json:"start_lon"`
}

// NewEmptyRouteMetrics returns an all-zero bundle carrying a diagnostic name
func NewEmptyRouteMetrics(name, format string) *RouteMetrics {
	return &RouteMetrics{
		RouteName:   name,
		Format:      format,
		TrackPoints: []ProfilePoint{},
	}
}

// HasMetrics reports whether the bundle came from a usable extraction
func (m *RouteMetrics) HasMetrics() bool {
	return m != nil && m.DistanceKm > 0
}
