package models

import "time"

// TrackPoint represents one GPS sample of a recorded route.
// Elevation and Time are nil when the source file does not carry them.
type TrackPoint struct {
	Latitude  float64    `json:"lat"`
	Longitude float64    `json:"lon"`
	Elevation *float64   `json:"ele,omitempty"`
	Time      *time.Time `json:"time,omitempty"`
}

// HasElevation reports whether the point carries an elevation sample
func (p TrackPoint) HasElevation() bool {
	return p.Elevation != nil
}

// Elevations returns the elevation series of a point sequence, nil where absent
func Elevations(points []TrackPoint) []*float64 {
	out := make([]*float64, len(points))
	for i := range points {
		out[i] = points[i].Elevation
	}
	return out
}

// WithElevations returns a copy of points with elevations replaced by the given series.
// Latitude, longitude and time are copied unchanged; len(elevations) must equal len(points).
func WithElevations(points []TrackPoint, elevations []*float64) []TrackPoint {
	out := make([]TrackPoint, len(points))
	for i, p := range points {
		p.Elevation = elevations[i]
		out[i] = p
	}
	return out
}

// ProfilePoint is one point of the elevation profile served to map renderers
type ProfilePoint struct {
	Lat  float64  `json:"lat"`
	Lon  float64  `json:"lon"`
	Ele  *float64 `json:"ele"`
	Dist float64  `json:"dist"` // Cumulative distance in kilometers
}
