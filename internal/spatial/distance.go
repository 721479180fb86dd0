package spatial

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// HaversineKm returns the great-circle distance between two points in kilometers.
// s2's angular distance is the haversine formula on the unit sphere.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// HaversineMeters calculates the great-circle distance between two points in meters
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineKm(lat1, lon1, lat2, lon2) * 1000
}

// OffsetNorth returns the latitude reached by moving the given number of meters due north.
// Used to build fixtures with exact spacing along a meridian.
func OffsetNorth(lat, meters float64) float64 {
	angle := s1.Angle(meters / EarthRadiusMeters)
	return lat + angle.Degrees()
}

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
)
