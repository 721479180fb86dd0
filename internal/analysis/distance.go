package analysis

import (
	"github.com/jengzang/routescore-backend-go/internal/models"
	"github.com/jengzang/routescore-backend-go/internal/spatial"
)

// TotalDistanceKm sums the great-circle distance between consecutive points
func TotalDistanceKm(points []models.TrackPoint) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += segmentKm(points[i-1], points[i])
	}
	return total
}

// ElevationGain sums positive elevation deltas between consecutive points.
// Descents are ignored, not subtracted; pairs missing an elevation contribute nothing.
func ElevationGain(points []models.TrackPoint) float64 {
	var gain float64
	for i := 1; i < len(points); i++ {
		if delta, ok := elevationDelta(points[i-1], points[i]); ok && delta > 0 {
			gain += delta
		}
	}
	return gain
}

// ProfilePass is the result of one walk over the (smoothed) sequence
type ProfilePass struct {
	GainM        float64
	DownhillKm   float64
	CumulativeKm []float64 // Distance from the first point, one entry per point
}

// WalkProfile accumulates elevation gain, descending distance and cumulative
// distance in a single pass
func WalkProfile(points []models.TrackPoint) ProfilePass {
	pass := ProfilePass{CumulativeKm: make([]float64, len(points))}

	for i := 1; i < len(points); i++ {
		km := segmentKm(points[i-1], points[i])
		pass.CumulativeKm[i] = pass.CumulativeKm[i-1] + km

		delta, ok := elevationDelta(points[i-1], points[i])
		if !ok {
			continue
		}
		switch {
		case delta > 0:
			pass.GainM += delta
		case delta < 0:
			pass.DownhillKm += km
		}
	}

	return pass
}

// ProportionDownhill returns downhill / total, or 0 for a zero-length route
func ProportionDownhill(downhillKm, totalKm float64) float64 {
	if totalKm <= 0 {
		return 0
	}
	return downhillKm / totalKm
}

func segmentKm(a, b models.TrackPoint) float64 {
	return spatial.HaversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

func segmentMeters(a, b models.TrackPoint) float64 {
	return spatial.HaversineMeters(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// elevationDelta returns b - a; ok is false when either sample is missing
func elevationDelta(a, b models.TrackPoint) (float64, bool) {
	if !a.HasElevation() || !b.HasElevation() {
		return 0, false
	}
	return *b.Elevation - *a.Elevation, true
}
