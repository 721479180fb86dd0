package analysis

import (
	"github.com/jengzang/routescore-backend-go/internal/models"
	"github.com/jengzang/routescore-backend-go/internal/spatial"
)

// leg is a run of equally spaced points along the prime meridian
type leg struct {
	steps int
	stepM float64
	riseM float64 // Elevation change per step
}

// meridianTrack lays legs end to end northwards from the equator, starting at startEle
func meridianTrack(startEle float64, legs ...leg) []models.TrackPoint {
	dist, ele := 0.0, startEle
	points := []models.TrackPoint{point(spatial.OffsetNorth(0, dist), 0, ele)}

	for _, l := range legs {
		for i := 0; i < l.steps; i++ {
			dist += l.stepM
			ele += l.riseM
			points = append(points, point(spatial.OffsetNorth(0, dist), 0, ele))
		}
	}
	return points
}

func point(lat, lon, ele float64) models.TrackPoint {
	return models.TrackPoint{Latitude: lat, Longitude: lon, Elevation: &ele}
}

func bare(lat, lon float64) models.TrackPoint {
	return models.TrackPoint{Latitude: lat, Longitude: lon}
}

// equatorFlat is four points on the equator at constant elevation, about 50 km long
func equatorFlat() []models.TrackPoint {
	return []models.TrackPoint{
		point(0, 0, 10),
		point(0, 0.15, 10),
		point(0, 0.30, 10),
		point(0, 0.45, 10),
	}
}

// shortSteepClimb is 5 km, flat except for a 200 m climb of 50 m in 10 m steps
func shortSteepClimb() []models.TrackPoint {
	return meridianTrack(100,
		leg{steps: 24, stepM: 100},
		leg{steps: 20, stepM: 10, riseM: 2.5},
		leg{steps: 24, stepM: 100},
	)
}

const gpxDoc = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <metadata><name>Hill Loop</name></metadata>
  <trk>
    <name>Track</name>
    <trkseg>
      <trkpt lat="0.0" lon="0.0"><ele>100</ele></trkpt>
      <trkpt lat="0.001" lon="0.0"><ele>104</ele></trkpt>
      <trkpt lat="0.002" lon="0.0"><ele>108</ele></trkpt>
      <trkpt lat="0.003" lon="0.0"><ele>106</ele></trkpt>
      <trkpt lat="0.004" lon="0.0"><ele>101</ele></trkpt>
    </trkseg>
  </trk>
</gpx>`
