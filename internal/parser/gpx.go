package parser

import (
	"time"

	"github.com/tkrajina/gpxgo/gpx"
	"go.uber.org/zap"

	"github.com/jengzang/routescore-backend-go/internal/models"
)

// parseGPX flattens tracks (track -> segment -> point) and then routes, in document order
func (p *Parser) parseGPX(data []byte) Result {
	doc, err := gpx.ParseBytes(data)
	if err != nil {
		p.log.Warn("failed to parse GPX", zap.Error(err))
		return failed(NameGPXParseError)
	}

	var points []models.TrackPoint
	for _, track := range doc.Tracks {
		for _, segment := range track.Segments {
			for i := range segment.Points {
				points = append(points, fromGPXPoint(&segment.Points[i]))
			}
		}
	}
	for _, route := range doc.Routes {
		for i := range route.Points {
			points = append(points, fromGPXPoint(&route.Points[i]))
		}
	}
	if points == nil {
		points = []models.TrackPoint{}
	}

	return Result{Name: gpxName(doc), Points: points}
}

func gpxName(doc *gpx.GPX) string {
	switch {
	case doc.Name != "":
		return doc.Name
	case len(doc.Tracks) > 0 && doc.Tracks[0].Name != "":
		return doc.Tracks[0].Name
	case len(doc.Routes) > 0 && doc.Routes[0].Name != "":
		return doc.Routes[0].Name
	}
	return models.RouteNameUnknown
}

func fromGPXPoint(pt *gpx.GPXPoint) models.TrackPoint {
	tp := models.TrackPoint{
		Latitude:  pt.Latitude,
		Longitude: pt.Longitude,
	}
	if pt.Elevation.NotNull() {
		tp.Elevation = floatPtr(pt.Elevation.Value())
	}
	if !pt.Timestamp.IsZero() {
		ts := pt.Timestamp.In(time.UTC)
		tp.Time = &ts
	}
	return tp
}
