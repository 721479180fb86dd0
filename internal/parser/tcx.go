package parser

import (
	"bytes"
	"encoding/xml"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jengzang/routescore-backend-go/internal/models"
)

// TrainingCenterDatabase documents come in two shapes: activities
// (Activities/Activity/Lap/Track/Trackpoint) and courses, which lack the
// Activities wrapper (Courses/Course/Track/Trackpoint).
type tcxDatabase struct {
	XMLName    xml.Name       `xml:"TrainingCenterDatabase"`
	Activities *tcxActivities `xml:"Activities"`
	Courses    *tcxCourses    `xml:"Courses"`
}

type tcxActivities struct {
	Activities []tcxActivity `xml:"Activity"`
}

type tcxActivity struct {
	Sport string   `xml:"Sport,attr"`
	Laps  []tcxLap `xml:"Lap"`
}

type tcxCourses struct {
	Courses []tcxCourse `xml:"Course"`
}

type tcxCourse struct {
	Name   string     `xml:"Name"`
	Laps   []tcxLap   `xml:"Lap"`
	Tracks []tcxTrack `xml:"Track"`
}

type tcxLap struct {
	Tracks []tcxTrack `xml:"Track"`
}

type tcxTrack struct {
	Trackpoints []tcxTrackpoint `xml:"Trackpoint"`
}

type tcxTrackpoint struct {
	Time           string       `xml:"Time"`
	Position       *tcxPosition `xml:"Position"`
	AltitudeMeters *float64     `xml:"AltitudeMeters"`
}

type tcxPosition struct {
	LatitudeDegrees  float64 `xml:"LatitudeDegrees"`
	LongitudeDegrees float64 `xml:"LongitudeDegrees"`
}

func (p *Parser) parseTCX(data []byte) Result {
	var doc tcxDatabase
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		p.log.Warn("failed to parse TCX", zap.Error(err))
		return failed(NameTCXParseError)
	}

	if res, ok := p.tcxActivity(&doc); ok {
		return res
	}
	p.log.Info("TCX has no activity track points, trying course structure")

	if res, ok := p.tcxCourse(&doc); ok {
		return res
	}
	p.log.Warn("TCX did not yield points from activity or course structure")
	return failed(NameTCXUnknownStructure)
}

func (p *Parser) tcxActivity(doc *tcxDatabase) (Result, bool) {
	if doc.Activities == nil || len(doc.Activities.Activities) == 0 {
		return Result{}, false
	}

	activity := doc.Activities.Activities[0]
	var points []models.TrackPoint
	for _, lap := range activity.Laps {
		points = p.appendTCXTracks(points, lap.Tracks)
	}
	if len(points) == 0 {
		return Result{}, false
	}

	name := "TCX Activity"
	if sport := strings.TrimSpace(activity.Sport); sport != "" {
		name = "TCX Activity: " + sport
	}
	return Result{Name: name, Points: points}, true
}

func (p *Parser) tcxCourse(doc *tcxDatabase) (Result, bool) {
	if doc.Courses == nil || len(doc.Courses.Courses) == 0 {
		return Result{}, false
	}

	course := doc.Courses.Courses[0]
	points := p.appendTCXTracks(nil, course.Tracks)
	for _, lap := range course.Laps {
		points = p.appendTCXTracks(points, lap.Tracks)
	}
	if len(points) == 0 {
		return Result{}, false
	}

	name := "TCX Course"
	if n := strings.TrimSpace(course.Name); n != "" {
		name = n
	}
	return Result{Name: name, Points: points}, true
}

func (p *Parser) appendTCXTracks(points []models.TrackPoint, tracks []tcxTrack) []models.TrackPoint {
	for _, track := range tracks {
		for _, tp := range track.Trackpoints {
			// Trackpoints without a position (pauses, sensor-only samples) carry no geometry
			if tp.Position == nil {
				continue
			}
			pt := models.TrackPoint{
				Latitude:  tp.Position.LatitudeDegrees,
				Longitude: tp.Position.LongitudeDegrees,
				Elevation: tp.AltitudeMeters,
			}
			if s := strings.TrimSpace(tp.Time); s != "" {
				ts, err := time.Parse(time.RFC3339, s)
				if err != nil {
					p.log.Debug("could not parse TCX time", zap.String("time", s))
				} else {
					ts = ts.UTC()
					pt.Time = &ts
				}
			}
			points = append(points, pt)
		}
	}
	return points
}
