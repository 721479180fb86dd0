package parser

import (
	"bytes"
	"math"
	"strings"

	"github.com/tormoder/fit"
	"go.uber.org/zap"

	"github.com/jengzang/routescore-backend-go/internal/models"
)

func (p *Parser) parseFIT(data []byte) Result {
	file, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		p.log.Warn("failed to decode FIT", zap.Error(err))
		return failed(NameFITParseError)
	}

	activity, err := file.Activity()
	if err != nil {
		p.log.Warn("FIT file is not an activity", zap.Error(err))
		return failed(NameFITParseError)
	}

	name := "FIT Activity"
	if len(activity.Sessions) > 0 && activity.Sessions[0] != nil {
		if sport := activity.Sessions[0].Sport; sport != fit.SportInvalid {
			name = "FIT Activity: " + strings.TrimSpace(sport.String())
		}
	}

	points := []models.TrackPoint{}
	for _, rec := range activity.Records {
		if rec == nil {
			continue
		}
		if rec.PositionLat.Invalid() || rec.PositionLong.Invalid() {
			continue
		}
		// Devices write 0,0 before the first fix.
		if rec.PositionLat.Semicircles() == 0 && rec.PositionLong.Semicircles() == 0 {
			continue
		}

		pt := models.TrackPoint{
			Latitude:  rec.PositionLat.Degrees(),
			Longitude: rec.PositionLong.Degrees(),
		}

		alt := rec.GetEnhancedAltitudeScaled()
		if math.IsNaN(alt) {
			alt = rec.GetAltitudeScaled()
		}
		if !math.IsNaN(alt) {
			pt.Elevation = floatPtr(alt)
		}

		if !rec.Timestamp.IsZero() && !fit.IsBaseTime(rec.Timestamp) {
			ts := rec.Timestamp.UTC()
			pt.Time = &ts
		}
		points = append(points, pt)
	}

	return Result{Name: name, Points: points}
}
