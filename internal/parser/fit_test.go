package parser

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"
)

type fitSample struct {
	lat, lon float64
	ele      *float64
	noFix    bool
}

func encodeActivity(t *testing.T, sport fit.Sport, samples []fitSample) []byte {
	t.Helper()

	file, err := fit.NewFile(fit.FileTypeActivity, fit.NewHeader(fit.V20, false))
	require.NoError(t, err)
	act, err := file.Activity()
	require.NoError(t, err)

	start := time.Date(2024, time.May, 1, 7, 0, 0, 0, time.UTC)
	for i, s := range samples {
		rec := fit.NewRecordMsg()
		rec.Timestamp = start.Add(time.Duration(i) * time.Second)
		if !s.noFix {
			rec.PositionLat = fit.NewLatitudeDegrees(s.lat)
			rec.PositionLong = fit.NewLongitudeDegrees(s.lon)
		}
		if s.ele != nil {
			rec.Altitude = uint16((*s.ele + 500) * 5)
		}
		act.Records = append(act.Records, rec)
	}

	if sport != fit.SportInvalid {
		session := fit.NewSessionMsg()
		session.Timestamp = start
		session.StartTime = start
		session.Sport = sport
		act.Sessions = append(act.Sessions, session)
	}

	var buf bytes.Buffer
	require.NoError(t, fit.Encode(&buf, file, binary.LittleEndian))
	return buf.Bytes()
}

func TestParse_FITActivity(t *testing.T) {
	data := encodeActivity(t, fit.SportCycling, []fitSample{
		{lat: 51.000, lon: -0.100, ele: floatPtr(100)},
		{noFix: true, ele: floatPtr(105)},
		{lat: 51.001, lon: -0.100, ele: floatPtr(110)},
		{lat: 51.002, lon: -0.100},
	})

	res := New(nil).Parse(data, FormatFIT)

	require.False(t, res.Failed)
	assert.Equal(t, "FIT Activity: Cycling", res.Name)
	require.Len(t, res.Points, 3, "records without a position fix are dropped")

	for i, want := range []float64{51.000, 51.001, 51.002} {
		assert.InDelta(t, want, res.Points[i].Latitude, 1e-6)
		assert.InDelta(t, -0.100, res.Points[i].Longitude, 1e-6)
		require.NotNil(t, res.Points[i].Time)
	}

	require.NotNil(t, res.Points[0].Elevation)
	assert.InDelta(t, 100, *res.Points[0].Elevation, 1e-9)
	require.NotNil(t, res.Points[1].Elevation)
	assert.InDelta(t, 110, *res.Points[1].Elevation, 1e-9)
	assert.Nil(t, res.Points[2].Elevation, "unset altitude is not a zero elevation")

	assert.Equal(t, 2*time.Second, res.Points[1].Time.Sub(*res.Points[0].Time))
}

func TestParse_FITWithoutSession(t *testing.T) {
	data := encodeActivity(t, fit.SportInvalid, []fitSample{
		{lat: 45.5, lon: 6.2, ele: floatPtr(1200)},
		{lat: 45.6, lon: 6.2, ele: floatPtr(1250)},
	})

	res := New(nil).Parse(data, FormatFIT)

	assert.False(t, res.Failed)
	assert.Equal(t, "FIT Activity", res.Name)
	assert.Len(t, res.Points, 2)
}
