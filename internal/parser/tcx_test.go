package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tcxActivityDoc = `<?xml version="1.0" encoding="UTF-8"?>
<TrainingCenterDatabase xmlns="http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2">
<Activities><Activity Sport="Biking"><Id>2025-05-14T12:00:00Z</Id><Lap StartTime="2025-05-14T12:00:00Z">
<Track>
  <Trackpoint><Time>2025-05-14T12:00:00Z</Time><Position><LatitudeDegrees>50.0</LatitudeDegrees><LongitudeDegrees>0.0</LongitudeDegrees></Position><AltitudeMeters>10.0</AltitudeMeters></Trackpoint>
  <Trackpoint><Time>2025-05-14T12:00:30Z</Time><HeartRateBpm><Value>120</Value></HeartRateBpm></Trackpoint>
  <Trackpoint><Time>2025-05-14T12:01:00Z</Time><Position><LatitudeDegrees>50.001</LatitudeDegrees><LongitudeDegrees>0.001</LongitudeDegrees></Position><AltitudeMeters>20.0</AltitudeMeters></Trackpoint>
</Track></Lap>
<Lap StartTime="2025-05-14T12:02:00Z"><Track>
  <Trackpoint><Time>2025-05-14T12:02:00Z</Time><Position><LatitudeDegrees>50.002</LatitudeDegrees><LongitudeDegrees>0.002</LongitudeDegrees></Position></Trackpoint>
</Track></Lap>
</Activity></Activities></TrainingCenterDatabase>`

const tcxCourseDoc = `<?xml version="1.0" encoding="UTF-8"?>
<TrainingCenterDatabase xmlns="http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2">
<Courses><Course><Name>Hill Repeats</Name>
<Lap><TotalTimeSeconds>60</TotalTimeSeconds></Lap>
<Track>
  <Trackpoint><Time>2025-05-14T13:00:00Z</Time><Position><LatitudeDegrees>51.0</LatitudeDegrees><LongitudeDegrees>0.1</LongitudeDegrees></Position><AltitudeMeters>100.0</AltitudeMeters></Trackpoint>
  <Trackpoint><Time>2025-05-14T13:01:00Z</Time><Position><LatitudeDegrees>51.001</LatitudeDegrees><LongitudeDegrees>0.101</LongitudeDegrees></Position><AltitudeMeters>120.0</AltitudeMeters></Trackpoint>
</Track></Course></Courses></TrainingCenterDatabase>`

func TestParseTCX_Activity(t *testing.T) {
	res := New(nil).Parse([]byte(tcxActivityDoc), FormatTCX)

	assert.False(t, res.Failed)
	assert.Equal(t, "TCX Activity: Biking", res.Name)
	require.Len(t, res.Points, 3)

	require.NotNil(t, res.Points[1].Elevation)
	assert.Equal(t, 20.0, *res.Points[1].Elevation)
	assert.Nil(t, res.Points[2].Elevation)
	require.NotNil(t, res.Points[0].Time)
	assert.Equal(t, 12, res.Points[0].Time.Hour())
}

func TestParseTCX_CourseFallback(t *testing.T) {
	res := New(nil).Parse([]byte(tcxCourseDoc), FormatTCX)

	assert.False(t, res.Failed)
	assert.Equal(t, "Hill Repeats", res.Name)
	require.Len(t, res.Points, 2)
	assert.Equal(t, 51.001, res.Points[1].Latitude)
	assert.Equal(t, 120.0, *res.Points[1].Elevation)
}

func TestParseTCX_CourseTrackInsideLap(t *testing.T) {
	doc := `<TrainingCenterDatabase xmlns="http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2">
<Courses><Course><Lap><Track>
  <Trackpoint><Position><LatitudeDegrees>51.0</LatitudeDegrees><LongitudeDegrees>0.1</LongitudeDegrees></Position></Trackpoint>
</Track></Lap></Course></Courses></TrainingCenterDatabase>`

	res := New(nil).Parse([]byte(doc), FormatTCX)
	assert.Equal(t, "TCX Course", res.Name)
	assert.Len(t, res.Points, 1)
}

func TestParseTCX_EmptyActivityFallsBackToCourse(t *testing.T) {
	doc := `<TrainingCenterDatabase>
<Activities><Activity Sport="Running"><Lap><Track></Track></Lap></Activity></Activities>
<Courses><Course><Name>Backup</Name><Track>
  <Trackpoint><Position><LatitudeDegrees>1</LatitudeDegrees><LongitudeDegrees>2</LongitudeDegrees></Position></Trackpoint>
</Track></Course></Courses></TrainingCenterDatabase>`

	res := New(nil).Parse([]byte(doc), FormatTCX)
	assert.Equal(t, "Backup", res.Name)
	assert.Len(t, res.Points, 1)
}

func TestParseTCX_UnknownStructure(t *testing.T) {
	doc := `<TrainingCenterDatabase><Workouts/></TrainingCenterDatabase>`

	res := New(nil).Parse([]byte(doc), FormatTCX)
	assert.True(t, res.Failed)
	assert.Equal(t, NameTCXUnknownStructure, res.Name)
	assert.Empty(t, res.Points)
}

func TestParseTCX_Malformed(t *testing.T) {
	p := New(nil)

	res := p.Parse([]byte("this is not xml"), FormatTCX)
	assert.True(t, res.Failed)
	assert.Equal(t, NameTCXParseError, res.Name)

	// Well-formed XML with the wrong root element
	res = p.Parse([]byte(gpxWithMetadata), FormatTCX)
	assert.Equal(t, NameTCXParseError, res.Name)
	assert.Empty(t, res.Points)
}
