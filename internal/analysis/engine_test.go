package analysis

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jengzang/routescore-backend-go/internal/difficulty"
	"github.com/jengzang/routescore-backend-go/internal/models"
	"github.com/jengzang/routescore-backend-go/internal/parser"
	"github.com/jengzang/routescore-backend-go/internal/spatial"
	"github.com/jengzang/routescore-backend-go/internal/tuning"
)

func noisyTrack(n int) []models.TrackPoint {
	points := make([]models.TrackPoint, n)
	for i := range points {
		points[i] = point(spatial.OffsetNorth(0, float64(i)*40), 0, 100+5*float64(i%2))
	}
	return points
}

func TestExtract_FlatEquatorRoute(t *testing.T) {
	m := ExtractRouteMetricsFromPoints("Flat", equatorFlat(), DefaultOptions())

	wantKm := 0.45 * math.Pi / 180 * spatial.EarthRadiusKm
	assert.InDelta(t, wantKm, m.DistanceKm, 1e-6)
	assert.InDelta(t, 50.04, m.DistanceKm, 0.01)
	assert.Equal(t, "Flat", m.RouteName)
	assert.Equal(t, 4, m.RawPointsCount)
	assert.False(t, m.Smoothed, "four points are fewer than the smoothing window")
	require.NotNil(t, m.StartLat, "latitude 0 is a real start")
	assert.Zero(t, *m.StartLat)

	assert.Zero(t, m.TEGa)
	assert.Zero(t, m.TEGaRaw)
	assert.Zero(t, m.PDD)
	assert.Zero(t, m.MCg)
	assert.Zero(t, m.ACg)
	assert.Zero(t, m.ADg)

	p := DefaultOptions().Params.Difficulty
	want := p.DistanceBaseAddition + p.DistanceCoefficient*m.DistanceKm*m.DistanceKm
	assert.InDelta(t, want, difficulty.Compute(m, p), 1e-9)
}

func TestExtract_ShortSteepClimb(t *testing.T) {
	opts := DefaultOptions()
	opts.ApplySmoothing = false

	m := ExtractRouteMetricsFromPoints("Wall", shortSteepClimb(), opts)

	assert.InDelta(t, 5.0, m.DistanceKm, 1e-6)
	assert.InDelta(t, 25.0, m.MCg, 1e-6)
	assert.Zero(t, m.ACg, "200 m is shorter than a significant climb")
	assert.Zero(t, m.ADg)
	assert.InDelta(t, 50.0, m.TEGa, 1e-9)
	assert.InDelta(t, 50.0, m.TEGaRaw, 1e-9)
	assert.Zero(t, m.PDD)
	assert.False(t, m.Smoothed)
}

func TestExtract_ShortSteepClimbSmoothed(t *testing.T) {
	m := ExtractRouteMetricsFromPoints("Wall", shortSteepClimb(), DefaultOptions())

	// The window spreads the ramp into the neighbouring 100 m gaps, which makes the climb long
	// enough to qualify. MCg is measured on the smoothed profile too.
	assert.True(t, m.Smoothed)
	assert.Greater(t, m.ACg, 0.0)
	assert.Less(t, m.MCg, 25.0+1e-6)
}

func TestExtract_ZeroParamsUseDefaults(t *testing.T) {
	want := ExtractRouteMetricsFromPoints("Wall", shortSteepClimb(), DefaultOptions())
	got := ExtractRouteMetricsFromPoints("Wall", shortSteepClimb(), Options{ApplySmoothing: true})

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("zero params differ from defaults (-want +got):\n%s", diff)
	}
}

func TestExtract_InvalidParamsFallBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	bad := tuning.Default()
	bad.Extraction.MCgTargetDistanceM = 0
	bad.Smoothing.WindowSize = 4

	opts := Options{ApplySmoothing: false, Params: bad, Logger: zap.New(core)}
	m := ExtractRouteMetricsFromPoints("Wall", shortSteepClimb(), opts)

	assert.InDelta(t, 25.0, m.MCg, 1e-6)
	assert.Equal(t, 1, logs.FilterMessage("invalid tuning parameters, using defaults").Len())
}

func TestExtract_ProfileAndStart(t *testing.T) {
	track := shortSteepClimb()
	m := ExtractRouteMetricsFromPoints("Wall", track, DefaultOptions())

	require.Len(t, m.TrackPoints, len(track))
	require.NotNil(t, m.StartLat)
	require.NotNil(t, m.StartLon)
	assert.Equal(t, track[0].Latitude, *m.StartLat)
	assert.Equal(t, track[0].Longitude, *m.StartLon)

	assert.Equal(t, 0.0, m.TrackPoints[0].Dist)
	assert.InDelta(t, m.DistanceKm, m.TrackPoints[len(track)-1].Dist, 1e-9)
	for i, pp := range m.TrackPoints {
		assert.Equal(t, track[i].Latitude, pp.Lat)
		assert.Equal(t, track[i].Longitude, pp.Lon)
	}
}

func TestExtract_SmoothingLowersNoisyGain(t *testing.T) {
	track := noisyTrack(40)
	m := ExtractRouteMetricsFromPoints("Noisy", track, DefaultOptions())

	assert.True(t, m.Smoothed)
	assert.Less(t, m.TEGa, m.TEGaRaw)
	assert.InDelta(t, TotalDistanceKm(track), m.DistanceKm, 1e-12, "smoothing must not change distance")

	// Boundary samples keep their recorded elevation
	for _, i := range []int{0, 1, 2, 37, 38, 39} {
		assert.Equal(t, *track[i].Elevation, *m.TrackPoints[i].Ele, "index %d", i)
	}
	assert.Equal(t, 100+5*float64(1), *track[1].Elevation, "input must not be modified")
}

func TestExtract_Deterministic(t *testing.T) {
	track := append(shortSteepClimb(), noisyTrack(30)...)

	first := ExtractRouteMetricsFromPoints("Mixed", track, DefaultOptions())
	second := ExtractRouteMetricsFromPoints("Mixed", track, DefaultOptions())

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("extraction not deterministic (-first +second):\n%s", diff)
	}
}

func TestExtract_PDDWithinBounds(t *testing.T) {
	tracks := [][]models.TrackPoint{
		equatorFlat(),
		shortSteepClimb(),
		noisyTrack(25),
		meridianTrack(900, leg{steps: 30, stepM: 50, riseM: -4}),
	}
	for i, track := range tracks {
		m := ExtractRouteMetricsFromPoints("", track, DefaultOptions())
		assert.GreaterOrEqual(t, m.PDD, 0.0, "track %d", i)
		assert.LessOrEqual(t, m.PDD, 1.0, "track %d", i)
	}

	down := ExtractRouteMetricsFromPoints("", tracks[3], DefaultOptions())
	assert.InDelta(t, 1.0, down.PDD, 1e-9)
	assert.Equal(t, models.RouteNameUnknown, down.RouteName)
}

func TestExtract_TooFewPoints(t *testing.T) {
	one := ExtractRouteMetricsFromPoints("Lonely", []models.TrackPoint{point(1, 2, 3)}, DefaultOptions())
	assert.Equal(t, "N/A (No Points)", one.RouteName)
	assert.Equal(t, 1, one.RawPointsCount)
	assert.False(t, one.HasMetrics())
	assert.Nil(t, one.StartLat)
	assert.Empty(t, one.TrackPoints)
	assert.Zero(t, difficulty.Compute(one, DefaultOptions().Params.Difficulty))

	doc := `<gpx xmlns="http://www.topografix.com/GPX/1/1" version="1.1" creator="t"><trk><trkseg><trkpt lat="1" lon="2"><ele>3</ele></trkpt></trkseg></trk></gpx>`
	m := NewEngine(nil).ExtractBytes([]byte(doc), parser.FormatGPX, DefaultOptions())
	assert.Equal(t, "N/A (No Points in GPX)", m.RouteName)
	assert.Equal(t, "gpx", m.Format)
	assert.Equal(t, 1, m.RawPointsCount)
	assert.Zero(t, m.DistanceKm)
}

func TestExtract_MalformedDocument(t *testing.T) {
	e := NewEngine(nil)

	m := e.ExtractBytes([]byte("<gpx><trk><trkseg><trkpt lat="), parser.FormatGPX, DefaultOptions())
	assert.Equal(t, parser.NameGPXParseError, m.RouteName)
	assert.False(t, m.HasMetrics())
	assert.Zero(t, m.TEGa)
	assert.Empty(t, m.TrackPoints)

	m = e.ExtractBytes([]byte("<TrainingCenterDatabase></TrainingCenterDatabase>"), parser.FormatTCX, DefaultOptions())
	assert.Equal(t, parser.NameTCXUnknownStructure, m.RouteName)
	assert.False(t, m.HasMetrics())

	m = e.ExtractBytes([]byte("whatever"), parser.Format("kml"), DefaultOptions())
	assert.Equal(t, "Unsupported File Type (kml)", m.RouteName)
	assert.False(t, m.HasMetrics())
}

func TestExtractRouteMetrics_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.gpx")
	require.NoError(t, os.WriteFile(path, []byte(gpxDoc), 0o644))

	m, err := ExtractRouteMetrics(path, parser.FormatGPX, DefaultOptions())
	require.NoError(t, err)

	gapM := spatial.HaversineMeters(0, 0, 0.001, 0)
	assert.Equal(t, "Hill Loop", m.RouteName)
	assert.Equal(t, 5, m.RawPointsCount)
	assert.InDelta(t, 4*gapM/1000, m.DistanceKm, 1e-9)
	assert.InDelta(t, 8.0, m.TEGa, 1e-9)
	assert.InDelta(t, 0.5, m.PDD, 1e-9)
	assert.InDelta(t, 4/gapM*100, m.MCg, 1e-9)
	assert.Zero(t, m.ACg)
	assert.Zero(t, m.ADg)
	assert.True(t, m.HasMetrics())
}

func TestExtractRouteMetrics_Unreadable(t *testing.T) {
	_, err := ExtractRouteMetrics(filepath.Join(t.TempDir(), "missing.gpx"), parser.FormatGPX, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrFileUnreadable))

	_, err = ExtractRouteMetricsFromReader(iotest.ErrReader(errors.New("disk gone")), parser.FormatGPX, DefaultOptions())
	assert.ErrorIs(t, err, parser.ErrFileUnreadable)
}

func TestExtractRouteMetricsFromReader(t *testing.T) {
	m, err := ExtractRouteMetricsFromReader(strings.NewReader(gpxDoc), parser.FormatGPX, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Hill Loop", m.RouteName)
	assert.InDelta(t, 8.0, m.TEGaRaw, 1e-9)
}

func TestExtract_MetricFaultIsIsolated(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	e := NewEngine(zap.New(core))

	for i := range e.steps {
		switch e.steps[i].name {
		case stepMCg:
			e.steps[i].compute = func(*extraction) float64 { panic("nil elevation") }
		case stepTEGaRaw:
			e.steps[i].compute = func(*extraction) float64 { return math.NaN() }
		}
	}

	opts := DefaultOptions()
	opts.ApplySmoothing = false
	track := meridianTrack(0, leg{5, 100, 0}, leg{50, 10, 0.8}, leg{5, 100, 0})

	m := e.ExtractPoints("Faulty", track, opts)

	assert.Zero(t, m.MCg)
	assert.Zero(t, m.TEGaRaw)
	assert.InDelta(t, 1.5, m.DistanceKm, 1e-6)
	assert.InDelta(t, 40, m.TEGa, 1e-9)
	assert.InDelta(t, 8, m.ACg, 1e-6)
	assert.Len(t, m.TrackPoints, len(track))

	assert.Equal(t, 1, logs.FilterMessage("metric computation failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("metric is not finite").Len())
}
