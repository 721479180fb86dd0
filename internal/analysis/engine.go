package analysis

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/jengzang/routescore-backend-go/internal/logger"
	"github.com/jengzang/routescore-backend-go/internal/models"
	"github.com/jengzang/routescore-backend-go/internal/parser"
	"github.com/jengzang/routescore-backend-go/internal/stats"
	"github.com/jengzang/routescore-backend-go/internal/tuning"
)

// Options controls one extraction run. A zero Params means tuning.Default().
type Options struct {
	ApplySmoothing bool
	Params         tuning.Params
	Logger         *zap.Logger // nil discards output
}

// resolveParams falls back to the reference preset when Params is unset or invalid
func (o Options) resolveParams(log *zap.Logger) tuning.Params {
	if o.Params == (tuning.Params{}) {
		return tuning.Default()
	}
	if err := o.Params.Validate(); err != nil {
		log.Warn("invalid tuning parameters, using defaults", zap.Error(err))
		return tuning.Default()
	}
	return o.Params
}

// DefaultOptions enables smoothing with the reference preset
func DefaultOptions() Options {
	return Options{
		ApplySmoothing: true,
		Params:         tuning.Default(),
	}
}

// Engine turns route files into metric bundles. It holds no per-call state and is
// safe for concurrent use.
type Engine struct {
	parser *parser.Parser
	log    *zap.Logger
	steps  []metricStep
}

// NewEngine creates an engine; a nil logger discards output
func NewEngine(log *zap.Logger) *Engine {
	log = logger.OrNop(log)
	return &Engine{
		parser: parser.New(log),
		log:    log.Named("analysis"),
		steps:  defaultSteps(),
	}
}

// ExtractFile parses the file at path and extracts its metrics.
// The only error is parser.ErrFileUnreadable.
func (e *Engine) ExtractFile(path string, format parser.Format, opts Options) (*models.RouteMetrics, error) {
	res, err := e.parser.ParseFile(path, format)
	if err != nil {
		return nil, fmt.Errorf("extract route metrics: %w", err)
	}
	return e.fromParse(res, format, opts), nil
}

// ExtractReader is ExtractFile for an already opened stream
func (e *Engine) ExtractReader(r io.Reader, format parser.Format, opts Options) (*models.RouteMetrics, error) {
	res, err := e.parser.ParseReader(r, format)
	if err != nil {
		return nil, fmt.Errorf("extract route metrics: %w", err)
	}
	return e.fromParse(res, format, opts), nil
}

// ExtractBytes extracts metrics from an in-memory document. It never fails.
func (e *Engine) ExtractBytes(data []byte, format parser.Format, opts Options) *models.RouteMetrics {
	return e.fromParse(e.parser.Parse(data, format), format, opts)
}

// ExtractPoints extracts metrics from an already parsed point sequence
func (e *Engine) ExtractPoints(name string, points []models.TrackPoint, opts Options) *models.RouteMetrics {
	if name == "" {
		name = models.RouteNameUnknown
	}
	return e.extract(parser.Result{Name: name, Points: points}, "", opts)
}

func (e *Engine) fromParse(res parser.Result, format parser.Format, opts Options) *models.RouteMetrics {
	return e.extract(res, string(format), opts)
}

func (e *Engine) extract(res parser.Result, format string, opts Options) *models.RouteMetrics {
	log := e.log
	if opts.Logger != nil {
		log = opts.Logger.Named("analysis")
	}
	log = log.With(zap.String("route", res.Name), zap.String("format", format))

	metrics := models.NewEmptyRouteMetrics(res.Name, format)
	metrics.RawPointsCount = len(res.Points)

	if len(res.Points) < 2 {
		if !res.Failed {
			metrics.RouteName = noPointsName(format)
		}
		log.Warn("no usable points, skipping extraction", zap.Int("points", len(res.Points)))
		return metrics
	}

	start := res.Points[0]
	metrics.StartLat = &start.Latitude
	metrics.StartLon = &start.Longitude

	opts.Params = opts.resolveParams(log)
	x := newExtraction(res.Points, opts)
	metrics.Smoothed = x.smoothed

	for _, step := range e.steps {
		value, ok := runStep(log, step, x)
		if ok {
			step.assign(metrics, value)
		}
		if step.name == stepDistance {
			x.distanceKm = metrics.DistanceKm
		}
	}

	metrics.TrackPoints = buildProfile(log, x)

	log.Debug("route metrics extracted",
		zap.Int("points", metrics.RawPointsCount),
		zap.Float64("distance_km", metrics.DistanceKm),
		zap.Float64("tega", metrics.TEGa),
		zap.Float64("mcg", metrics.MCg),
		zap.Float64("acg", metrics.ACg),
		zap.Float64("adg", metrics.ADg),
	)

	return metrics
}

func noPointsName(format string) string {
	if format == "" {
		return "N/A (No Points)"
	}
	return fmt.Sprintf("N/A (No Points in %s)", strings.ToUpper(format))
}

// extraction carries the working sequences of one run
type extraction struct {
	params tuning.ExtractionParams

	original []models.TrackPoint
	elevated []models.TrackPoint // Smoothed when smoothing applied, otherwise original
	smoothed bool

	distanceKm float64
	walked     *ProfilePass
}

func newExtraction(points []models.TrackPoint, opts Options) *extraction {
	x := &extraction{
		params:   opts.Params.Extraction,
		original: points,
		elevated: points,
	}

	window := opts.Params.Smoothing.WindowSize
	if opts.ApplySmoothing && len(points) >= window {
		x.elevated = models.WithElevations(points, stats.SmoothElevations(models.Elevations(points), window))
		x.smoothed = true
	}

	return x
}

// walk runs the profile pass over the elevated sequence once per extraction
func (x *extraction) walk() ProfilePass {
	if x.walked == nil {
		pass := WalkProfile(x.elevated)
		x.walked = &pass
	}
	return *x.walked
}

func buildProfile(log *zap.Logger, x *extraction) (profile []models.ProfilePoint) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("profile construction failed", zap.Any("panic", r))
			profile = []models.ProfilePoint{}
		}
	}()

	cumulative := x.walk().CumulativeKm
	profile = make([]models.ProfilePoint, len(x.elevated))
	for i, p := range x.elevated {
		profile[i] = models.ProfilePoint{
			Lat:  p.Latitude,
			Lon:  p.Longitude,
			Ele:  p.Elevation,
			Dist: cumulative[i],
		}
	}
	return profile
}

// ExtractRouteMetrics parses the file at path and extracts its metrics
func ExtractRouteMetrics(path string, format parser.Format, opts Options) (*models.RouteMetrics, error) {
	return NewEngine(opts.Logger).ExtractFile(path, format, opts)
}

// ExtractRouteMetricsFromReader parses a stream and extracts its metrics
func ExtractRouteMetricsFromReader(r io.Reader, format parser.Format, opts Options) (*models.RouteMetrics, error) {
	return NewEngine(opts.Logger).ExtractReader(r, format, opts)
}

// ExtractRouteMetricsFromPoints extracts metrics from points that were parsed elsewhere
func ExtractRouteMetricsFromPoints(name string, points []models.TrackPoint, opts Options) *models.RouteMetrics {
	return NewEngine(opts.Logger).ExtractPoints(name, points, opts)
}
