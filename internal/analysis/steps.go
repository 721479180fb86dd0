package analysis

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jengzang/routescore-backend-go/internal/models"
	"github.com/jengzang/routescore-backend-go/internal/stats"
)

// Step names, also used as log fields
const (
	stepDistance = "distance_km"
	stepTEGaRaw  = "TEGa_raw"
	stepTEGa     = "TEGa"
	stepPDD      = "PDD"
	stepMCg      = "MCg"
	stepACg      = "ACg"
	stepADg      = "ADg"
)

// metricStep computes one scalar of the bundle. Steps run in order and each one is
// isolated: a panic or a non-finite result leaves its field at zero.
type metricStep struct {
	name    string
	compute func(x *extraction) float64
	assign  func(m *models.RouteMetrics, v float64)
}

func defaultSteps() []metricStep {
	return []metricStep{
		{
			name:    stepDistance,
			compute: func(x *extraction) float64 { return TotalDistanceKm(x.original) },
			assign:  func(m *models.RouteMetrics, v float64) { m.DistanceKm = v },
		},
		{
			name:    stepTEGaRaw,
			compute: func(x *extraction) float64 { return ElevationGain(x.original) },
			assign:  func(m *models.RouteMetrics, v float64) { m.TEGaRaw = v },
		},
		{
			name:    stepTEGa,
			compute: func(x *extraction) float64 { return x.walk().GainM },
			assign:  func(m *models.RouteMetrics, v float64) { m.TEGa = v },
		},
		{
			name:    stepPDD,
			compute: func(x *extraction) float64 { return ProportionDownhill(x.walk().DownhillKm, x.distanceKm) },
			assign:  func(m *models.RouteMetrics, v float64) { m.PDD = v },
		},
		{
			name:    stepMCg,
			compute: func(x *extraction) float64 { return MaxClimbGradient(x.elevated, x.params) },
			assign:  func(m *models.RouteMetrics, v float64) { m.MCg = v },
		},
		{
			name:    stepACg,
			compute: func(x *extraction) float64 { return SignificantClimbGradient(x.elevated, x.params) },
			assign:  func(m *models.RouteMetrics, v float64) { m.ACg = v },
		},
		{
			name:    stepADg,
			compute: func(x *extraction) float64 { return SignificantDescentGradient(x.elevated, x.params) },
			assign:  func(m *models.RouteMetrics, v float64) { m.ADg = v },
		},
	}
}

// runStep evaluates one step inside its own error boundary
func runStep(log *zap.Logger, step metricStep, x *extraction) (value float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("metric computation failed",
				zap.String("metric", step.name),
				zap.Error(fmt.Errorf("panic: %v", r)),
			)
			value, ok = 0, false
		}
	}()

	value = step.compute(x)
	if !stats.IsFinite(value) {
		log.Error("metric is not finite",
			zap.String("metric", step.name),
			zap.Float64("value", value),
		)
		return 0, false
	}
	return value, true
}
