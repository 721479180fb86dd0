package analysis

import (
	"math"

	"github.com/jengzang/routescore-backend-go/internal/models"
	"github.com/jengzang/routescore-backend-go/internal/stats"
	"github.com/jengzang/routescore-backend-go/internal/tuning"
)

// Direction selects which slopes a segment scan follows
type Direction int

const (
	Climb Direction = iota
	Descent
)

func (d Direction) String() string {
	if d == Descent {
		return "descent"
	}
	return "climb"
}

// Segment is a contiguous run of points that qualified as a significant climb or descent
type Segment struct {
	Start       int     `json:"start"` // Index of the first point
	End         int     `json:"end"`   // Index of the last point
	DistanceM   float64 `json:"distance_m"`
	ElevationM  float64 `json:"elevation_m"`  // Positive gain for climbs, net change for descents
	AvgGradient float64 `json:"avg_gradient"` // Percent, negative for descents
}

type segmentState int

const (
	noSegment segmentState = iota
	accumulating
)

// segmentScanner is a single-pass state machine. A step whose slope meets the start
// threshold in the scan direction extends (or opens) the current run; any other step
// flushes it. The run is evaluated against the qualification rules on every flush,
// including the final one at the end of the track.
type segmentScanner struct {
	dir    Direction
	rules  tuning.ExtractionParams
	points []models.TrackPoint

	state      segmentState
	start, end int

	found []Segment
}

func newSegmentScanner(points []models.TrackPoint, dir Direction, rules tuning.ExtractionParams) *segmentScanner {
	return &segmentScanner{dir: dir, rules: rules, points: points}
}

func (s *segmentScanner) run() []Segment {
	for i := 0; i < len(s.points)-1; i++ {
		s.step(i)
	}
	s.flush()
	return s.found
}

// step consumes the pair (i, i+1)
func (s *segmentScanner) step(i int) {
	if !s.extends(s.points[i], s.points[i+1]) {
		s.flush()
		return
	}

	if s.state == noSegment {
		s.state = accumulating
		s.start = i
	}
	s.end = i + 1
}

func (s *segmentScanner) extends(a, b models.TrackPoint) bool {
	distM := segmentMeters(a, b)
	change, _ := elevationDelta(a, b)

	var gradient float64
	if distM > 0 {
		gradient = change / distM * 100
	}

	if s.dir == Climb {
		return change > 0 && gradient >= s.rules.ClimbStartGradient
	}
	return change < 0 && gradient <= s.rules.DescentStartGradient
}

// flush evaluates the open run, if any, and resets to noSegment
func (s *segmentScanner) flush() {
	if s.state == accumulating && s.end > s.start {
		if seg, ok := s.evaluate(s.start, s.end); ok {
			s.found = append(s.found, seg)
		}
	}
	s.state = noSegment
}

func (s *segmentScanner) evaluate(start, end int) (Segment, bool) {
	seg := Segment{Start: start, End: end}

	for k := start; k < end; k++ {
		seg.DistanceM += segmentMeters(s.points[k], s.points[k+1])
	}

	if s.dir == Climb {
		// Small dips inside a climb do not reduce its gain
		for k := start; k < end; k++ {
			if delta, ok := elevationDelta(s.points[k], s.points[k+1]); ok && delta > 0 {
				seg.ElevationM += delta
			}
		}
	} else {
		// Descents use the net drop from first to last point
		if delta, ok := elevationDelta(s.points[start], s.points[end]); ok {
			seg.ElevationM = delta
		}
	}

	if seg.DistanceM <= 0 {
		return seg, false
	}
	seg.AvgGradient = seg.ElevationM / seg.DistanceM * 100

	return seg, s.qualifies(seg)
}

func (s *segmentScanner) qualifies(seg Segment) bool {
	r := s.rules
	if s.dir == Climb {
		return seg.DistanceM >= r.ClimbMinDistanceM &&
			seg.AvgGradient >= r.ClimbMinGradient &&
			seg.DistanceM*seg.AvgGradient >= r.ClimbFactorThreshold
	}
	return seg.DistanceM >= r.DescentMinDistanceM &&
		seg.AvgGradient <= r.DescentMinGradient
}

// SignificantSegments returns every run that qualifies as a significant climb or descent
func SignificantSegments(points []models.TrackPoint, dir Direction, rules tuning.ExtractionParams) []Segment {
	if len(points) < 2 {
		return nil
	}
	return newSegmentScanner(points, dir, rules).run()
}

// AverageSegmentGradient is the mean absolute gradient of the given segments, 0 when empty
func AverageSegmentGradient(segments []Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	gradients := make([]float64, len(segments))
	for i, seg := range segments {
		gradients[i] = math.Abs(seg.AvgGradient)
	}
	return stats.Mean(gradients)
}

// SignificantClimbGradient computes ACg
func SignificantClimbGradient(points []models.TrackPoint, rules tuning.ExtractionParams) float64 {
	return AverageSegmentGradient(SignificantSegments(points, Climb, rules))
}

// SignificantDescentGradient computes ADg, reported as a positive percentage
func SignificantDescentGradient(points []models.TrackPoint, rules tuning.ExtractionParams) float64 {
	return AverageSegmentGradient(SignificantSegments(points, Descent, rules))
}
