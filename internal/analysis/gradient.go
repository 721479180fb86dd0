package analysis

import (
	"github.com/jengzang/routescore-backend-go/internal/models"
	"github.com/jengzang/routescore-backend-go/internal/tuning"
)

// MaxClimbGradient returns the steepest climb, in percent, over short windows.
//
// From every start point the window grows forward while the accumulated distance
// stays within the target. When the very first gap already exceeds the target, that
// single gap is the window. Windows shorter than the minimum distance, or without a
// net rise from start to end, are skipped.
//
// The inner walk stops as soon as the target is passed, so the cost is proportional to
// the number of points per target window rather than quadratic in the track length.
func MaxClimbGradient(points []models.TrackPoint, p tuning.ExtractionParams) float64 {
	if len(points) < 2 {
		return 0
	}

	gaps := make([]float64, len(points)-1)
	for i := range gaps {
		gaps[i] = segmentMeters(points[i], points[i+1])
	}

	var best float64
	for i := 0; i < len(points)-1; i++ {
		end, distM := climbWindow(gaps, i, p.MCgTargetDistanceM)
		if end == i || distM < p.MCgMinDistanceM {
			continue
		}

		rise, ok := elevationDelta(points[i], points[end])
		if !ok || rise <= 0 {
			continue
		}
		if g := rise / distM * 100; g > best {
			best = g
		}
	}

	return best
}

// climbWindow returns the end index and length of the window starting at i
func climbWindow(gaps []float64, i int, targetM float64) (int, float64) {
	end := i
	var distM float64

	for j := i + 1; j <= len(gaps); j++ {
		d := gaps[j-1]
		if distM+d <= targetM {
			distM += d
			end = j
			continue
		}
		if d > 0 && distM == 0 {
			distM = d
			end = j
		}
		break
	}

	return end, distM
}
