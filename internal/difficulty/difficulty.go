// Package difficulty turns a route metric bundle into a single difficulty score.
//
// score = D(distance) * UF(TEGa, ACg, MCg) * DRF(PDD, TEGa, ADg)
//
// D grows quadratically with distance, UF scales it up for climbing and DRF scales it
// down for mostly-descending routes with little climbing. The score is not capped.
package difficulty

import (
	"math"

	"github.com/jengzang/routescore-backend-go/internal/models"
	"github.com/jengzang/routescore-backend-go/internal/stats"
	"github.com/jengzang/routescore-backend-go/internal/tuning"
)

// Inputs are the six metrics the score depends on
type Inputs struct {
	DistanceKm float64 `json:"distance_km"`
	TEGa       float64 `json:"TEGa"`
	ACg        float64 `json:"ACg"`
	MCg        float64 `json:"MCg"`
	PDD        float64 `json:"PDD"`
	ADg        float64 `json:"ADg"`
}

// FromMetrics picks the scoring inputs out of a bundle
func FromMetrics(m *models.RouteMetrics) Inputs {
	if m == nil {
		return Inputs{}
	}
	return Inputs{
		DistanceKm: m.DistanceKm,
		TEGa:       m.TEGa,
		ACg:        m.ACg,
		MCg:        m.MCg,
		PDD:        m.PDD,
		ADg:        m.ADg,
	}
}

// Breakdown exposes the intermediate factors of one score
type Breakdown struct {
	DistanceDifficulty float64 `json:"distance_difficulty"`
	UphillScore        float64 `json:"uphill_score"`
	UphillFactor       float64 `json:"uphill_factor"`
	DownhillApplies    bool    `json:"downhill_applies"`
	DownhillScore      float64 `json:"downhill_score"`
	DownhillFactor     float64 `json:"downhill_reduction_factor"`
	Score              float64 `json:"score"`
}

// Compute returns the difficulty score of a metric bundle
func Compute(m *models.RouteMetrics, p tuning.DifficultyParams) float64 {
	return Score(FromMetrics(m), p)
}

// Score returns the difficulty of the given inputs
func Score(in Inputs, p tuning.DifficultyParams) float64 {
	return Explain(in, p).Score
}

// Explain computes the score together with its factors
func Explain(in Inputs, p tuning.DifficultyParams) Breakdown {
	if in.DistanceKm <= 0 {
		return Breakdown{UphillFactor: 1, DownhillFactor: 1, Score: p.MinScore}
	}

	b := Breakdown{
		DistanceDifficulty: DistanceDifficulty(in.DistanceKm, p),
		UphillScore:        UphillScore(in.TEGa, in.ACg, in.MCg, p),
		DownhillApplies:    DownhillApplies(in.PDD, in.TEGa, in.ADg, p),
		DownhillFactor:     1,
	}
	b.UphillFactor = 1 + p.UphillSlope*b.UphillScore
	if b.DownhillApplies {
		b.DownhillScore = DownhillScore(in.PDD, in.ADg, p)
		b.DownhillFactor = math.Pow(p.MaxDownhillReduction, b.DownhillScore)
	}

	b.Score = math.Max(p.MinScore, b.DistanceDifficulty*b.UphillFactor*b.DownhillFactor)
	return b
}

// DistanceDifficulty is base + coefficient * d^2, or 0 for a negative distance
func DistanceDifficulty(distanceKm float64, p tuning.DifficultyParams) float64 {
	if distanceKm < 0 {
		return 0
	}
	return p.DistanceBaseAddition + p.DistanceCoefficient*distanceKm*distanceKm
}

// UphillScore is the weighted sum of the normalized climbing metrics, clamped to [0, 1]
func UphillScore(tega, acg, mcg float64, p tuning.DifficultyParams) float64 {
	score := p.WeightTEGa*stats.Normalize(tega, p.MaxExpectedTEGa) +
		p.WeightACg*stats.Normalize(acg, p.MaxExpectedACg) +
		p.WeightMCg*stats.Normalize(mcg, p.MaxExpectedMCg)
	return stats.Clamp01(score)
}

// UphillFactor is 1 + slope * UphillScore
func UphillFactor(tega, acg, mcg float64, p tuning.DifficultyParams) float64 {
	return 1 + p.UphillSlope*UphillScore(tega, acg, mcg, p)
}

// DownhillApplies reports whether a route descends enough, and climbs little enough,
// to earn a reduction
func DownhillApplies(pdd, tega, adg float64, p tuning.DifficultyParams) bool {
	return pdd > p.PDDThreshold &&
		tega < p.MaxAscentForDownhillReduction &&
		math.Abs(adg) > p.MinAvgDescentGradient
}

// DownhillScore combines the normalized descent proportion and descent gradient
func DownhillScore(pdd, adg float64, p tuning.DifficultyParams) float64 {
	var pddNorm float64
	if span := 1 - p.PDDThreshold; span > 0 {
		pddNorm = (pdd - p.PDDThreshold) / span
	} else if pdd >= p.PDDThreshold {
		pddNorm = 1
	}

	var adgNorm float64
	if span := p.TargetADgForMaxReduction - p.MinAvgDescentGradient; span > 0 {
		adgNorm = (math.Abs(adg) - p.MinAvgDescentGradient) / span
	} else if math.Abs(adg) >= p.TargetADgForMaxReduction {
		adgNorm = 1
	}

	return stats.Clamp01(p.WeightPDD*stats.Clamp01(pddNorm) + p.WeightADg*stats.Clamp01(adgNorm))
}

// DownhillReductionFactor is maxReduction^DownhillScore when the reduction applies, else 1
func DownhillReductionFactor(pdd, tega, adg float64, p tuning.DifficultyParams) float64 {
	if !DownhillApplies(pdd, tega, adg, p) {
		return 1
	}
	return math.Pow(p.MaxDownhillReduction, DownhillScore(pdd, adg, p))
}
