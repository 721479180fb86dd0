package tuning

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadFile reads a preset file (YAML, TOML or JSON by extension) layered over Default().
// Keys missing from the file keep their default value.
func LoadFile(path string) (Params, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Params{}, fmt.Errorf("failed to read tuning file %s: %w", path, err)
	}

	var p Params
	if err := v.Unmarshal(&p); err != nil {
		return Params{}, fmt.Errorf("failed to decode tuning file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// LoadFileOrDefault returns Default() for an empty path
func LoadFileOrDefault(path string) (Params, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

func setDefaults(v *viper.Viper, p Params) {
	v.SetDefault("smoothing.window_size", p.Smoothing.WindowSize)

	e := p.Extraction
	v.SetDefault("extraction.mcg_target_distance_m", e.MCgTargetDistanceM)
	v.SetDefault("extraction.mcg_min_distance_m", e.MCgMinDistanceM)
	v.SetDefault("extraction.climb_start_gradient", e.ClimbStartGradient)
	v.SetDefault("extraction.climb_min_distance_m", e.ClimbMinDistanceM)
	v.SetDefault("extraction.climb_min_gradient", e.ClimbMinGradient)
	v.SetDefault("extraction.climb_factor_threshold", e.ClimbFactorThreshold)
	v.SetDefault("extraction.descent_start_gradient", e.DescentStartGradient)
	v.SetDefault("extraction.descent_min_distance_m", e.DescentMinDistanceM)
	v.SetDefault("extraction.descent_min_gradient", e.DescentMinGradient)

	d := p.Difficulty
	v.SetDefault("difficulty.distance_base_addition", d.DistanceBaseAddition)
	v.SetDefault("difficulty.distance_coefficient", d.DistanceCoefficient)
	v.SetDefault("difficulty.max_expected_tega", d.MaxExpectedTEGa)
	v.SetDefault("difficulty.max_expected_acg", d.MaxExpectedACg)
	v.SetDefault("difficulty.max_expected_mcg", d.MaxExpectedMCg)
	v.SetDefault("difficulty.weight_tega", d.WeightTEGa)
	v.SetDefault("difficulty.weight_acg", d.WeightACg)
	v.SetDefault("difficulty.weight_mcg", d.WeightMCg)
	v.SetDefault("difficulty.uphill_slope", d.UphillSlope)
	v.SetDefault("difficulty.pdd_threshold", d.PDDThreshold)
	v.SetDefault("difficulty.max_ascent_for_downhill_reduction", d.MaxAscentForDownhillReduction)
	v.SetDefault("difficulty.min_avg_descent_gradient", d.MinAvgDescentGradient)
	v.SetDefault("difficulty.target_adg_for_max_reduction", d.TargetADgForMaxReduction)
	v.SetDefault("difficulty.weight_pdd", d.WeightPDD)
	v.SetDefault("difficulty.weight_adg", d.WeightADg)
	v.SetDefault("difficulty.max_downhill_reduction", d.MaxDownhillReduction)
	v.SetDefault("difficulty.min_score", d.MinScore)
}
