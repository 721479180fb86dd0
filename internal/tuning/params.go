package tuning

// Params is one complete scoring preset. Values are passed explicitly into the
// extraction pipeline and the difficulty calculator; nothing reads them globally.
type Params struct {
	Smoothing  SmoothingParams  `mapstructure:"smoothing" json:"smoothing"`
	Extraction ExtractionParams `mapstructure:"extraction" json:"extraction"`
	Difficulty DifficultyParams `mapstructure:"difficulty" json:"difficulty"`
}

// SmoothingParams configures the elevation smoother
type SmoothingParams struct {
	WindowSize int `mapstructure:"window_size" json:"window_size" validate:"gte=3,odd"`
}

// ExtractionParams holds the thresholds used by the metric extractors
type ExtractionParams struct {
	// Max climb gradient window
	MCgTargetDistanceM float64 `mapstructure:"mcg_target_distance_m" json:"mcg_target_distance_m" validate:"gt=0"`
	MCgMinDistanceM    float64 `mapstructure:"mcg_min_distance_m" json:"mcg_min_distance_m" validate:"gt=0,ltefield=MCgTargetDistanceM"`

	// Significant climbs
	ClimbStartGradient   float64 `mapstructure:"climb_start_gradient" json:"climb_start_gradient" validate:"gte=0"`
	ClimbMinDistanceM    float64 `mapstructure:"climb_min_distance_m" json:"climb_min_distance_m" validate:"gt=0"`
	ClimbMinGradient     float64 `mapstructure:"climb_min_gradient" json:"climb_min_gradient" validate:"gt=0"`
	ClimbFactorThreshold float64 `mapstructure:"climb_factor_threshold" json:"climb_factor_threshold" validate:"gte=0"`

	// Significant descents (gradients are negative)
	DescentStartGradient float64 `mapstructure:"descent_start_gradient" json:"descent_start_gradient" validate:"lte=0"`
	DescentMinDistanceM  float64 `mapstructure:"descent_min_distance_m" json:"descent_min_distance_m" validate:"gt=0"`
	DescentMinGradient   float64 `mapstructure:"descent_min_gradient" json:"descent_min_gradient" validate:"lt=0"`
}

// DifficultyParams holds the weights and ceilings of the difficulty model
type DifficultyParams struct {
	DistanceBaseAddition float64 `mapstructure:"distance_base_addition" json:"distance_base_addition" validate:"gte=0"`
	DistanceCoefficient  float64 `mapstructure:"distance_coefficient" json:"distance_coefficient" validate:"gt=0"`

	MaxExpectedTEGa float64 `mapstructure:"max_expected_tega" json:"max_expected_tega" validate:"gt=0"`
	MaxExpectedACg  float64 `mapstructure:"max_expected_acg" json:"max_expected_acg" validate:"gt=0"`
	MaxExpectedMCg  float64 `mapstructure:"max_expected_mcg" json:"max_expected_mcg" validate:"gt=0"`
	WeightTEGa      float64 `mapstructure:"weight_tega" json:"weight_tega" validate:"gte=0,lte=1"`
	WeightACg       float64 `mapstructure:"weight_acg" json:"weight_acg" validate:"gte=0,lte=1"`
	WeightMCg       float64 `mapstructure:"weight_mcg" json:"weight_mcg" validate:"gte=0,lte=1"`
	UphillSlope     float64 `mapstructure:"uphill_slope" json:"uphill_slope" validate:"gte=0"`

	PDDThreshold                  float64 `mapstructure:"pdd_threshold" json:"pdd_threshold" validate:"gte=0,lt=1"`
	MaxAscentForDownhillReduction float64 `mapstructure:"max_ascent_for_downhill_reduction" json:"max_ascent_for_downhill_reduction" validate:"gte=0"`
	MinAvgDescentGradient         float64 `mapstructure:"min_avg_descent_gradient" json:"min_avg_descent_gradient" validate:"gte=0"`
	TargetADgForMaxReduction      float64 `mapstructure:"target_adg_for_max_reduction" json:"target_adg_for_max_reduction" validate:"gtfield=MinAvgDescentGradient"`
	WeightPDD                     float64 `mapstructure:"weight_pdd" json:"weight_pdd" validate:"gte=0,lte=1"`
	WeightADg                     float64 `mapstructure:"weight_adg" json:"weight_adg" validate:"gte=0,lte=1"`
	MaxDownhillReduction          float64 `mapstructure:"max_downhill_reduction" json:"max_downhill_reduction" validate:"gt=0,lte=1"`

	MinScore float64 `mapstructure:"min_score" json:"min_score" validate:"gte=0"`
}

// Default returns the reference preset
func Default() Params {
	return Params{
		Smoothing: SmoothingParams{
			WindowSize: 7,
		},
		Extraction: ExtractionParams{
			MCgTargetDistanceM:   100.0,
			MCgMinDistanceM:      50.0,
			ClimbStartGradient:   1.0,
			ClimbMinDistanceM:    250.0,
			ClimbMinGradient:     3.0,
			ClimbFactorThreshold: 3500.0,
			DescentStartGradient: -1.0,
			DescentMinDistanceM:  500.0,
			DescentMinGradient:   -3.0,
		},
		Difficulty: DifficultyParams{
			DistanceBaseAddition:          5.0,
			DistanceCoefficient:           0.003,
			MaxExpectedTEGa:               3500.0,
			MaxExpectedACg:                12.0,
			MaxExpectedMCg:                45.0,
			WeightTEGa:                    0.50,
			WeightACg:                     0.40,
			WeightMCg:                     0.10,
			UphillSlope:                   1.2,
			PDDThreshold:                  0.65,
			MaxAscentForDownhillReduction: 1000.0,
			MinAvgDescentGradient:         3.0,
			TargetADgForMaxReduction:      7.0,
			WeightPDD:                     0.7,
			WeightADg:                     0.3,
			MaxDownhillReduction:          0.8,
			MinScore:                      0.0,
		},
	}
}
