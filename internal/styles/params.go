package styles

import "strconv"

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
)

// Parameter documents one recognized configuration key: its default and, when
// the generator validates it, the closed valid range.
type Parameter struct {
	Key         string
	Type        ParamType
	Default     string
	Min, Max    float64
	HasRange    bool
	Description string
}

// Parameters returns the documented keys for a style. Every style also
// recognizes height, width, and seed.
func Parameters(style Style) []Parameter {
	common := []Parameter{
		{Key: "height", Type: ParamTypeInt, Default: "512", Description: "raster height in pixels"},
		{Key: "width", Type: ParamTypeInt, Default: "512", Description: "raster width in pixels"},
		{Key: "seed", Type: ParamTypeInt, Default: "42", Description: "generator seed"},
	}
	switch style {
	case Meandering:
		return append(common, []Parameter{
			{Key: "n_control_points", Type: ParamTypeInt, Default: "6", Description: "centerline control points"},
			{Key: "amplitude_min", Type: ParamTypeFloat, Default: "0.08", Description: "sinuosity amplitude lower bound (fraction of height)"},
			{Key: "amplitude_max", Type: ParamTypeFloat, Default: "0.22", Description: "sinuosity amplitude upper bound (fraction of height)"},
			{Key: "drift_fraction", Type: ParamTypeFloat, Default: "0.08", Description: "cumulative vertical drift scale"},
			{Key: "channel_width_min", Type: ParamTypeFloat, Default: "26", Description: "bankfull width floor in pixels"},
			{Key: "channel_width_max", Type: ParamTypeFloat, Default: "46", Description: "bankfull width ceiling in pixels"},
			{Key: "levee_iterations", Type: ParamTypeInt, Default: "5", Description: "levee dilation iterations"},
			{Key: "scroll_lambda_px", Type: ParamTypeFloat, Default: "28", Description: "scroll bar wavelength in pixels"},
			{Key: "oxbow_probability", Type: ParamTypeFloat, Default: "0.25", Description: "neck-cutoff probability per site"},
			{Key: "floodplain_noise", Type: ParamTypeFloat, Default: "0.08", Description: "grayscale noise stddev"},
		}...)
	case Braided:
		return append(common, []Parameter{
			{Key: "thread_count", Type: ParamTypeInt, Default: "5", Min: 3, Max: 9, HasRange: true, Description: "number of braid threads"},
			{Key: "mean_thread_width", Type: ParamTypeFloat, Default: "18", Min: 12, Max: 28, HasRange: true, Description: "mean thread width in pixels"},
			{Key: "bar_spacing_factor", Type: ParamTypeFloat, Default: "4.2", Min: 3.5, Max: 5.5, HasRange: true, Description: "bar spacing as a multiple of thread width"},
			{Key: "chute_frequency", Type: ParamTypeFloat, Default: "0.35", Description: "chute cut frequency in [0,1]"},
			{Key: "floodplain_noise", Type: ParamTypeFloat, Default: "0.05", Description: "grayscale noise stddev"},
		}...)
	case Anastomosing:
		return append(common, []Parameter{
			{Key: "branch_count", Type: ParamTypeInt, Default: "3", Min: 2, Max: 6, HasRange: true, Description: "number of branches"},
			{Key: "levee_width_px", Type: ParamTypeFloat, Default: "6", Description: "levee decay width in pixels"},
			{Key: "levee_height_scale", Type: ParamTypeFloat, Default: "0.65", Description: "levee height factor"},
			{Key: "marsh_fraction", Type: ParamTypeFloat, Default: "0.45", Description: "marsh areal fraction, clamped to [0.2,0.7]"},
			{Key: "fan_length_px", Type: ParamTypeFloat, Default: "35", Min: 15, Max: 60, HasRange: true, Description: "crevasse fan length in pixels"},
			{Key: "floodplain_noise", Type: ParamTypeFloat, Default: "0.04", Description: "grayscale noise stddev"},
		}...)
	default:
		return common
	}
}

func mapInt(cfg map[string]string, key string, dst *int) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func mapInt64(cfg map[string]string, key string, dst *int64) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = parsed
		}
	}
}

func mapFloat(cfg map[string]string, key string, dst *float64) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}
