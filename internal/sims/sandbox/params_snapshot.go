package sandbox

import (
	"strconv"

	"sandpit/internal/core"
)

// Parameters reports the world settings and movement tunables.
func (w *World) Parameters() core.ParameterSnapshot {
	params := w.cfg.Params
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.w),
				intParam("h", "Height", w.h),
				int64Param("seed", "Seed", w.cfg.Seed),
				floatParam("step_seconds", "Step seconds", w.cfg.StepSeconds),
			},
		},
		{
			Name: "Fluids",
			Params: []core.Parameter{
				intParam("fluid_steps_min", "Fluid steps min", params.FluidStepsMin),
				intParam("fluid_steps_max", "Fluid steps max", params.FluidStepsMax),
				intParam("slide_attempts_min", "Slide attempts min", params.SlideAttemptsMin),
				intParam("slide_attempts_max", "Slide attempts max", params.SlideAttemptsMax),
				floatParam("drift_bias", "Drift bias", params.DriftBias),
			},
		},
		{
			Name: "Steam",
			Params: []core.Parameter{
				floatParam("steam_lifetime", "Steam lifetime", params.SteamLifetime),
			},
		},
	}}
}

// ParameterControls lists the tunables adjustable from the HUD.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "fluid_steps_max", Label: "Fluid steps", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 8, HasMin: true, HasMax: true},
		{Key: "slide_attempts_max", Label: "Slide attempts", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 16, HasMin: true, HasMax: true},
		{Key: "drift_bias", Label: "Drift bias", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "steam_lifetime", Label: "Steam lifetime", Type: core.ParamTypeFloat, Step: 0.5, Min: 0, Max: 60, HasMin: true, HasMax: true},
	}
}

// SetIntParameter updates an integer tunable. Raising a max below its min
// drags the min along and vice versa.
func (w *World) SetIntParameter(key string, value int) bool {
	p := &w.cfg.Params
	switch key {
	case "fluid_steps_min":
		p.FluidStepsMin = value
		if p.FluidStepsMax < value {
			p.FluidStepsMax = value
		}
	case "fluid_steps_max":
		p.FluidStepsMax = value
		if p.FluidStepsMin > value {
			p.FluidStepsMin = value
		}
	case "slide_attempts_min":
		p.SlideAttemptsMin = value
		if p.SlideAttemptsMax < value {
			p.SlideAttemptsMax = value
		}
	case "slide_attempts_max":
		p.SlideAttemptsMax = value
		if p.SlideAttemptsMin > value {
			p.SlideAttemptsMin = value
		}
	default:
		return false
	}
	p.normalize()
	return true
}

// SetFloatParameter updates a floating point tunable, clamping to its range.
func (w *World) SetFloatParameter(key string, value float64) bool {
	p := &w.cfg.Params
	switch key {
	case "drift_bias":
		p.DriftBias = clamp(value, 0, 1)
	case "steam_lifetime":
		p.SteamLifetime = clamp(value, 0, 60)
	case "step_seconds":
		w.cfg.StepSeconds = clamp(value, 0, 1)
	default:
		return false
	}
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
