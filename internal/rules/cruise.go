package rules

import "github.com/flightctl/fcs/internal/telemetry"

func (e *Engine) runCruise(t telemetry.Frame, phaseChanged bool) {
	if phaseChanged || !t.APMaster {
		e.forceCmd("AP_MASTER", true, "engage autopilot for cruise")
	}

	if phaseChanged {
		e.forceCmd("AP_ALT_HOLD", true, "engage altitude hold entering cruise")
		e.cmdValue("AP_VS_VAR_SET_ENGLISH", 0, "zero vertical speed entering cruise")
		e.cmdValue("AP_SPD_VAR_SET", e.profile.Speeds.Vcruise, "set cruise target speed")
	}

	e.applyLateralNav(t)

	delta := e.profile.Speeds.Vcruise - t.Speed
	var throttle float64
	switch {
	case delta > 15:
		throttle = 100
	case delta > 5:
		throttle = 90
	case delta > -5:
		throttle = 80
	default:
		throttle = 70
	}
	e.cmdValue("THROTTLE_SET", throttle, "cruise throttle band")
}
