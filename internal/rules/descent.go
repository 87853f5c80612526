package rules

import "github.com/flightctl/fcs/internal/telemetry"

func (e *Engine) runDescent(t telemetry.Frame, phaseChanged bool) {
	if phaseChanged || !t.APMaster {
		e.forceCmd("AP_MASTER", true, "engage autopilot for descent")
	}

	if phaseChanged {
		e.cmdValue("AP_SPD_VAR_SET", e.profile.PhaseSpeeds.Descent, "set descent target speed")
		e.forceCmd("AP_ALT_HOLD", false, "disable altitude hold entering descent")
		e.forceCmd("AP_VS_HOLD", true, "enable vertical speed hold entering descent")
		e.cmdValue("AP_VS_VAR_SET_ENGLISH", e.profile.Descent.NormalRate, "set descent vertical speed")
	}

	e.applyLateralNav(t)

	target := e.profile.PhaseSpeeds.Descent
	delta := t.Speed - target
	var throttle float64
	switch {
	case delta > 15:
		throttle = 25
	case delta > 5:
		throttle = 45
	case delta > -5:
		throttle = 60
	default:
		throttle = 75
	}
	e.cmdValue("THROTTLE_SET", throttle, "descent throttle band")
}
