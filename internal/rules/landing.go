package rules

import "github.com/flightctl/fcs/internal/telemetry"

func (e *Engine) runLanding(t telemetry.Frame) {
	if t.FlapsIndex < 4 {
		e.forceCmd("FLAPS_DOWN", 4, "full flaps for landing")
	}

	touchedDown := t.AltitudeAGL < 10 && t.OnGround

	if !touchedDown {
		switch {
		case t.AltitudeAGL > 100:
			e.cmdValue("AP_VS_VAR_SET_ENGLISH", -300, "stepped descent, >100 AGL")
			e.cmdValue("THROTTLE_SET", 35, "stepped descent throttle, >100 AGL")
		case t.AltitudeAGL >= 50:
			e.cmdValue("AP_VS_VAR_SET_ENGLISH", -200, "stepped descent, 50-100 AGL")
			e.cmdValue("THROTTLE_SET", 25, "stepped descent throttle, 50-100 AGL")
		case t.AltitudeAGL >= 20:
			e.cmdValue("AP_VS_VAR_SET_ENGLISH", -100, "stepped descent, 20-50 AGL")
			e.cmdValue("THROTTLE_SET", 15, "stepped descent throttle, 20-50 AGL")
		default:
			e.forceCmd("AP_MASTER", false, "disengage autopilot for flare")
			e.cmdValue("THROTTLE_SET", 0, "idle throttle for flare")
			e.cmdValue("AXIS_ELEVATOR_SET", -30, "flare")
		}
		return
	}

	e.forceCmd("AP_MASTER", false, "disengage autopilot after touchdown")
	e.cmdValue("THROTTLE_SET", 0, "idle throttle after touchdown")
	e.cmdValue("AXIS_ELEVATOR_SET", 0, "neutral elevator after touchdown")
	e.cmdValue("AXIS_AILERONS_SET", 0, "neutral ailerons after touchdown")
	e.cmdValue("AXIS_RUDDER_SET", 0, "neutral rudder after touchdown")
	if t.FlapsIndex != 0 {
		e.forceCmd("FLAPS_UP", true, "retract flaps after touchdown")
	}
	if t.GroundSpeed > 5 && t.GroundSpeed < 40 {
		e.cmd("PARKING_BRAKE_SET", true, "apply brakes during rollout")
	}
}
