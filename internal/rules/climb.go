package rules

import "github.com/flightctl/fcs/internal/telemetry"

func (e *Engine) runClimb(t telemetry.Frame, phaseChanged bool) {
	if phaseChanged {
		e.forceCmd("AXIS_ELEVATOR_SET", 0.0, "release manual elevator entering climb")
		e.forceCmd("AXIS_AILERONS_SET", 0.0, "release manual ailerons entering climb")
		e.forceCmd("HEADING_BUG_SET", t.Heading, "set heading bug entering climb")
		e.forceCmd("AP_MASTER", true, "engage autopilot for climb")
		e.forceCmd("AP_HDG_HOLD", true, "engage heading hold for climb")
		e.forceCmd("AP_VS_HOLD", true, "engage vertical speed hold for climb")
		e.cmdValue("AP_VS_VAR_SET_ENGLISH", e.profile.Climb.NormalRate, "set climb vertical speed")
		if t.FlapsIndex != 0 {
			e.forceCmd("FLAPS_UP", true, "retract flaps entering climb")
		}
	}

	if !t.APMaster {
		e.runClimbManualFallback(t)
		e.forceCmd("AP_MASTER", true, "re-engage autopilot after disengagement")
		return
	}

	e.applyLateralNav(t)

	env := computeEnvelope(e.profile, t)
	vs := e.profile.Climb.NormalRate
	if env.StallMarginKt < 15 {
		scale := env.StallMarginKt / 15
		if scale < 0.3 {
			scale = 0.3
		}
		vs *= scale
		if vs < 200 {
			vs = 200
		}
	}
	e.cmdValue("AP_VS_VAR_SET_ENGLISH", vs, "climb VS, stall-margin scaled")

	e.cmdValue("THROTTLE_SET", e.profile.PhaseSpeeds.Climb, "climb throttle target")
	e.cmdValue("AP_ALT_VAR_SET_ENGLISH", e.profileTargetAlt(), "climb target altitude")
	e.cmdValue("AP_SPD_VAR_SET", e.profile.Speeds.Vy, "climb target speed (Vy)")
}

const (
	climbFallbackAileronGain = 0.6
	climbFallbackMaxDefl     = 25.0
	climbFallbackPitchTarget = 7.0
	climbFallbackPitchGain   = 1.5
	climbFallbackMaxElevator = 20.0
)

// runClimbManualFallback applies manual wings-level and pitch-hold when
// the autopilot has disengaged mid-climb, per §4.2.
func (e *Engine) runClimbManualFallback(t telemetry.Frame) {
	aileron := aileronFromBankError(t.Bank, 0, climbFallbackAileronGain, climbFallbackMaxDefl)
	e.cmdValue("AXIS_AILERONS_SET", aileron, "manual wings level (AP disengaged)")

	elevator := targetPitch(t.Pitch, climbFallbackPitchTarget, climbFallbackPitchGain, climbFallbackMaxElevator)
	e.cmdValue("AXIS_ELEVATOR_SET", elevator, "manual pitch hold (AP disengaged)")
}
