package rules

import "github.com/flightctl/fcs/internal/telemetry"

func (e *Engine) runApproach(t telemetry.Frame, phaseChanged bool) {
	if phaseChanged || !t.APMaster {
		e.forceCmd("AP_MASTER", true, "engage autopilot for approach")
	}

	if phaseChanged {
		e.cmdValue("AP_SPD_VAR_SET", e.profile.PhaseSpeeds.Approach, "set approach target speed")
		e.cmdValue("AP_VS_VAR_SET_ENGLISH", e.profile.Descent.ApproachRate, "set approach vertical speed")
	}

	e.scheduleApproachFlaps(t)
	e.selectApproachNavMode(t)

	env := computeEnvelope(e.profile, t)
	throttle := 40.0
	switch {
	case env.StallMarginKt < 5:
		throttle = 55
	case t.Speed > e.profile.Speeds.Vfe-5:
		throttle = 25
	}
	e.cmdValue("THROTTLE_SET", throttle, "approach throttle")
}

func (e *Engine) scheduleApproachFlaps(t telemetry.Frame) {
	want := 1
	if t.AltitudeAGL < 800 {
		want = 2
	}
	if t.AltitudeAGL < 400 {
		want = 3
	}
	if t.FlapsIndex < want {
		e.forceCmd("FLAPS_DOWN", want, "schedule approach flaps")
	}
}

func (e *Engine) selectApproachNavMode(t telemetry.Frame) {
	if e.nav == nil || e.nav.Nav == nil {
		if e.RunwayHeading != nil {
			e.forceCmd("HEADING_BUG_SET", *e.RunwayHeading, "heading bug to runway heading")
			e.cmd("AP_HDG_HOLD", true, "engage heading hold to runway heading")
		}
		return
	}

	ns := e.nav.Nav
	switch {
	case ns.CDI.GSValid && ns.Approach.HasGlideslope:
		e.cmd("AP_APR_HOLD", true, "engage approach mode with glideslope")
	case ns.Approach.Mode != "":
		e.cmd("AP_APR_HOLD", true, "engage approach mode, lateral only")
	default:
		if hdg, _ := e.nav.ComputeHeading(navPosition(t)); hdg != nil {
			e.applyLateralNav(t)
		} else if e.RunwayHeading != nil {
			e.forceCmd("HEADING_BUG_SET", *e.RunwayHeading, "heading bug to runway heading")
			e.cmd("AP_HDG_HOLD", true, "engage heading hold to runway heading")
		}
	}
}
