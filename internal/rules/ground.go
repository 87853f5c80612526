package rules

import "github.com/flightctl/fcs/internal/telemetry"

// runTaxi implements §4.2's TAXI procedure: release the parking brake on
// first pass, keep mixture rich, and steer toward a configured taxi
// heading if the profile names one.
func (e *Engine) runTaxi(t telemetry.Frame) {
	if !e.taxiBrakeReleased {
		e.cmd("PARKING_BRAKE_SET", false, "release parking brake for taxi")
		e.taxiBrakeReleased = true
	}
	e.cmd("MIXTURE_SET", 1.0, "mixture rich for ground ops")

	if hdg := e.profile.Takeoff.TaxiHeading; hdg != nil {
		rudder := groundSteer(t.Heading, *hdg)
		e.cmdValue("AXIS_RUDDER_SET", rudder, "taxi steering")
	}
}
