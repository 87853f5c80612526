package rules

import (
	"github.com/flightctl/fcs/internal/cmdqueue"
	"github.com/flightctl/fcs/internal/telemetry"
)

// runTakeoff drives the BEFORE_ROLL -> ROLL -> ROTATE -> LIFTOFF ->
// INITIAL_CLIMB -> DEPARTURE sub-phase machine, per §4.2. The sub-phase
// never regresses within a single TAKEOFF phase entry.
func (e *Engine) runTakeoff(t telemetry.Frame) {
	switch e.TakeoffSubPhase {
	case BeforeRoll:
		e.runBeforeRoll(t)
	case Roll:
		e.runRoll(t)
	case Rotate:
		e.runRotate(t)
	case Liftoff:
		e.runLiftoff(t)
	case InitialClimb:
		e.runInitialClimb(t)
	case Departure:
		e.runDeparture(t)
	}
}

func (e *Engine) runBeforeRoll(t telemetry.Frame) {
	if e.RunwayHeading == nil {
		h := t.Heading
		e.RunwayHeading = &h
	}

	e.cmdValue("AXIS_ELEVATOR_SET", cmdqueue.AxisHoldNeutral, "hold elevator neutral before roll")
	e.cmdValue("AXIS_AILERONS_SET", cmdqueue.AxisHoldNeutral, "hold ailerons neutral before roll")
	e.cmdValue("AXIS_RUDDER_SET", cmdqueue.AxisHoldNeutral, "hold rudder neutral before roll")
	e.cmd("MIXTURE_SET", 1.0, "mixture rich for takeoff")
	e.forceCmd("PARKING_BRAKE_SET", false, "release parking brake (idempotent, unreliable SimVar)")

	rudder := groundSteer(t.Heading, *e.RunwayHeading)
	e.cmdValue("AXIS_RUDDER_SET", rudder, "steer toward runway heading")

	if t.GroundSpeed > 3 {
		e.TakeoffSubPhase = Roll
	}
}

const (
	rollAileronGain    = 2.0
	rollAileronMaxDefl = 25.0
)

func (e *Engine) runRoll(t telemetry.Frame) {
	e.cmdValue("AXIS_ELEVATOR_SET", cmdqueue.AxisHoldNeutral, "hold elevator during roll")

	// Wings level: aileron correction is negated from bank per §4.2.
	aileron := aileronFromBankError(t.Bank, 0, rollAileronGain, rollAileronMaxDefl)
	e.cmdValue("AXIS_AILERONS_SET", aileron, "wings level during roll")

	e.cmdValue("THROTTLE_SET", e.profile.Takeoff.RollThrottle, "takeoff roll throttle")

	rudder := groundSteer(t.Heading, *e.RunwayHeading)
	e.cmdValue("AXIS_RUDDER_SET", rudder, "steer toward runway heading")

	if t.Speed >= e.profile.Speeds.Vr {
		e.rotateStartTime = e.now()
		e.TakeoffSubPhase = Rotate
	}
}

const (
	rotateMaxElevator = -8.0
	rotateBaseElevator = -3.0
	rotateRateDegPerSec = -2.0
)

func (e *Engine) runRotate(t telemetry.Frame) {
	elapsed := e.now().Sub(e.rotateStartTime).Seconds()
	elevator := rotateBaseElevator + rotateRateDegPerSec*elapsed
	if elevator < rotateMaxElevator {
		elevator = rotateMaxElevator
	}
	e.cmdValue("AXIS_ELEVATOR_SET", elevator, "progressive rotation")

	aileron := aileronFromBankError(t.Bank, 0, rollAileronGain, rollAileronMaxDefl)
	e.cmdValue("AXIS_AILERONS_SET", aileron, "wings level during rotation")
	e.cmd("APPLY_NOSE_UP_TRIM", true, "nose-up trim during rotation")

	if !t.OnGround {
		e.TakeoffSubPhase = Liftoff
	}
}

func (e *Engine) runLiftoff(t telemetry.Frame) {
	e.cmdValue("AXIS_ELEVATOR_SET", -5, "liftoff pitch")
	aileron := aileronFromBankError(t.Bank, 0, rollAileronGain, rollAileronMaxDefl)
	e.cmdValue("AXIS_AILERONS_SET", aileron, "wings level after liftoff")

	if t.VerticalSpeed > 100 && t.AltitudeAGL > 200 {
		e.TakeoffSubPhase = InitialClimb
	}
}

func (e *Engine) runInitialClimb(t telemetry.Frame) {
	e.cmdValue("AXIS_ELEVATOR_SET", -4, "initial climb pitch")
	aileron := aileronFromBankError(t.Bank, 0, rollAileronGain, rollAileronMaxDefl)
	e.cmdValue("AXIS_AILERONS_SET", aileron, "wings level during initial climb")

	if t.Speed >= e.profile.Speeds.Vs1+15 && t.AltitudeAGL > 500 {
		e.cmdValue("AXIS_ELEVATOR_SET", 0, "release manual elevator to autopilot")
		e.cmdValue("AXIS_AILERONS_SET", 0, "release manual ailerons to autopilot")
		e.cmdValue("AXIS_RUDDER_SET", 0, "release manual rudder to autopilot")
		e.forceCmd("AP_MASTER", true, "engage autopilot for handoff")
		e.forceCmd("HEADING_BUG_SET", t.Heading, "set heading bug to current heading")
		e.forceCmd("AP_HDG_HOLD", true, "engage heading hold")
		e.forceCmd("AP_VS_HOLD", true, "engage vertical speed hold")
		e.cmdValue("AP_VS_VAR_SET_ENGLISH", e.profile.Takeoff.DepartureVS, "set departure vertical speed")
	}

	// Advance to DEPARTURE only once the AP mirror confirms engagement.
	if t.APMaster && t.APHdgLock && t.APVsLock {
		e.TakeoffSubPhase = Departure
	}
}

func (e *Engine) runDeparture(t telemetry.Frame) {
	if t.FlapsIndex != 0 {
		e.forceCmd("FLAPS_UP", true, "retract flaps after departure")
	}

	e.cmdValue("AP_SPD_VAR_SET", e.profile.Speeds.Vy, "set departure target speed")
	e.cmdValue("AP_ALT_VAR_SET_ENGLISH", e.profileTargetAlt(), "set departure target altitude")
	// ALT_HOLD is deliberately not engaged here: it would capture the
	// current (~800ft) altitude and block CLIMB's VS target.
}

func (e *Engine) profileTargetAlt() float64 {
	if e.profile.Limits.Ceiling > 0 {
		return e.profile.Limits.Ceiling
	}
	return e.profile.Limits.MaxAlt
}
