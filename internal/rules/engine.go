// Package rules implements the per-phase procedural controller: given
// the current flight phase and a telemetry frame, it enqueues the
// commands that phase's procedure calls for. Grounded on mmp-vice's
// nav/commands.go dispatch-by-type convention and nav/alt.go,
// nav/speed.go, nav/lateral.go, nav/approach.go for the individual
// control laws, generalized from controller-assigned-clearance tracking
// to closed-loop autopilot-axis control.
package rules

import (
	"fmt"
	"time"

	"github.com/flightctl/fcs/internal/cmdqueue"
	"github.com/flightctl/fcs/internal/fcslog"
	"github.com/flightctl/fcs/internal/navsub"
	"github.com/flightctl/fcs/internal/phase"
	"github.com/flightctl/fcs/internal/profile"
	"github.com/flightctl/fcs/internal/telemetry"
)

const timelineCap = 100

// overrideAxes lists the axes whose pilot action is detected by
// comparing the AP mirror against the engine's own lastIssued record.
// MASTER is deliberately excluded: spec.md §4.2's design notes call for
// inferring it from apMaster alone, which this engine does not attempt
// to second-guess (disengaging AP_MASTER already ends the phase
// handler's automatic control on the next Run).
var overrideAxes = []cmdqueue.Axis{
	cmdqueue.AxisHDG, cmdqueue.AxisALT, cmdqueue.AxisVS,
	cmdqueue.AxisSPD, cmdqueue.AxisNAV, cmdqueue.AxisAPR,
}

// axisMirror reads the AP mirror bit for axis from an APState snapshot.
func axisMirror(a cmdqueue.Axis, s telemetry.APState) bool {
	switch a {
	case cmdqueue.AxisHDG:
		return s.Hdg
	case cmdqueue.AxisALT:
		return s.Alt
	case cmdqueue.AxisVS:
		return s.Vs
	case cmdqueue.AxisSPD:
		return s.Spd
	case cmdqueue.AxisNAV:
		return s.Nav
	case cmdqueue.AxisAPR:
		return s.Apr
	default:
		return false
	}
}

// axisHoldType names the AP_*_HOLD toggle command type tracked under an
// override axis, used to check lastIssued when detecting a pilot action.
var axisHoldType = map[cmdqueue.Axis]string{
	cmdqueue.AxisHDG: "AP_HDG_HOLD",
	cmdqueue.AxisALT: "AP_ALT_HOLD",
	cmdqueue.AxisVS:  "AP_VS_HOLD",
	cmdqueue.AxisSPD: "AP_AIRSPEED_HOLD",
	cmdqueue.AxisNAV: "AP_NAV1_HOLD",
	cmdqueue.AxisAPR: "AP_APR_HOLD",
}

// Engine is the stateful rule engine: per-type dedup cache, takeoff
// sub-phase, captured runway heading, and a bounded timeline log.
type Engine struct {
	profile *profile.Aircraft
	queue   *cmdqueue.Queue
	nav     *navsub.Subsystem
	lg      *fcslog.Logger
	now     func() time.Time

	lastIssued map[string]any
	timeline   []string

	TakeoffSubPhase TakeoffSubPhase
	RunwayHeading   *float64
	rotateStartTime time.Time

	taxiBrakeReleased bool

	prevAP          telemetry.APState
	lastEnvelope    Envelope
	lastNavGuidance string
}

// New constructs an Engine wired to queue and nav.
func New(p *profile.Aircraft, queue *cmdqueue.Queue, nav *navsub.Subsystem, lg *fcslog.Logger) *Engine {
	return &Engine{
		profile:    p,
		queue:      queue,
		nav:        nav,
		lg:         lg,
		now:        time.Now,
		lastIssued: make(map[string]any),
	}
}

// cmd enqueues a toggle/no-value command if distinct from the
// last-issued value for its type.
func (e *Engine) cmd(cmdType string, value any, description string) {
	if cur, ok := e.lastIssued[cmdType]; ok && cur == value {
		return
	}
	e.emit(cmdType, value, description)
}

// cmdValue enqueues a value-set command, treating |Δ|<1 as a duplicate.
func (e *Engine) cmdValue(cmdType string, v float64, description string) {
	if cur, ok := e.lastIssued[cmdType]; ok {
		if cf, ok := cur.(float64); ok && absf(cf-v) < 1 {
			return
		}
	}
	e.emit(cmdType, v, description)
}

// forceCmd clears the dedup cache for cmdType then enqueues
// unconditionally, for use after a phase change or when external state
// may have drifted.
func (e *Engine) forceCmd(cmdType string, value any, description string) {
	delete(e.lastIssued, cmdType)
	e.queue.ClearDedup(cmdType)
	e.emit(cmdType, value, description)
}

func (e *Engine) emit(cmdType string, value any, description string) {
	e.lastIssued[cmdType] = value
	e.queue.Enqueue(cmdqueue.Command{Type: cmdType, Value: value, Description: description})
	e.pushTimeline(fmt.Sprintf("%s=%v: %s", cmdType, value, description))
}

// emitAxis is like emit but tags the command with an explicit override
// axis (used for nav-derived HEADING_BUG_SET, axis NAVHDG).
func (e *Engine) emitAxis(cmdType string, value any, description string, axis cmdqueue.Axis) {
	e.lastIssued[cmdType] = value
	e.queue.Enqueue(cmdqueue.Command{Type: cmdType, Value: value, Description: description}.WithAxis(axis))
	e.pushTimeline(fmt.Sprintf("%s=%v: %s", cmdType, value, description))
}

func (e *Engine) pushTimeline(s string) {
	e.timeline = append([]string{s}, e.timeline...)
	if len(e.timeline) > timelineCap {
		e.timeline = e.timeline[:timelineCap]
	}
}

// Timeline returns the engine's most-recent-first description log.
func (e *Engine) Timeline() []string { return e.timeline }

// detectOverrides implements the Open Question #1 resolution: a pilot
// action on axis A is detected when the AP mirror for A changes between
// ticks and the new value doesn't match the engine's own lastIssued
// record for A's hold type within the same tick. Detected overrides are
// registered on the queue so future commands on that axis are
// suppressed, closing the loop spec.md left open.
func (e *Engine) detectOverrides(t telemetry.Frame) {
	cur := telemetry.FromFrame(t)
	for _, axis := range overrideAxes {
		curBit := axisMirror(axis, cur)
		prevBit := axisMirror(axis, e.prevAP)
		if curBit == prevBit {
			continue
		}
		holdType := axisHoldType[axis]
		if issued, ok := e.lastIssued[holdType]; ok && issued == curBit {
			continue // this is the engine's own command taking effect, not a pilot action
		}
		e.queue.RegisterOverride(axis)
		e.pushTimeline(fmt.Sprintf("detected pilot override on axis %s", axis))
	}
	e.prevAP = cur
}

// Run evaluates the phase handler for ph against telemetry t and
// enqueues the resulting commands. phaseChanged flags that ph was
// entered this tick, which flushes AP_MASTER/AP_*_HOLD dedup state per
// §4.2's "state transitions of note".
func (e *Engine) Run(ph phase.Phase, t telemetry.Frame, phaseChanged bool) {
	e.detectOverrides(t)
	e.lastEnvelope = computeEnvelope(e.profile, t)

	if phaseChanged {
		for _, cmdType := range []string{"AP_MASTER", "AP_HDG_HOLD", "AP_ALT_HOLD", "AP_VS_HOLD", "AP_AIRSPEED_HOLD", "AP_NAV1_HOLD", "AP_APR_HOLD"} {
			delete(e.lastIssued, cmdType)
			e.queue.ClearDedup(cmdType)
		}
		if ph == phase.Takeoff {
			e.TakeoffSubPhase = BeforeRoll
		}
	}

	switch ph {
	case phase.Preflight:
		// no commands
	case phase.Taxi:
		e.runTaxi(t)
	case phase.Takeoff:
		e.runTakeoff(t)
	case phase.Climb:
		e.runClimb(t, phaseChanged)
	case phase.Cruise:
		e.runCruise(t, phaseChanged)
	case phase.Descent:
		e.runDescent(t, phaseChanged)
	case phase.Approach:
		e.runApproach(t, phaseChanged)
	case phase.Landing:
		e.runLanding(t)
	}
}
