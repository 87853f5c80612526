// Package phase implements the flight-phase classifier: given a telemetry
// frame it computes the current phase and reports whenever it changes.
// There is no teacher analog for this exact state machine (mmp-vice
// models controller-assigned clearances, not an aircraft's own flight
// phase), so the shape here is new, but it follows the project's general
// texture: small per-phase predicates in one switch, explicit enums,
// and tick-counted debouncing for any rule the design notes flag as
// oscillation-prone (the same pattern nav.Airwork uses for its own
// tick-counted sub-states).
package phase

import (
	"time"

	"github.com/flightctl/fcs/internal/profile"
	"github.com/flightctl/fcs/internal/telemetry"
)

// Phase is one of the eight flight phases, in their canonical order.
type Phase int

const (
	Preflight Phase = iota
	Taxi
	Takeoff
	Climb
	Cruise
	Descent
	Approach
	Landing
)

func (p Phase) String() string {
	switch p {
	case Preflight:
		return "PREFLIGHT"
	case Taxi:
		return "TAXI"
	case Takeoff:
		return "TAKEOFF"
	case Climb:
		return "CLIMB"
	case Cruise:
		return "CRUISE"
	case Descent:
		return "DESCENT"
	case Approach:
		return "APPROACH"
	case Landing:
		return "LANDING"
	default:
		return "UNKNOWN"
	}
}

// State is the controller-owned flight-phase state.
type State struct {
	Phase            Phase
	EntryTime        time.Time
	TargetCruiseAlt  float64
	DestinationDist  float64
	FieldElevation   float64
	ManualOverride   bool
}

// Machine evaluates telemetry against the transition table each tick and
// tracks the debounce counters the design notes call for.
type Machine struct {
	State   State
	profile *profile.Aircraft
	now     func() time.Time

	// debounce counts consecutive ticks a named condition has held.
	debounce map[string]int

	// approachEntryAltitude records altitude at APPROACH entry, used by
	// the go-around rule ("rising by >=200ft from entry").
	approachEntryAltitude float64

	onTransition func(from, to Phase)
}

// New creates a Machine starting in PREFLIGHT.
func New(p *profile.Aircraft, now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{
		State:    State{Phase: Preflight, EntryTime: now()},
		profile:  p,
		now:      now,
		debounce: make(map[string]int),
	}
}

// OnTransition registers a callback invoked whenever Advance changes the
// phase (including manual Force calls).
func (m *Machine) OnTransition(f func(from, to Phase)) { m.onTransition = f }

func (m *Machine) setPhase(to Phase) {
	from := m.State.Phase
	if from == to {
		return
	}
	m.State.Phase = to
	m.State.EntryTime = m.now()
	clear(m.debounce)
	if to == Approach {
		// telemetry isn't available here; Advance records entry altitude
		// via RecordApproachEntry right after its own transitions.
	}
	if m.onTransition != nil {
		m.onTransition(from, to)
	}
}

// RecordApproachEntry captures the altitude at APPROACH entry; Advance
// calls this automatically when the transition happens within the same
// call, so callers normally never need it directly.
func (m *Machine) RecordApproachEntry(altitude float64) {
	m.approachEntryAltitude = altitude
}

// PhaseAge returns how long the machine has been in its current phase.
func (m *Machine) PhaseAge() time.Duration { return m.now().Sub(m.State.EntryTime) }

// SetManual pins the phase until ResumeAuto is called.
func (m *Machine) SetManual(p Phase) {
	m.State.ManualOverride = true
	m.setPhase(p)
}

// ResumeAuto releases a manual pin; subsequent Advance calls resume
// telemetry-driven classification.
func (m *Machine) ResumeAuto() { m.State.ManualOverride = false }

// Force immediately transitions to p regardless of telemetry, without
// pinning it (a later Advance can move on from p normally).
func (m *Machine) Force(p Phase) { m.setPhase(p) }

// hold debounces a named boolean condition, requiring it to be true for n
// consecutive calls (within the same phase) before returning true itself.
// Any call with cond==false resets the counter to 0.
func (m *Machine) hold(name string, cond bool, n int) bool {
	if !cond {
		m.debounce[name] = 0
		return false
	}
	m.debounce[name]++
	return m.debounce[name] >= n
}

// Advance evaluates telemetry against the transition table and returns
// the resulting phase and whether it changed this call. Manual overrides
// suppress all telemetry-driven transitions.
func (m *Machine) Advance(t telemetry.Frame) (Phase, bool) {
	before := m.State.Phase

	if m.State.ManualOverride {
		return before, false
	}

	onGround := telemetry.ReliableOnGround(t)
	age := m.PhaseAge()

	switch m.State.Phase {
	case Preflight:
		if m.hold("catchup-airborne", !onGround, 2) {
			m.setPhase(m.classifyCatchup(t))
			if m.State.Phase == Approach {
				m.RecordApproachEntry(t.Altitude)
			}
			break
		}
		if t.EngineRunning || t.Throttle > 10 {
			m.setPhase(Taxi)
		}

	case Taxi:
		if onGround && t.GroundSpeed > 25 {
			m.setPhase(Takeoff)
		} else if !t.EngineRunning && t.GroundSpeed < 1 {
			m.setPhase(Preflight)
		}

	case Takeoff:
		if !onGround && t.AltitudeAGL > 500 {
			m.setPhase(Climb)
		} else if onGround && t.GroundSpeed < 10 {
			m.setPhase(Taxi) // rejected takeoff
		}

	case Climb:
		if absf(t.Altitude-m.State.TargetCruiseAlt) < 200 {
			m.setPhase(Cruise)
		}

	case Cruise:
		tod := (t.Altitude - m.State.FieldElevation) / 1000 * m.profile.Descent.TODFactor
		nearTOD := m.State.DestinationDist < tod && m.State.DestinationDist < 100
		aged := age > 30*time.Second && t.Altitude < m.State.TargetCruiseAlt-500 && t.VerticalSpeed < -200
		if m.hold("cruise-to-descent", nearTOD || aged, 2) {
			m.setPhase(Descent)
		}

	case Descent:
		if (t.AltitudeAGL < 3000 && t.APAprLock) || t.AltitudeAGL < 2000 {
			m.setPhase(Approach)
			m.RecordApproachEntry(t.Altitude)
		}

	case Approach:
		if t.AltitudeAGL < 200 && t.GearDown {
			m.setPhase(Landing)
		} else if t.Altitude-m.approachEntryAltitude >= 200 && t.VerticalSpeed > 300 {
			m.setPhase(Climb) // go-around
		}

	case Landing:
		if onGround && t.GroundSpeed < 30 {
			m.setPhase(Taxi)
		} else if !onGround && t.VerticalSpeed > 300 {
			m.setPhase(Climb) // go-around
		}
	}

	return m.State.Phase, m.State.Phase != before
}

// classifyCatchup implements the late-join classification used when the
// machine is still PREFLIGHT but telemetry shows the aircraft airborne.
func (m *Machine) classifyCatchup(t telemetry.Frame) Phase {
	switch {
	case t.AltitudeAGL < 2000:
		return Approach
	case t.VerticalSpeed > 100:
		return Climb
	case absf(t.Altitude-m.State.TargetCruiseAlt) < 500 && absf(t.VerticalSpeed) < 200:
		return Cruise
	default:
		return Climb
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
