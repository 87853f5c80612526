package rules

import "github.com/flightctl/fcs/internal/telemetry"

// Targets holds the engine's currently-commanded autopilot targets, read
// back out of lastIssued for the autopilot-state broadcast, per
// spec.md §4.5.
type Targets struct {
	Altitude float64
	Speed    float64
	Heading  float64
	VS       float64
}

// Snapshot is the engine's contribution to the 1Hz autopilot-state
// broadcast, per spec.md §4.5. Enabled mirrors the AP master bit; the
// control loop's broadcastState fills in phase/takeoffSubPhase/
// lastCommand/timestamp from the engine's and the phase machine's state.
type Snapshot struct {
	Enabled       bool
	Targets       Targets
	AP            telemetry.APState
	TerrainAlert  string
	EnvelopeAlert string
	NavGuidance   string
}

// Snapshot reports the engine's current view of the world for
// broadcast. Targets come from the dedup cache (the last value actually
// commanded), not from the profile or telemetry directly, so a UI sees
// what the autopilot was told rather than what it's currently doing.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		AP:            e.prevAP,
		Enabled:       e.prevAP.Master,
		Targets:       e.targets(),
		EnvelopeAlert: e.lastEnvelope.String(),
		NavGuidance:   e.lastNavGuidance,
	}
	if e.nav != nil {
		s.TerrainAlert = e.nav.TerrainAlert
	}
	return s
}

func (e *Engine) targets() Targets {
	var t Targets
	if v, ok := e.lastIssued["AP_ALT_VAR_SET_ENGLISH"].(float64); ok {
		t.Altitude = v
	}
	if v, ok := e.lastIssued["AP_SPD_VAR_SET"].(float64); ok {
		t.Speed = v
	}
	if v, ok := e.lastIssued["HEADING_BUG_SET"].(float64); ok {
		t.Heading = v
	}
	if v, ok := e.lastIssued["AP_VS_VAR_SET_ENGLISH"].(float64); ok {
		t.VS = v
	}
	return t
}

// String renders the envelope's active advisory flags, most severe
// first; "" when nothing is flagged.
func (env Envelope) String() string {
	s := ""
	add := func(flag bool, name string) {
		if !flag {
			return
		}
		if s != "" {
			s += ","
		}
		s += name
	}
	add(env.Overspeed, "OVERSPEED")
	add(env.BankExceeded, "BANK")
	add(env.ExcessiveVS, "VS")
	add(env.StallMarginKt < 5, "STALL")
	return s
}
