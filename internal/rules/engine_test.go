package rules

import (
	"testing"
	"time"

	"github.com/flightctl/fcs/internal/cmdqueue"
	"github.com/flightctl/fcs/internal/navsub"
	"github.com/flightctl/fcs/internal/phase"
	"github.com/flightctl/fcs/internal/profile"
	"github.com/flightctl/fcs/internal/telemetry"
)

type recordingSender struct {
	sent []cmdqueue.Command
}

func (r *recordingSender) Send(c cmdqueue.Command) error {
	r.sent = append(r.sent, c)
	return nil
}

func (r *recordingSender) valueOf(cmdType string) (any, bool) {
	for i := len(r.sent) - 1; i >= 0; i-- {
		if r.sent[i].Type == cmdType {
			return r.sent[i].Value, true
		}
	}
	return nil, false
}

func testAircraft() *profile.Aircraft {
	return &profile.Aircraft{
		Speeds:      profile.Speeds{Vs1: 53, Vr: 65, Vy: 79, Vcruise: 120, Vfe: 110, Vno: 160, Vne: 180},
		Climb:       profile.Climb{NormalRate: 700},
		Descent:     profile.Descent{NormalRate: -500, ApproachRate: -700, TODFactor: 3},
		Limits:      profile.Limits{Ceiling: 14000, MaxAlt: 14000, MaxVs: 1500, MinVs: -1500, MaxBank: 30},
		PhaseSpeeds: profile.PhaseSpeeds{Climb: 85, Cruise: 90, Descent: 90, Approach: 70},
		Takeoff:     profile.Takeoff{RollThrottle: 100, DepartureVS: 700},
	}
}

func newTestEngine(now *time.Time) (*Engine, *recordingSender, *cmdqueue.Queue) {
	s := &recordingSender{}
	q := cmdqueue.New(testAircraft(), s, nil)
	e := New(testAircraft(), q, navsub.New(), nil)
	e.now = func() time.Time { return *now }
	return e, s, q
}

func drainAll(q *cmdqueue.Queue, now *time.Time) {
	for q.Len() > 0 {
		q.Drain()
		*now = now.Add(cmdqueue.DrainInterval)
	}
}

func TestTakeoffHandoffScenario(t *testing.T) {
	now := time.Now()
	e, s, q := newTestEngine(&now)
	e.TakeoffSubPhase = InitialClimb

	f := telemetry.Frame{Speed: 70, AltitudeAGL: 600, Heading: 90}
	e.Run(phase.Takeoff, f, false)
	drainAll(q, &now)

	for _, want := range []string{"AP_MASTER", "HEADING_BUG_SET", "AP_HDG_HOLD", "AP_VS_HOLD", "AP_VS_VAR_SET_ENGLISH"} {
		if _, ok := s.valueOf(want); !ok {
			t.Errorf("expected %s to be issued on INITIAL_CLIMB handoff", want)
		}
	}
	if v, _ := s.valueOf("AP_MASTER"); v != true {
		t.Errorf("AP_MASTER = %v, want true", v)
	}

	if e.TakeoffSubPhase != InitialClimb {
		t.Fatalf("sub-phase should not advance until AP mirror confirms, got %v", e.TakeoffSubPhase)
	}

	f2 := telemetry.Frame{Speed: 70, AltitudeAGL: 650, Heading: 90, APMaster: true, APHdgLock: true, APVsLock: true}
	e.Run(phase.Takeoff, f2, false)
	if e.TakeoffSubPhase != Departure {
		t.Fatalf("expected DEPARTURE after AP mirror confirms engagement, got %v", e.TakeoffSubPhase)
	}
}

func TestPilotOverrideScenario(t *testing.T) {
	now := time.Now()
	e, _, q := newTestEngine(&now)

	// Engine issues AP_HDG_HOLD on.
	e.forceCmd("AP_HDG_HOLD", true, "test setup")
	e.prevAP = telemetry.APState{Hdg: true}

	// External actor registers an override directly (simulating detection
	// already having fired, or a UI-driven override).
	q.RegisterOverride(cmdqueue.AxisHDG)

	e.forceCmd("HEADING_BUG_SET", 180.0, "should be suppressed")
	if q.Len() != 0 {
		t.Fatalf("expected HDG-axis command to be suppressed by override, pending=%d", q.Len())
	}

	now = now.Add(31 * time.Second)
	e.forceCmd("HEADING_BUG_SET", 180.0, "should succeed after expiry")
	if q.Len() != 1 {
		t.Fatalf("expected HDG-axis command to succeed after override expiry, pending=%d", q.Len())
	}
}

func TestDetectOverridesRegistersQueueOverride(t *testing.T) {
	now := time.Now()
	e, _, q := newTestEngine(&now)

	e.forceCmd("AP_HDG_HOLD", false, "initial state")
	e.prevAP = telemetry.APState{Hdg: false}

	// Pilot toggles HDG hold on without the engine having issued it.
	e.detectOverrides(telemetry.Frame{APHdgLock: true})

	overrides := q.GetActiveOverrides()
	if len(overrides) != 1 || overrides[0].Axis != cmdqueue.AxisHDG {
		t.Fatalf("expected a detected HDG override, got %+v", overrides)
	}
}

func TestDetectOverridesIgnoresOwnCommand(t *testing.T) {
	now := time.Now()
	e, _, q := newTestEngine(&now)

	e.forceCmd("AP_HDG_HOLD", true, "engine-issued")
	e.prevAP = telemetry.APState{Hdg: false}

	// Mirror now reflects the engine's own command taking effect.
	e.detectOverrides(telemetry.Frame{APHdgLock: true})

	if overrides := q.GetActiveOverrides(); len(overrides) != 0 {
		t.Fatalf("engine's own command should not be mistaken for an override, got %+v", overrides)
	}
}

func TestPreflightNoCommands(t *testing.T) {
	now := time.Now()
	e, s, _ := newTestEngine(&now)
	e.Run(phase.Preflight, telemetry.Frame{}, true)
	if len(s.sent) != 0 {
		t.Fatalf("PREFLIGHT should issue no commands, got %v", s.sent)
	}
}

func TestTaxiReleasesBrakeOnce(t *testing.T) {
	now := time.Now()
	e, _, q := newTestEngine(&now)
	e.Run(phase.Taxi, telemetry.Frame{}, true)
	drainAll(q, &now)
	e.Run(phase.Taxi, telemetry.Frame{}, false)
	if q.Len() != 0 {
		t.Fatalf("second taxi tick should not re-issue parking brake release, pending=%d", q.Len())
	}
}

func TestClimbManualFallbackWhenAPDisengaged(t *testing.T) {
	now := time.Now()
	e, s, q := newTestEngine(&now)
	e.Run(phase.Climb, telemetry.Frame{Pitch: 0, Bank: 10, APMaster: false}, true)
	drainAll(q, &now)
	if _, ok := s.valueOf("AXIS_AILERONS_SET"); !ok {
		t.Errorf("expected manual aileron command when AP disengaged in climb")
	}
	if _, ok := s.valueOf("AXIS_ELEVATOR_SET"); !ok {
		t.Errorf("expected manual elevator command when AP disengaged in climb")
	}
}

func TestLandingFlareSequence(t *testing.T) {
	now := time.Now()
	e, s, q := newTestEngine(&now)
	e.Run(phase.Landing, telemetry.Frame{AltitudeAGL: 15, OnGround: false}, true)
	drainAll(q, &now)
	if v, ok := s.valueOf("AP_MASTER"); !ok || v != false {
		t.Errorf("expected AP_MASTER off during flare, got %v ok=%v", v, ok)
	}
	if v, ok := s.valueOf("AXIS_ELEVATOR_SET"); !ok || v != -30.0 {
		t.Errorf("expected flare elevator -30, got %v", v)
	}
}

func TestLandingRolloutAppliesBrakes(t *testing.T) {
	now := time.Now()
	e, s, q := newTestEngine(&now)
	e.Run(phase.Landing, telemetry.Frame{AltitudeAGL: 0, OnGround: true, GroundSpeed: 20}, true)
	drainAll(q, &now)
	if v, ok := s.valueOf("PARKING_BRAKE_SET"); !ok || v != true {
		t.Errorf("expected brakes applied during rollout, got %v ok=%v", v, ok)
	}
}

// TestCruiseDoesNotReforceAPMasterEveryTick guards against
// unconditionally force-reissuing AP_MASTER on every tick, which defeats
// the engine's own dedup cache (the cmdqueue's separate currentValue
// dedup happened to mask this previously). AP_MASTER should only be
// force-reissued on phase entry or when the mirror shows it disengaged.
func TestCruiseDoesNotReforceAPMasterEveryTick(t *testing.T) {
	now := time.Now()
	e, _, q := newTestEngine(&now)

	e.Run(phase.Cruise, telemetry.Frame{Speed: 90, APMaster: true}, true)
	drainAll(q, &now)

	e.Run(phase.Cruise, telemetry.Frame{Speed: 90, APMaster: true}, false)
	if q.Len() != 0 {
		t.Fatalf("steady-state cruise tick with AP engaged should not re-issue AP_MASTER, pending=%d", q.Len())
	}
}

func TestDescentReengagesAPMasterWhenDisengaged(t *testing.T) {
	now := time.Now()
	e, s, q := newTestEngine(&now)

	e.Run(phase.Descent, telemetry.Frame{Speed: 90, APMaster: true}, true)
	drainAll(q, &now)

	before := len(s.sent)
	e.Run(phase.Descent, telemetry.Frame{Speed: 90, APMaster: false}, false)
	drainAll(q, &now)
	after := &recordingSender{sent: s.sent[before:]}
	if v, ok := after.valueOf("AP_MASTER"); !ok || v != true {
		t.Errorf("expected AP_MASTER re-engage command after mirror shows disengaged, got %v ok=%v", v, ok)
	}
}
